package entities

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidFormat indicates an external payload (import file, sync download)
// does not carry a books array. The store is never mutated on this error.
var ErrInvalidFormat = errors.New("invalid data format: missing books array")

// Sample is one day's cumulative page count in a book's history.
// Date is a calendar date in YYYY-MM-DD form; there is at most one
// sample per date.
type Sample struct {
	Date string `json:"date"`
	Page int    `json:"page"`
}

// Book is a single tracked reading item. The JSON shape matches the
// backup/export format, so old backup files import cleanly.
type Book struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	TotalPages   int      `json:"totalPages"`
	StartDate    string   `json:"startDate"`
	CurrentPage  int      `json:"currentPage"`
	LastReadDate *string  `json:"lastReadDate"`
	History      []Sample `json:"history,omitempty"`
}

// Clone returns a deep copy of the book.
func (b Book) Clone() Book {
	out := b
	if b.LastReadDate != nil {
		date := *b.LastReadDate
		out.LastReadDate = &date
	}
	if b.History != nil {
		out.History = make([]Sample, len(b.History))
		copy(out.History, b.History)
	}
	return out
}

// Snapshot is the whole-state unit used for local persistence, backup
// export/import and remote sync.
type Snapshot struct {
	Books          []Book `json:"books"`
	SelectedBookID string `json:"selectedBookId,omitempty"`
	LastUpdated    string `json:"lastUpdated,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Books != nil {
		out.Books = make([]Book, len(s.Books))
		for i, b := range s.Books {
			out.Books[i] = b.Clone()
		}
	}
	return out
}

// ParseSnapshot validates and decodes an external snapshot payload.
// External JSON is never trusted structurally beyond this check: the
// payload must be an object whose "books" member is a JSON array,
// otherwise ErrInvalidFormat is returned.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var probe struct {
		Books          json.RawMessage `json:"books"`
		SelectedBookID string          `json:"selectedBookId"`
		LastUpdated    string          `json:"lastUpdated"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrInvalidFormat
	}

	raw := bytes.TrimSpace(probe.Books)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidFormat
	}

	var books []Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, ErrInvalidFormat
	}

	return &Snapshot{
		Books:          books,
		SelectedBookID: probe.SelectedBookID,
		LastUpdated:    probe.LastUpdated,
	}, nil
}
