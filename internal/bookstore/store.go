// Package bookstore owns the book collection and the current selection.
// It is the sole mutation surface: every operation runs to completion
// under the store lock and flushes the full state to the persister
// before returning (write-through).
package bookstore

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/pagetrack/internal/entities"
	"github.com/mrlokans/pagetrack/internal/history"
)

const dateLayout = "2006-01-02"

// Persister is the device-local storage boundary. Save is best-effort:
// the store issues saves in operation order but a failed flush never
// fails the operation itself.
type Persister interface {
	Load() (*entities.Snapshot, error)
	Save(entities.Snapshot) error
}

// Store holds the in-memory book collection plus selection pointer.
type Store struct {
	mu        sync.Mutex
	persister Persister
	now       func() time.Time

	books      []entities.Book
	selectedID string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store backed by the given persister. Call
// Hydrate to load previously persisted state.
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads persisted state into the store. Runs once at startup.
// Books persisted before the history ledger existed get their timeline
// seeded here.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("failed to load persisted state: %w", err)
	}
	if snap == nil {
		return nil
	}

	today := s.today()
	s.books = make([]entities.Book, len(snap.Books))
	for i, b := range snap.Books {
		book := b.Clone()
		book.History = history.EnsureSeeded(book.History, book.StartDate, book.CurrentPage, today)
		s.books[i] = book
	}
	s.selectedID = snap.SelectedBookID
	return nil
}

// AddBook validates input, creates the book with a seeded history and
// selects it.
func (s *Store) AddBook(title string, totalPages int, startDate string) (entities.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.Book{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if totalPages <= 0 {
		return entities.Book{}, fmt.Errorf("%w: total pages must be a positive number", ErrInvalidInput)
	}
	if startDate == "" {
		return entities.Book{}, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := entities.Book{
		ID:          uuid.NewString(),
		Title:       title,
		TotalPages:  totalPages,
		StartDate:   startDate,
		CurrentPage: 0,
		History:     []entities.Sample{{Date: startDate, Page: 0}},
	}
	s.books = append(s.books, book)
	s.selectedID = book.ID
	s.flush()
	return book.Clone(), nil
}

// DeleteBook removes a book. Deleting the selected book moves the
// selection to the last remaining book, or clears it. Unknown ids are
// a no-op, not an error.
func (s *Store) DeleteBook(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.books = append(s.books[:idx], s.books[idx+1:]...)
	if s.selectedID == id {
		if len(s.books) > 0 {
			s.selectedID = s.books[len(s.books)-1].ID
		} else {
			s.selectedID = ""
		}
	}
	s.flush()
}

// SelectBook sets the selection pointer. The id is not required to
// resolve to an existing book: selecting an unknown id is tolerated and
// simply yields the empty placeholder view downstream.
func (s *Store) SelectBook(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedID = id
	s.flush()
}

// UpdateProgress sets the current page and records today's history
// sample. Negative input clamps to zero. Unknown ids are a silent
// no-op; the second return value reports whether the book was found.
func (s *Store) UpdateProgress(id string, currentPage int) (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return entities.Book{}, false
	}
	if currentPage < 0 {
		currentPage = 0
	}

	book := &s.books[idx]
	book.CurrentPage = currentPage
	book.History = history.RecordSample(book.History, s.today(), currentPage)
	s.flush()
	return book.Clone(), true
}

// MarkRead sets the last-read date. It is triggered by the share-card
// capture path only and deliberately leaves currentPage and history
// untouched.
func (s *Store) MarkRead(id, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.books[idx].LastReadDate = &date
	s.flush()
	return true
}

// ReplaceAll swaps in a whole snapshot (import and sync-download path).
// A snapshot without a books array fails with ErrInvalidFormat and
// leaves the collection unmodified.
func (s *Store) ReplaceAll(snap entities.Snapshot) error {
	if snap.Books == nil {
		return entities.ErrInvalidFormat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	books := make([]entities.Book, len(snap.Books))
	for i, b := range snap.Books {
		book := b.Clone()
		book.History = history.EnsureSeeded(book.History, book.StartDate, book.CurrentPage, today)
		books[i] = book
	}
	s.books = books
	s.selectedID = snap.SelectedBookID
	s.flush()
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() entities.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Books returns a deep copy of the collection in insertion order.
func (s *Store) Books() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Book, len(s.books))
	for i, b := range s.books {
		out[i] = b.Clone()
	}
	return out
}

// Get returns a copy of the book with the given id.
func (s *Store) Get(id string) (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return entities.Book{}, false
	}
	return s.books[idx].Clone(), true
}

// SelectedID returns the raw selection pointer, which may not resolve
// to any book.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SelectedBook returns the selected book, or false when nothing is
// selected or the pointer does not resolve.
func (s *Store) SelectedBook() (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		return entities.Book{}, false
	}
	return s.books[idx].Clone(), true
}

// Count returns the number of tracked books.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

func (s *Store) snapshotLocked() entities.Snapshot {
	books := make([]entities.Book, len(s.books))
	for i, b := range s.books {
		books[i] = b.Clone()
	}
	return entities.Snapshot{
		Books:          books,
		SelectedBookID: s.selectedID,
	}
}

// flush writes through to the persister. Callers hold the lock, so
// saves go out in operation order. Failures are logged, never raised.
func (s *Store) flush() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.snapshotLocked()); err != nil {
		log.Printf("Failed to persist state: %v", err)
	}
}
