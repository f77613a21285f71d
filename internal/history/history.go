// Package history maintains the per-book reading timeline: one
// cumulative page sample per calendar day, sorted by date.
package history

import (
	"sort"

	"github.com/mrlokans/pagetrack/internal/entities"
)

// RecordSample returns a new history with the sample for the given date
// set to page. An existing entry for the same date is overwritten, so
// repeated updates within one day collapse to the latest value. The
// result is sorted ascending by calendar date regardless of insertion
// order, so backdated corrections chart correctly.
func RecordSample(h []entities.Sample, date string, page int) []entities.Sample {
	out := make([]entities.Sample, 0, len(h)+1)
	replaced := false
	for _, s := range h {
		if s.Date == date {
			s.Page = page
			replaced = true
		}
		out = append(out, s)
	}
	if !replaced {
		out = append(out, entities.Sample{Date: date, Page: page})
	}
	sortByDate(out)
	return out
}

// EnsureSeeded upgrades a book that predates the history ledger. It is a
// no-op whenever a history is already present (presence check only). An
// empty history gets a zero-page sample at the start date and, when
// progress was already made on a later day, a sample for today.
func EnsureSeeded(h []entities.Sample, startDate string, currentPage int, today string) []entities.Sample {
	if len(h) > 0 {
		return h
	}
	seeded := []entities.Sample{{Date: startDate, Page: 0}}
	if today != startDate && currentPage > 0 {
		seeded = append(seeded, entities.Sample{Date: today, Page: currentPage})
	}
	sortByDate(seeded)
	return seeded
}

// AsSeries returns a defensive, date-sorted copy of the history, the
// exact series handed to the charting layer.
func AsSeries(h []entities.Sample) []entities.Sample {
	out := make([]entities.Sample, len(h))
	copy(out, h)
	sortByDate(out)
	return out
}

// ISO dates sort correctly as strings.
func sortByDate(samples []entities.Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Date < samples[j].Date
	})
}
