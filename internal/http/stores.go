package http

import "github.com/mrlokans/pagetrack/internal/entities"

// Store interfaces used by the HTTP controllers. Each controller
// depends only on the slice of the book store it actually calls.

// BookReader provides read access to the collection and selection.
type BookReader interface {
	Books() []entities.Book
	Get(id string) (entities.Book, bool)
	SelectedID() string
	SelectedBook() (entities.Book, bool)
	Count() int
}

// BookWriter mutates the collection.
type BookWriter interface {
	AddBook(title string, totalPages int, startDate string) (entities.Book, error)
	DeleteBook(id string)
	SelectBook(id string)
	UpdateProgress(id string, currentPage int) (entities.Book, bool)
	MarkRead(id, date string) bool
}

// BookStore combines read and write access for the books controller.
type BookStore interface {
	BookReader
	BookWriter
}
