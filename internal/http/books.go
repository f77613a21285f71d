package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/bookstore"
	"github.com/mrlokans/pagetrack/internal/entities"
	"github.com/mrlokans/pagetrack/internal/progress"
	"github.com/mrlokans/pagetrack/internal/utils"
)

// BooksController handles the book collection endpoints.
type BooksController struct {
	store BookStore
	audit *audit.Service
	now   func() time.Time
}

func NewBooksController(store BookStore, auditSvc *audit.Service) *BooksController {
	return &BooksController{
		store: store,
		audit: auditSvc,
		now:   time.Now,
	}
}

// ProgressView is a book decorated with derived display values. The
// stored currentPage is preserved verbatim; clamping and percentage
// apply at display time only.
type ProgressView struct {
	entities.Book
	ClampedPage int  `json:"clampedPage"`
	Percentage  int  `json:"percentage"`
	Complete    bool `json:"complete"`
}

func newProgressView(book entities.Book) ProgressView {
	return ProgressView{
		Book:        book,
		ClampedPage: progress.Clamp(book.CurrentPage, book.TotalPages),
		Percentage:  progress.Percentage(book.CurrentPage, book.TotalPages),
		Complete:    progress.IsComplete(book.CurrentPage, book.TotalPages),
	}
}

// ListBooksResponse is the response for GET /api/books.
type ListBooksResponse struct {
	Books          []entities.Book `json:"books"`
	SelectedBookID string          `json:"selectedBookId"`
}

// List returns the full collection plus the selection pointer.
func (b *BooksController) List(c *gin.Context) {
	c.JSON(http.StatusOK, ListBooksResponse{
		Books:          b.store.Books(),
		SelectedBookID: b.store.SelectedID(),
	})
}

// CreateBookRequest is the request body for POST /api/books. TotalPages
// is raw so numeric strings coerce instead of failing the bind.
type CreateBookRequest struct {
	Title      string          `json:"title"`
	TotalPages json.RawMessage `json:"totalPages"`
	StartDate  string          `json:"startDate"`
}

// Create adds a book. Validation failures surface verbatim as 400.
func (b *BooksController) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := b.store.AddBook(req.Title, coerceNonNegativeInt(req.TotalPages), req.StartDate)
	if err != nil {
		if errors.Is(err, bookstore.ErrInvalidInput) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	if b.audit != nil {
		b.audit.LogBook("book_add", book.ID, "Added book: "+book.Title)
	}
	respondCreated(c, book)
}

// Delete removes a book. Deleting an unknown id is a benign no-op and
// still answers 200.
func (b *BooksController) Delete(c *gin.Context) {
	id := c.Param("id")
	b.store.DeleteBook(id)

	if b.audit != nil {
		b.audit.LogBook("book_delete", id, "Deleted book")
	}
	respondSuccess(c, "book deleted")
}

// SelectBookRequest is the request body for POST /api/books/select.
type SelectBookRequest struct {
	ID string `json:"id"`
}

// Select moves the selection pointer. The id is not checked against the
// collection; an empty id clears the selection.
func (b *BooksController) Select(c *gin.Context) {
	var req SelectBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	b.store.SelectBook(req.ID)
	respondSuccess(c, "selection updated")
}

// SelectedResponse is the response for GET /api/books/selected.
type SelectedResponse struct {
	Selected *ProgressView `json:"selected"`
}

// Selected returns the selected book with its derived progress view,
// or a null placeholder when the pointer does not resolve.
func (b *BooksController) Selected(c *gin.Context) {
	book, ok := b.store.SelectedBook()
	if !ok {
		c.JSON(http.StatusOK, SelectedResponse{Selected: nil})
		return
	}

	view := newProgressView(book)
	c.JSON(http.StatusOK, SelectedResponse{Selected: &view})
}

// UpdateProgressRequest is the request body for PUT /api/books/:id/progress.
// CurrentPage is raw so non-numeric input coerces to 0 instead of failing.
type UpdateProgressRequest struct {
	CurrentPage json.RawMessage `json:"currentPage"`
}

// UpdateProgressResponse reports whether a book was updated and, when it
// was, its derived progress view.
type UpdateProgressResponse struct {
	Updated bool          `json:"updated"`
	Book    *ProgressView `json:"book,omitempty"`
}

// UpdateProgress sets the current page. An unknown id is a benign
// no-op, not an error.
func (b *BooksController) UpdateProgress(c *gin.Context) {
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	page := coerceNonNegativeInt(req.CurrentPage)
	book, ok := b.store.UpdateProgress(c.Param("id"), page)
	if !ok {
		c.JSON(http.StatusOK, UpdateProgressResponse{Updated: false})
		return
	}

	if b.audit != nil {
		b.audit.LogProgress(book.ID, fmt.Sprintf("Progress updated to page %d", page))
	}

	view := newProgressView(book)
	c.JSON(http.StatusOK, UpdateProgressResponse{Updated: true, Book: &view})
}

// HistoryPoint is one chart sample with the page clamped for display.
type HistoryPoint struct {
	Date string `json:"date"`
	Page int    `json:"page"`
}

// HistoryResponse is the response for GET /api/books/:id/history.
type HistoryResponse struct {
	BookID     string         `json:"bookId"`
	TotalPages int            `json:"totalPages"`
	Series     []HistoryPoint `json:"series"`
}

// History returns the book's reading timeline as a chart series.
func (b *BooksController) History(c *gin.Context) {
	book, ok := b.store.Get(c.Param("id"))
	if !ok {
		respondNotFound(c, "book")
		return
	}

	series := make([]HistoryPoint, len(book.History))
	for i, s := range book.History {
		series[i] = HistoryPoint{
			Date: s.Date,
			Page: progress.Clamp(s.Page, book.TotalPages),
		}
	}

	c.JSON(http.StatusOK, HistoryResponse{
		BookID:     book.ID,
		TotalPages: book.TotalPages,
		Series:     series,
	})
}

// CaptureResponse is the response for POST /api/books/:id/capture.
type CaptureResponse struct {
	Filename     string `json:"filename"`
	LastReadDate string `json:"lastReadDate"`
}

// Capture marks the book as read today and hands the presentation
// layer its download filename. Rendering the share card itself stays
// client-side.
func (b *BooksController) Capture(c *gin.Context) {
	id := c.Param("id")
	now := b.now()
	today := now.Format("2006-01-02")

	if !b.store.MarkRead(id, today) {
		respondNotFound(c, "book")
		return
	}

	if b.audit != nil {
		b.audit.LogCapture(id, "Captured share card")
	}

	c.JSON(http.StatusOK, CaptureResponse{
		Filename:     utils.CaptureFilename(now),
		LastReadDate: today,
	})
}
