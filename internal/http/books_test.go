package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagetrack/internal/bookstore"
	"github.com/mrlokans/pagetrack/internal/entities"
)

func newBooksRouter(t *testing.T, store *bookstore.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller := NewBooksController(store, nil)
	router := gin.New()
	router.GET("/api/books", controller.List)
	router.POST("/api/books", controller.Create)
	router.DELETE("/api/books/:id", controller.Delete)
	router.POST("/api/books/select", controller.Select)
	router.GET("/api/books/selected", controller.Selected)
	router.PUT("/api/books/:id/progress", controller.UpdateProgress)
	router.GET("/api/books/:id/history", controller.History)
	router.POST("/api/books/:id/capture", controller.Capture)
	return router
}

func fixedClock(date string) func() time.Time {
	ts, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return ts }
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestBooksController_Create(t *testing.T) {
	t.Run("creates and selects the book", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "POST", "/api/books", `{"title":"Dune","totalPages":412,"startDate":"2024-01-01"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.NotEmpty(t, book.ID)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 0, book.CurrentPage)
		assert.Equal(t, book.ID, store.SelectedID())
	})

	t.Run("coerces a numeric string page count", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "POST", "/api/books", `{"title":"Dune","totalPages":"412","startDate":"2024-01-01"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, 412, book.TotalPages)
	})

	t.Run("surfaces validation errors verbatim", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		tests := []struct {
			name string
			body string
			want string
		}{
			{"empty title", `{"title":"  ","totalPages":100,"startDate":"2024-01-01"}`, "title is required"},
			{"zero pages", `{"title":"Dune","totalPages":0,"startDate":"2024-01-01"}`, "total pages must be a positive number"},
			{"garbage pages", `{"title":"Dune","totalPages":"lots","startDate":"2024-01-01"}`, "total pages must be a positive number"},
			{"missing start date", `{"title":"Dune","totalPages":100}`, "start date is required"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(router, "POST", "/api/books", tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)

				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Error, tt.want)
			})
		}
		assert.Equal(t, 0, store.Count())
	})
}

func TestBooksController_List(t *testing.T) {
	store := bookstore.New(nil)
	router := newBooksRouter(t, store)

	book, err := store.AddBook("Dune", 412, "2024-01-01")
	require.NoError(t, err)

	w := doJSON(router, "GET", "/api/books", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ListBooksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 1)
	assert.Equal(t, book.ID, resp.SelectedBookID)
}

func TestBooksController_Delete(t *testing.T) {
	t.Run("deletes and answers 200", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)

		w := doJSON(router, "DELETE", "/api/books/"+book.ID, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, store.Count())
	})

	t.Run("unknown id is still 200", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "DELETE", "/api/books/nope", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBooksController_Select(t *testing.T) {
	store := bookstore.New(nil)
	router := newBooksRouter(t, store)

	_, err := store.AddBook("Dune", 412, "2024-01-01")
	require.NoError(t, err)

	t.Run("selecting an unknown id is tolerated", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/books/select", `{"id":"ghost"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ghost", store.SelectedID())
	})

	t.Run("empty id clears the selection", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/books/select", `{"id":""}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", store.SelectedID())
	})
}

func TestBooksController_Selected(t *testing.T) {
	t.Run("returns the derived progress view", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)
		_, ok := store.UpdateProgress(book.ID, 103)
		require.True(t, ok)

		w := doJSON(router, "GET", "/api/books/selected", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp SelectedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Selected)
		assert.Equal(t, 103, resp.Selected.CurrentPage)
		assert.Equal(t, 25, resp.Selected.Percentage)
		assert.False(t, resp.Selected.Complete)
	})

	t.Run("unresolvable selection yields a placeholder", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)
		store.SelectBook("ghost")

		w := doJSON(router, "GET", "/api/books/selected", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp SelectedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Selected)
	})
}

func TestBooksController_UpdateProgress(t *testing.T) {
	t.Run("updates and returns the derived view", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)

		w := doJSON(router, "PUT", "/api/books/"+book.ID+"/progress", `{"currentPage":206}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp UpdateProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Updated)
		assert.Equal(t, 206, resp.Book.CurrentPage)
		assert.Equal(t, 50, resp.Book.Percentage)
	})

	t.Run("non-numeric input coerces to zero", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)
		_, ok := store.UpdateProgress(book.ID, 100)
		require.True(t, ok)

		w := doJSON(router, "PUT", "/api/books/"+book.ID+"/progress", `{"currentPage":"abc"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		got, ok := store.Get(book.ID)
		require.True(t, ok)
		assert.Equal(t, 0, got.CurrentPage)
	})

	t.Run("page beyond the total is stored verbatim but clamped in the view", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)

		w := doJSON(router, "PUT", "/api/books/"+book.ID+"/progress", `{"currentPage":9999}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp UpdateProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 9999, resp.Book.CurrentPage)
		assert.Equal(t, 412, resp.Book.ClampedPage)
		assert.Equal(t, 100, resp.Book.Percentage)
		assert.True(t, resp.Book.Complete)
	})

	t.Run("unknown id is a benign no-op", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "PUT", "/api/books/ghost/progress", `{"currentPage":10}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp UpdateProgressResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Updated)
		assert.Nil(t, resp.Book)
	})
}

func TestBooksController_History(t *testing.T) {
	t.Run("returns the clamped chart series", func(t *testing.T) {
		store := bookstore.New(nil, bookstore.WithClock(fixedClock("2024-01-05")))
		router := newBooksRouter(t, store)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)
		_, ok := store.UpdateProgress(book.ID, 9999)
		require.True(t, ok)

		w := doJSON(router, "GET", "/api/books/"+book.ID+"/history", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, book.ID, resp.BookID)
		require.Len(t, resp.Series, 2)
		assert.Equal(t, HistoryPoint{Date: "2024-01-01", Page: 0}, resp.Series[0])
		assert.Equal(t, HistoryPoint{Date: "2024-01-05", Page: 412}, resp.Series[1])
	})

	t.Run("404 for an unknown book", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "GET", "/api/books/ghost/history", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_Capture(t *testing.T) {
	t.Run("marks read today and returns the filename", func(t *testing.T) {
		store := bookstore.New(nil)
		controller := NewBooksController(store, nil)
		controller.now = fixedClock("2024-03-07")

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.POST("/api/books/:id/capture", controller.Capture)

		book, err := store.AddBook("Dune", 412, "2024-01-01")
		require.NoError(t, err)

		w := doJSON(router, "POST", "/api/books/"+book.ID+"/capture", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp CaptureResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2024-03-07", resp.LastReadDate)
		assert.Regexp(t, `^reading-progress-\d+\.png$`, resp.Filename)

		got, ok := store.Get(book.ID)
		require.True(t, ok)
		require.NotNil(t, got.LastReadDate)
		assert.Equal(t, "2024-03-07", *got.LastReadDate)
		assert.Equal(t, 0, got.CurrentPage, "capture never touches progress")
	})

	t.Run("404 for an unknown book", func(t *testing.T) {
		store := bookstore.New(nil)
		router := newBooksRouter(t, store)

		w := doJSON(router, "POST", "/api/books/ghost/capture", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
