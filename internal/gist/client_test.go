package gist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSyncGist(t *testing.T) {
	t.Run("finds gist carrying the sync filename", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/gists", r.URL.Path)
			assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))

			json.NewEncoder(w).Encode([]Gist{
				{ID: "g1", Files: map[string]File{"notes.md": {}}},
				{ID: "g2", Files: map[string]File{SyncFilename: {}}},
			})
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL)
		gist, err := client.FindSyncGist(context.Background(), "token123")

		require.NoError(t, err)
		require.NotNil(t, gist)
		assert.Equal(t, "g2", gist.ID)
	})

	t.Run("returns nil when no sync gist exists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]Gist{
				{ID: "g1", Files: map[string]File{"notes.md": {}}},
			})
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL)
		gist, err := client.FindSyncGist(context.Background(), "token123")

		require.NoError(t, err)
		assert.Nil(t, gist)
	})
}

func TestCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gists", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Description string          `json:"description"`
			Public      bool            `json:"public"`
			Files       map[string]File `json:"files"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SyncDescription, req.Description)
		assert.False(t, req.Public, "sync gist must be secret")
		assert.Contains(t, req.Files, SyncFilename)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Gist{ID: "created"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	gist, err := client.Create(context.Background(), "token", SyncDescription, map[string]File{
		SyncFilename: {Content: "{}"},
	})

	require.NoError(t, err)
	assert.Equal(t, "created", gist.ID)
}

func TestUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gists/g42", r.URL.Path)

		var req struct {
			Files map[string]File `json:"files"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, `{"books":[]}`, req.Files[SyncFilename].Content)

		json.NewEncoder(w).Encode(Gist{ID: "g42"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, err := client.Update(context.Background(), "token", "g42", map[string]File{
		SyncFilename: {Content: `{"books":[]}`},
	})

	require.NoError(t, err)
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gists/g42", r.URL.Path)
		json.NewEncoder(w).Encode(Gist{
			ID:    "g42",
			Files: map[string]File{SyncFilename: {Content: `{"books":[]}`}},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	gist, err := client.Get(context.Background(), "token", "g42")

	require.NoError(t, err)
	assert.Equal(t, `{"books":[]}`, gist.Files[SyncFilename].Content)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrInvalidToken},
		{"forbidden", http.StatusForbidden, ErrInvalidToken},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClientWithBaseURL(server.URL)
			_, err := client.Get(context.Background(), "token", "g1")
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL)
		_, err := client.Get(context.Background(), "token", "g1")

		var serverErr *ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
	})
}
