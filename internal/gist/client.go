// Package gist talks to the GitHub Gists API, the remote store for
// reading-progress snapshots. Every call takes the user-supplied bearer
// token; failures surface once and are never retried here.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	// SyncFilename marks a gist as the sync store: the gist whose file
	// set contains this name holds the snapshot.
	SyncFilename = "reading-progress-sync.json"

	// SyncDescription is used when the sync gist is first created.
	SyncDescription = "Reading progress tracker sync data"
)

// Client interfaces with the GitHub Gists API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new gist API client
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom API root,
// used by tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// File is a single file inside a gist
type File struct {
	Content string `json:"content"`
	RawURL  string `json:"raw_url,omitempty"`
}

// Gist represents a gist as returned by the API
type Gist struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Public      bool            `json:"public"`
	Files       map[string]File `json:"files"`
}

type createRequest struct {
	Description string          `json:"description"`
	Public      bool            `json:"public"`
	Files       map[string]File `json:"files"`
}

type updateRequest struct {
	Files map[string]File `json:"files"`
}

// List returns the authenticated user's gists.
func (c *Client) List(ctx context.Context, token string) ([]Gist, error) {
	var gists []Gist
	err := c.do(ctx, token, http.MethodGet, "/gists?per_page=100", nil, &gists)
	if err != nil {
		return nil, err
	}
	return gists, nil
}

// Get fetches a single gist with file contents.
func (c *Client) Get(ctx context.Context, token, id string) (*Gist, error) {
	var gist Gist
	if err := c.do(ctx, token, http.MethodGet, "/gists/"+id, nil, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

// Create creates a new secret gist with the given files.
func (c *Client) Create(ctx context.Context, token, description string, files map[string]File) (*Gist, error) {
	body := createRequest{
		Description: description,
		Public:      false,
		Files:       files,
	}
	var gist Gist
	if err := c.do(ctx, token, http.MethodPost, "/gists", body, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

// Update replaces file contents of an existing gist.
func (c *Client) Update(ctx context.Context, token, id string, files map[string]File) (*Gist, error) {
	body := updateRequest{Files: files}
	var gist Gist
	if err := c.do(ctx, token, http.MethodPatch, "/gists/"+id, body, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

// FindSyncGist locates the gist whose file set contains SyncFilename.
// Returns nil without error when the user has no sync gist yet.
func (c *Client) FindSyncGist(ctx context.Context, token string) (*Gist, error) {
	gists, err := c.List(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, g := range gists {
		if _, ok := g.Files[SyncFilename]; ok {
			gist := g
			return &gist, nil
		}
	}
	return nil, nil
}

func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
