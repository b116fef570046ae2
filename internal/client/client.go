// Package client is the Go binding for the notes API. Each route has a
// corresponding call that performs the request, parses the JSON envelope,
// and surfaces a typed error on any non-2xx response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"notesvc/internal/notes"
)

// DefaultTimeout bounds every request when the caller supplies no context
// deadline of its own.
const DefaultTimeout = 30 * time.Second

// ErrInvalidResponse marks a response whose body was not the expected JSON
// envelope. Distinct from transport failures, which are returned wrapped.
var ErrInvalidResponse = errors.New("invalid JSON response from server")

// APIError carries the HTTP status and the parsed error envelope of a
// non-2xx response.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client calls the notes API at a fixed base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:3001".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
	}
}

// NewWithHTTPClient creates a client using the provided http.Client.
func NewWithHTTPClient(baseURL string, httpc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// envelope mirrors the API's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Errors  []string        `json:"errors"`
}

// List fetches all notes, newest first.
func (c *Client) List(ctx context.Context) ([]notes.Note, error) {
	var list []notes.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches a single note by id.
func (c *Client) Get(ctx context.Context, id int64) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Create creates a new note and returns it with id and timestamps assigned.
func (c *Client) Create(ctx context.Context, fields notes.Fields) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodPost, "/notes", fields, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Update replaces all mutable fields of an existing note.
func (c *Client) Update(ctx context.Context, id int64, fields notes.Fields) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), fields, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes a note and returns its pre-delete snapshot.
func (c *Client) Delete(ctx context.Context, id int64) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Health reports whether the service answers its liveness check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || health.Status != "OK" {
		return &APIError{Status: resp.StatusCode, Message: "service unhealthy"}
	}
	return nil
}

// do performs one request/response cycle against an envelope-shaped route.
// Transport failures come back wrapped; a body that does not parse as the
// envelope yields ErrInvalidResponse; a non-2xx status yields *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("HTTP %d Error", resp.StatusCode)
		}
		return &APIError{
			Status:  resp.StatusCode,
			Message: message,
			Errors:  env.Errors,
		}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode)
		}
	}
	return nil
}
