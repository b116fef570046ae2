package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"notesvc/internal/api"
	"notesvc/internal/notes"
	"notesvc/internal/testdb"
)

// newTestClient runs the real API over an isolated in-memory database, so
// the binding is exercised against production handler behavior.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	database, err := testdb.NewInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	mux := http.NewServeMux()
	api.NewHandler(notes.NewStore(database)).RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func testFields() notes.Fields {
	return notes.Fields{
		Title:       "Call the bank",
		Category:    notes.CategoryPersonal,
		Priority:    notes.PriorityMedium,
		Description: "Ask about the wire transfer",
	}
}

func TestClient_CRUDRoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, testFields())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Call the bank", created.Title)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, *created, list[0])

	updated, err := c.Update(ctx, created.ID, notes.Fields{
		Title:       "Call the bank again",
		Category:    notes.CategoryPersonal,
		Priority:    notes.PriorityHigh,
		Description: "They never called back",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, notes.PriorityHigh, updated.Priority)
	require.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	deleted, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, deleted)

	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestClient_AbsentNoteIsAPIError404(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	ctx := context.Background()

	for _, call := range []func() error{
		func() error { _, err := c.Get(ctx, 9999); return err },
		func() error { _, err := c.Update(ctx, 9999, testFields()); return err },
		func() error { _, err := c.Delete(ctx, 9999); return err },
	} {
		err := call()
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.Status)
		require.Equal(t, "Note not found", apiErr.Message)
	}
}

func TestClient_ValidationFailureCarriesRuleMessages(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	_, err := c.Create(context.Background(), notes.Fields{
		Title:       "",
		Category:    "misc",
		Priority:    notes.PriorityLow,
		Description: "d",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Validation failed", apiErr.Message)
	require.Equal(t, []string{
		"Title is required",
		"Category must be one of: work, personal, ideas",
	}, apiErr.Errors)
	require.Contains(t, apiErr.Error(), "Title is required")
}

func TestClient_NonEnvelopeBodyIsErrInvalidResponse(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway error</html>"))
	}))
	t.Cleanup(ts.Close)

	_, err := New(ts.URL).List(context.Background())
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_ErrorStatusWithEmptyBodyGetsFallbackMessage(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("{}"))
	}))
	t.Cleanup(ts.Close)

	_, err := New(ts.URL).List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "HTTP 502 Error", apiErr.Message)
}

func TestClient_TransportFailureIsWrapped(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := New(ts.URL).List(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr), "transport failure must not look like an API error")
	require.NotErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Health(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	require.NoError(t, c.Health(context.Background()))
}

func TestClient_HealthUnhealthyStatus(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"DOWN"}`))
	}))
	t.Cleanup(ts.Close)

	err := New(ts.URL).Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestClient_TrailingSlashBaseURL(t *testing.T) {
	t.Parallel()

	database, err := testdb.NewInMemory("client-trailing-slash")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	mux := http.NewServeMux()
	api.NewHandler(notes.NewStore(database)).RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	c := New(ts.URL + "/")
	require.NoError(t, c.Health(context.Background()))
}
