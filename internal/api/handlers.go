// Package api exposes the note store over HTTP with a uniform JSON envelope.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"notesvc/internal/errs"
	"notesvc/internal/notes"
	"notesvc/internal/obs"
)

// Handler adapts the note store and validation rules to HTTP.
type Handler struct {
	store *notes.Store
}

// NewHandler creates an API handler around the given store.
func NewHandler(store *notes.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /notes", h.ListNotes)
	mux.HandleFunc("GET /notes/{id}", h.GetNote)
	mux.HandleFunc("POST /notes", h.CreateNote)
	mux.HandleFunc("PUT /notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", h.DeleteNote)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /{$}", h.Index)
}

// successResponse is the envelope for every 2xx response.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
	Count   *int   `json:"count,omitempty"`
}

// errorResponse is the envelope for every error response.
type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ListNotes handles GET /notes - returns all notes, newest first.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Failed to retrieve notes")
		return
	}

	count := len(list)
	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Data:    list,
		Count:   &count,
	})
}

// GetNote handles GET /notes/{id} - returns a single note.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	note, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Failed to retrieve note")
		return
	}
	if note == nil {
		respondError(w, errs.New(errs.NotFound, "Note not found"), nil)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Data:    note,
	})
}

// CreateNote handles POST /notes - validates and creates a new note.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	if violations := input.Validate(); len(violations) > 0 {
		respondError(w, errs.New(errs.InvalidArgument, "Validation failed"), violations)
		return
	}

	note, err := h.store.Create(r.Context(), input.Fields())
	if err != nil {
		h.storeError(w, r, err, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "Note created successfully",
		Data:    note,
	})
}

// UpdateNote handles PUT /notes/{id} - validates and replaces all mutable fields.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	if violations := input.Validate(); len(violations) > 0 {
		respondError(w, errs.New(errs.InvalidArgument, "Validation failed"), violations)
		return
	}

	note, err := h.store.Update(r.Context(), id, input.Fields())
	if err != nil {
		h.storeError(w, r, err, "Failed to update note")
		return
	}
	if note == nil {
		respondError(w, errs.New(errs.NotFound, "Note not found"), nil)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Note updated successfully",
		Data:    note,
	})
}

// DeleteNote handles DELETE /notes/{id} - deletes and returns the pre-delete snapshot.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	note, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Failed to delete note")
		return
	}
	if note == nil {
		respondError(w, errs.New(errs.NotFound, "Note not found"), nil)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Note deleted successfully",
		Data:    note,
	})
}

// Health handles GET /health - liveness check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Notes service is running",
	})
}

// Index handles GET / - informational route listing.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Notes Service API",
		"version": "1.0.0",
		"endpoints": map[string]any{
			"health": "GET /health",
			"notes": map[string]string{
				"getAll":  "GET /notes",
				"getById": "GET /notes/:id",
				"create":  "POST /notes",
				"update":  "PUT /notes/:id",
				"delete":  "DELETE /notes/:id",
			},
		},
	})
}

// parseNoteID extracts and parses the id path parameter. Writes a 400
// response and returns ok=false on a non-integer id.
func parseNoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, errs.New(errs.InvalidArgument, "Invalid note ID"), nil)
		return 0, false
	}
	return id, true
}

// decodeInput decodes the request body into the untyped candidate payload.
// Only a body that is not a JSON object fails here; wrong-typed field values
// are left for the validation rules to report.
func decodeInput(w http.ResponseWriter, r *http.Request) (notes.Input, bool) {
	var input notes.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, errs.Wrap(errs.InvalidArgument, "Invalid request body", err), nil)
		return notes.Input{}, false
	}
	return input, true
}

// storeError maps a store failure to an HTTP response. The coded status is
// honored (constraint violations and unknown failures both surface as 500)
// while the client sees only the per-operation message; detail goes to the log.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := errs.CodeOf(err)
	obs.From(r.Context()).With("pkg", "api").Error("store operation failed",
		"code", string(code),
		"error", err.Error(),
	)
	respondError(w, errs.New(code, message), nil)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes the error envelope for a coded error, mapping its
// code to the HTTP status. MessageOf keeps untyped error detail out of
// the response body.
func respondError(w http.ResponseWriter, err error, violations []string) {
	writeJSON(w, errs.HTTPStatus(errs.CodeOf(err)), errorResponse{
		Success: false,
		Message: errs.MessageOf(err),
		Errors:  violations,
	})
}
