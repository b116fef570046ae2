// Package notes implements the note model, the validation rules, and the
// SQLite-backed store.
package notes

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"notesvc/internal/db"
	"notesvc/internal/errs"
)

// Store owns persistent note records. All mutation goes through it; the API
// surface receives the store by injection and holds no state of its own.
type Store struct {
	db *db.DB
}

// NewStore creates a store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// List returns all notes ordered by creation time descending. Relative order
// of notes created in the same second is unspecified.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `
		SELECT id, title, category, priority, description, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list notes", err)
	}
	defer rows.Close()

	notes := make([]Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to scan note", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "error iterating notes", err)
	}

	return notes, nil
}

// GetByID returns the matching note, or (nil, nil) when no such note exists.
// A missing id is a normal outcome, not an error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Note, error) {
	row := s.db.SQL().QueryRowContext(ctx, `
		SELECT id, title, category, priority, description, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to read note", err)
	}
	return &note, nil
}

// Create inserts a new note, assigning a fresh id and setting both
// timestamps to the same instant. The closed sets are re-checked here as a
// second line of defense independent of API validation.
func (s *Store) Create(ctx context.Context, fields Fields) (*Note, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Unix()

	result, err := s.db.SQL().ExecContext(ctx, `
		INSERT INTO notes (title, category, priority, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fields.Title, fields.Category, fields.Priority, fields.Description, now, now)
	if err != nil {
		if isConstraintError(err) {
			return nil, errs.Wrap(errs.Constraint, "note violates storage constraints", err)
		}
		return nil, errs.Wrap(errs.Internal, "failed to create note", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to read created note id", err)
	}

	created := time.Unix(now, 0).UTC()
	return &Note{
		ID:          id,
		Title:       fields.Title,
		Category:    fields.Category,
		Priority:    fields.Priority,
		Description: fields.Description,
		CreatedAt:   created,
		UpdatedAt:   created,
	}, nil
}

// Update replaces all four mutable fields in one atomic write and advances
// updated_at, leaving created_at untouched. Returns (nil, nil) when the id
// does not exist: zero rows affected is a reportable outcome, not a failure.
func (s *Store) Update(ctx context.Context, id int64, fields Fields) (*Note, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Unix()

	tx, err := s.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to begin update", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, category = ?, priority = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, fields.Title, fields.Category, fields.Priority, fields.Description, now, id)
	if err != nil {
		if isConstraintError(err) {
			return nil, errs.Wrap(errs.Constraint, "note violates storage constraints", err)
		}
		return nil, errs.Wrap(errs.Internal, "failed to update note", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to check update result", err)
	}
	if affected == 0 {
		return nil, nil
	}

	note, err := scanNote(tx.QueryRowContext(ctx, `
		SELECT id, title, category, priority, description, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to read updated note", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to commit update", err)
	}
	return &note, nil
}

// Delete removes the note and returns its pre-delete snapshot, or (nil, nil)
// when the id does not exist. The read and the delete run in one transaction
// so the snapshot cannot reflect a concurrent writer's update.
func (s *Store) Delete(ctx context.Context, id int64) (*Note, error) {
	tx, err := s.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to begin delete", err)
	}
	defer tx.Rollback()

	note, err := scanNote(tx.QueryRowContext(ctx, `
		SELECT id, title, category, priority, description, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to read note for delete", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to delete note", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to commit delete", err)
	}
	return &note, nil
}

// checkFields is the store-boundary defense for the closed sets. Blankness
// is deliberately not enforced here: that is the validation layer's rule,
// and the store trusts its caller on content.
func checkFields(fields Fields) error {
	if !fields.Category.Valid() {
		return errs.New(errs.Constraint, "category must be one of: work, personal, ideas")
	}
	if !fields.Priority.Valid() {
		return errs.New(errs.Constraint, "priority must be one of: high, medium, low")
	}
	return nil
}

// isConstraintError recognizes SQLite CHECK and NOT NULL violations.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "NOT NULL constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var (
		note      Note
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&note.ID, &note.Title, &note.Category, &note.Priority, &note.Description, &createdAt, &updatedAt)
	if err != nil {
		return Note{}, err
	}
	note.CreatedAt = time.Unix(createdAt, 0).UTC()
	note.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return note, nil
}
