package notes

import (
	"context"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"notesvc/internal/errs"
	"notesvc/internal/testdb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := testdb.NewInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func sampleFields() Fields {
	return Fields{
		Title:       "Grocery list",
		Category:    CategoryPersonal,
		Priority:    PriorityLow,
		Description: "Milk, eggs, coffee",
	}
}

func TestStore_CreateAssignsIDAndEqualTimestamps(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	note, err := store.Create(ctx, sampleFields())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if note.ID == 0 {
		t.Fatal("expected a non-zero id")
	}
	if !note.CreatedAt.Equal(note.UpdatedAt) {
		t.Fatalf("expected equal timestamps on create, got %v and %v", note.CreatedAt, note.UpdatedAt)
	}
	if time.Since(note.CreatedAt) > time.Minute {
		t.Fatalf("created_at not near now: %v", note.CreatedAt)
	}

	got, err := store.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the created note to be readable")
	}
	if *got != *note {
		t.Fatalf("read-back mismatch: got %+v, want %+v", *got, *note)
	}
}

func TestStore_GetByIDAbsentIsNilNil(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	note, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("expected no error for absent id, got %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note for absent id, got %+v", note)
	}
}

func TestStore_UpdateReplacesFieldsAndPreservesCreatedAt(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, sampleFields())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := store.Update(ctx, created.ID, Fields{
		Title:       "Quarterly report",
		Category:    CategoryWork,
		Priority:    PriorityHigh,
		Description: "Draft due Friday",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated note, got nil")
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed on update: %d -> %d", created.ID, updated.ID)
	}
	if updated.Title != "Quarterly report" || updated.Category != CategoryWork ||
		updated.Priority != PriorityHigh || updated.Description != "Draft due Friday" {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed on update: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("updated_at went backwards: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
}

func TestStore_UpdateAbsentIsNilNil(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	note, err := store.Update(context.Background(), 424242, sampleFields())
	if err != nil {
		t.Fatalf("expected no error for absent id, got %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note for absent id, got %+v", note)
	}
}

func TestStore_DeleteReturnsSnapshotAndRemovesRow(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, sampleFields())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted == nil {
		t.Fatal("expected snapshot of deleted note")
	}
	if *deleted != *created {
		t.Fatalf("snapshot mismatch: got %+v, want %+v", *deleted, *created)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("note still readable after delete: %+v", got)
	}

	// Second delete of the same id reports absence, not failure.
	again, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("expected no error on double delete, got %v", err)
	}
	if again != nil {
		t.Fatalf("expected nil on double delete, got %+v", again)
	}
}

func TestStore_ListOrdersByCreationTimeDescending(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	// Seed rows directly with distinct creation seconds; Create stamps
	// wall-clock seconds, so back-to-back calls usually tie.
	base := time.Now().UTC().Unix() - 100
	for i, title := range []string{"oldest", "middle", "newest"} {
		_, err := store.db.SQL().ExecContext(ctx, `
			INSERT INTO notes (title, category, priority, description, created_at, updated_at)
			VALUES (?, 'work', 'low', 'd', ?, ?)
		`, title, base+int64(i), base+int64(i))
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	notes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if notes[i].Title != want {
			t.Fatalf("position %d: got %q, want %q", i, notes[i].Title, want)
		}
	}
}

func TestStore_ListEmptyIsEmptySliceNotNil(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	notes, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if notes == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(notes))
	}
}

func testStore_RejectsInvalidClosedSetValues(t *rapid.T, store *Store) {
	fields := sampleFields()
	if rapid.Bool().Draw(t, "badCategory") {
		fields.Category = Category(rapid.SampledFrom([]string{"Work", "misc", ""}).Draw(t, "category"))
	} else {
		fields.Priority = Priority(rapid.SampledFrom([]string{"urgent", "HIGH", ""}).Draw(t, "priority"))
	}

	ctx := context.Background()
	if _, err := store.Create(ctx, fields); errs.CodeOf(err) != errs.Constraint {
		t.Fatalf("expected constraint code on create, got %v", err)
	}
}

func TestStore_RejectsInvalidClosedSetValues(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	rapid.Check(t, func(t *rapid.T) {
		testStore_RejectsInvalidClosedSetValues(t, store)
	})
}

func TestStore_RoundTripPreservesUTCWallSeconds(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, sampleFields())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps, got %v", got.CreatedAt.Location())
	}
	if got.CreatedAt.Nanosecond() != 0 {
		t.Fatalf("expected whole-second precision, got %v", got.CreatedAt)
	}
}
