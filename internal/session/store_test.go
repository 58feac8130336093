// Package session tests for the inspection session store.
package session

import (
	"context"
	"reflect"
	"testing"

	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
	"github.com/kimhsiao/mimo/internal/storage"
)

func newTestStore() (*Store, *storage.MemoryStore) {
	kv := storage.NewMemoryStore()
	return NewStore(kv), kv
}

// =====================================================
// Session CRUD
// =====================================================

// TestCreateSession verifies trimming, type normalization and activation.
func TestCreateSession(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "move-in", "  123 Main St  ")
	if err != nil {
		t.Fatalf("CreateSession error = %v", err)
	}

	if created.PropertyName != "123 Main St" {
		t.Errorf("propertyName = %q, want '123 Main St'", created.PropertyName)
	}
	if created.Type != models.MoveIn {
		t.Errorf("type = %q, want %q", created.Type, models.MoveIn)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Errorf("missing id or createdAt: %+v", created)
	}
	if store.ActiveSessionID(ctx) != created.ID {
		t.Error("created session did not become active")
	}
}

// TestCreateSession_defaults verifies the blank-name default and the
// move-out exact-match rule.
func TestCreateSession_defaults(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "MOVE-OUT", "   ")
	if err != nil {
		t.Fatalf("CreateSession error = %v", err)
	}
	if created.PropertyName != DefaultPropertyName {
		t.Errorf("propertyName = %q, want %q", created.PropertyName, DefaultPropertyName)
	}
	if created.Type != models.MoveIn {
		t.Errorf("type = %q, non-exact 'MOVE-OUT' should fall back to move-in", created.Type)
	}

	out, err := store.CreateSession(ctx, "move-out", "Unit 4B")
	if err != nil {
		t.Fatalf("CreateSession error = %v", err)
	}
	if out.Type != models.MoveOut {
		t.Errorf("type = %q, want %q", out.Type, models.MoveOut)
	}
	if out.ID == created.ID {
		t.Error("two sessions share an id")
	}
}

// TestLoadSessions_malformed verifies unreadable storage yields an empty
// collection, never an error.
func TestLoadSessions_malformed(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	for _, raw := range []string{"not json", `{"id":"x"}`, `42`, `null`} {
		if err := kv.Set(ctx, storage.KeySessions, raw); err != nil {
			t.Fatalf("Set error = %v", err)
		}
		if got := store.LoadSessions(ctx); len(got) != 0 {
			t.Errorf("LoadSessions with %q = %d sessions, want 0", raw, len(got))
		}
	}
}

// TestLoadSessions_repairsShapes verifies nil rooms are repaired and records
// without ids are dropped on load.
func TestLoadSessions_repairsShapes(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	raw := `[{"id":"session_1","type":"move-in","propertyName":"A","createdAt":"","rooms":null},` +
		`{"type":"move-in","propertyName":"no id"}]`
	if err := kv.Set(ctx, storage.KeySessions, raw); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	sessions := store.LoadSessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("LoadSessions = %d sessions, want 1", len(sessions))
	}
	if sessions[0].Rooms == nil {
		t.Error("rooms not repaired to empty slice")
	}
}

// TestSaveLoad_idempotent verifies round-tripping through persistence does
// not alter the collection.
func TestSaveLoad_idempotent(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if _, err := store.CreateSession(ctx, "move-in", "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateSession(ctx, "move-out", "B"); err != nil {
		t.Fatal(err)
	}

	first := store.LoadSessions(ctx)
	if err := store.SaveSessions(ctx, first); err != nil {
		t.Fatalf("SaveSessions error = %v", err)
	}
	second := store.LoadSessions(ctx)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip altered collection:\n first  %+v\n second %+v", first, second)
	}
}

// TestUpdateSession_missing verifies the failure indicator for unknown ids.
func TestUpdateSession_missing(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	updated, err := store.UpdateSession(ctx, models.Session{ID: "session_missing"})
	if updated != nil {
		t.Errorf("UpdateSession returned %+v, want nil", updated)
	}
	if !apperrors.Is(err, apperrors.ErrSessionNotFound) {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}

// =====================================================
// Deletion and the active pointer
// =====================================================

// TestDeleteSession_onlySession verifies deleting the only (active) session
// leaves no active session.
func TestDeleteSession_onlySession(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	created, _ := store.CreateSession(ctx, "move-in", "A")
	if err := store.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession error = %v", err)
	}

	if got := store.ActiveSession(ctx); got != nil {
		t.Errorf("ActiveSession = %+v, want nil", got)
	}
	if id := store.ActiveSessionID(ctx); id != "" {
		t.Errorf("ActiveSessionID = %q, want empty", id)
	}
}

// TestDeleteSession_activeReassigns verifies the pointer moves to the first
// remaining session.
func TestDeleteSession_activeReassigns(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	first, _ := store.CreateSession(ctx, "move-in", "A")
	second, _ := store.CreateSession(ctx, "move-out", "B")

	// second is active; delete it.
	if err := store.DeleteSession(ctx, second.ID); err != nil {
		t.Fatalf("DeleteSession error = %v", err)
	}
	if id := store.ActiveSessionID(ctx); id != first.ID {
		t.Errorf("active = %q, want first remaining %q", id, first.ID)
	}
}

// TestDeleteSession_nonActive verifies the pointer is untouched when a
// non-active session is deleted.
func TestDeleteSession_nonActive(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	first, _ := store.CreateSession(ctx, "move-in", "A")
	second, _ := store.CreateSession(ctx, "move-out", "B")

	if err := store.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession error = %v", err)
	}
	if id := store.ActiveSessionID(ctx); id != second.ID {
		t.Errorf("active = %q, want unchanged %q", id, second.ID)
	}
}

// TestActiveSession_stalePointer verifies a pointer at a deleted session
// resolves to none.
func TestActiveSession_stalePointer(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	created, _ := store.CreateSession(ctx, "move-in", "A")
	// Simulate external mutation: drop the collection but keep the pointer.
	if err := kv.Set(ctx, storage.KeySessions, `[]`); err != nil {
		t.Fatal(err)
	}

	if store.ActiveSessionID(ctx) != created.ID {
		t.Fatal("precondition: pointer should still be set")
	}
	if got := store.ActiveSession(ctx); got != nil {
		t.Errorf("ActiveSession = %+v, want nil for stale pointer", got)
	}
}

// =====================================================
// Rooms and items
// =====================================================

// TestAddRoom_caseInsensitiveDedup verifies repeated adds differing only by
// case end with exactly one room.
func TestAddRoom_caseInsensitiveDedup(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	created, _ := store.CreateSession(ctx, "move-in", "A")
	for _, name := range []string{"Kitchen", "kitchen", "KITCHEN", " kitchen "} {
		if _, err := store.AddRoom(ctx, created.ID, name); err != nil {
			t.Fatalf("AddRoom(%q) error = %v", name, err)
		}
	}

	stored := store.SessionByID(ctx, created.ID)
	if len(stored.Rooms) != 1 {
		t.Errorf("session has %d rooms, want 1", len(stored.Rooms))
	}
	if stored.Rooms[0].Name != "Kitchen" {
		t.Errorf("room name = %q, want first-writer 'Kitchen'", stored.Rooms[0].Name)
	}
}

// TestAddRoom_failures verifies the sentinel failures.
func TestAddRoom_failures(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if _, err := store.AddRoom(ctx, "session_missing", "Kitchen"); !apperrors.Is(err, apperrors.ErrSessionNotFound) {
		t.Errorf("unknown session error = %v, want SESSION_NOT_FOUND", err)
	}

	created, _ := store.CreateSession(ctx, "move-in", "A")
	if _, err := store.AddRoom(ctx, created.ID, "   "); !apperrors.Is(err, apperrors.ErrRoomNameEmpty) {
		t.Errorf("blank name error = %v, want ROOM_NAME_EMPTY", err)
	}
}

// TestAddItemToRoom verifies items append in insertion order and persist.
func TestAddItemToRoom(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	created, _ := store.CreateSession(ctx, "move-in", "A")
	items := []models.CaptureItem{
		{Kind: models.KindPhoto, Note: "first", TS: "2026-01-02T10:00:00Z", FileName: "a.jpg", Thumb: "data:image/jpeg;base64,AA=="},
		{Kind: models.KindVideo, Note: "second", TS: "2026-01-02T10:01:00Z", FileName: "b.mp4"},
	}
	for _, item := range items {
		if _, err := store.AddItemToRoom(ctx, created.ID, "Kitchen", item); err != nil {
			t.Fatalf("AddItemToRoom error = %v", err)
		}
	}

	stored := store.SessionByID(ctx, created.ID)
	room := stored.FindRoom("Kitchen")
	if room == nil {
		t.Fatal("room was not created")
	}
	if !reflect.DeepEqual(room.Items, items) {
		t.Errorf("stored items = %+v, want %+v", room.Items, items)
	}
}

// =====================================================
// Settings, report selection, totals, clear
// =====================================================

// TestSettings_fullReplace verifies the record is replaced wholesale.
func TestSettings_fullReplace(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if err := store.SaveSettings(ctx, models.Settings{InspectorName: "Sam", CompanyName: "Acme", AutoSaveCompare: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSettings(ctx, models.Settings{InspectorName: "Lee"}); err != nil {
		t.Fatal(err)
	}

	got := store.Settings(ctx)
	want := models.Settings{InspectorName: "Lee"}
	if got != want {
		t.Errorf("Settings = %+v, want %+v (no partial merge)", got, want)
	}
}

// TestSettings_malformed verifies unreadable settings default to zero.
func TestSettings_malformed(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	if err := kv.Set(ctx, storage.KeySettings, "not json"); err != nil {
		t.Fatal(err)
	}
	if got := store.Settings(ctx); got != (models.Settings{}) {
		t.Errorf("Settings = %+v, want zero value", got)
	}
}

// TestReportSelection_roundTrip verifies the save/load pair.
func TestReportSelection_roundTrip(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if got := store.ReportSelection(ctx); got != (models.ReportSelection{}) {
		t.Errorf("initial selection = %+v, want zero", got)
	}

	if err := store.SaveReportSelection(ctx, "session_in", "session_out"); err != nil {
		t.Fatal(err)
	}
	got := store.ReportSelection(ctx)
	if got.MoveInID != "session_in" || got.MoveOutID != "session_out" {
		t.Errorf("selection = %+v", got)
	}
}

// TestTotals counts sessions, rooms and items.
func TestTotals(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	a, _ := store.CreateSession(ctx, "move-in", "A")
	store.AddItemToRoom(ctx, a.ID, "Kitchen", models.CaptureItem{Kind: models.KindPhoto})
	store.AddItemToRoom(ctx, a.ID, "Hall", models.CaptureItem{Kind: models.KindVideo})
	store.CreateSession(ctx, "move-out", "B")

	got := store.Totals(ctx)
	want := Totals{Sessions: 2, Rooms: 2, Items: 2}
	if got != want {
		t.Errorf("Totals = %+v, want %+v", got, want)
	}
}

// TestClearAll removes every stored record.
func TestClearAll(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	store.CreateSession(ctx, "move-in", "A")
	store.SaveSettings(ctx, models.Settings{InspectorName: "Sam"})
	store.SaveReportSelection(ctx, "x", "y")

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll error = %v", err)
	}

	for _, key := range storage.Keys {
		if _, ok, _ := kv.Get(ctx, key); ok {
			t.Errorf("key %s still present after ClearAll", key)
		}
	}
}
