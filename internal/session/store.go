// Package session implements the inspection session store: CRUD for sessions,
// rooms and captured items over a flat key-value storage backend, plus the
// active-session pointer, report selection cache and user settings.
//
// Every mutation writes through to storage before returning and every read
// re-parses from storage, so external mutation of the backing store between
// calls is observable immediately. Malformed persisted data is repaired to an
// empty or default value on load, never surfaced as an error.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
	"github.com/kimhsiao/mimo/internal/storage"
	"github.com/kimhsiao/mimo/internal/uid"
)

// DefaultPropertyName is used when a session is created with a blank name.
const DefaultPropertyName = "Untitled Property"

// Store owns the persisted inspection collections.
type Store struct {
	kv storage.Store
}

// NewStore creates a session store over the given key-value backend.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// LoadSessions returns the persisted session collection. Absent, unreadable
// or wrongly-shaped storage yields an empty collection; it never fails.
func (s *Store) LoadSessions(ctx context.Context) []models.Session {
	raw, ok, err := s.kv.Get(ctx, storage.KeySessions)
	if err != nil || !ok {
		return []models.Session{}
	}

	var sessions []models.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return []models.Session{}
	}

	repaired := make([]models.Session, 0, len(sessions))
	for i := range sessions {
		if sessions[i].ID == "" {
			continue
		}
		sessions[i].Normalize()
		repaired = append(repaired, sessions[i])
	}
	return repaired
}

// SaveSessions overwrites the entire persisted collection.
func (s *Store) SaveSessions(ctx context.Context, sessions []models.Session) error {
	if sessions == nil {
		sessions = []models.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode sessions", err)
	}
	if err := s.kv.Set(ctx, storage.KeySessions, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "failed to persist sessions", err)
	}
	return nil
}

// SessionByID returns the session with the given id, or nil.
func (s *Store) SessionByID(ctx context.Context, id string) *models.Session {
	if id == "" {
		return nil
	}
	sessions := s.LoadSessions(ctx)
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

// CreateSession builds a new session, appends it to the collection, persists
// and makes it the active session. The type is normalized ("move-out" only on
// exact match), the property name is trimmed and defaulted when blank.
func (s *Store) CreateSession(ctx context.Context, sessionType, propertyName string) (*models.Session, error) {
	name := strings.TrimSpace(propertyName)
	if name == "" {
		name = DefaultPropertyName
	}

	session := models.Session{
		ID:           uid.New("session"),
		Type:         models.ParseSessionType(sessionType),
		PropertyName: name,
		CreatedAt:    time.Now().Format(time.RFC3339),
		Rooms:        []models.Room{},
	}

	sessions := s.LoadSessions(ctx)
	sessions = append(sessions, session)
	if err := s.SaveSessions(ctx, sessions); err != nil {
		return nil, err
	}
	if err := s.SetActiveSessionID(ctx, session.ID); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession replaces the stored session with a matching id. Returns
// SESSION_NOT_FOUND when no id matches; the collection is left unchanged.
func (s *Store) UpdateSession(ctx context.Context, updated models.Session) (*models.Session, error) {
	sessions := s.LoadSessions(ctx)
	for i := range sessions {
		if sessions[i].ID == updated.ID {
			sessions[i] = updated
			if err := s.SaveSessions(ctx, sessions); err != nil {
				return nil, err
			}
			return &sessions[i], nil
		}
	}
	return nil, apperrors.New(apperrors.ErrSessionNotFound, fmt.Sprintf("no session with id %q", updated.ID))
}

// DeleteSession removes the session with the given id. Deleting an unknown id
// is a no-op. If the deleted session was active, the pointer moves to the
// first remaining session, or is cleared when none remain.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	sessions := s.LoadSessions(ctx)
	remaining := make([]models.Session, 0, len(sessions))
	for i := range sessions {
		if sessions[i].ID != id {
			remaining = append(remaining, sessions[i])
		}
	}
	if err := s.SaveSessions(ctx, remaining); err != nil {
		return err
	}

	if s.ActiveSessionID(ctx) == id {
		next := ""
		if len(remaining) > 0 {
			next = remaining[0].ID
		}
		return s.SetActiveSessionID(ctx, next)
	}
	return nil
}

// AddRoom resolves or creates the named room on the session (case-insensitive
// dedup) and persists. Fails with SESSION_NOT_FOUND or ROOM_NAME_EMPTY.
func (s *Store) AddRoom(ctx context.Context, sessionID, roomName string) (*models.Room, error) {
	session := s.SessionByID(ctx, sessionID)
	if session == nil {
		return nil, apperrors.New(apperrors.ErrSessionNotFound, fmt.Sprintf("no session with id %q", sessionID))
	}
	room := session.EnsureRoom(roomName)
	if room == nil {
		return nil, apperrors.New(apperrors.ErrRoomNameEmpty, "room name is blank")
	}
	saved, err := s.UpdateSession(ctx, *session)
	if err != nil {
		return nil, err
	}
	return saved.FindRoom(room.Name), nil
}

// AddItemToRoom resolves or creates the room and appends the item. Items are
// append-only; stored order is insertion order.
func (s *Store) AddItemToRoom(ctx context.Context, sessionID, roomName string, item models.CaptureItem) (*models.CaptureItem, error) {
	session := s.SessionByID(ctx, sessionID)
	if session == nil {
		return nil, apperrors.New(apperrors.ErrSessionNotFound, fmt.Sprintf("no session with id %q", sessionID))
	}
	room := session.EnsureRoom(roomName)
	if room == nil {
		return nil, apperrors.New(apperrors.ErrRoomNameEmpty, "room name is blank")
	}
	room.Items = append(room.Items, item)
	if _, err := s.UpdateSession(ctx, *session); err != nil {
		return nil, err
	}
	return &item, nil
}

// ActiveSessionID returns the active-session pointer, or "" when unset.
func (s *Store) ActiveSessionID(ctx context.Context) string {
	id, _, err := s.kv.Get(ctx, storage.KeyActiveSessionID)
	if err != nil {
		return ""
	}
	return id
}

// SetActiveSessionID writes the active-session pointer. An empty id clears it.
func (s *Store) SetActiveSessionID(ctx context.Context, id string) error {
	if id == "" {
		if err := s.kv.Delete(ctx, storage.KeyActiveSessionID); err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, "failed to clear active session", err)
		}
		return nil
	}
	if err := s.kv.Set(ctx, storage.KeyActiveSessionID, id); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "failed to set active session", err)
	}
	return nil
}

// ActiveSession resolves the active pointer against the current collection.
// A stale pointer (deleted session) resolves to nil.
func (s *Store) ActiveSession(ctx context.Context) *models.Session {
	id := s.ActiveSessionID(ctx)
	if id == "" {
		return nil
	}
	return s.SessionByID(ctx, id)
}

// ReportSelection returns the cached report session pair, defaulting to the
// zero value when absent or unreadable.
func (s *Store) ReportSelection(ctx context.Context) models.ReportSelection {
	var sel models.ReportSelection
	raw, ok, err := s.kv.Get(ctx, storage.KeyReportSelection)
	if err != nil || !ok {
		return sel
	}
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return models.ReportSelection{}
	}
	return sel
}

// SaveReportSelection replaces the cached report session pair.
func (s *Store) SaveReportSelection(ctx context.Context, moveInID, moveOutID string) error {
	data, err := json.Marshal(models.ReportSelection{MoveInID: moveInID, MoveOutID: moveOutID})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode report selection", err)
	}
	if err := s.kv.Set(ctx, storage.KeyReportSelection, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "failed to persist report selection", err)
	}
	return nil
}

// Settings returns the user settings record, defaulting to the zero value.
func (s *Store) Settings(ctx context.Context) models.Settings {
	var settings models.Settings
	raw, ok, err := s.kv.Get(ctx, storage.KeySettings)
	if err != nil || !ok {
		return settings
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}
	}
	return settings
}

// SaveSettings fully replaces the settings record.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode settings", err)
	}
	if err := s.kv.Set(ctx, storage.KeySettings, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "failed to persist settings", err)
	}
	return nil
}

// Totals summarizes the stored collections for dashboard display.
type Totals struct {
	Sessions int
	Rooms    int
	Items    int
}

// Totals counts sessions, rooms and items across the whole collection.
func (s *Store) Totals(ctx context.Context) Totals {
	var t Totals
	for _, session := range s.LoadSessions(ctx) {
		t.Sessions++
		t.Rooms += len(session.Rooms)
		t.Items += session.ItemCount()
	}
	return t
}

// ClearAll removes every record the store owns.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, key := range storage.Keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, fmt.Sprintf("failed to clear %s", key), err)
		}
	}
	return nil
}
