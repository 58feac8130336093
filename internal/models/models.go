// Package models provides data model definitions for MIMO inspection data.
//
// Field names in the JSON tags match the persisted storage format exactly;
// changing them breaks compatibility with previously exported collections.
package models

import (
	"strings"
	"time"
)

// SessionType distinguishes the two inspection passes over a property.
type SessionType string

const (
	MoveIn  SessionType = "move-in"
	MoveOut SessionType = "move-out"
)

// ParseSessionType normalizes a raw type string. Only the exact string
// "move-out" maps to MoveOut; everything else falls back to MoveIn.
func ParseSessionType(s string) SessionType {
	if s == string(MoveOut) {
		return MoveOut
	}
	return MoveIn
}

// ItemKind classifies a captured item.
type ItemKind string

const (
	KindPhoto ItemKind = "photo"
	KindVideo ItemKind = "video"
)

// ParseItemKind validates a raw kind string at the storage boundary.
func ParseItemKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case KindPhoto, KindVideo:
		return ItemKind(s), true
	}
	return "", false
}

// CaptureItem is one photo or video record within a room.
// Thumb holds a self-contained data URL and is present only for photos;
// video items carry metadata only.
type CaptureItem struct {
	Kind     ItemKind `json:"kind"`
	Note     string   `json:"note"`
	TS       string   `json:"ts"`
	FileName string   `json:"fileName"`
	Thumb    string   `json:"thumb,omitempty"`
}

// Room is a named area within a session. Items are append-only and keep
// insertion order.
type Room struct {
	Name  string        `json:"name"`
	Items []CaptureItem `json:"items"`
}

// Session is one inspection pass over a property.
type Session struct {
	ID           string      `json:"id"`
	Type         SessionType `json:"type"`
	PropertyName string      `json:"propertyName"`
	CreatedAt    string      `json:"createdAt"`
	Rooms        []Room      `json:"rooms"`
}

// Normalize repairs a session loaded from storage: nil room and item slices
// become empty slices and the type is re-normalized. It does not touch the
// id; sessions with empty ids are dropped by the store on load.
func (s *Session) Normalize() {
	s.Type = ParseSessionType(string(s.Type))
	if s.Rooms == nil {
		s.Rooms = []Room{}
	}
	for i := range s.Rooms {
		if s.Rooms[i].Items == nil {
			s.Rooms[i].Items = []CaptureItem{}
		}
	}
}

// FindRoom returns the room matching name case-insensitively, or nil.
func (s *Session) FindRoom(name string) *Room {
	for i := range s.Rooms {
		if strings.EqualFold(s.Rooms[i].Name, name) {
			return &s.Rooms[i]
		}
	}
	return nil
}

// EnsureRoom resolves or creates the named room. The name is trimmed; a blank
// name returns nil. Lookup is case-insensitive, so at most one room per
// case-insensitive name can exist in a session.
func (s *Session) EnsureRoom(name string) *Room {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if room := s.FindRoom(name); room != nil {
		return room
	}
	s.Rooms = append(s.Rooms, Room{Name: name, Items: []CaptureItem{}})
	return &s.Rooms[len(s.Rooms)-1]
}

// ItemCount returns the total number of captured items across all rooms.
func (s *Session) ItemCount() int {
	total := 0
	for i := range s.Rooms {
		total += len(s.Rooms[i].Items)
	}
	return total
}

// CreatedAtTime returns the CreatedAt timestamp as time.Time, or the zero
// time when the stored value does not parse.
func (s *Session) CreatedAtTime() time.Time {
	t, err := time.Parse(time.RFC3339, s.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Settings is the single user-settings record. It is replaced wholesale on
// every save; there is no partial merge.
type Settings struct {
	InspectorName   string `json:"inspectorName"`
	CompanyName     string `json:"companyName"`
	AutoSaveCompare bool   `json:"autoSaveCompare"`
}

// ReportSelection caches the last pair of session ids chosen for
// comparison/report generation.
type ReportSelection struct {
	MoveInID  string `json:"moveInId"`
	MoveOutID string `json:"moveOutId"`
}
