// Package compare aligns two inspection sessions room by room, producing the
// side-by-side structure consumed by both the interactive view and the
// exported report.
//
// Items whose kind is neither photo nor video are dropped from both
// partitions. This mirrors the historical behavior; whether it should instead
// surface future item kinds is pending product review.
package compare

import (
	"sort"

	"github.com/kimhsiao/mimo/internal/models"
)

// SideSummary describes one side (move-in or move-out) of a room comparison.
type SideSummary struct {
	Total      int                  `json:"total"`
	Photos     []models.CaptureItem `json:"photos"`
	Videos     []models.CaptureItem `json:"videos"`
	Notes      []string             `json:"notes"`
	Timestamps []string             `json:"timestamps"`
}

// RoomComparison is the aligned summary for one room name.
type RoomComparison struct {
	RoomName string      `json:"roomName"`
	MoveIn   SideSummary `json:"moveIn"`
	MoveOut  SideSummary `json:"moveOut"`
}

// CompareSessions produces one entry per room name appearing in either
// session, sorted lexicographically by name. The result is deterministic
// regardless of the input room order. A side missing the room contributes an
// empty summary. Either session may be nil.
func CompareSessions(moveIn, moveOut *models.Session) []RoomComparison {
	inRooms := roomsByName(moveIn)
	outRooms := roomsByName(moveOut)

	names := make(map[string]struct{})
	for name := range inRooms {
		names[name] = struct{}{}
	}
	for name := range outRooms {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	entries := make([]RoomComparison, 0, len(sorted))
	for _, name := range sorted {
		entries = append(entries, RoomComparison{
			RoomName: name,
			MoveIn:   summarize(inRooms[name]),
			MoveOut:  summarize(outRooms[name]),
		})
	}
	return entries
}

// roomsByName indexes a session's rooms by their exact name.
func roomsByName(session *models.Session) map[string]models.Room {
	rooms := make(map[string]models.Room)
	if session == nil {
		return rooms
	}
	for _, room := range session.Rooms {
		rooms[room.Name] = room
	}
	return rooms
}

// summarize partitions a room's items by kind (preserving order) and collects
// its non-empty notes and timestamps in insertion order.
func summarize(room models.Room) SideSummary {
	summary := SideSummary{
		Total:      len(room.Items),
		Photos:     []models.CaptureItem{},
		Videos:     []models.CaptureItem{},
		Notes:      []string{},
		Timestamps: []string{},
	}
	for _, item := range room.Items {
		switch item.Kind {
		case models.KindPhoto:
			summary.Photos = append(summary.Photos, item)
		case models.KindVideo:
			summary.Videos = append(summary.Videos, item)
		}
		if item.Note != "" {
			summary.Notes = append(summary.Notes, item.Note)
		}
		if item.TS != "" {
			summary.Timestamps = append(summary.Timestamps, item.TS)
		}
	}
	return summary
}
