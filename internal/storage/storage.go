// Package storage provides the flat key-value persistence layer backing the
// session store. Each logical key holds a single JSON-encoded value; the
// backend is swappable behind the Store interface.
package storage

import "context"

// Storage keys for the four persisted records.
const (
	KeySessions        = "mimo_sessions"
	KeyActiveSessionID = "mimo_active_session_id"
	KeyReportSelection = "mimo_report_selection"
	KeySettings        = "mimo_settings"
)

// Keys lists every key the session store owns, in a stable order.
var Keys = []string{KeySessions, KeyActiveSessionID, KeyReportSelection, KeySettings}

// Store is a flat key-value store. Get reports presence explicitly so callers
// can distinguish an absent key from an empty value. Implementations must be
// write-through: a returned Set/Delete means the value is durably persisted.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
