// Package uid generates storage identifiers for inspection records.
package uid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns an identifier of the form "<prefix>_<unix-ms>_<suffix>": a
// monotonic-ish millisecond timestamp plus a short random suffix. The shape
// matches ids produced by earlier exports, so mixed collections stay sortable
// by creation time.
func New(prefix string) string {
	if prefix == "" {
		prefix = "id"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:7]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}
