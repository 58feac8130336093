// Package export tests for file export helpers.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
)

// TestWriteFile_appendsExtension verifies extension derivation from the
// media type.
func TestWriteFile_appendsExtension(t *testing.T) {
	dir := t.TempDir()

	result, err := WriteFile(dir, "report", []byte("<html></html>"), "text/html")
	if err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if filepath.Base(result.FilePath) != "report.html" {
		t.Errorf("file path = %q, want report.html", result.FilePath)
	}
	if result.SizeBytes != int64(len("<html></html>")) {
		t.Errorf("size = %d", result.SizeBytes)
	}

	// A name that already has an extension keeps it.
	result, err = WriteFile(dir, "backup.json", []byte("[]"), "application/json")
	if err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if filepath.Base(result.FilePath) != "backup.json" {
		t.Errorf("file path = %q, want backup.json", result.FilePath)
	}
}

// TestWriteFile_blankName verifies the sentinel failure.
func TestWriteFile_blankName(t *testing.T) {
	if _, err := WriteFile(t.TempDir(), "", []byte("x"), "text/plain"); !apperrors.Is(err, apperrors.ErrInvalid) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

// TestWriteFile_createsDir verifies the export directory is created.
func TestWriteFile_createsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	result, err := WriteFile(dir, "out.txt", []byte("hello"), "text/plain")
	if err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

// TestSessionsJSON_roundTrip verifies the backup payload decodes back to the
// same collection.
func TestSessionsJSON_roundTrip(t *testing.T) {
	sessions := []models.Session{{
		ID:           "session_1",
		Type:         models.MoveIn,
		PropertyName: "123 Main St",
		CreatedAt:    "2026-01-02T10:00:00Z",
		Rooms: []models.Room{{Name: "Kitchen", Items: []models.CaptureItem{
			{Kind: models.KindPhoto, Note: "chip", TS: "2026-01-02T10:00:00Z", Thumb: "data:image/jpeg;base64,AA=="},
		}}},
	}}

	data, err := SessionsJSON(sessions)
	if err != nil {
		t.Fatalf("SessionsJSON error = %v", err)
	}

	var decoded []models.Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if !reflect.DeepEqual(decoded, sessions) {
		t.Errorf("round trip altered sessions:\n got  %+v\n want %+v", decoded, sessions)
	}
}

// TestSessionsJSON_nil exports an empty list, not JSON null.
func TestSessionsJSON_nil(t *testing.T) {
	data, err := SessionsJSON(nil)
	if err != nil {
		t.Fatalf("SessionsJSON error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil collection = %s, want []", data)
	}
}
