// Package export writes report documents and session backups to local files.
// It is the client-side "download as file" surface: callers hand it a file
// name, a payload and a media type and get a saved file back.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
)

// Result describes a completed file export.
type Result struct {
	FilePath  string
	SizeBytes int64
	MediaType string
}

// extByMediaType maps the media types this core exports to file extensions,
// applied when the requested file name carries none.
var extByMediaType = map[string]string{
	"text/html":        ".html",
	"application/json": ".json",
	"text/plain":       ".txt",
}

// WriteFile saves content under dir/fileName. When fileName has no extension
// one is derived from the media type. The directory is created if needed.
func WriteFile(dir, fileName string, content []byte, mediaType string) (*Result, error) {
	if fileName == "" {
		return nil, apperrors.New(apperrors.ErrInvalid, "export file name is blank")
	}

	if filepath.Ext(fileName) == "" {
		if ext, ok := extByMediaType[mediaType]; ok {
			fileName += ext
		}
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrExportFailed, "failed to create export directory", err)
		}
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, "failed to write export file", err)
	}

	return &Result{
		FilePath:  path,
		SizeBytes: int64(len(content)),
		MediaType: mediaType,
	}, nil
}

// SessionsJSON renders the sessions collection as formatted JSON for backup
// export. A nil collection exports as an empty list.
func SessionsJSON(sessions []models.Session) ([]byte, error) {
	if sessions == nil {
		sessions = []models.Session{}
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, "failed to encode sessions", err)
	}
	return data, nil
}

// WriteReport saves a rendered report document as an HTML file.
func WriteReport(dir, fileName, html string) (*Result, error) {
	return WriteFile(dir, fileName, []byte(html), "text/html")
}

// WriteSessions saves the sessions collection as a JSON backup file.
func WriteSessions(dir, fileName string, sessions []models.Session) (*Result, error) {
	data, err := SessionsJSON(sessions)
	if err != nil {
		return nil, err
	}
	return WriteFile(dir, fileName, data, "application/json")
}
