// Package report renders a session comparison as a standalone HTML document.
// All user-supplied text passes through html/template's contextual escaping;
// only validated data-URL image payloads may reach an img src attribute.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kimhsiao/mimo/internal/compare"
	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
)

// Placeholder stands in for empty notes, timestamps and missing sessions.
const Placeholder = "-"

// maxThumbsPerSide bounds the number of inlined photo thumbnails per table
// cell to keep the document size reasonable.
const maxThumbsPerSide = 4

const dateLayout = "Jan 2, 2006 3:04 PM"

// FormatDate renders a stored RFC 3339 timestamp in human-readable form.
// Empty input yields the placeholder; unparsable input is returned unchanged.
// The interactive views and the exported report share this function and must
// agree byte for byte.
func FormatDate(ts string) string {
	if ts == "" {
		return Placeholder
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format(dateLayout)
}

var reportTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"/><title>MIMO Comparison Report</title></head>
<body style="font-family:Arial,sans-serif;padding:20px;color:#222">
<h1>Move In / Move Out Report</h1>
<p><strong>Move-in:</strong> {{.MoveInLabel}}</p>
<p><strong>Move-out:</strong> {{.MoveOutLabel}}</p>
<table style="width:100%;border-collapse:collapse">
<thead><tr>
<th style="padding:10px;border:1px solid #ddd">Room</th>
<th style="padding:10px;border:1px solid #ddd">Move-in</th>
<th style="padding:10px;border:1px solid #ddd">Move-out</th>
</tr></thead>
<tbody>
{{- range .Rows}}
<tr>
<td style="padding:10px;border:1px solid #ddd;vertical-align:top">{{.RoomName}}</td>
{{- template "side" .MoveIn}}
{{- template "side" .MoveOut}}
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
{{- define "side"}}
<td style="padding:10px;border:1px solid #ddd;vertical-align:top">Items: {{.Total}}<br/>Notes: {{.Notes}}<br/>Times: {{.Times}}<div>
{{- range .Thumbs}}<img src="{{.}}" alt="{{$.Alt}}" style="width:72px;height:72px;object-fit:cover;border-radius:8px;border:1px solid #ddd;margin-right:6px"/>{{end -}}
</div></td>
{{- end}}`))

type sideView struct {
	Total  int
	Notes  string
	Times  string
	Alt    string
	Thumbs []template.URL
}

type rowView struct {
	RoomName string
	MoveIn   sideView
	MoveOut  sideView
}

type reportView struct {
	MoveInLabel  string
	MoveOutLabel string
	Rows         []rowView
}

// GenerateReportHTML serializes the comparison of the two sessions into a
// self-contained document string viewable without the application. Either
// session may be nil; its header then shows the placeholder.
func GenerateReportHTML(moveIn, moveOut *models.Session) (string, error) {
	view := reportView{
		MoveInLabel:  sessionLabel(moveIn),
		MoveOutLabel: sessionLabel(moveOut),
	}

	for _, entry := range compare.CompareSessions(moveIn, moveOut) {
		view.Rows = append(view.Rows, rowView{
			RoomName: entry.RoomName,
			MoveIn:   buildSide(entry.MoveIn, "Move-in photo"),
			MoveOut:  buildSide(entry.MoveOut, "Move-out photo"),
		})
	}

	var out strings.Builder
	if err := reportTmpl.Execute(&out, view); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, "failed to render report", err)
	}
	return out.String(), nil
}

func sessionLabel(session *models.Session) string {
	if session == nil {
		return Placeholder
	}
	return fmt.Sprintf("%s (%s)", session.PropertyName, FormatDate(session.CreatedAt))
}

func buildSide(side compare.SideSummary, alt string) sideView {
	view := sideView{
		Total: side.Total,
		Notes: joinOrPlaceholder(side.Notes),
		Alt:   alt,
	}

	times := make([]string, 0, len(side.Timestamps))
	for _, ts := range side.Timestamps {
		times = append(times, FormatDate(ts))
	}
	view.Times = joinOrPlaceholder(times)

	photos := side.Photos
	if len(photos) > maxThumbsPerSide {
		photos = photos[:maxThumbsPerSide]
	}
	for _, photo := range photos {
		if url, ok := thumbURL(photo.Thumb); ok {
			view.Thumbs = append(view.Thumbs, url)
		}
	}
	return view
}

func joinOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return Placeholder
	}
	return strings.Join(values, " | ")
}

// thumbURL admits only self-contained image data URLs into img src position.
// html/template would neutralize anything else anyway; the explicit gate
// keeps arbitrary schemes out of the document entirely.
func thumbURL(thumb string) (template.URL, bool) {
	if strings.HasPrefix(thumb, "data:image/") {
		return template.URL(thumb), true
	}
	return "", false
}
