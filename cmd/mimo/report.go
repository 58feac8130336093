package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/compare"
	"github.com/kimhsiao/mimo/internal/export"
	"github.com/kimhsiao/mimo/internal/models"
	"github.com/kimhsiao/mimo/internal/report"
)

func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare a move-in and a move-out session room by room",
		Flags: append(selectionFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the comparison as JSON",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Remember this session pair for the next compare/report",
			},
		),
		Action: r.Compare,
	}
}

func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Export the comparison as a standalone HTML report",
		Flags: append(selectionFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file name",
				Value:   "mimo-report.html",
			},
		),
		Action: r.Report,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the raw sessions collection as formatted JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file name",
				Value:   "mimo-sessions.json",
			},
		},
		Action: r.Export,
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "move-in",
			Usage: "Move-in session id (defaults to the last saved selection)",
		},
		&cli.StringFlag{
			Name:  "move-out",
			Usage: "Move-out session id (defaults to the last saved selection)",
		},
	}
}

// Compare prints the room-aligned diff of the selected session pair.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	moveIn, moveOut, err := r.resolvePair(ctx, cmd)
	if err != nil {
		return err
	}

	entries := compare.CompareSessions(moveIn, moveOut)

	if cmd.Bool("save") || r.store.Settings(ctx).AutoSaveCompare {
		if err := r.store.SaveReportSelection(ctx, moveIn.ID, moveOut.ID); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries)
	}

	if err := r.writePlain("Move-in:  %s (%s)\nMove-out: %s (%s)\n\n",
		moveIn.PropertyName, report.FormatDate(moveIn.CreatedAt),
		moveOut.PropertyName, report.FormatDate(moveOut.CreatedAt)); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := r.writePlain("%s\n  in:  %s\n  out: %s\n",
			entry.RoomName, sideLine(entry.MoveIn), sideLine(entry.MoveOut)); err != nil {
			return err
		}
	}
	return nil
}

// sideLine renders one comparison side as a single text line, using the same
// date formatter as the HTML report.
func sideLine(side compare.SideSummary) string {
	times := make([]string, 0, len(side.Timestamps))
	for _, ts := range side.Timestamps {
		times = append(times, report.FormatDate(ts))
	}
	return fmt.Sprintf("items:%d photos:%d videos:%d  notes: %s  times: %s",
		side.Total, len(side.Photos), len(side.Videos),
		joinOr(side.Notes), joinOr(times))
}

func joinOr(values []string) string {
	if len(values) == 0 {
		return report.Placeholder
	}
	return strings.Join(values, " | ")
}

// Report renders the HTML report for the selected pair and saves it under the
// configured export directory. The used pair is remembered for next time.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	moveIn, moveOut, err := r.resolvePair(ctx, cmd)
	if err != nil {
		return err
	}

	html, err := report.GenerateReportHTML(moveIn, moveOut)
	if err != nil {
		return err
	}
	if err := r.store.SaveReportSelection(ctx, moveIn.ID, moveOut.ID); err != nil {
		return err
	}

	result, err := export.WriteReport(r.config.Export.Dir, cmd.String("out"), html)
	if err != nil {
		return err
	}
	r.logger.Info("report exported", "path", result.FilePath, "bytes", result.SizeBytes)
	return r.writePlain("report written to %s\n", result.FilePath)
}

// Export writes the whole sessions collection as an indented JSON backup.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	result, err := export.WriteSessions(r.config.Export.Dir, cmd.String("out"), r.store.LoadSessions(ctx))
	if err != nil {
		return err
	}
	r.logger.Info("sessions exported", "path", result.FilePath, "bytes", result.SizeBytes)
	return r.writePlain("sessions written to %s\n", result.FilePath)
}

// resolvePair resolves the move-in/move-out pair from flags, falling back to
// the last saved report selection. Both sessions must exist.
func (r *Runner) resolvePair(ctx context.Context, cmd *cli.Command) (*models.Session, *models.Session, error) {
	saved := r.store.ReportSelection(ctx)

	moveInID := cmd.String("move-in")
	if moveInID == "" {
		moveInID = saved.MoveInID
	}
	moveOutID := cmd.String("move-out")
	if moveOutID == "" {
		moveOutID = saved.MoveOutID
	}
	if moveInID == "" || moveOutID == "" {
		return nil, nil, fmt.Errorf("both --move-in and --move-out are required (no saved selection)")
	}

	moveIn := r.store.SessionByID(ctx, moveInID)
	if moveIn == nil {
		return nil, nil, fmt.Errorf("no session with id %q", moveInID)
	}
	moveOut := r.store.SessionByID(ctx, moveOutID)
	if moveOut == nil {
		return nil, nil, fmt.Errorf("no session with id %q", moveOutID)
	}
	return moveIn, moveOut, nil
}
