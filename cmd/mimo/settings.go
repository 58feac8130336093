package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/models"
)

func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or replace the user settings record",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current settings",
				Action: r.SettingsShow,
			},
			{
				Name:  "set",
				Usage: "Replace the settings record (unset flags become empty)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "inspector",
						Usage: "Inspector name",
					},
					&cli.StringFlag{
						Name:  "company",
						Usage: "Company name",
					},
					&cli.BoolFlag{
						Name:  "auto-save-compare",
						Usage: "Remember the compared session pair automatically",
					},
				},
				Action: r.SettingsSet,
			},
		},
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show stored totals and the active session",
		Action: r.Status,
	}
}

func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all stored sessions, settings and selections",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.Clear,
	}
}

// SettingsShow prints the settings record as JSON.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	return r.writeJSON(r.store.Settings(ctx))
}

// SettingsSet fully replaces the settings record; there is no partial merge,
// so flags left unset clear their fields.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	settings := models.Settings{
		InspectorName:   cmd.String("inspector"),
		CompanyName:     cmd.String("company"),
		AutoSaveCompare: cmd.Bool("auto-save-compare"),
	}
	if err := r.store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	return r.writeJSON(settings)
}

// Status prints dashboard totals and the active session, if any.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	totals := r.store.Totals(ctx)
	if err := r.writePlain("sessions:%d rooms:%d items:%d\n",
		totals.Sessions, totals.Rooms, totals.Items); err != nil {
		return err
	}
	if active := r.store.ActiveSession(ctx); active != nil {
		return r.writePlain("active: %s  %s (%s)\n", active.ID, active.PropertyName, active.Type)
	}
	return r.writePlain("active: none\n")
}

// Clear wipes every stored record. Destructive, so it requires --yes.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("this deletes all stored data; re-run with --yes to confirm")
	}
	if err := r.store.ClearAll(ctx); err != nil {
		return err
	}
	r.logger.Info("all data cleared")
	return r.writePlain("all data cleared\n")
}
