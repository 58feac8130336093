package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/models"
	"github.com/kimhsiao/mimo/internal/report"
)

func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage inspection sessions",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new inspection session and make it active",
				ArgsUsage: "<property-name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Session type: move-in or move-out",
						Value:   "move-in",
					},
				},
				Action: r.SessionCreate,
			},
			{
				Name:   "list",
				Usage:  "List all sessions",
				Action: r.SessionList,
			},
			{
				Name:      "use",
				Usage:     "Set the active session",
				ArgsUsage: "<session-id>",
				Action:    r.SessionUse,
			},
			{
				Name:      "delete",
				Usage:     "Delete a session and all its rooms and items",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.SessionDelete,
			},
		},
	}
}

// SessionCreate creates a session from the type flag and property-name
// argument and reports the assigned id.
func (r *Runner) SessionCreate(ctx context.Context, cmd *cli.Command) error {
	created, err := r.store.CreateSession(ctx, cmd.String("type"), cmd.Args().First())
	if err != nil {
		return err
	}
	r.logger.Info("session created", "id", created.ID, "type", created.Type)
	return r.writePlain("%s  %s (%s)  [active]\n", created.ID, created.PropertyName, created.Type)
}

// SessionList prints every stored session, marking the active one.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	sessions := r.store.LoadSessions(ctx)
	if len(sessions) == 0 {
		return r.writePlain("no sessions\n")
	}

	activeID := r.store.ActiveSessionID(ctx)
	for _, s := range sessions {
		marker := " "
		if s.ID == activeID {
			marker = "*"
		}
		if err := r.writePlain("%s %s  %s (%s)  %s  rooms:%d items:%d\n",
			marker, s.ID, s.PropertyName, s.Type, report.FormatDate(s.CreatedAt),
			len(s.Rooms), s.ItemCount()); err != nil {
			return err
		}
	}
	return nil
}

// SessionUse sets the active-session pointer after verifying the id exists.
func (r *Runner) SessionUse(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if r.store.SessionByID(ctx, id) == nil {
		return fmt.Errorf("no session with id %q", id)
	}
	if err := r.store.SetActiveSessionID(ctx, id); err != nil {
		return err
	}
	return r.writePlain("active session: %s\n", id)
}

// SessionDelete removes a session. Destructive, so it requires --yes.
func (r *Runner) SessionDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("deleting a session removes all its room items; re-run with --yes to confirm")
	}
	if err := r.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	r.logger.Info("session deleted", "id", id)
	return r.writePlain("deleted %s\n", id)
}

// resolveSession returns the session named by the --session flag, falling
// back to the active session.
func (r *Runner) resolveSession(ctx context.Context, cmd *cli.Command) (*models.Session, error) {
	if id := cmd.String("session"); id != "" {
		s := r.store.SessionByID(ctx, id)
		if s == nil {
			return nil, fmt.Errorf("no session with id %q", id)
		}
		return s, nil
	}
	s := r.store.ActiveSession(ctx)
	if s == nil {
		return nil, fmt.Errorf("no active session; create one or pass --session")
	}
	return s, nil
}
