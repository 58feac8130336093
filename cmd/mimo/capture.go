package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/capture"
	"github.com/kimhsiao/mimo/internal/models"
)

func roomCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "room",
		Usage: "Manage rooms within a session",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a room to a session (names are deduplicated case-insensitively)",
				ArgsUsage: "<room-name>",
				Flags:     []cli.Flag{sessionFlag()},
				Action:    r.RoomAdd,
			},
		},
	}
}

func captureCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture one or more media files into a room",
		ArgsUsage: "<file> [<file>...]",
		Flags: []cli.Flag{
			sessionFlag(),
			&cli.StringFlag{
				Name:     "room",
				Aliases:  []string{"r"},
				Usage:    "Room to file the captures under",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "note",
				Aliases: []string{"n"},
				Usage:   "Note attached to each captured item",
			},
		},
		Action: r.Capture,
	}
}

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "session",
		Aliases: []string{"s"},
		Usage:   "Session id (defaults to the active session)",
	}
}

// RoomAdd resolves or creates the named room on the target session.
func (r *Runner) RoomAdd(ctx context.Context, cmd *cli.Command) error {
	target, err := r.resolveSession(ctx, cmd)
	if err != nil {
		return err
	}
	room, err := r.store.AddRoom(ctx, target.ID, cmd.Args().First())
	if err != nil {
		return err
	}
	return r.writePlain("room %q on %s (%d items)\n", room.Name, target.ID, len(room.Items))
}

// Capture builds a capture item per file and appends it to the room. Files
// are processed one at a time in submission order; each item is fully
// persisted before the next file is read.
func (r *Runner) Capture(ctx context.Context, cmd *cli.Command) error {
	target, err := r.resolveSession(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	room := cmd.String("room")
	note := cmd.String("note")

	for _, path := range cmd.Args().Slice() {
		item, err := r.captureFile(ctx, path, note)
		if err != nil {
			return err
		}
		if _, err := r.store.AddItemToRoom(ctx, target.ID, room, *item); err != nil {
			return err
		}
		r.logger.Info("item captured", "room", room, "kind", item.Kind, "file", item.FileName)
		if err := r.writePlain("%s  %s -> %s\n", item.Kind, item.FileName, room); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) captureFile(ctx context.Context, path, note string) (*models.CaptureItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	// Media type left blank so the builder sniffs it from content.
	return r.builder.CreateCaptureItem(ctx, capture.File{
		Name:   filepath.Base(path),
		Reader: f,
	}, note)
}
