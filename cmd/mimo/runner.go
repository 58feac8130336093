package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/capture"
	"github.com/kimhsiao/mimo/internal/config"
	"github.com/kimhsiao/mimo/internal/logging"
	"github.com/kimhsiao/mimo/internal/session"
	"github.com/kimhsiao/mimo/internal/storage"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config  *config.Config
	store   *session.Store
	builder *capture.Builder
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *config.Config
	Store   *session.Store
	Builder *capture.Builder
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided dependencies.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(storage.NewMemoryStore())
	}
	if opts.Builder == nil {
		opts.Builder = capture.NewBuilderWith(opts.Config.Thumbnail.MaxDim, opts.Config.Thumbnail.Quality)
	}

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		builder: opts.Builder,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		sessionCommand, roomCommand, captureCommand, compareCommand,
		reportCommand, exportCommand, settingsCommand, statusCommand, clearCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
