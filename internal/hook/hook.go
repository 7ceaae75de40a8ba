// Package hook runs the production build and hands its output directory to
// the deploy pipeline.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"distship/internal/logger"
	"distship/internal/remote"
)

var hookLogs = logger.PackageLogger("hook", "🔨 BUILD")

// ErrBuildFailed wraps a non-zero build command.
var ErrBuildFailed = errors.New("build failed")

// Build modes. Development and watch serve the site instead of producing a release.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
	ModeWatch       = "watch"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown build mode")

// ParseMode validates a configured build mode. Empty selects production.
func ParseMode(name string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(name)); mode {
	case "":
		return ModeProduction, nil
	case ModeProduction, ModeDevelopment, ModeWatch:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownMode, name, ModeProduction, ModeDevelopment, ModeWatch)
	}
}

// OnBuildFinished receives the directory a successful production build wrote to.
type OnBuildFinished func(ctx context.Context, outDir string) error

// Runner executes the configured build command.
type Runner struct {
	// Command is run through sh -c. Empty means the output already exists.
	Command string
	OutDir  string
	Mode    string
	Exec    remote.Executor
	Stream  io.Writer
	Log     *logger.Logger
}

// NewRunner returns a production-mode runner using the local executor.
func NewRunner(command, outDir string) *Runner {
	return &Runner{
		Command: command,
		OutDir:  outDir,
		Mode:    ModeProduction,
		Exec:    remote.NewLocalExecutor(),
		Stream:  os.Stdout,
		Log:     hookLogs,
	}
}

// Skips reports whether the hook must not fire for the runner's mode.
func (r *Runner) Skips() bool {
	switch strings.ToLower(r.Mode) {
	case ModeDevelopment, ModeWatch:
		return true
	}
	return false
}

// Run builds and then calls fn exactly once with the output directory. In
// development or watch mode nothing runs and fn is not called.
func (r *Runner) Run(ctx context.Context, fn OnBuildFinished) error {
	log := r.Log
	if log == nil {
		log = hookLogs
	}

	if r.Skips() {
		log.Warn("%s mode: build output is not deployed", r.Mode)
		return nil
	}

	if cmd := strings.TrimSpace(r.Command); cmd != "" {
		build := remote.Command{Name: "sh", Args: []string{"-c", cmd}}
		err := log.Timed(cmd, func() error {
			log.Info("Running %s", cmd)
			_, err := r.Exec.Execute(ctx, build, r.Stream)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
		log.Success("Build finished, output in %s", r.OutDir)
	}

	if fn == nil {
		return nil
	}
	return fn(ctx, r.OutDir)
}
