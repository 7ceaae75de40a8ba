package ship

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"distship/internal/logger"
)

var shipLogs = logger.PackageLogger("ship", "🚢 SHIP")

// runtime holds the collaborators shared by the deploy and rollback
// pipelines.
type runtime struct {
	fs     afero.Fs
	now    func() time.Time
	stream io.Writer
	dryRun bool
	log    *logger.Logger
}

// Option customizes a Deployer or Rollbacker.
type Option func(*runtime)

func newRuntime(opts []Option) runtime {
	rt := runtime{
		fs:     afero.NewOsFs(),
		now:    time.Now,
		stream: os.Stdout,
		log:    shipLogs,
	}
	for _, opt := range opts {
		opt(&rt)
	}
	return rt
}

// WithFs sets the filesystem the local source directory is read from.
func WithFs(fs afero.Fs) Option {
	return func(rt *runtime) { rt.fs = fs }
}

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(rt *runtime) { rt.now = now }
}

// WithStream sets where remote command output is echoed. nil discards it.
func WithStream(w io.Writer) Option {
	return func(rt *runtime) { rt.stream = w }
}

// WithDryRun prints mutating commands instead of running them.
func WithDryRun(dryRun bool) Option {
	return func(rt *runtime) { rt.dryRun = dryRun }
}

// WithLogger replaces the package logger.
func WithLogger(l *logger.Logger) Option {
	return func(rt *runtime) { rt.log = l }
}
