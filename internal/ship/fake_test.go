package ship

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"distship/internal/config"
	"distship/internal/logger"
	"distship/internal/remote"
)

var errBoom = errors.New("exit status 1")

// recordingExecutor records every command and fails the ones whose rendered
// form contains failOn.
type recordingExecutor struct {
	calls  []remote.Command
	failOn string
	output string
}

func (r *recordingExecutor) Execute(_ context.Context, cmd remote.Command, _ io.Writer) (string, error) {
	r.calls = append(r.calls, cmd)
	if r.failOn != "" && strings.Contains(cmd.String(), r.failOn) {
		return "", &remote.ExitError{Command: cmd, ExitCode: 1, Err: errBoom}
	}
	return r.output, nil
}

type fakeTerminal struct {
	interactive bool
	answer      string
	asked       int
}

func (f *fakeTerminal) IsInteractive() bool { return f.interactive }

func (f *fakeTerminal) PromptLine(context.Context, string) (string, error) {
	f.asked++
	return f.answer, nil
}

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func testConfig(t testing.TB, opts config.Options) *config.DeploymentConfig {
	cfg, err := config.Normalize(opts)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func sourceFs(dir string, files ...string) afero.Fs {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll(dir, 0o755)
	for _, f := range files {
		_ = afero.WriteFile(fs, dir+"/"+f, []byte("x"), 0o644)
	}
	return fs
}

func testOptions(fs afero.Fs) []Option {
	return []Option{
		WithFs(fs),
		WithClock(func() time.Time { return fixedTime }),
		WithStream(nil),
		WithLogger(logger.Discard()),
	}
}
