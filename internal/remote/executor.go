package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Executor runs a command to completion. Output is teed to stream (which
// may be nil) and stdout is also returned.
type Executor interface {
	Execute(ctx context.Context, cmd Command, stream io.Writer) (string, error)
}

// LocalExecutor runs commands as child processes of this one.
type LocalExecutor struct {
	// Stdin is handed to the child so ssh can ask for a password or passphrase.
	Stdin io.Reader
}

// NewLocalExecutor returns an executor attached to the process's stdin.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{Stdin: os.Stdin}
}

func (e *LocalExecutor) Execute(ctx context.Context, cmd Command, stream io.Writer) (string, error) {
	var stdout, stderr bytes.Buffer

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = e.Stdin
	c.Stdout = tee(&stdout, stream)
	c.Stderr = tee(&stderr, stream)

	if err := c.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return stdout.String(), &ExitError{
			Command:  cmd,
			ExitCode: code,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return stdout.String(), nil
}

func tee(buf *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return buf
	}
	return io.MultiWriter(buf, stream)
}
