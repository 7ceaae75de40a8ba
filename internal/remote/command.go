package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
)

// Command is a program plus its argument vector. It is never passed through
// a local shell.
type Command struct {
	Name string
	Args []string
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv())
}

// ExitError describes a command that ran but did not succeed.
type ExitError struct {
	Command  Command
	ExitCode int
	Stderr   string
	Err      error
}

func (ee *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %v", ee.Command.Name, ee.Err)
	if stderr := strings.TrimSpace(ee.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (ee *ExitError) Unwrap() error {
	return ee.Err
}

// ExitCodeOf returns the exit code carried by err, or -1.
func ExitCodeOf(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode
	}
	return -1
}
