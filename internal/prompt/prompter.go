package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the operator-facing input capability the confirmation gate
// depends on.
type Terminal interface {
	// IsInteractive reports whether both input and output are attached to a
	// terminal.
	IsInteractive() bool
	// PromptLine writes msg and waits for one line of input.
	PromptLine(ctx context.Context, msg string) (string, error)
}

type ttyPrompter struct {
	in     *os.File
	out    *os.File
	reader *bufio.Reader
}

// NewTTY returns a Terminal backed by the given files, normally os.Stdin and
// os.Stdout.
func NewTTY(in, out *os.File) Terminal {
	return &ttyPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *ttyPrompter) IsInteractive() bool {
	return term.IsTerminal(int(p.in.Fd())) && term.IsTerminal(int(p.out.Fd()))
}

func (p *ttyPrompter) PromptLine(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	return readLine(ctx, p.reader)
}

type lineResult struct {
	line string
	err  error
}

// readLine blocks for one line or until ctx is done. On cancellation the
// pending read is abandoned.
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	done := make(chan lineResult, 1)
	go func() {
		line, err := r.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		done <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}
