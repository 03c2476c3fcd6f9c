package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads secrets from the user. Secret returns ctx.Err() as soon as
// ctx is done, even while the read is still blocked.
type Prompter interface {
	Secret(ctx context.Context, prompt string) (string, error)
}

// NewPrompter returns a prompter that disables echo when in is a terminal
// and reads plain lines otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &TerminalPrompter{fd: int(in.Fd()), out: out}
	}
	return NewLinePrompter(in, out)
}

// TerminalPrompter reads without echo from a terminal.
type TerminalPrompter struct {
	fd  int
	out io.Writer
}

// Secret prints prompt and reads one line with echo disabled. On
// cancellation the terminal state saved before the read is restored.
func (p *TerminalPrompter) Secret(ctx context.Context, prompt string) (string, error) {
	state, err := term.GetState(p.fd)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	fmt.Fprint(p.out, prompt)
	b, err := readUntilDone(ctx, func() ([]byte, error) {
		return term.ReadPassword(p.fd)
	})
	fmt.Fprintln(p.out)
	if err != nil {
		if ctx.Err() != nil {
			_ = term.Restore(p.fd, state)
		}
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}

// LinePrompter reads newline-terminated secrets from a reader, for scripted
// and piped input.
type LinePrompter struct {
	r   *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter over r.
func NewLinePrompter(r io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), out: out}
}

// Secret prints prompt and reads one line.
func (p *LinePrompter) Secret(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	b, err := readUntilDone(ctx, func() ([]byte, error) {
		line, err := p.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, err
		}
		return []byte(line), nil
	})
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// readUntilDone runs read on its own goroutine and stops waiting when ctx is
// done. A read abandoned that way is left blocked until the process exits.
func readUntilDone(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		b   []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		b, err := read()
		done <- result{b: b, err: err}
	}()

	select {
	case r := <-done:
		return r.b, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
