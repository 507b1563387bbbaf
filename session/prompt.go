package session

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// ErrInterrupted reports that the operator ended the session early, either
// via signal (context cancellation) or by closing the input stream.
var ErrInterrupted = errors.New("session interrupted")

// prompter turns a blocking line source into a cancellable one. The session
// is still single-threaded in the cooperative sense: exactly one labeling
// loop consumes lines, and no work proceeds while waiting for input. The
// pump goroutine exists only so a blocked read can be abandoned on
// cancellation.
type prompter struct {
	lines <-chan string
	done  <-chan struct{}
}

func newPrompter(r io.Reader) *prompter {
	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &prompter{lines: lines, done: done}
}

// ReadLine blocks for the next operator line. Returns ErrInterrupted when
// the context is cancelled or the input stream ends.
func (p *prompter) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-p.lines:
		return line, nil
	case <-p.done:
		return "", ErrInterrupted
	case <-ctx.Done():
		return "", ErrInterrupted
	}
}
