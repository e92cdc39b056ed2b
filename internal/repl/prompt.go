package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chzyer/readline"
	"github.com/dc0d/onexit"
)

// Run drives s from an interactive terminal with line editing and history.
// An interrupt on an empty line leaves the loop; otherwise it drops the
// current input.
func Run(ctx context.Context, s *Session, historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            s.Prompt(),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	var closeOnce sync.Once
	closeTerminal := func() { closeOnce.Do(func() { l.Close() }) }
	defer closeTerminal()
	onexit.Register(closeTerminal)

	for !s.Done() {
		if ctx.Err() != nil {
			break
		}
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 && !s.Pending() {
				break
			}
			s.Discard()
			l.SetPrompt(s.Prompt())
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		s.Handle(ctx, line)
		l.SetPrompt(s.Prompt())
	}

	fmt.Fprintln(s.out, "bye!")
	return nil
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool {
	return readline.IsTerminal(fd)
}
