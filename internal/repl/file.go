package repl

import (
	"bufio"
	"context"
	"esq/internal/journal"
	"esq/internal/parser"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoadFile evaluates every top-level expression of filename in the current
// scope without printing results. Lines that are commands run as commands.
// On failure the error is printed and the scope is reset.
func (s *Session) LoadFile(ctx context.Context, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load library file %s: file doesn't exist.\n", filename)
		return fmt.Errorf("load %s: %w", filename, err)
	}
	defer f.Close()

	var program []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if ok, _ := s.command(ctx, line); !ok {
			program = append(program, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}

	if err := s.evalProgram(strings.Join(program, "\n"), nil); err != nil {
		fmt.Fprintln(s.out, err.Error())
		s.resetEnv()
		slog.Warn("load failed", slog.String("file", filename), slog.Any("error", err))
		return fmt.Errorf("load %s: %w", filename, err)
	}
	slog.Info("file loaded", slog.String("file", filename))
	return nil
}

// Script evaluates filename and prints every top-level result. It stops at
// the first error.
func (s *Session) Script(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load library file %s: file doesn't exist.\n", filename)
		return fmt.Errorf("script %s: %w", filename, err)
	}

	err = s.evalProgram(string(content), s.out)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		fmt.Fprintln(s.out)
		return fmt.Errorf("script %s: %w", filename, err)
	}
	return nil
}

// evalProgram interprets each root of program in order. Results are written
// to out when it is not nil.
func (s *Session) evalProgram(program string, out io.Writer) error {
	nodes, err := parser.Parse(program)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		result, err := s.eval.Interpret(n, s.Env)
		if err != nil {
			return err
		}
		if out != nil {
			fmt.Fprintf(out, "%s: %s\n\n", result.Inspect(), result.Type())
		}
	}
	return nil
}

// Replay feeds the successful entries back through the session without
// printing or recording them. It returns the number of entries that
// evaluated without error.
func (s *Session) Replay(ctx context.Context, entries []journal.Entry) int {
	out, j := s.out, s.Journal
	s.out, s.Journal = io.Discard, nil
	defer func() { s.out, s.Journal = out, j }()

	replayed := 0
	for _, e := range entries {
		if !e.Succeeded() {
			continue
		}
		err := s.Handle(ctx, e.Source)
		s.Discard()
		if err != nil {
			slog.Warn("replay failed",
				slog.String("session", e.Session),
				slog.Int("seq", e.Seq),
				slog.Any("error", err))
			continue
		}
		replayed++
	}
	return replayed
}

// Resume replays session id from the journal into the current scope and
// continues recording under it. Files the session depends on must be
// loaded first.
func (s *Session) Resume(ctx context.Context, id string) error {
	if s.Journal == nil {
		return fmt.Errorf("resume %s: no journal configured", id)
	}
	entries, err := s.Journal.Entries(ctx, id)
	if err != nil {
		return fmt.Errorf("resume %s: %w", id, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("resume %s: unknown session", id)
	}

	s.Discard()
	replayed := s.Replay(ctx, entries)
	s.ID = id
	s.seq = entries[len(entries)-1].Seq + 1
	slog.Info("session resumed", slog.String("session", id), slog.Int("replayed", replayed))
	return nil
}
