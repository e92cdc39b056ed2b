package repl

import (
	"bufio"
	"context"
	"esq/internal/evaluator"
	"esq/internal/journal"
	"esq/internal/lexer"
	"esq/internal/object"
	"esq/internal/parser"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	PROMPT      = "esq> "
	CONT_PROMPT = "...  "
)

var loadCommand = regexp.MustCompile(`(?i)^load +([^ ]+) *.*$`)

// Journal receives every top-level input the session evaluated.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
	Entries(ctx context.Context, session string) ([]journal.Entry, error)
}

// Session holds the state of one interactive run: the current root scope,
// the unfinished input of a multi-line expression and the journal cursor.
type Session struct {
	ID      string
	Env     *object.Environment
	Journal Journal

	out     io.Writer
	eval    *evaluator.Evaluator
	seq     int
	pending string
	done    bool
}

func NewSession(out io.Writer, maxDepth int) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Env:  evaluator.NewRootEnvironment(),
		out:  out,
		eval: evaluator.New(maxDepth),
		seq:  1,
	}
}

// Done reports whether quit was entered.
func (s *Session) Done() bool {
	return s.done
}

// Pending reports whether an expression is still waiting for its closing
// parentheses.
func (s *Session) Pending() bool {
	return s.pending != ""
}

// Discard drops a partially entered expression.
func (s *Session) Discard() {
	s.pending = ""
}

// Prompt is the prompt to show before the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return CONT_PROMPT
	}
	return PROMPT
}

// Handle processes one line of input. It returns the error the line
// produced, which has already been written to the output. A line that
// leaves an expression unfinished returns nil.
func (s *Session) Handle(ctx context.Context, line string) error {
	text := line
	if s.Pending() {
		text = s.pending + "\n" + line
	} else if ok, err := s.command(ctx, line); ok {
		return err
	}

	if lexer.Depth(text) > 0 {
		s.pending = text
		return nil
	}
	s.pending = ""
	return s.evaluate(ctx, text)
}

// command runs quit, reset and load and reports whether line was one. The
// load keyword must be followed by at least one space, so a symbol such as
// loader is evaluated instead of loading "er".
func (s *Session) command(ctx context.Context, line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case "quit":
		s.done = true
		return true, nil
	case "reset":
		s.Reset()
		return true, nil
	}

	m := loadCommand.FindStringSubmatch(trimmed)
	if m == nil {
		return false, nil
	}
	entry := journal.Entry{Source: trimmed}
	err := s.LoadFile(ctx, m[1])
	if err != nil {
		entry.Failure = err.Error()
	}
	s.record(ctx, entry)
	return true, err
}

// Reset starts over with a fresh root scope under a new journal session.
func (s *Session) Reset() {
	s.resetEnv()
	s.ID = uuid.NewString()
	s.seq = 1
	slog.Info("session reset", slog.String("session", s.ID))
}

func (s *Session) resetEnv() {
	s.Env = evaluator.NewRootEnvironment()
	s.pending = ""
}

func (s *Session) evaluate(ctx context.Context, text string) error {
	nodes, err := parser.Parse(text)
	if err == nil && len(nodes) == 0 {
		return nil
	}
	if err == nil && len(nodes) > 1 {
		err = &object.ParseError{Message: "Parse error: ill-formed sentence.", Fragment: text}
	}

	var result object.Node
	if err == nil {
		result, err = s.eval.Interpret(nodes[0], s.Env)
	}

	entry := journal.Entry{Source: text}
	if err != nil {
		entry.Failure = err.Error()
		fmt.Fprintln(s.out, err.Error())
	} else {
		entry.Result = result.Inspect()
		entry.Type = result.Type().String()
		fmt.Fprintf(s.out, "%s: %s\n", entry.Result, entry.Type)
	}
	fmt.Fprintln(s.out)
	s.record(ctx, entry)
	return err
}

func (s *Session) record(ctx context.Context, e journal.Entry) {
	if s.Journal == nil {
		return
	}
	e.Session = s.ID
	e.Seq = s.seq
	s.seq++
	if err := s.Journal.Record(ctx, e); err != nil {
		slog.Warn("journal record failed", slog.Any("error", err))
	}
}

// Start reads lines from in until quit or end of input. It is the
// non-interactive counterpart of Run.
func Start(ctx context.Context, in io.Reader, s *Session) error {
	scanner := bufio.NewScanner(in)
	for !s.Done() {
		fmt.Fprint(s.out, s.Prompt())
		if !scanner.Scan() {
			break
		}
		s.Handle(ctx, scanner.Text())
	}
	fmt.Fprintln(s.out, "bye!")
	return scanner.Err()
}
