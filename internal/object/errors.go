package object

import "fmt"

// ParseError reports malformed source text.
type ParseError struct {
	Message  string
	Fragment string
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Parse error: unbalanced parentheses in %s.", e.Fragment)
}

type ArityError struct {
	Operator string
	Expected int
	Given    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Error: %s expects %d arguments, given %d.", e.Operator, e.Expected, e.Given)
}

type TypeError struct {
	Operator string
	Expected string
	Given    string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Error: %s expects argument of type %s, given %s.", e.Operator, e.Expected, e.Given)
}

// ContextError reports a symbol with no binding in the scope chain.
type ContextError struct {
	Symbol string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("Error: undefined symbol %s.", e.Symbol)
}

type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func NewRuntimeError(format string, a ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, a...)}
}

// ErrUnreachable is returned when a form matches no evaluation rule.
var ErrUnreachable = &RuntimeError{Message: "Reached a run-time error. Sorry!"}
