package object

import (
	"errors"
	"esq/internal/types"
	"testing"
)

func TestInspect(t *testing.T) {
	square := &Lambda{
		Params: []Param{{Name: "n", Type: types.Int}},
		Body: &List{Elements: []Node{
			&Symbol{Name: "*"}, &Symbol{Name: "n"}, &Symbol{Name: "n"},
		}},
		Typ: types.Proc{Params: []types.Type{types.Int}, Result: types.Int},
	}

	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"literal", &Literal{Text: "42", Typ: types.Int}, "42"},
		{"symbol", &Symbol{Name: "square"}, "square"},
		{"empty", EMPTY, "empty"},
		{"list", &List{Elements: []Node{TRUE, FALSE}, Typ: types.ListOf(types.Bool)}, "(true false)"},
		{"read empty list", &List{}, "()"},
		{"builtin", &Builtin{Name: "+"}, "+"},
		{"lambda", square, "(lambda:int->int (n) (* n n))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Inspect(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLambdaShape(t *testing.T) {
	l := &Lambda{
		Params: []Param{{Name: "a", Type: types.Int}, {Name: "b", Type: types.Bool}},
		Body:   TRUE,
		Typ:    types.Proc{Params: []types.Type{types.Int, types.Bool}, Result: types.Bool},
	}
	if IsValue(l) {
		t.Fatalf("lambda should not be a value-shaped node")
	}
	children := l.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	if children[0].Inspect() != "lambda:int,bool->bool" {
		t.Errorf("unexpected signature marker %q", children[0].Inspect())
	}
	if l.Type().String() != "int,bool->bool" {
		t.Errorf("unexpected type tag %q", l.Type())
	}

	zero := &Lambda{Body: TRUE, Typ: types.Proc{Result: types.Bool}}
	if zero.Type().String() != "nothing->bool" {
		t.Errorf("unexpected zero parameter type tag %q", zero.Type())
	}
}

func TestLambdaWithEnvCopies(t *testing.T) {
	env := NewEnvironment()
	l := &Lambda{Body: TRUE, Typ: types.Proc{Result: types.Bool}}
	captured := l.WithEnv(env)
	if l.Env != nil {
		t.Errorf("WithEnv modified the receiver")
	}
	if captured.Env != env {
		t.Errorf("captured lambda does not reference env")
	}
}

func TestEnvironmentChain(t *testing.T) {
	root := NewEnvironment()
	root.Set("x", &Literal{Text: "1", Typ: types.Int})
	inner := NewEnclosedEnvironment(root)
	inner.Set("y", &Literal{Text: "2", Typ: types.Int})

	if n, err := inner.Get("x"); err != nil || n.Inspect() != "1" {
		t.Errorf("expected x=1 through the chain, got %v, %v", n, err)
	}
	if !inner.Has("y") || inner.Has("x") {
		t.Errorf("Has must only look at the local scope")
	}

	inner.Set("x", &Literal{Text: "3", Typ: types.Int})
	if n, _ := root.Get("x"); n.Inspect() != "1" {
		t.Errorf("Set modified an enclosing scope: x=%s", n.Inspect())
	}

	_, err := inner.Get("missing")
	var ctxErr *ContextError
	if !errors.As(err, &ctxErr) || ctxErr.Symbol != "missing" {
		t.Fatalf("expected a context error for missing, got %v", err)
	}
	if err.Error() != "Error: undefined symbol missing." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&ArityError{Operator: "+", Expected: 2, Given: 1}, "Error: + expects 2 arguments, given 1."},
		{&TypeError{Operator: "+", Expected: "int", Given: "bool"}, "Error: + expects argument of type int, given bool."},
		{&ParseError{Fragment: "(a"}, "Parse error: unbalanced parentheses in (a."},
		{ErrUnreachable, "Reached a run-time error. Sorry!"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
		}
	}
}
