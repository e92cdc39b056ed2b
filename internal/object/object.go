package object

import (
	"esq/internal/types"
	"strings"
)

type NodeKind string

const (
	LAMBDA_NODE  = "LAMBDA"
	BUILTIN_NODE = "BUILTIN_PROCEDURE"
	LITERAL_NODE = "LITERAL"
	SYMBOL_NODE  = "SYMBOL"
	LIST_NODE    = "LIST"
	EMPTY_NODE   = "EMPTY"
)

var (
	TRUE  = &Literal{Text: "true", Typ: types.Bool}
	FALSE = &Literal{Text: "false", Typ: types.Bool}
	EMPTY = &Empty{}
)

// Node is both a piece of syntax and a runtime value.
type Node interface {
	Kind() NodeKind
	Type() types.Type
	Inspect() string
	// Children are the call arguments, list elements, or the three parts
	// of a lambda. A node without children is a value.
	Children() []Node
}

type BuiltinFunction func(args ...Node) (Node, error)

type Literal struct {
	Text string
	Typ  types.Type
}

func (l *Literal) Kind() NodeKind   { return LITERAL_NODE }
func (l *Literal) Type() types.Type { return l.Typ }
func (l *Literal) Inspect() string  { return l.Text }
func (l *Literal) Children() []Node { return nil }
func (l *Literal) IsTrue() bool     { return l.Text == "true" }

type Symbol struct {
	Name string
}

func (s *Symbol) Kind() NodeKind   { return SYMBOL_NODE }
func (s *Symbol) Type() types.Type { return types.Untyped }
func (s *Symbol) Inspect() string  { return s.Name }
func (s *Symbol) Children() []Node { return nil }

// List is a parenthesized form as read, or a list value built by the
// list primitives. Read lists are Untyped.
type List struct {
	Elements []Node
	Typ      types.Type
}

func (l *List) Kind() NodeKind { return LIST_NODE }
func (l *List) Type() types.Type {
	if l.Typ == nil {
		return types.Untyped
	}
	return l.Typ
}
func (l *List) Inspect() string  { return inspectAll(l.Elements) }
func (l *List) Children() []Node { return l.Elements }

type Param struct {
	Name string
	Type types.Type
}

type Lambda struct {
	Params []Param
	Body   Node
	Typ    types.Proc
	// Env is the scope captured by a local block. Nil means free
	// variables resolve through the environment of the call site.
	Env *Environment
}

func (l *Lambda) Kind() NodeKind   { return LAMBDA_NODE }
func (l *Lambda) Type() types.Type { return l.Typ }

// Signature is the text of the lambda's keyword after evaluation.
func (l *Lambda) Signature() string { return "lambda:" + l.Typ.String() }

func (l *Lambda) Inspect() string { return inspectAll(l.Children()) }

func (l *Lambda) Children() []Node {
	params := make([]Node, len(l.Params))
	for i, p := range l.Params {
		params[i] = &Symbol{Name: p.Name}
	}
	return []Node{
		&Symbol{Name: l.Signature()},
		&List{Elements: params},
		l.Body,
	}
}

// WithEnv returns a copy of the lambda bound to env.
func (l *Lambda) WithEnv(env *Environment) *Lambda {
	captured := *l
	captured.Env = env
	return &captured
}

// Builtin is a primitive procedure. A nil Fn is an unbound placeholder.
type Builtin struct {
	Name string
	Typ  types.Type
	Fn   BuiltinFunction
}

func (b *Builtin) Kind() NodeKind   { return BUILTIN_NODE }
func (b *Builtin) Type() types.Type { return b.Typ }
func (b *Builtin) Inspect() string  { return b.Name }
func (b *Builtin) Children() []Node { return nil }

// Empty is the canonical empty list.
type Empty struct{}

func (e *Empty) Kind() NodeKind   { return EMPTY_NODE }
func (e *Empty) Type() types.Type { return types.Empty }
func (e *Empty) Inspect() string  { return "empty" }
func (e *Empty) Children() []Node { return nil }

func IsEmpty(n Node) bool {
	_, ok := n.(*Empty)
	return ok
}

// IsValue reports whether n has no children.
func IsValue(n Node) bool {
	return len(n.Children()) == 0
}

func NativeBoolToLiteral(b bool) *Literal {
	if b {
		return TRUE
	}
	return FALSE
}

func inspectAll(nodes []Node) string {
	var out strings.Builder
	out.WriteString("(")
	for i, n := range nodes {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(n.Inspect())
	}
	out.WriteString(")")
	return out.String()
}
