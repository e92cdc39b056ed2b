// Package types is the static type representation shared by the reader,
// the validator and the evaluator.
//
// Every type renders to the tag grammar used on the wire between those
// components:
//
//	base        int | bool | string | <type variable>
//	list        [T]   ([] for the element-less empty list)
//	procedure   T1,T2,...,Tn->R   (nothing->R without parameters)
package types

import (
	"fmt"
	"strings"
)

type Type interface {
	String() string
	isType()
}

// Basic is a named base type. Names other than int, bool and string act
// as type variables in built-in signatures ("x").
type Basic string

const (
	Int     Basic = "int"
	Bool    Basic = "bool"
	String  Basic = "string"
	Untyped Basic = ""
)

func (b Basic) String() string { return string(b) }
func (Basic) isType()          {}

// List is a homogeneous list type. A nil Elem is the type of the empty
// list value.
type List struct {
	Elem Type
}

func (l List) String() string {
	if l.Elem == nil {
		return "[]"
	}
	return "[" + l.Elem.String() + "]"
}
func (List) isType() {}

type Proc struct {
	Params   []Type
	Variadic bool // Params holds the single repeated parameter type
	Result   Type
}

func (p Proc) String() string {
	var sb strings.Builder
	switch {
	case len(p.Params) == 0:
		sb.WriteString("nothing")
	case p.Variadic:
		x := p.Params[0].String()
		sb.WriteString(x + "," + x + ",...," + x)
	default:
		for i, param := range p.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(param.String())
		}
	}
	sb.WriteString("->")
	if p.Result != nil {
		sb.WriteString(p.Result.String())
	}
	return sb.String()
}
func (Proc) isType() {}

// ListOf returns the list type with the given element type.
func ListOf(elem Type) List {
	return List{Elem: elem}
}

// Empty is the type tag of the empty list value.
var Empty = List{}

// IsList reports whether t is a bracketed list type.
func IsList(t Type) bool {
	_, ok := t.(List)
	return ok
}

// Equal compares two types structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Basic:
		bb, ok := b.(Basic)
		return ok && a == bb
	case List:
		bl, ok := b.(List)
		return ok && Equal(a.Elem, bl.Elem)
	case Proc:
		bp, ok := b.(Proc)
		if !ok || a.Variadic != bp.Variadic || len(a.Params) != len(bp.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], bp.Params[i]) {
				return false
			}
		}
		return Equal(a.Result, bp.Result)
	}
	return false
}

// Parse reads a type tag. The first top-level "->" separates parameters
// from the result, so procedure results associate to the right.
func Parse(tag string) (Type, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("empty type")
	}

	if i := topLevelIndex(tag, "->"); i >= 0 {
		result, err := Parse(tag[i+2:])
		if err != nil {
			return nil, err
		}
		params, variadic, err := parseParams(tag[:i])
		if err != nil {
			return nil, err
		}
		return Proc{Params: params, Variadic: variadic, Result: result}, nil
	}

	if tag[0] == '[' {
		if tag[len(tag)-1] != ']' || closingBracket(tag) != len(tag)-1 {
			return nil, fmt.Errorf("malformed list type %q", tag)
		}
		inner := tag[1 : len(tag)-1]
		if strings.TrimSpace(inner) == "" {
			return Empty, nil
		}
		elem, err := Parse(inner)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	}

	if strings.ContainsAny(tag, "[],: ") {
		return nil, fmt.Errorf("malformed type %q", tag)
	}
	return Basic(tag), nil
}

// MustParse is Parse for tags known to be valid, such as built-in
// signatures.
func MustParse(tag string) Type {
	t, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return t
}

func parseParams(s string) ([]Type, bool, error) {
	if strings.TrimSpace(s) == "nothing" {
		return nil, false, nil
	}
	var params []Type
	variadic := false
	for _, part := range splitTopLevel(s, ',') {
		if strings.TrimSpace(part) == "..." {
			variadic = true
			continue
		}
		t, err := Parse(part)
		if err != nil {
			return nil, false, err
		}
		params = append(params, t)
	}
	if variadic {
		if len(params) == 0 {
			return nil, false, fmt.Errorf("variadic signature %q has no parameter type", s)
		}
		params = params[:1]
	}
	return params, variadic, nil
}

func topLevelIndex(s, sep string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			return i
		}
	}
	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// closingBracket returns the index of the bracket closing s[0].
func closingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
