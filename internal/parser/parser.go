package parser

import (
	"esq/internal/lexer"
	"esq/internal/object"
	"esq/internal/types"
	"math/big"
	"strings"
)

// Parse reads every top-level expression in program.
func Parse(program string) ([]object.Node, error) {
	tokens, err := lexer.Tokenize(lexer.Normalize(program))
	if err != nil {
		return nil, err
	}

	nodes := make([]object.Node, 0, len(tokens))
	for _, tok := range tokens {
		n, err := parseNode(tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ParseValueAndType splits a "name:type" declaration.
func ParseValueAndType(decl string) (string, string, error) {
	parts := strings.FieldsFunc(decl, func(r rune) bool {
		return r == ' ' || r == ':'
	})
	if len(parts) != 2 {
		return "", "", &object.ParseError{
			Message:  "Error: expected expression of kind identifier:type, given " + decl + ".",
			Fragment: decl,
		}
	}
	return parts[0], parts[1], nil
}

func parseNode(tok string) (object.Node, error) {
	opens := strings.HasPrefix(tok, "(")
	closes := strings.HasSuffix(tok, ")")
	if opens != closes {
		return nil, &object.ParseError{Fragment: tok}
	}
	if !opens {
		return parseAtom(tok), nil
	}

	inner, err := lexer.Tokenize(tok[1 : len(tok)-1])
	if err != nil {
		return nil, err
	}
	list := &object.List{Elements: make([]object.Node, 0, len(inner))}
	for _, part := range inner {
		n, err := parseNode(part)
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, n)
	}
	return list, nil
}

// parseAtom classifies in order: integer, boolean, string, symbol.
func parseAtom(tok string) object.Node {
	switch {
	case isInteger(tok):
		return &object.Literal{Text: tok, Typ: types.Int}
	case isBool(tok):
		return object.NativeBoolToLiteral(strings.EqualFold(tok, "true"))
	case isString(tok):
		return &object.Literal{Text: tok, Typ: types.String}
	}
	return &object.Symbol{Name: tok}
}

func isInteger(s string) bool {
	if s == "+" || s == "-" {
		return false
	}
	_, ok := new(big.Int).SetString(s, 10)
	return ok
}

func isBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func isString(s string) bool {
	return len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\''
}
