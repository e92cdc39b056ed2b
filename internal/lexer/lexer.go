package lexer

import (
	"esq/internal/object"
	"regexp"
	"strings"
)

var (
	controlSpace = regexp.MustCompile(`[\n\r\t]`)
	spaceRun     = regexp.MustCompile(` +`)
	openSpace    = regexp.MustCompile(`\( +`)
	spaceClose   = regexp.MustCompile(` +\)`)
	closeOpen    = regexp.MustCompile(`\)\(`)
)

// Normalize rewrites whitespace so that every token is delimited by a
// single space or a parenthesis.
func Normalize(s string) string {
	s = controlSpace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = openSpace.ReplaceAllString(s, "(")
	s = spaceClose.ReplaceAllString(s, ")")
	s = closeOpen.ReplaceAllString(s, ") (")
	return s
}

// Tokenize splits normalized text at the spaces that sit outside any
// parentheses. Empty tokens are dropped.
func Tokenize(program string) ([]string, error) {
	var parts []string
	start, depth := 0, 0

	for i := 0; i < len(program); i++ {
		switch program[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, &object.ParseError{Fragment: program}
			}
		}
		if depth == 0 && (program[i] == ' ' || i == len(program)-1) {
			parts = append(parts, program[start:i+1])
			start = i + 1
		}
	}

	if depth != 0 {
		return nil, &object.ParseError{Fragment: program}
	}

	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.Trim(p, " "); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens, nil
}

// Depth is the number of parentheses opened and not yet closed in s.
func Depth(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}
