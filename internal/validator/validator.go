// Package validator holds the arity and type assertions shared by the
// built-ins and the evaluator. Each assertion returns a non-nil error when
// it is violated.
package validator

import (
	"esq/internal/object"
	"esq/internal/types"
)

func AssertArity(operator string, expected, given int) error {
	if expected != given {
		return &object.ArityError{Operator: operator, Expected: expected, Given: given}
	}
	return nil
}

func AssertArgCount(operator string, expected int, args []object.Node) error {
	return AssertArity(operator, expected, len(args))
}

// AssertType requires n to carry the expected type. The empty list
// satisfies every list type.
func AssertType(operator string, expected types.Type, n object.Node) error {
	if types.IsList(expected) && object.IsEmpty(n) {
		return nil
	}
	if !types.Equal(n.Type(), expected) {
		return &object.TypeError{
			Operator: operator,
			Expected: expected.String(),
			Given:    n.Type().String(),
		}
	}
	return nil
}

// AssertListHomogeneous requires every element of elems to share the
// type of candidate.
func AssertListHomogeneous(candidate object.Node, elems []object.Node) error {
	for _, e := range elems {
		if !types.Equal(e.Type(), candidate.Type()) {
			return object.NewRuntimeError("Error: a list must have all arguments of the same type")
		}
	}
	return nil
}
