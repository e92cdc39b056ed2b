package evaluator

import (
	"esq/internal/object"
	"esq/internal/types"
	"esq/internal/validator"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/nukata/goarith"
)

var builtins = map[string]*object.Builtin{
	// arithmetic
	"+": funcSum(),
	"-": funcDifference(),
	"*": funcProduct(),
	"<": funcLessThan(),

	// logic
	"not": funcNot(),
	"and": funcAnd(),

	// list functions
	"empty?": funcEmptyTest(),
	"first":  funcFirst(),
	"rest":   funcRest(),
	"cons":   funcCons(),
	"list":   funcList(),
}

// NewRootEnvironment returns a scope holding every built-in procedure and
// the true, false and empty constants.
func NewRootEnvironment() *object.Environment {
	env := object.NewEnvironment()
	for name, b := range builtins {
		env.Set(name, b)
	}
	env.Set("true", object.TRUE)
	env.Set("false", object.FALSE)
	env.Set("empty", object.EMPTY)
	slog.Debug("new root env", slog.Uint64("id", env.ID), slog.Int("builtins", len(builtins)))
	return env
}

func newBuiltin(name, signature string, fn object.BuiltinFunction) *object.Builtin {
	return &object.Builtin{Name: name, Typ: types.MustParse(signature), Fn: fn}
}

func toNumber(n object.Node) (goarith.Number, error) {
	z, ok := new(big.Int).SetString(n.Inspect(), 10)
	if !ok {
		return nil, object.NewRuntimeError("Error: %s is not an integer.", n.Inspect())
	}
	return goarith.AsNumber(z), nil
}

// integerOperands checks a binary integer call and converts both operands.
func integerOperands(name string, args []object.Node) (goarith.Number, goarith.Number, error) {
	if err := validator.AssertArgCount(name, 2, args); err != nil {
		return nil, nil, err
	}
	for _, a := range args {
		if err := validator.AssertType(name, types.Int, a); err != nil {
			return nil, nil, err
		}
	}
	x, err := toNumber(args[0])
	if err != nil {
		return nil, nil, err
	}
	y, err := toNumber(args[1])
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func integerLiteral(n goarith.Number) *object.Literal {
	return &object.Literal{Text: fmt.Sprint(n), Typ: types.Int}
}

func arithmetic(name string, op func(x, y goarith.Number) goarith.Number) *object.Builtin {
	return newBuiltin(name, "int,int->int", func(args ...object.Node) (object.Node, error) {
		x, y, err := integerOperands(name, args)
		if err != nil {
			return nil, err
		}
		return integerLiteral(op(x, y)), nil
	})
}

func funcSum() *object.Builtin {
	return arithmetic("+", func(x, y goarith.Number) goarith.Number { return x.Add(y) })
}

func funcDifference() *object.Builtin {
	return arithmetic("-", func(x, y goarith.Number) goarith.Number { return x.Sub(y) })
}

func funcProduct() *object.Builtin {
	return arithmetic("*", func(x, y goarith.Number) goarith.Number { return x.Mul(y) })
}

func funcLessThan() *object.Builtin {
	return newBuiltin("<", "int,int->bool", func(args ...object.Node) (object.Node, error) {
		x, y, err := integerOperands("<", args)
		if err != nil {
			return nil, err
		}
		return object.NativeBoolToLiteral(x.Cmp(y) < 0), nil
	})
}

func boolOperands(name string, count int, args []object.Node) error {
	if err := validator.AssertArgCount(name, count, args); err != nil {
		return err
	}
	for _, a := range args {
		if err := validator.AssertType(name, types.Bool, a); err != nil {
			return err
		}
	}
	return nil
}

func isTrue(n object.Node) bool {
	lit, ok := n.(*object.Literal)
	return ok && lit.IsTrue()
}

func funcNot() *object.Builtin {
	return newBuiltin("not", "bool->bool", func(args ...object.Node) (object.Node, error) {
		if err := boolOperands("not", 1, args); err != nil {
			return nil, err
		}
		return object.NativeBoolToLiteral(!isTrue(args[0])), nil
	})
}

// funcAnd receives both operands already evaluated.
func funcAnd() *object.Builtin {
	return newBuiltin("and", "bool,bool->bool", func(args ...object.Node) (object.Node, error) {
		if err := boolOperands("and", 2, args); err != nil {
			return nil, err
		}
		return object.NativeBoolToLiteral(isTrue(args[0]) && isTrue(args[1])), nil
	})
}

func funcEmptyTest() *object.Builtin {
	return newBuiltin("empty?", "x->bool", func(args ...object.Node) (object.Node, error) {
		if err := validator.AssertArgCount("empty?", 1, args); err != nil {
			return nil, err
		}
		return object.NativeBoolToLiteral(object.IsEmpty(args[0])), nil
	})
}

// funcFirst returns the head of a list, or empty for the empty list.
func funcFirst() *object.Builtin {
	return newBuiltin("first", "[x]->x", func(args ...object.Node) (object.Node, error) {
		if err := validator.AssertArgCount("first", 1, args); err != nil {
			return nil, err
		}
		if object.IsEmpty(args[0]) {
			return object.EMPTY, nil
		}
		l, ok := args[0].(*object.List)
		if !ok {
			return nil, &object.TypeError{Operator: "first", Expected: "[x]", Given: args[0].Type().String()}
		}
		if len(l.Elements) == 0 {
			return object.EMPTY, nil
		}
		return l.Elements[0], nil
	})
}

// funcRest drops the head of a list. Anything shorter than two elements
// yields empty.
func funcRest() *object.Builtin {
	return newBuiltin("rest", "[x]->[x]", func(args ...object.Node) (object.Node, error) {
		if err := validator.AssertArgCount("rest", 1, args); err != nil {
			return nil, err
		}
		l, ok := args[0].(*object.List)
		if !ok {
			if object.IsValue(args[0]) {
				return object.EMPTY, nil
			}
			return nil, &object.TypeError{Operator: "rest", Expected: "[x]", Given: args[0].Type().String()}
		}
		if len(l.Elements) < 2 {
			return object.EMPTY, nil
		}
		elements := make([]object.Node, len(l.Elements)-1)
		copy(elements, l.Elements[1:])
		return &object.List{Elements: elements, Typ: l.Typ}, nil
	})
}

func funcCons() *object.Builtin {
	return newBuiltin("cons", "x,[x]->[x]", func(args ...object.Node) (object.Node, error) {
		if err := validator.AssertArgCount("cons", 2, args); err != nil {
			return nil, err
		}
		head, tail := args[0], args[1]
		listType := types.ListOf(head.Type())

		elements := []object.Node{head}
		if !object.IsEmpty(tail) {
			l, ok := tail.(*object.List)
			if !ok {
				return nil, &object.TypeError{Operator: "cons", Expected: listType.String(), Given: tail.Type().String()}
			}
			for _, el := range l.Elements {
				if !types.Equal(el.Type(), head.Type()) {
					return nil, &object.TypeError{Operator: "cons", Expected: listType.String(), Given: tail.Type().String()}
				}
			}
			elements = append(elements, l.Elements...)
		}
		return &object.List{Elements: elements, Typ: listType}, nil
	})
}

func funcList() *object.Builtin {
	return newBuiltin("list", "x,x,...,x->[x]", func(args ...object.Node) (object.Node, error) {
		if len(args) == 0 {
			return object.EMPTY, nil
		}
		if err := validator.AssertListHomogeneous(args[0], args); err != nil {
			return nil, err
		}
		elements := make([]object.Node, len(args))
		copy(elements, args)
		return &object.List{Elements: elements, Typ: types.ListOf(args[0].Type())}, nil
	})
}
