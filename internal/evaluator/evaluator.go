package evaluator

import (
	"esq/internal/object"
	"esq/internal/validator"
	"log/slog"
	"strings"
)

const (
	LAMBDA = "lambda"
	DEFINE = "define"
	IF     = "if"
	LOCAL  = "local"
	BEGIN  = "begin"
)

// Evaluator interprets nodes. The zero value has no depth limit.
type Evaluator struct {
	// MaxDepth bounds the nesting of Interpret calls; 0 disables the check
	// and lets deep recursion grow the native stack.
	MaxDepth int

	depth int
}

func New(maxDepth int) *Evaluator {
	return &Evaluator{MaxDepth: maxDepth}
}

// Interpret evaluates node in env with an unlimited evaluator.
func Interpret(node object.Node, env *object.Environment) (object.Node, error) {
	return (&Evaluator{}).Interpret(node, env)
}

func (e *Evaluator) Interpret(node object.Node, env *object.Environment) (object.Node, error) {
	if e.MaxDepth > 0 {
		e.depth++
		defer func() { e.depth-- }()
		if e.depth > e.MaxDepth {
			return nil, object.NewRuntimeError("Error: maximum evaluation depth of %d exceeded.", e.MaxDepth)
		}
	}

	switch node := node.(type) {
	case *object.Symbol:
		return env.Get(node.Name)

	case *object.List:
		if len(node.Elements) == 0 {
			return node, nil
		}
		if sym, ok := node.Elements[0].(*object.Symbol); ok {
			switch {
			case strings.HasPrefix(sym.Name, LAMBDA):
				return e.evalLambda(node)
			case sym.Name == DEFINE:
				return e.evalDefine(node, env)
			case sym.Name == IF:
				return e.evalIf(node, env)
			case sym.Name == LOCAL:
				return e.evalLocal(node, env)
			case sym.Name == BEGIN:
				return e.evalBegin(node, env)
			}
		}
		return e.evalCall(node, env)

	case nil:
		return nil, object.ErrUnreachable
	}

	// literals, empty and procedure values evaluate to themselves
	return node, nil
}

func (e *Evaluator) evalCall(node *object.List, env *object.Environment) (object.Node, error) {
	fn, err := e.Interpret(node.Elements[0], env)
	if err != nil {
		return nil, err
	}

	args := make([]object.Node, 0, len(node.Elements)-1)
	for _, a := range node.Elements[1:] {
		arg, err := e.Interpret(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	name := ""
	if sym, ok := node.Elements[0].(*object.Symbol); ok {
		name = sym.Name
	}
	return e.applyFunction(name, fn, args, env)
}

func (e *Evaluator) applyFunction(name string, fn object.Node, args []object.Node, env *object.Environment) (object.Node, error) {
	switch fn := fn.(type) {
	case *object.Lambda:
		if name == "" {
			name = fn.Signature()
		}
		outer := fn.Env
		if outer == nil {
			outer = env
		}
		callEnv := object.NewEnclosedEnvironment(outer)

		if err := validator.AssertArgCount(name, len(fn.Params), args); err != nil {
			return nil, err
		}
		for i, param := range fn.Params {
			if err := validator.AssertType(name, param.Type, args[i]); err != nil {
				return nil, err
			}
			callEnv.Set(param.Name, args[i])
		}

		slog.Debug("apply lambda",
			slog.String("name", name),
			slog.String("signature", fn.Typ.String()),
			slog.Bool("captured", fn.Env != nil))
		return e.Interpret(fn.Body, callEnv)

	case *object.Builtin:
		if fn.Fn == nil {
			return nil, object.NewRuntimeError("Undefined procedure: %s.", fn.Name)
		}
		return fn.Fn(args...)
	}

	return nil, object.NewRuntimeError("Undefined procedure: %s.", fn.Inspect())
}
