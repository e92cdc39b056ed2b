package evaluator

import (
	"esq/internal/object"
	"esq/internal/parser"
	"esq/internal/types"
	"esq/internal/validator"
	"fmt"
	"log/slog"
	"strings"
)

// evalLambda turns (lambda:R (params...) body) into a Lambda value. No
// scope is captured here.
func (e *Evaluator) evalLambda(node *object.List) (object.Node, error) {
	if err := validator.AssertArity(LAMBDA, 2, len(node.Elements)-1); err != nil {
		return nil, err
	}

	keyword := node.Elements[0].(*object.Symbol).Name
	lambdaName, returnTag, err := parser.ParseValueAndType(keyword)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(lambdaName, LAMBDA) {
		return nil, object.ErrUnreachable
	}
	returnType, err := parseDeclaredType(returnTag, keyword)
	if err != nil {
		return nil, err
	}

	paramList, ok := node.Elements[1].(*object.List)
	if !ok {
		return nil, object.NewRuntimeError("Error: lambda expects a parameter list, given %s.", node.Elements[1].Inspect())
	}

	lambda := &object.Lambda{
		Params: make([]object.Param, 0, len(paramList.Elements)),
		Body:   node.Elements[2],
	}
	paramTypes := make([]types.Type, 0, len(paramList.Elements))
	for _, p := range paramList.Elements {
		decl := declaration(p)
		name, tag, err := parser.ParseValueAndType(decl)
		if err != nil {
			return nil, err
		}
		typ, err := parseDeclaredType(tag, decl)
		if err != nil {
			return nil, err
		}
		lambda.Params = append(lambda.Params, object.Param{Name: name, Type: typ})
		paramTypes = append(paramTypes, typ)
	}
	lambda.Typ = types.Proc{Params: paramTypes, Result: returnType}

	slog.Debug("lambda", slog.String("signature", lambda.Signature()))
	return lambda, nil
}

// declaration reads a parameter written as n:int, (n:int) or (n int).
func declaration(p object.Node) string {
	l, ok := p.(*object.List)
	if !ok {
		return p.Inspect()
	}
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return strings.Join(parts, " ")
}

func parseDeclaredType(tag, decl string) (types.Type, error) {
	typ, err := types.Parse(tag)
	if err != nil {
		return nil, &object.ParseError{
			Message:  fmt.Sprintf("Error: invalid type %s in %s: %v.", tag, decl, err),
			Fragment: decl,
		}
	}
	return typ, nil
}

func (e *Evaluator) evalDefine(node *object.List, env *object.Environment) (object.Node, error) {
	if err := validator.AssertArity(DEFINE, 2, len(node.Elements)-1); err != nil {
		return nil, err
	}
	sym, ok := node.Elements[1].(*object.Symbol)
	if !ok {
		return nil, object.NewRuntimeError("Error: define expects a symbol, given %s.", node.Elements[1].Inspect())
	}
	val, err := e.Interpret(node.Elements[2], env)
	if err != nil {
		return nil, err
	}
	return env.Set(sym.Name, val), nil
}

// evalIf evaluates exactly one branch.
func (e *Evaluator) evalIf(node *object.List, env *object.Environment) (object.Node, error) {
	if err := validator.AssertArity(IF, 3, len(node.Elements)-1); err != nil {
		return nil, err
	}
	test, err := e.Interpret(node.Elements[1], env)
	if err != nil {
		return nil, err
	}
	if err := validator.AssertType("if's test", types.Bool, test); err != nil {
		return nil, err
	}
	if lit, ok := test.(*object.Literal); ok && lit.IsTrue() {
		return e.Interpret(node.Elements[2], env)
	}
	return e.Interpret(node.Elements[3], env)
}

// evalLocal runs the definitions in a fresh scope and evaluates the result
// there. A lambda result is returned as a copy that captures this scope,
// replacing any scope it captured before.
func (e *Evaluator) evalLocal(node *object.List, env *object.Environment) (object.Node, error) {
	if err := validator.AssertArity(LOCAL, 2, len(node.Elements)-1); err != nil {
		return nil, err
	}
	defs, ok := node.Elements[1].(*object.List)
	if !ok {
		return nil, object.NewRuntimeError("Error: local expects a list of definitions, given %s.", node.Elements[1].Inspect())
	}

	localEnv := object.NewEnclosedEnvironment(env)
	for _, stmt := range defs.Elements {
		if _, err := e.Interpret(stmt, localEnv); err != nil {
			return nil, err
		}
	}

	result, err := e.Interpret(node.Elements[2], localEnv)
	if err != nil {
		return nil, err
	}
	if lambda, ok := result.(*object.Lambda); ok {
		slog.Debug("closure captured", slog.Uint64("env", localEnv.ID))
		return lambda.WithEnv(localEnv), nil
	}
	return result, nil
}

func (e *Evaluator) evalBegin(node *object.List, env *object.Environment) (object.Node, error) {
	var result object.Node = object.EMPTY
	for _, stmt := range node.Elements[1:] {
		var err error
		if result, err = e.Interpret(stmt, env); err != nil {
			return nil, err
		}
	}
	return result, nil
}
