package object

import (
	"log/slog"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one scope. Children point at their parent through Outer;
// a parent never references its children, so a scope lives exactly as long
// as some closure or active call still reaches it.
type Environment struct {
	ID       uint64
	Bindings map[string]Node
	Outer    *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]Node),
	}
}

// NewEnclosedEnvironment creates an empty scope inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new enclosed env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

// Get resolves name in this scope and then outwards.
func (e *Environment) Get(name string) (Node, error) {
	for env := e; env != nil; env = env.Outer {
		if n, ok := env.Bindings[name]; ok {
			return n, nil
		}
	}
	return nil, &ContextError{Symbol: name}
}

// Set binds name in this scope only.
func (e *Environment) Set(name string, n Node) Node {
	e.Bindings[name] = n
	slog.Debug("binding value",
		slog.String("name", name),
		slog.String("kind", string(n.Kind())),
		slog.Uint64("env", e.ID))
	return n
}

// Has reports whether name is bound in this scope, ignoring outer scopes.
func (e *Environment) Has(name string) bool {
	_, ok := e.Bindings[name]
	return ok
}
