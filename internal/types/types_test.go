package types

import "testing"

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"int",
		"bool",
		"string",
		"x",
		"[]",
		"[int]",
		"[[bool]]",
		"int,int->int",
		"nothing->int",
		"[x]->x",
		"x,[x]->[x]",
		"x,x,...,x->[x]",
		"[int->int]->int",
		"int->int->int",
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			typ, err := Parse(tt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ.String() != tt {
				t.Errorf("expected %q, got %q", tt, typ.String())
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	typ, err := Parse("int,[bool]->string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Proc{Params: []Type{Int, ListOf(Bool)}, Result: String}
	if !Equal(typ, expected) {
		t.Errorf("expected %s, got %s", expected, typ)
	}

	curried, err := Parse("int->int->int")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proc, ok := curried.(Proc)
	if !ok || len(proc.Params) != 1 {
		t.Fatalf("expected a one parameter procedure, got %s", curried)
	}
	if _, ok := proc.Result.(Proc); !ok {
		t.Errorf("expected a procedure result, got %s", proc.Result)
	}

	variadic := MustParse("x,x,...,x->[x]").(Proc)
	if !variadic.Variadic || len(variadic.Params) != 1 {
		t.Errorf("expected a variadic procedure with one parameter type, got %#v", variadic)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{"", "   ", "[int", "int]", "[int]]", "a b", "->int", "int->", "...->[x]"}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			if typ, err := Parse(tt); err == nil {
				t.Errorf("expected an error, got %s", typ)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected bool
	}{
		{"same basic", Int, Int, true},
		{"different basic", Int, Bool, false},
		{"same list", ListOf(Int), ListOf(Int), true},
		{"empty list is not int list", Empty, ListOf(Int), false},
		{"list is not basic", ListOf(Int), Int, false},
		{"same proc", MustParse("int,int->int"), MustParse("int,int->int"), true},
		{"proc result differs", MustParse("int->int"), MustParse("int->bool"), false},
		{"proc arity differs", MustParse("int->int"), MustParse("int,int->int"), false},
		{"untyped", Untyped, Untyped, true},
		{"nil and basic", nil, Int, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equal(%v, %v) = %t, want %t", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestIsList(t *testing.T) {
	if !IsList(Empty) || !IsList(ListOf(Int)) {
		t.Errorf("list types not recognized")
	}
	if IsList(Int) || IsList(MustParse("[int]->int")) {
		t.Errorf("non-list types recognized as lists")
	}
}
