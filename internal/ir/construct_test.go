package ir

import (
	"testing"

	"github.com/LunNova/fundament-scopes/internal/typesys"
)

func TestRawCallIsUntypedUntilNewCall(t *testing.T) {
	callee := NewExtern(NoAnchor, "f", false, typesys.FunctionType(typesys.NewInteger(32, true), nil))
	raw := RawCall(NoAnchor, callee, nil)
	if raw.Typed() {
		t.Fatalf("expected RawCall to produce an untyped node")
	}
	typed := NewCall(NoAnchor, callee, nil, false, typesys.NewInteger(32, true))
	if !typed.Typed() {
		t.Fatalf("expected NewCall to mark the node typed")
	}
}

func TestRawIfIsUntypedUntilNewIf(t *testing.T) {
	raw := RawIf(NoAnchor, nil, NewConstInt(NoAnchor, typesys.NewInteger(32, true), 1))
	if raw.Typed() {
		t.Fatalf("expected RawIf to produce an untyped node")
	}
	typed := NewIf(NoAnchor, nil, NewConstInt(NoAnchor, typesys.NewInteger(32, true), 1), typesys.NewInteger(32, true))
	if !typed.Typed() {
		t.Fatalf("expected NewIf to mark the node typed")
	}
}

func TestBuildArgumentListCollapsesSingleElement(t *testing.T) {
	elem := NewConstInt(NoAnchor, typesys.NewInteger(32, true), 1)
	got := BuildArgumentList(NoAnchor, []Value{elem})
	if got != elem {
		t.Fatalf("expected a single-element argument list to collapse to its element directly, got %v", got)
	}
}

func TestBuildArgumentListWrapsMultipleElements(t *testing.T) {
	a := NewConstInt(NoAnchor, typesys.NewInteger(32, true), 1)
	b := NewConstInt(NoAnchor, typesys.NewInteger(64, true), 2)
	got := BuildArgumentList(NoAnchor, []Value{a, b})
	al, ok := got.(*ArgumentList)
	if !ok {
		t.Fatalf("expected *ArgumentList for more than one element, got %T", got)
	}
	if len(al.Elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(al.Elems))
	}
	if !typesys.IsArguments(al.Type()) {
		t.Fatalf("expected the ArgumentList's type to report IsArguments, got %s", al.Type())
	}
}

func TestExtractArgumentAtFromArgumentListReadsElementDirectly(t *testing.T) {
	a := NewConstInt(NoAnchor, typesys.NewInteger(32, true), 1)
	b := NewConstInt(NoAnchor, typesys.NewInteger(64, true), 2)
	al := BuildArgumentList(NoAnchor, []Value{a, b})

	got0 := ExtractArgumentAt(NoAnchor, al, 0)
	if got0 != a {
		t.Fatalf("expected index 0 to return the first element directly, got %v", got0)
	}
	got2 := ExtractArgumentAt(NoAnchor, al, 2)
	if _, ok := got2.(*None); !ok {
		t.Fatalf("expected an out-of-range index to return None, got %T", got2)
	}
}

func TestExtractArgumentAtFromOpaqueSingleValueReturnsItself(t *testing.T) {
	v := NewConstInt(NoAnchor, typesys.NewInteger(32, true), 7)
	got := ExtractArgumentAt(NoAnchor, v, 0)
	if got != v {
		t.Fatalf("expected index 0 on a non-arguments value to return the value itself, got %v", got)
	}
	none := ExtractArgumentAt(NoAnchor, v, 1)
	if _, ok := none.(*None); !ok {
		t.Fatalf("expected index 1 on a single value to return None, got %T", none)
	}
}

func TestNewVariadicSymbolMarksVariadic(t *testing.T) {
	sym := NewVariadicSymbol(NoAnchor, "rest")
	if !sym.Variadic {
		t.Fatalf("expected NewVariadicSymbol to set Variadic")
	}
	plain := NewSymbol(NoAnchor, "x")
	if plain.Variadic {
		t.Fatalf("expected NewSymbol to leave Variadic false")
	}
}

func TestNewFunctionStartsIncompleteAndUntyped(t *testing.T) {
	top := NewFrame(nil, nil)
	tmpl := NewTemplate(NoAnchor, "f", nil, nil, top, false, false)
	fn := NewFunction(NoAnchor, "f", tmpl, top, nil)
	if fn.Typed() {
		t.Fatalf("expected a freshly allocated Function to be untyped until specialization sets its pointer type")
	}
	if fn.Complete {
		t.Fatalf("expected a freshly allocated Function to start incomplete")
	}
	if fn.Frame == nil || fn.Frame.Parent != top {
		t.Fatalf("expected the Function's own Frame to chain to its parent")
	}
}

func TestNewConstClosureIsClosureTyped(t *testing.T) {
	top := NewFrame(nil, nil)
	tmpl := NewTemplate(NoAnchor, "f", nil, nil, top, false, false)
	c := NewConstClosure(NoAnchor, tmpl, top)
	if c.Type().Kind() != typesys.NewClosure().Kind() {
		t.Fatalf("expected a ConstClosure to be typed as Closure, got %s", c.Type())
	}
}
