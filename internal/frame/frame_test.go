package frame

import (
	"testing"

	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

func TestLookupWalksParentChain(t *testing.T) {
	parent := ir.NewFrame(nil, nil)
	child := ir.NewFrame(parent, nil)
	sym := ir.NewSymbol(ir.NoAnchor, "x")
	repl := ir.NewConstInt(ir.NoAnchor, typesys.NewInteger(32, true), 1)
	Bind(parent, sym, repl)

	got, ok := Lookup(child, sym)
	if !ok || got != repl {
		t.Fatalf("expected lookup through parent to find binding, got %v, %v", got, ok)
	}
}

func TestLookupMissingReportsNotFound(t *testing.T) {
	f := ir.NewFrame(nil, nil)
	if _, ok := Lookup(f, ir.NewSymbol(ir.NoAnchor, "y")); ok {
		t.Fatalf("expected unbound symbol to report not found")
	}
}

func TestFindOwningSkipsInlineFrames(t *testing.T) {
	top := ir.NewFrame(nil, nil)
	inline := ir.NewFrame(top, ir.NewTemplate(ir.NoAnchor, "f", nil, nil, top, true, false))
	nested := ir.NewFrame(inline, ir.NewTemplate(ir.NoAnchor, "g", nil, nil, inline, true, false))

	owner, err := FindOwning(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != top {
		t.Fatalf("expected FindOwning to walk past every inline frame to top, got %p want %p", owner, top)
	}
}

func TestFindOwningExhaustedChainFails(t *testing.T) {
	top := ir.NewFrame(nil, ir.NewTemplate(ir.NoAnchor, "f", nil, nil, nil, true, false))
	if _, err := FindOwning(top); err == nil {
		t.Fatalf("expected an all-inline chain with no non-inline root to fail")
	} else if !diag.Is(err, diag.CannotFindFrame) {
		t.Fatalf("expected CannotFindFrame, got %v", err)
	}
}

func TestMergeReturnTypeUnknownJoinsToOther(t *testing.T) {
	i32 := typesys.NewInteger(32, true)
	got, err := MergeReturnType(ir.NoAnchor, typesys.NewUnknown(), i32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !typesys.Equal(got, i32) {
		t.Fatalf("expected unknown to join to %s, got %s", i32, got)
	}
}

func TestMergeReturnTypeNoReturnLosesToReturning(t *testing.T) {
	i32 := typesys.NewInteger(32, true)
	got, err := MergeReturnType(ir.NoAnchor, typesys.NewNoReturn(), i32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !typesys.Equal(got, i32) {
		t.Fatalf("expected NoReturn to lose to %s, got %s", i32, got)
	}
	got2, err := MergeReturnType(ir.NoAnchor, i32, typesys.NewNoReturn())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !typesys.Equal(got2, i32) {
		t.Fatalf("expected %s to win over NoReturn regardless of side, got %s", i32, got2)
	}
}

func TestMergeReturnTypeDistinctTypesFail(t *testing.T) {
	i32 := typesys.NewInteger(32, true)
	b := typesys.NewBool()
	if _, err := MergeReturnType(ir.NoAnchor, i32, b); err == nil {
		t.Fatalf("expected merging distinct returning types to fail")
	} else if !diag.Is(err, diag.CannotMergeExpressionTypes) {
		t.Fatalf("expected CannotMergeExpressionTypes, got %v", err)
	}
}

func TestJoinReturnTypeMutatesFrame(t *testing.T) {
	f := ir.NewFrame(nil, nil)
	i32 := typesys.NewInteger(32, true)
	if err := JoinReturnType(f, ir.NoAnchor, i32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !typesys.Equal(f.ReturnType, i32) {
		t.Fatalf("expected frame return type to become %s, got %s", i32, f.ReturnType)
	}
	if err := JoinReturnType(f, ir.NoAnchor, typesys.NewBool()); err == nil {
		t.Fatalf("expected a second, conflicting join to fail")
	}
}
