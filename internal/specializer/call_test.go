package specializer

import (
	"testing"

	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

func TestFoldBuiltinAddProducesConstInt(t *testing.T) {
	s := New()
	f := ir.NewFrame(nil, nil)
	call := ir.RawCall(ir.NoAnchor, ir.NewBuiltin(ir.NoAnchor, "Add"), []ir.Value{constInt(1), constInt(2)})

	got, err := s.Specialize(evalctx.New(f), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ci, ok := got.(*ir.ConstInt)
	if !ok {
		t.Fatalf("expected folding to produce a *ir.ConstInt, not a Call, got %T", got)
	}
	if ci.V != 3 {
		t.Fatalf("expected 1 + 2 = 3, got %d", ci.V)
	}
}

func TestFoldBuiltinDivisionByZeroIsNotFolded(t *testing.T) {
	call := ir.RawCall(ir.NoAnchor, ir.NewBuiltin(ir.NoAnchor, "SDiv"), []ir.Value{constInt(1), constInt(0)})
	s := New()
	f := ir.NewFrame(nil, nil)
	got, err := s.Specialize(evalctx.New(f), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(*ir.Call); !ok {
		t.Fatalf("expected a division by a constant zero to stay an unfolded *ir.Call, got %T", got)
	}
}

func TestFoldBuiltinNonConstantOperandsStaysCall(t *testing.T) {
	extern := ir.NewExtern(ir.NoAnchor, "x", false, i32())
	call := ir.RawCall(ir.NoAnchor, ir.NewBuiltin(ir.NoAnchor, "Add"), []ir.Value{extern, constInt(1)})
	s := New()
	f := ir.NewFrame(nil, nil)
	got, err := s.Specialize(evalctx.New(f), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(*ir.Call); !ok {
		t.Fatalf("expected a non-constant operand to stay an unfolded *ir.Call, got %T", got)
	}
}

func TestFoldBuiltinInvalidOperandsStillErrorsThroughCheck(t *testing.T) {
	call := ir.RawCall(ir.NoAnchor, ir.NewBuiltin(ir.NoAnchor, "Add"), []ir.Value{
		ir.NewConstInt(ir.NoAnchor, typesys.NewInteger(32, true), 1),
		ir.NewConstInt(ir.NoAnchor, typesys.NewInteger(64, true), 2),
	})
	s := New()
	f := ir.NewFrame(nil, nil)
	if _, err := s.Specialize(evalctx.New(f), call); err == nil || !diag.Is(err, diag.InvalidOperands) {
		t.Fatalf("expected invalid_operands for mismatched widths, got %v", err)
	}
}

// TestSpecializeClosureCallCachesByArgumentTypeVector exercises the
// function cache directly: two calls with the same argument types to the
// same template in the same frame must share one specialized Function
// (spec §3 invariant, §4.9).
func TestSpecializeClosureCallCachesByArgumentTypeVector(t *testing.T) {
	s := New()
	top := ir.NewFrame(nil, nil)
	nParam := ir.NewSymbol(ir.NoAnchor, "n")
	tmpl := ir.NewTemplate(ir.NoAnchor, "id", []*ir.Symbol{nParam}, nil, top, false, false)
	tmpl.Body = ir.NewReturn(ir.NoAnchor, nParam)
	closure := ir.NewConstClosure(ir.NoAnchor, tmpl, top)
	fnSym := ir.NewSymbol(ir.NoAnchor, "id")
	frame.Bind(top, fnSym, closure)

	call1 := ir.RawCall(ir.NoAnchor, fnSym, []ir.Value{constInt(1)})
	call2 := ir.RawCall(ir.NoAnchor, fnSym, []ir.Value{constInt(2)})

	got1, err := s.Specialize(evalctx.New(top), call1)
	if err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	got2, err := s.Specialize(evalctx.New(top), call2)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	c1, ok1 := got1.(*ir.Call)
	c2, ok2 := got2.(*ir.Call)
	if !ok1 || !ok2 {
		t.Fatalf("expected both calls to specialize to *ir.Call, got %T and %T", got1, got2)
	}
	fn1, ok1 := c1.Callee.(*ir.Function)
	fn2, ok2 := c2.Callee.(*ir.Function)
	if !ok1 || !ok2 {
		t.Fatalf("expected both callees to be the specialized *ir.Function, got %T and %T", c1.Callee, c2.Callee)
	}
	if fn1 != fn2 {
		t.Fatalf("expected the same argument-type vector against the same template to reuse one cached Function")
	}
}

// TestSpecializeInlineCallNeverSynthesizesReturn exercises spec §8
// invariant 8 ("inline templates never synthesize a Return"): calling an
// inline template as a plain value (Symbol target) must yield the bare
// computed value, never an *ir.Return wrapping it.
func TestSpecializeInlineCallNeverSynthesizesReturn(t *testing.T) {
	s := New()
	top := ir.NewFrame(nil, nil)
	nParam := ir.NewSymbol(ir.NoAnchor, "n")
	tmpl := ir.NewTemplate(ir.NoAnchor, "double", []*ir.Symbol{nParam}, nil, top, true, false)
	tmpl.Body = ir.RawCall(ir.NoAnchor, ir.NewBuiltin(ir.NoAnchor, "Add"), []ir.Value{nParam, nParam})
	closure := ir.NewConstClosure(ir.NoAnchor, tmpl, top)
	fnSym := ir.NewSymbol(ir.NoAnchor, "double")
	frame.Bind(top, fnSym, closure)

	call := ir.RawCall(ir.NoAnchor, fnSym, []ir.Value{constInt(21)})
	got, err := s.Specialize(evalctx.New(top), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(*ir.Return); ok {
		t.Fatalf("expected an inline call's value use to never synthesize a *ir.Return, got %T", got)
	}
	ci, ok := got.(*ir.ConstInt)
	if !ok || ci.V != 42 {
		t.Fatalf("expected the inline-expanded and folded result 42, got %v", got)
	}
}

func TestVariadicSymbolNotInLastPositionFails(t *testing.T) {
	s := New()
	top := ir.NewFrame(nil, nil)
	first := ir.NewVariadicSymbol(ir.NoAnchor, "rest")
	second := ir.NewSymbol(ir.NoAnchor, "tail")
	let := ir.NewLet(ir.NoAnchor)
	let.Symbols = []*ir.Symbol{first, second}
	let.Values = []ir.Value{constInt(1), constInt(2)}

	if _, err := s.Specialize(evalctx.New(top), let); err == nil || !diag.Is(err, diag.VariadicSymbolNotInLastPlace) {
		t.Fatalf("expected variadic_symbol_not_in_last_place, got %v", err)
	}
}
