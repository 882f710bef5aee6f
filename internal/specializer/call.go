package specializer

import (
	"fmt"

	"github.com/kr/pretty"

	"github.com/LunNova/fundament-scopes/internal/builtin"
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// specializeCall implements spec §4.8: the largest rule. The callee is
// specialized first, then arguments, then dispatch proceeds on the
// callee's static type. Any error surfacing from this call's own
// machinery is given the call's anchor as a trace frame (spec §7:
// "the call specializer attaches the current Call node to the error
// trace before propagating").
func (s *Specializer) specializeCall(ctx evalctx.Context, c *ir.Call) (ir.Value, error) {
	v, err := s.specializeCallInner(ctx, c)
	if err != nil {
		return nil, diag.AddErrorTrace(c, err)
	}
	return v, nil
}

func (s *Specializer) specializeCallInner(ctx evalctx.Context, c *ir.Call) (ir.Value, error) {
	callee, err := s.Specialize(ctx.WithSymbolTarget(), c.Callee)
	if err != nil {
		return nil, err
	}
	args, err := s.specializeArguments(ctx, c.Args)
	if err != nil {
		return nil, err
	}

	switch callee.Type().Kind() {
	case typesys.Closure:
		return s.specializeClosureCall(ctx, c, callee, args)
	case typesys.ASTMacro:
		return s.specializeMacroCall(ctx, c, callee, args)
	case typesys.Builtin:
		return s.specializeBuiltinCall(c, callee, args)
	case typesys.Function:
		return s.specializeForeignCall(ctx, c, callee, args)
	default:
		return nil, diag.New(diag.InvalidCallType, c.Anchor(), "invalid call type %s", callee.Type())
	}
}

func argTypes(args []ir.Value) []typesys.Type {
	types := make([]typesys.Type, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	return types
}

// specializeClosureCall implements spec §4.8.1.
func (s *Specializer) specializeClosureCall(ctx evalctx.Context, c *ir.Call, callee ir.Value, args []ir.Value) (ir.Value, error) {
	cc, ok := callee.(*ir.ConstClosure)
	if !ok {
		return nil, diag.New(diag.InvalidCallType, c.Anchor(), "invalid call type %s", callee.Type())
	}
	tmpl := cc.Template

	if tmpl.Inline {
		return s.specializeInlineCall(ctx, c, tmpl, cc.Frame, args)
	}

	types := argTypes(args)
	fn, ok := s.Cache.Lookup(cc.Frame, tmpl, types)
	if !ok {
		var err error
		fn, err = s.specializeFunction(cc.Frame, tmpl, types)
		if err != nil {
			return nil, err
		}
	}

	if !fn.Complete && fn.Frame.ReturnType.Kind() == typesys.NoReturn {
		if ctx.Job != nil {
			ctx.Job.Yield()
		}
		if fn.Frame.ReturnType.Kind() == typesys.NoReturn {
			name := tmpl.Name
			return nil, diag.New(diag.UntypedRecursiveCall, c.Anchor(), "call to %q has not yet determined a return type", name)
		}
	}

	ptrType := fn.PointerType()
	return ir.NewCall(c.Anchor(), fn, args, typesys.Raises(ptrType), typesys.ReturnType(ptrType)), nil
}

// specializeInlineCall implements specialize_inline (spec §4.8.1): a
// fresh, non-cached Function-shaped expansion spliced at the call site.
// Binding reuses the Let binding rule, gated by s.InlineConstants; the
// result is either the bare body (every parameter bound symbolically) or
// a Block wrapping a Let of the surviving bindings around the body.
func (s *Specializer) specializeInlineCall(ctx evalctx.Context, c *ir.Call, tmpl *ir.Template, captured *ir.Frame, args []ir.Value) (ir.Value, error) {
	frm := ir.NewFrame(captured, tmpl)
	syms, vals, err := s.bindParams(frm, tmpl.Params, args, s.InlineConstants)
	if err != nil {
		return nil, err
	}
	body, err := s.Specialize(ctx.WithFrame(frm), tmpl.Body)
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return body, nil
	}
	let := ir.NewLet(c.Anchor())
	let.Symbols = syms
	let.Values = vals
	return ir.NewBlock(c.Anchor(), []ir.Value{let}, body, evalctx.VoidRewrite(body.Type())), nil
}

// specializeMacroCall implements spec §4.8.2.
func (s *Specializer) specializeMacroCall(ctx evalctx.Context, c *ir.Call, callee ir.Value, args []ir.Value) (ir.Value, error) {
	macro, ok := callee.(*ir.ASTMacroFunc)
	if !ok {
		return nil, diag.New(diag.InvalidCallType, c.Anchor(), "invalid call type %s", callee.Type())
	}
	expanded, err := macro.Fn(args)
	if err != nil {
		return nil, err
	}
	return s.Specialize(ctx, expanded)
}

// specializeBuiltinCall implements spec §4.8.3 via the builtin package's
// dispatch table.
func (s *Specializer) specializeBuiltinCall(c *ir.Call, callee ir.Value, args []ir.Value) (ir.Value, error) {
	b, ok := callee.(*ir.Builtin)
	if !ok {
		return nil, diag.New(diag.InvalidCallType, c.Anchor(), "invalid call type %s", callee.Type())
	}
	if b.Tag == "Dump" && s.Trace != nil {
		values := make([]any, len(args))
		for i, a := range args {
			values[i] = a
		}
		fmt.Fprintf(s.Trace, "Dump at %s: %s\n", c.Anchor(), pretty.Sprint(values...))
	}
	resultType, err := builtin.Check(c.Anchor(), b.Tag, args)
	if err != nil {
		return nil, err
	}
	switch b.Tag {
	case "Dump":
		return ir.BuildArgumentList(c.Anchor(), args), nil
	case "TypeOf":
		return ir.NewConstType(c.Anchor(), args[0].Type()), nil
	}
	if folded, ok := foldBuiltin(b.Tag, args, resultType); ok {
		return folded, nil
	}
	return ir.NewCall(c.Anchor(), callee, args, false, resultType), nil
}

// foldBuiltin implements the constant-folding Non-goal's one carve-out
// (spec §1: "trivial constant folding"; §8 scenario 1): integer binops
// and compares with every operand a ConstInt fold directly to a ConstInt
// rather than a Call node. Bool results reuse ConstInt (see if.go's
// constBoolValue) for the same reason constant conditions do.
func foldBuiltin(tag string, args []ir.Value, resultType typesys.Type) (ir.Value, bool) {
	if len(args) != 2 {
		return nil, false
	}
	a, ok1 := args[0].(*ir.ConstInt)
	b, ok2 := args[1].(*ir.ConstInt)
	if !ok1 || !ok2 {
		return nil, false
	}
	anchor := args[0].Anchor()
	boolConst := func(v bool) *ir.ConstInt {
		n := int64(0)
		if v {
			n = 1
		}
		return ir.NewConstInt(anchor, resultType, n)
	}
	switch tag {
	case "Add", "AddNUW", "AddNSW":
		return ir.NewConstInt(anchor, resultType, a.V+b.V), true
	case "Sub", "SubNUW", "SubNSW":
		return ir.NewConstInt(anchor, resultType, a.V-b.V), true
	case "Mul", "MulNUW", "MulNSW":
		return ir.NewConstInt(anchor, resultType, a.V*b.V), true
	case "SDiv", "UDiv":
		if b.V == 0 {
			return nil, false
		}
		return ir.NewConstInt(anchor, resultType, a.V/b.V), true
	case "SRem", "URem":
		if b.V == 0 {
			return nil, false
		}
		return ir.NewConstInt(anchor, resultType, a.V%b.V), true
	case "And":
		return ir.NewConstInt(anchor, resultType, a.V&b.V), true
	case "Or":
		return ir.NewConstInt(anchor, resultType, a.V|b.V), true
	case "Xor":
		return ir.NewConstInt(anchor, resultType, a.V^b.V), true
	case "Shl":
		return ir.NewConstInt(anchor, resultType, a.V<<uint(b.V)), true
	case "LShr", "AShr":
		return ir.NewConstInt(anchor, resultType, a.V>>uint(b.V)), true
	case "ICmpEQ":
		return boolConst(a.V == b.V), true
	case "ICmpNE":
		return boolConst(a.V != b.V), true
	case "ICmpSGT", "ICmpUGT":
		return boolConst(a.V > b.V), true
	case "ICmpSGE", "ICmpUGE":
		return boolConst(a.V >= b.V), true
	case "ICmpSLT", "ICmpULT":
		return boolConst(a.V < b.V), true
	case "ICmpSLE", "ICmpULE":
		return boolConst(a.V <= b.V), true
	default:
		return nil, false
	}
}

// specializeForeignCall implements spec §4.8.4: the callee's static type
// is itself a function-pointer type (an Extern or a value typed as one),
// not a Closure — this is the path a declared foreign symbol or a
// function value received through a pointer takes.
func (s *Specializer) specializeForeignCall(ctx evalctx.Context, c *ir.Call, callee ir.Value, args []ir.Value) (ir.Value, error) {
	ft := callee.Type()
	params := typesys.Params(ft)
	if len(args) != len(params) {
		return nil, diag.New(diag.ArgumentCountMismatch, c.Anchor(), "expected %d argument(s), got %d", len(params), len(args))
	}
	for i, p := range params {
		got := args[i].Type()
		if typesys.Equal(p, got) {
			continue
		}
		if typesys.IsPointer(p) && typesys.IsPointer(got) && typesys.PointerElemCompatible(p, got) {
			continue
		}
		return nil, diag.New(diag.ArgumentTypeMismatch, args[i].Anchor(), "argument %d: expected %s, got %s", i, p, got)
	}
	if typesys.Raises(ft) {
		owner, err := frame.FindOwning(ctx.Frame)
		if err != nil {
			return nil, err
		}
		if err := frame.JoinExceptType(owner, c.Anchor(), typesys.ExceptType(ft)); err != nil {
			return nil, err
		}
	}
	return ir.NewCall(c.Anchor(), callee, args, typesys.Raises(ft), typesys.ReturnType(ft)), nil
}
