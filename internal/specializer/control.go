package specializer

import (
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
)

// specializeBreak implements spec §4.6's Break rule.
func (s *Specializer) specializeBreak(ctx evalctx.Context, b *ir.Break) (ir.Value, error) {
	if ctx.EnclosingLoop == nil {
		return nil, diag.New(diag.IllegalBreakOutsideLoop, b.Anchor(), "break outside a loop")
	}
	v, err := s.Specialize(ctx.WithSymbolTarget(), b.Value)
	if err != nil {
		return nil, err
	}
	merged, err := frame.MergeReturnType(b.Anchor(), ctx.EnclosingLoop.Type(), v.Type())
	if err != nil {
		return nil, err
	}
	ctx.EnclosingLoop.SetType(merged)
	return ir.NewBreak(b.Anchor(), v), nil
}

// specializeRepeat implements spec §4.6's Repeat rule.
func (s *Specializer) specializeRepeat(ctx evalctx.Context, r *ir.Repeat) (ir.Value, error) {
	if ctx.EnclosingLoop == nil {
		return nil, diag.New(diag.IllegalRepeatOutsideLoop, r.Anchor(), "repeat outside a loop")
	}
	args, err := s.specializeArguments(ctx, r.Args)
	if err != nil {
		return nil, err
	}
	return ir.NewRepeat(r.Anchor(), args), nil
}

// specializeReturn implements spec §4.6's Return rule. The illegal-return
// check runs unconditionally, before target is even inspected (prover.cpp's
// specialize_Return checks this first too). When the ambient target is
// already Return, the specialized value flows out unwrapped — the
// enclosing Specialize call's own target-Return handling (§4.2 step 4)
// synthesizes the eventual Return node, so this function must not
// synthesize a second one.
func (s *Specializer) specializeReturn(ctx evalctx.Context, r *ir.Return) (ir.Value, error) {
	if ctx.Frame.Template != nil && ctx.Frame.Template.Inline {
		return nil, diag.New(diag.IllegalReturnInInline, r.Anchor(), "illegal return in inline template")
	}
	v, err := s.Specialize(ctx.WithSymbolTarget(), r.Value)
	if err != nil {
		return nil, err
	}
	if ctx.Target == evalctx.Return {
		return v, nil
	}
	owner, err := frame.FindOwning(ctx.Frame)
	if err != nil {
		return nil, err
	}
	if err := frame.JoinReturnType(owner, r.Anchor(), v.Type()); err != nil {
		return nil, err
	}
	return ir.NewReturn(r.Anchor(), v), nil
}

// specializeRaise implements spec §4.6's Raise rule: joins the current
// frame's except_type directly, with no walk to an owning frame (spec
// §4.6; prover.cpp's specialize_Raise uses ctx.frame->except_type as-is).
func (s *Specializer) specializeRaise(ctx evalctx.Context, r *ir.Raise) (ir.Value, error) {
	v, err := s.Specialize(ctx.WithSymbolTarget(), r.Value)
	if err != nil {
		return nil, err
	}
	if err := frame.JoinExceptType(ctx.Frame, r.Anchor(), v.Type()); err != nil {
		return nil, err
	}
	return ir.NewRaise(r.Anchor(), v), nil
}

// specializeTry implements the decision recorded in the project's design
// ledger for the source's incomplete Try rule (spec §9 Design Notes):
// both bodies specialize under the inherited target, the except symbol is
// bound to the owning frame's accumulated except_type as it stands after
// the try body has been specialized, and the result type is the join of both bodies' (void-rewritten)
// types.
func (s *Specializer) specializeTry(ctx evalctx.Context, t *ir.Try) (ir.Value, error) {
	body, err := s.Specialize(ctx, t.Body)
	if err != nil {
		return nil, err
	}
	owner, err := frame.FindOwning(ctx.Frame)
	if err != nil {
		return nil, err
	}
	exceptSym := ir.NewSymbol(t.ExceptSym.Anchor(), t.ExceptSym.Name)
	exceptSym.SetType(owner.ExceptType)
	frame.Bind(ctx.Frame, t.ExceptSym, exceptSym)

	exceptBody, err := s.Specialize(ctx, t.ExceptBody)
	if err != nil {
		return nil, err
	}
	merged, err := frame.MergeReturnType(t.Anchor(), evalctx.VoidRewrite(body.Type()), evalctx.VoidRewrite(exceptBody.Type()))
	if err != nil {
		return nil, err
	}
	return ir.NewTry(t.Anchor(), body, exceptSym, exceptBody, merged), nil
}
