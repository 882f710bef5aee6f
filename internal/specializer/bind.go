package specializer

import (
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// isSymbolic reports whether v can be substituted for its binding symbol
// directly rather than carried through a runtime Let slot (spec GLOSSARY:
// "Symbolic value: a constant, template, symbol, or function" — template
// here means an already-specialized ConstClosure, since by the time a
// value reaches a binding site a bare Template has already become one).
func isSymbolic(v ir.Value) bool { return isUseless(v) }

// bindParams implements the shared Let/Loop/inline-expansion binding rule
// (spec §4.5): variadic-last-only validation, missing/extra slot handling,
// and the symbolic direct-binding optimization under inlineConstants.
// It mutates frm's binding table directly; the returned symbols/values are
// exactly the slots that must still be carried in an emitted Let (empty
// if every argument bound symbolically).
func (s *Specializer) bindParams(frm *ir.Frame, params []*ir.Symbol, args []ir.Value, inlineConstants bool) ([]*ir.Symbol, []ir.Value, error) {
	for i, p := range params {
		if p.Variadic && i != len(params)-1 {
			return nil, nil, diag.New(diag.VariadicSymbolNotInLastPlace, p.Anchor(), "variadic symbol %q is not in the last position", p.Name)
		}
	}

	var syms []*ir.Symbol
	var vals []ir.Value
	bind := func(p *ir.Symbol, v ir.Value) {
		if inlineConstants && isSymbolic(v) {
			frame.Bind(frm, p, v)
			return
		}
		fresh := ir.NewSymbol(p.Anchor(), p.Name)
		fresh.SetType(v.Type())
		frame.Bind(frm, p, fresh)
		syms = append(syms, fresh)
		vals = append(vals, v)
	}

	lastVariadic := len(params) > 0 && params[len(params)-1].Variadic
	fixed := params
	if lastVariadic {
		fixed = params[:len(params)-1]
	}
	for i, p := range fixed {
		if i < len(args) {
			bind(p, args[i])
		} else {
			bind(p, ir.NewNone(p.Anchor()))
		}
	}
	if !lastVariadic {
		return syms, vals, nil
	}

	tailParam := params[len(params)-1]
	var tail []ir.Value
	if len(fixed) < len(args) {
		tail = args[len(fixed):]
	}
	switch len(tail) {
	case 1:
		bind(tailParam, tail[0])
	default:
		bind(tailParam, ir.BuildArgumentList(tailParam.Anchor(), tail))
	}
	return syms, vals, nil
}

// specializeLet implements spec §4.5's Let rule, with symbolic binding
// gated by s.InlineConstants (true under New).
func (s *Specializer) specializeLet(ctx evalctx.Context, l *ir.Let) (ir.Value, error) {
	args, err := s.specializeArguments(ctx, l.Values)
	if err != nil {
		return nil, err
	}
	syms, vals, err := s.bindParams(ctx.Frame, l.Symbols, args, s.InlineConstants)
	if err != nil {
		return nil, err
	}
	nl := ir.NewLet(l.Anchor())
	nl.Symbols = syms
	nl.Values = vals
	return nl, nil
}

// specializeLoop implements spec §4.5's Loop rule (inline_constants =
// false): bind like a Let, then specialize the body under a context whose
// enclosing loop is this loop, then join the loop's own return type with
// the body's type.
func (s *Specializer) specializeLoop(ctx evalctx.Context, l *ir.Loop) (ir.Value, error) {
	init, err := s.specializeArguments(ctx, l.Init)
	if err != nil {
		return nil, err
	}
	nl := ir.NewLoop(l.Anchor(), nil, nil, nil, typesys.NewUnknown())
	syms, vals, err := s.bindParams(ctx.Frame, l.Params, init, false)
	if err != nil {
		return nil, err
	}
	nl.Params = syms
	nl.Init = vals

	bodyCtx := ctx.WithSymbolTarget().ForLoop(nl)
	body, err := s.Specialize(bodyCtx, l.Body)
	if err != nil {
		return nil, err
	}
	nl.Body = body
	merged, err := frame.MergeReturnType(l.Anchor(), nl.Type(), body.Type())
	if err != nil {
		return nil, err
	}
	nl.SetType(merged)
	return nl, nil
}
