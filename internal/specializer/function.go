package specializer

import (
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// bindFunctionParams binds a template's formal parameters to a concrete
// instance-argument-type vector (spec §4.9 step 3). Unlike bindParams
// (used for Let/inline, which binds actual argument values and may
// substitute symbolically), a function's parameters always become fresh
// typed Symbols — the whole point of a Function is that it is called
// through a synthesized Call, not spliced.
func (s *Specializer) bindFunctionParams(frm *ir.Frame, params []*ir.Symbol, types []typesys.Type) ([]*ir.Symbol, error) {
	for i, p := range params {
		if p.Variadic && i != len(params)-1 {
			return nil, diag.New(diag.VariadicSymbolNotInLastPlace, p.Anchor(), "variadic symbol %q is not in the last position", p.Name)
		}
	}

	var out []*ir.Symbol
	bindOne := func(p *ir.Symbol, t typesys.Type) error {
		if p.Typed() && !typesys.Equal(p.Type(), t) {
			return diag.New(diag.ArgumentTypeMismatch, p.Anchor(), "parameter %q: declared type %s does not agree with supplied type %s", p.Name, p.Type(), t)
		}
		fresh := ir.NewSymbol(p.Anchor(), p.Name)
		fresh.SetType(t)
		frame.Bind(frm, p, fresh)
		out = append(out, fresh)
		return nil
	}

	lastVariadic := len(params) > 0 && params[len(params)-1].Variadic
	fixed := params
	if lastVariadic {
		fixed = params[:len(params)-1]
	}
	for i, p := range fixed {
		t := typesys.NewNothing()
		if i < len(types) {
			t = types[i]
		}
		if err := bindOne(p, t); err != nil {
			return nil, err
		}
	}
	if !lastVariadic {
		return out, nil
	}

	tailParam := params[len(params)-1]
	var tail []typesys.Type
	if len(fixed) < len(types) {
		tail = types[len(fixed):]
	}
	if len(tail) == 1 {
		return out, bindOne(tailParam, tail[0])
	}
	return out, bindOne(tailParam, typesys.ArgumentsType(tail))
}

// specializeFunction implements spec §4.9, the top-level memoized
// function specialization. Callers (the closure-call path) are
// responsible for cache lookup before calling this; this function always
// performs a fresh specialization and inserts it before specializing the
// body, so a recursive self-call made from within the body discovers the
// same, still-incomplete Function (step 2's cycle-breaking insert).
func (s *Specializer) specializeFunction(parent *ir.Frame, tmpl *ir.Template, types []typesys.Type) (*ir.Function, error) {
	fn := ir.NewFunction(tmpl.Anchor(), tmpl.Name, tmpl, parent, types)
	s.Cache.Insert(parent, tmpl, types, fn)

	params, err := s.bindFunctionParams(fn.Frame, tmpl.Params, types)
	if err != nil {
		return nil, err
	}
	fn.Params = params

	bodyCtx := evalctx.New(fn.Frame).WithReturnTarget()
	body, err := s.Specialize(bodyCtx, tmpl.Body)
	if err != nil {
		return nil, err
	}
	if typesys.IsReturning(body.Type()) {
		return nil, diag.New(diag.Generic, tmpl.Anchor(), "function %q does not exit through return or raise on every path", tmpl.Name)
	}
	fn.Body = body
	fn.Complete = true
	fn.SetType(fn.PointerType())
	return fn, nil
}
