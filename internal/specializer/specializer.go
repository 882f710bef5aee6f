// Package specializer is the core of the pass described throughout the
// surrounding packages: it turns an untyped IR graph into a fully typed,
// monomorphized one. Specializer.Specialize is the single entry point;
// every other exported method is a building block it or a caller of it
// needs directly (functions, the top-level driver).
package specializer

import (
	"io"

	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/sched"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// Options configures a Specializer (grounded on the teacher's
// codegen.EmitOptions / EmitC(irp, EmitOptions{...}) call shape).
type Options struct {
	// InlineConstants gates the Let/inline-expansion symbolic-binding
	// optimization (spec §4.5); Loop bindings never use it regardless.
	InlineConstants bool
	// Trace, if non-nil, receives a pretty-printed line for every Dump
	// builtin call (spec §10.3).
	Trace io.Writer
	// Cache lets callers share a function cache across runs; a fresh one
	// is allocated when nil.
	Cache *Cache
}

// Specializer holds the two pieces of state a specialization run shares
// across every call: the function cache and the cooperative scheduler
// (spec §9 Design Notes: "thread it as an explicit argument... to avoid
// hidden global state; tests can then create isolated compilers" — here
// that's achieved by constructing a fresh Specializer per test/run).
type Specializer struct {
	Cache           *Cache
	Sched           *sched.Scheduler
	InlineConstants bool
	Trace           io.Writer
}

func New() *Specializer {
	return NewWithOptions(Options{InlineConstants: true})
}

func NewWithOptions(o Options) *Specializer {
	c := o.Cache
	if c == nil {
		c = NewCache()
	}
	return &Specializer{Cache: c, Sched: &sched.Scheduler{}, InlineConstants: o.InlineConstants, Trace: o.Trace}
}

// Specialize is the main entry point (spec §4.2).
func (s *Specializer) Specialize(ctx evalctx.Context, node ir.Value) (ir.Value, error) {
	if repl, ok := frame.Lookup(ctx.Frame, node); ok {
		return s.wrapReturn(ctx, repl)
	}
	// Only typed leaves pass through unchanged. Structural nodes whose
	// constructors always mark them typed are still dispatched.
	if node.Typed() {
		switch node.(type) {
		case *ir.Template, *ir.Block, *ir.Let, *ir.Loop, *ir.Break, *ir.Repeat,
			*ir.Return, *ir.Raise, *ir.Try, *ir.Keyed, *ir.ArgumentList, *ir.ExtractArgument:
		default:
			return s.wrapReturn(ctx, node)
		}
	}
	v, err := s.dispatch(ctx, node)
	if err != nil {
		return nil, err
	}
	return s.wrapReturn(ctx, v)
}

// wrapReturn implements spec §4.2 step 4: under Return target, a
// returning value is wrapped in a synthesized Return and joins the
// owning frame's return_type.
func (s *Specializer) wrapReturn(ctx evalctx.Context, v ir.Value) (ir.Value, error) {
	if ctx.Target != evalctx.Return || !typesys.IsReturning(v.Type()) {
		return v, nil
	}
	owner, err := frame.FindOwning(ctx.Frame)
	if err != nil {
		return nil, err
	}
	if err := frame.JoinReturnType(owner, v.Anchor(), v.Type()); err != nil {
		return nil, err
	}
	return ir.NewReturn(v.Anchor(), v), nil
}

func (s *Specializer) dispatch(ctx evalctx.Context, node ir.Value) (ir.Value, error) {
	switch n := node.(type) {
	case *ir.Symbol:
		return nil, diag.New(diag.UnboundSymbol, n.Anchor(), "unbound symbol %q", n.Name)
	case *ir.Template:
		return ir.NewConstClosure(n.Anchor(), n, ctx.Frame), nil
	case *ir.Block:
		return s.specializeBlock(ctx, n)
	case *ir.Let:
		return s.specializeLet(ctx, n)
	case *ir.Loop:
		return s.specializeLoop(ctx, n)
	case *ir.If:
		return s.specializeIf(ctx, n)
	case *ir.Break:
		return s.specializeBreak(ctx, n)
	case *ir.Repeat:
		return s.specializeRepeat(ctx, n)
	case *ir.Return:
		return s.specializeReturn(ctx, n)
	case *ir.Raise:
		return s.specializeRaise(ctx, n)
	case *ir.Try:
		return s.specializeTry(ctx, n)
	case *ir.Call:
		return s.specializeCall(ctx, n)
	case *ir.Keyed:
		v, err := s.Specialize(ctx.WithSymbolTarget(), n.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewKeyed(n.Anchor(), n.Key, v), nil
	case *ir.ArgumentList:
		elems, err := s.specializeArguments(ctx.WithSymbolTarget(), n.Elems)
		if err != nil {
			return nil, err
		}
		return ir.BuildArgumentList(n.Anchor(), elems), nil
	case *ir.ExtractArgument:
		arg, err := s.Specialize(ctx.WithSymbolTarget(), n.Arg)
		if err != nil {
			return nil, err
		}
		return ir.ExtractArgumentAt(n.Anchor(), arg, n.Index), nil
	default:
		// Already-typed constants, Functions, ConstClosures, Externs,
		// Builtins and similar leaves reach here only defensively; the
		// binding/typed shortcuts above handle the common path.
		return node, nil
	}
}

// isUseless reports whether dropping stmt from a Block's emitted
// statement list changes nothing observable (spec §4.3: "pure constants,
// symbols, templates, functions, and empty lets").
func isUseless(v ir.Value) bool {
	switch n := v.(type) {
	case *ir.ConstInt, *ir.ConstReal, *ir.ConstPointer, *ir.ConstTuple,
		*ir.ConstArray, *ir.ConstVector, *ir.Symbol, *ir.ConstClosure,
		*ir.Function, *ir.None:
		return true
	case *ir.Let:
		return len(n.Symbols) == 0
	default:
		return false
	}
}

// specializeBlock implements spec §4.3.
func (s *Specializer) specializeBlock(ctx evalctx.Context, b *ir.Block) (ir.Value, error) {
	voidCtx := ctx.WithVoidTarget()
	var stmts []ir.Value
	for _, stmt := range b.Stmts {
		v, err := s.Specialize(voidCtx, stmt)
		if err != nil {
			return nil, err
		}
		if !typesys.IsReturning(v.Type()) {
			return nil, diag.New(diag.NoreturnNotLastExpression, v.Anchor(), "non-returning expression is not the block's tail")
		}
		if !isUseless(v) {
			stmts = append(stmts, v)
		}
	}
	tail, err := s.Specialize(ctx, b.Tail)
	if err != nil {
		return nil, err
	}
	return ir.NewBlock(b.Anchor(), stmts, tail, evalctx.VoidRewrite(tail.Type())), nil
}

// specializeArguments implements spec §4.4: flatten multi-values,
// rejecting a non-returning value in any non-last position.
func (s *Specializer) specializeArguments(ctx evalctx.Context, args []ir.Value) ([]ir.Value, error) {
	symCtx := ctx.WithSymbolTarget()
	var out []ir.Value
	for i, a := range args {
		last := i == len(args)-1
		v, err := s.Specialize(symCtx, a)
		if err != nil {
			return nil, err
		}
		if !typesys.IsReturning(v.Type()) {
			if !last {
				return nil, diag.New(diag.NoreturnNotLastExpression, v.Anchor(), "non-returning argument is not in the last position")
			}
			out = append(out, v)
			continue
		}
		if typesys.IsArguments(v.Type()) {
			elems := flattenArgument(v)
			if last {
				out = append(out, elems...)
			} else if len(elems) > 0 {
				out = append(out, elems[0])
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// flattenArgument extracts every element of a multi-value v, used when
// it occupies the last argument position and must fully splice in.
func flattenArgument(v ir.Value) []ir.Value {
	n := typesys.NumFields(v.Type())
	elems := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		elems[i] = ir.ExtractArgumentAt(v.Anchor(), v, i)
	}
	return elems
}
