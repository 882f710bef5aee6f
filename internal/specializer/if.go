package specializer

import (
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/evalctx"
	"github.com/LunNova/fundament-scopes/internal/frame"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/sched"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// constBoolValue reports whether cond is a compile-time-known bool
// constant and its truth value. Bool constants reuse ConstInt (V=0/1)
// rather than a dedicated node — nothing downstream needs more than a
// scalar and a type tag.
func constBoolValue(cond ir.Value) (bool, bool) {
	ci, ok := cond.(*ir.ConstInt)
	if !ok || !typesys.IsBool(cond.Type()) {
		return false, false
	}
	return ci.V != 0, true
}

// specializeIf implements spec §4.7: static constant-condition folding,
// then cooperative-scheduler-based specialization of every surviving
// branch so forward references between branches (notably a recursive
// function's base case and recursive case, spec §8 scenario 4) resolve.
func (s *Specializer) specializeIf(ctx evalctx.Context, n *ir.If) (ir.Value, error) {
	var survivors []ir.IfClause
	elseBody := n.Else

	for _, cl := range n.Clauses {
		cond, err := s.Specialize(ctx.WithSymbolTarget(), cl.Cond)
		if err != nil {
			return nil, err
		}
		if !typesys.IsBool(cond.Type()) {
			return nil, diag.New(diag.InvalidConditionType, cond.Anchor(), "if condition must be bool, got %s", cond.Type())
		}
		if truth, isConst := constBoolValue(cond); isConst {
			if truth {
				// Spec §4.7: "this clause becomes the else-clause; all
				// later clauses and the original else-clause are
				// dropped" — clauses already collected as dynamic
				// survivors stay, since their conditions may still be
				// true first at runtime.
				elseBody = cl.Body
				break
			}
			continue
		}
		survivors = append(survivors, ir.IfClause{Cond: cond, Body: cl.Body})
	}

	if len(survivors) == 0 {
		return s.Specialize(ctx, elseBody)
	}

	jobs := make([]*sched.Job, 0, len(survivors)+1)
	for _, cl := range survivors {
		body := cl.Body
		jobs = append(jobs, s.Sched.Enqueue(func(j *sched.Job) (ir.Value, error) {
			return s.Specialize(ctx.WithJob(j), body)
		}))
	}
	elseJob := s.Sched.Enqueue(func(j *sched.Job) (ir.Value, error) {
		return s.Specialize(ctx.WithJob(j), elseBody)
	})
	jobs = append(jobs, elseJob)

	s.Sched.Drain()

	for _, j := range jobs {
		if !j.Done() {
			return nil, diag.New(diag.UntypedRecursiveCall, n.Anchor(), "if branch could not determine a return type for a recursive call")
		}
		if _, err := j.Result(); err != nil {
			return nil, err
		}
	}

	newClauses := make([]ir.IfClause, len(survivors))
	acc := typesys.NewUnknown()
	for i, cl := range survivors {
		v, _ := jobs[i].Result()
		newClauses[i] = ir.IfClause{Cond: cl.Cond, Body: v}
		merged, err := frame.MergeReturnType(n.Anchor(), acc, evalctx.VoidRewrite(v.Type()))
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	elseVal, _ := elseJob.Result()
	merged, err := frame.MergeReturnType(n.Anchor(), acc, evalctx.VoidRewrite(elseVal.Type()))
	if err != nil {
		return nil, err
	}

	return ir.NewIf(n.Anchor(), newClauses, elseVal, merged), nil
}
