// Package evalctx is the ambient context threaded through every
// specialization step (spec §4.1): the current frame, the evaluation
// target, the nearest enclosing loop, and the nearest enclosing try.
package evalctx

import (
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/sched"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// Target is the evaluation target mode (spec §4.1).
type Target int

const (
	// Void: the result will be discarded; a returning type is rewritten
	// to empty-arguments. Used inside Block body statements.
	Void Target = iota
	// Symbol: the result is consumed as a value, no rewrite. Used for
	// function arguments, conditions, right-hand sides.
	Symbol
	// Return: the result is the function's return value.
	Return
)

// Context is immutable; the With*/for* methods return a modified copy,
// mirroring how the teacher threads an ambient *checker but specialized
// to an explicit value so concurrent scheduler jobs can each hold their
// own context safely (spec §5: no shared mutable ambient state).
type Context struct {
	Frame         *ir.Frame
	Target        Target
	EnclosingLoop *ir.Loop
	EnclosingTry  *ir.Try

	// Job is the scheduler job currently running this specialization, if
	// any (set while specializing an If branch, spec §4.10). The call
	// specializer uses it to yield at its single suspension point
	// instead of immediately failing with untyped_recursive_call.
	Job *sched.Job
}

func New(f *ir.Frame) Context {
	return Context{Frame: f, Target: Symbol}
}

func (c Context) WithVoidTarget() Context {
	c.Target = Void
	return c
}

func (c Context) WithSymbolTarget() Context {
	c.Target = Symbol
	return c
}

func (c Context) WithReturnTarget() Context {
	c.Target = Return
	return c
}

func (c Context) ForLoop(l *ir.Loop) Context {
	c.EnclosingLoop = l
	return c
}

func (c Context) ForTry(t *ir.Try) Context {
	c.EnclosingTry = t
	return c
}

func (c Context) WithFrame(f *ir.Frame) Context {
	c.Frame = f
	return c
}

func (c Context) WithJob(j *sched.Job) Context {
	c.Job = j
	return c
}

// VoidRewrite implements the Void-target result rule (spec §4.1): a
// returning type becomes empty-arguments; NoReturn values are untouched
// (control transfers propagate their NoReturn-ness even under Void).
func VoidRewrite(t typesys.Type) typesys.Type {
	if !typesys.IsReturning(t) {
		return t
	}
	return typesys.EmptyArgumentsType()
}
