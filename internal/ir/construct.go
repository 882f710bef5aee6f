package ir

import "github.com/LunNova/fundament-scopes/internal/typesys"

// Constructors for variants that carry no typed-constructor of their own
// because their type is assembled by the specializer rather than known at
// creation time (spec §3 Lifecycle: "Functions are created by the
// specializer").

// NewTemplate builds an untyped function literal (spec §3 "Template");
// the expander is the real source of these in a full compiler, but tests
// and the demo driver build them directly.
func NewTemplate(a Anchor, name string, params []*Symbol, body Value, scope *Frame, inline, variadic bool) *Template {
	return &Template{base: newBase(a), Name: name, Params: params, Body: body, Scope: scope, Inline: inline, Variadic: variadic}
}

func NewBlock(a Anchor, stmts []Value, tail Value, ty typesys.Type) *Block {
	b := &Block{base: newBase(a), Stmts: stmts, Tail: tail}
	b.SetType(ty)
	return b
}

func NewCall(a Anchor, callee Value, args []Value, raises bool, ty typesys.Type) *Call {
	c := &Call{base: newBase(a), Callee: callee, Args: args, Raises: raises}
	c.SetType(ty)
	return c
}

// RawCall builds an untyped Call node — the shape the (external) expander
// hands the specializer as input. Unlike NewCall, it does not mark the
// node typed.
func RawCall(a Anchor, callee Value, args []Value) *Call {
	return &Call{base: newBase(a), Callee: callee, Args: args}
}

func NewIf(a Anchor, clauses []IfClause, elseV Value, ty typesys.Type) *If {
	f := &If{base: newBase(a), Clauses: clauses, Else: elseV}
	f.SetType(ty)
	return f
}

// RawIf builds an untyped If node, input-graph shape (see RawCall).
func RawIf(a Anchor, clauses []IfClause, elseV Value) *If {
	return &If{base: newBase(a), Clauses: clauses, Else: elseV}
}

func NewTry(a Anchor, body Value, exceptSym *Symbol, exceptBody Value, ty typesys.Type) *Try {
	t := &Try{base: newBase(a), Body: body, ExceptSym: exceptSym, ExceptBody: exceptBody}
	t.SetType(ty)
	return t
}

func NewLoop(a Anchor, params []*Symbol, init []Value, body Value, ty typesys.Type) *Loop {
	l := &Loop{base: newBase(a), Params: params, Init: init, Body: body}
	l.SetType(ty)
	return l
}

func NewKeyed(a Anchor, key string, v Value) *Keyed {
	k := &Keyed{base: newBase(a), Key: key, Value: v}
	k.SetType(v.Type())
	return k
}

// NewConstClosure builds the (template, captured-frame) pair a bare
// Template specializes to when it appears as a value (spec §3 "Closure").
func NewConstClosure(a Anchor, tmpl *Template, f *Frame) *ConstClosure {
	c := &ConstClosure{base: newBase(a), Template: tmpl, Frame: f}
	c.SetType(typesys.NewClosure())
	return c
}

// NewFunction allocates a fresh, incomplete Function instance (spec §4.9
// step 1): return_type = except_type = NoReturn via its own Frame, not yet
// typed (Typed() reports false until the caller assembles and sets the
// final pointer type in step 6).
func NewFunction(a Anchor, name string, tmpl *Template, parent *Frame, instanceArgs []typesys.Type) *Function {
	fn := &Function{
		base:         newBase(a),
		Name:         name,
		Template:     tmpl,
		InstanceArgs: instanceArgs,
	}
	fn.Frame = NewFrame(parent, tmpl)
	return fn
}

func NewConstPointer(a Anchor, t typesys.Type, target Value) *ConstPointer {
	c := &ConstPointer{base: newBase(a), Target: target}
	c.SetType(t)
	return c
}

func NewConstTuple(a Anchor, t typesys.Type, elems []Value) *ConstTuple {
	c := &ConstTuple{base: newBase(a), Elems: elems}
	c.SetType(t)
	return c
}

func NewConstArray(a Anchor, t typesys.Type, elems []Value) *ConstArray {
	c := &ConstArray{base: newBase(a), Elems: elems}
	c.SetType(t)
	return c
}

func NewConstVector(a Anchor, t typesys.Type, elems []Value) *ConstVector {
	c := &ConstVector{base: newBase(a), Elems: elems}
	c.SetType(t)
	return c
}

func NewExtern(a Anchor, name string, raises bool, t typesys.Type) *Extern {
	e := &Extern{base: newBase(a), Name: name, Raises: raises}
	e.SetType(t)
	return e
}

func NewExtractArgumentNode(a Anchor, arg Value, index int, t typesys.Type) *ExtractArgument {
	e := &ExtractArgument{base: newBase(a), Arg: arg, Index: index}
	e.SetType(t)
	return e
}
