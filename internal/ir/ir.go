// Package ir is the specializer's IR model (spec §3): the tagged-variant
// value graph and its shared substrate — anchors, symbols, types, frames.
// Nodes are reference types (pointers); the graph may share nodes by
// reference (diamond sharing) but the value level never cycles — cycles
// exist only through Frames, via the function cache (spec §3 Lifecycle).
package ir

import "github.com/LunNova/fundament-scopes/internal/typesys"

// Value is the sum type of every IR node (spec §3). Dispatch in the
// specializer is an exhaustive switch over the concrete type, mirroring
// the teacher's ast.Expr/ast.Stmt marker-interface pattern.
type Value interface {
	valueNode()
	Anchor() Anchor
	Type() typesys.Type
	Typed() bool
}

// base is embedded by every Value implementation; it is not itself a Value.
type base struct {
	A     Anchor
	Ty    typesys.Type
	typed bool
}

func (b *base) Anchor() Anchor     { return b.A }
func (b *base) Type() typesys.Type { return b.Ty }
func (b *base) Typed() bool        { return b.typed }
func (b *base) SetType(t typesys.Type) {
	b.Ty = t
	b.typed = true
}

func newBase(a Anchor) base { return base{A: a} }

// Frame owns per-function specialization state (spec §3 "Frame").
// Behavior (binding, joins) lives in package frame; this struct is the
// shared data every Value that closes over a lexical scope points at.
type Frame struct {
	Parent   *Frame
	Template *Template // nil for the top-level frame

	ReturnType typesys.Type
	ExceptType typesys.Type

	// Bindings maps an original (unspecialized) Value to its specialized
	// replacement, keyed by pointer identity (spec §3 invariant).
	Bindings map[Value]Value

	// InstanceArgs is the concrete argument-type vector that monomorphized
	// this frame's owning Function; part of the function-cache key.
	InstanceArgs []typesys.Type
}

func NewFrame(parent *Frame, tmpl *Template) *Frame {
	return &Frame{
		Parent:     parent,
		Template:   tmpl,
		ReturnType: typesys.NewNoReturn(),
		ExceptType: typesys.NewNoReturn(),
		Bindings:   make(map[Value]Value),
	}
}

// Symbol is a named binding reference (spec §3). Variadic marks a
// parameter symbol that may only appear last in a parameter list
// (spec §4.5); it is meaningless outside that position.
type Symbol struct {
	base
	Name     string
	Variadic bool
}

func (*Symbol) valueNode() {}

func NewSymbol(a Anchor, name string) *Symbol { return &Symbol{base: newBase(a), Name: name} }

func NewVariadicSymbol(a Anchor, name string) *Symbol {
	return &Symbol{base: newBase(a), Name: name, Variadic: true}
}

// Template is an untyped function literal (spec §3). Templates are
// created by the expander and never mutated (spec §3 Lifecycle).
type Template struct {
	base
	Name     string
	Params   []*Symbol
	Body     Value
	Scope    *Frame // definition-time lexical scope
	Inline   bool   // inline templates splice at the call site (spec §4.8.1)
	Variadic bool   // true iff Params[len-1] is a variadic parameter
}

func (*Template) valueNode() {}

// ConstClosure is the pair (template, captured frame) (spec §3 "Closure").
// It appears as a value once a Symbol bound to a Template is specialized
// within a particular enclosing frame.
type ConstClosure struct {
	base
	Template *Template
	Frame    *Frame
}

func (*ConstClosure) valueNode() {}

// Function is a specialized function instance (spec §3 "Function").
// It is created by the specializer, mutated while specialization is in
// progress (Complete=false), and frozen once complete.
type Function struct {
	base
	Name         string
	Params       []*Symbol // specialized parameter symbols, one per instance arg
	Body         Value
	Frame        *Frame // this function's own frame (owns ReturnType/ExceptType)
	InstanceArgs []typesys.Type
	Complete     bool
	Template     *Template // originating template, for diagnostics
}

func (*Function) valueNode() {}

// PointerType assembles this function's current (possibly provisional,
// spec §4.8.1) function-pointer type from its frame's accumulated types.
func (f *Function) PointerType() typesys.Type {
	params := make([]typesys.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type()
	}
	if typesys.IsReturning(f.Frame.ExceptType) {
		return typesys.RaisingFunctionType(f.Frame.ExceptType, f.Frame.ReturnType, params)
	}
	return typesys.FunctionType(f.Frame.ReturnType, params)
}

// --- typed constants (spec §3) -----------------------------------------

type ConstInt struct {
	base
	V int64
}

func (*ConstInt) valueNode() {}

func NewConstInt(a Anchor, t typesys.Type, v int64) *ConstInt {
	c := &ConstInt{base: newBase(a), V: v}
	c.SetType(t)
	return c
}

type ConstReal struct {
	base
	V float64
}

func (*ConstReal) valueNode() {}

func NewConstReal(a Anchor, t typesys.Type, v float64) *ConstReal {
	c := &ConstReal{base: newBase(a), V: v}
	c.SetType(t)
	return c
}

// ConstPointer is a compile-time-known pointer value (e.g. a null
// constant); Target is nil for null.
type ConstPointer struct {
	base
	Target Value
}

func (*ConstPointer) valueNode() {}

type ConstTuple struct {
	base
	Elems []Value
}

func (*ConstTuple) valueNode() {}

type ConstArray struct {
	base
	Elems []Value
}

func (*ConstArray) valueNode() {}

type ConstVector struct {
	base
	Elems []Value
}

func (*ConstVector) valueNode() {}

// Extern is a typed reference to a foreign symbol (spec §4.8.4 callee).
type Extern struct {
	base
	Name   string
	Raises bool
}

func (*Extern) valueNode() {}

// None is the distinguished "missing value" constant used to fill unbound
// trailing let/loop parameters (spec §4.5) and out-of-range ExtractArgument
// results (spec §4.4).
type None struct{ base }

func (*None) valueNode() {}

func NewNone(a Anchor) *None {
	n := &None{base: newBase(a)}
	n.SetType(typesys.NewNothing())
	return n
}

// --- multi-value plumbing (spec §4.4) -----------------------------------

// ArgumentList is an ordered sequence of sub-values representing multiple
// return values. Building one of length 1 collapses to the element
// directly (spec §4.4) — callers should use BuildArgumentList rather than
// constructing this directly.
type ArgumentList struct {
	base
	Elems []Value
}

func (*ArgumentList) valueNode() {}

// ExtractArgument projects one element from a multi-value.
type ExtractArgument struct {
	base
	Arg   Value
	Index int
}

func (*ExtractArgument) valueNode() {}

// --- calls and bindings --------------------------------------------------

type Call struct {
	base
	Callee Value
	Args   []Value
	Raises bool // true once the call specializer determines the callee may raise
}

func (*Call) valueNode() {}

// Let is a parallel binding (spec §3): symbol vector + value vector,
// result type always empty-arguments.
type Let struct {
	base
	Symbols []*Symbol
	Values  []Value
}

func (*Let) valueNode() {}

func NewLet(a Anchor) *Let {
	l := &Let{base: newBase(a)}
	l.SetType(typesys.EmptyArgumentsType())
	return l
}

// Loop is a tail-recursive loop (spec §3).
type Loop struct {
	base
	Params []*Symbol
	Init   []Value
	Body   Value
}

func (*Loop) valueNode() {}

// --- control flow ---------------------------------------------------------

// IfClause is one (condition, body) pair of an If.
type IfClause struct {
	Cond Value
	Body Value
}

type If struct {
	base
	Clauses []IfClause
	Else    Value
}

func (*If) valueNode() {}

// Break, Repeat, Return, Raise are non-returning control transfers
// (spec §3); all have type NoReturn.

type Break struct {
	base
	Value Value
}

func (*Break) valueNode() {}

func NewBreak(a Anchor, v Value) *Break {
	b := &Break{base: newBase(a), Value: v}
	b.SetType(typesys.NewNoReturn())
	return b
}

type Repeat struct {
	base
	Args []Value
}

func (*Repeat) valueNode() {}

func NewRepeat(a Anchor, args []Value) *Repeat {
	r := &Repeat{base: newBase(a), Args: args}
	r.SetType(typesys.NewNoReturn())
	return r
}

type Return struct {
	base
	Value Value
}

func (*Return) valueNode() {}

func NewReturn(a Anchor, v Value) *Return {
	r := &Return{base: newBase(a), Value: v}
	r.SetType(typesys.NewNoReturn())
	return r
}

type Raise struct {
	base
	Value Value
}

func (*Raise) valueNode() {}

func NewRaise(a Anchor, v Value) *Raise {
	r := &Raise{base: newBase(a), Value: v}
	r.SetType(typesys.NewNoReturn())
	return r
}

// Try is a try/except pair (spec §4.9 Design Notes; implemented per
// SPEC_FULL §12).
type Try struct {
	base
	Body       Value
	ExceptSym  *Symbol
	ExceptBody Value
}

func (*Try) valueNode() {}

// Block is an ordered sequence of statements plus a tail value (spec §3).
type Block struct {
	base
	Stmts []Value
	Tail  Value
}

func (*Block) valueNode() {}

// Keyed labels a value by a symbol, for keyword arguments (spec §3).
type Keyed struct {
	base
	Key   string
	Value Value
}

func (*Keyed) valueNode() {}

// SyntaxExtend is a compile-time macro hook (spec §3); its expansion is
// delegated to the external Expander (spec §6).
type SyntaxExtend struct {
	base
	Body Value
}

func (*SyntaxExtend) valueNode() {}

// ASTMacroFunc is a typed reference to an AST-macro callee (spec §4.8.2);
// the macro implementation itself belongs to the expander (spec §6).
type ASTMacroFunc struct {
	base
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*ASTMacroFunc) valueNode() {}

// Builtin is a typed reference to a primitive operator (spec §4.8.3); Tag
// indexes into the builtin dispatch table (package builtin).
type Builtin struct {
	base
	Tag string
}

func (*Builtin) valueNode() {}

func NewBuiltin(a Anchor, tag string) *Builtin {
	b := &Builtin{base: newBase(a), Tag: tag}
	b.SetType(typesys.NewBuiltin())
	return b
}
