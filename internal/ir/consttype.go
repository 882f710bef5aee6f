package ir

import "github.com/LunNova/fundament-scopes/internal/typesys"

// ConstType is a first-class, compile-time-known type value: the result of
// the TypeOf builtin, and the shape every "D" type-constant argument in
// the builtin table (spec §4.8.3 — Undef(D), Bitcast(v,D), Alloca(D), ...)
// takes. The source models this as "a constant pointer to the type"; this
// module collapses that one level of indirection since nothing here ever
// needs to dereference or mutate such a pointer — the type value itself is
// what every consumer (Bitcast's D, Alloca's D, ...) actually wants.
type ConstType struct {
	base
	T typesys.Type
}

func (*ConstType) valueNode() {}

func NewConstType(a Anchor, t typesys.Type) *ConstType {
	c := &ConstType{base: newBase(a), T: t}
	c.SetType(typesys.NewExtern("type"))
	return c
}

// TypeArg extracts the typesys.Type a "D" argument denotes; its bool result
// is false if v is not a compile-time type value (spec §7: constant_expected).
func TypeArg(v Value) (typesys.Type, bool) {
	ct, ok := v.(*ConstType)
	if !ok {
		return typesys.Type{}, false
	}
	return ct.T, true
}
