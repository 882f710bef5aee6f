package ir

import "github.com/LunNova/fundament-scopes/internal/typesys"

// BuildArgumentList collapses a single-element list to its element
// directly (spec §4.4: "Building an argument list of length 1 returns
// the element directly"); otherwise it wraps elems in an ArgumentList
// typed as the arguments tuple of their types.
func BuildArgumentList(a Anchor, elems []Value) Value {
	if len(elems) == 1 {
		return elems[0]
	}
	types := make([]typesys.Type, len(elems))
	for i, e := range elems {
		types[i] = e.Type()
	}
	al := &ArgumentList{base: newBase(a), Elems: elems}
	al.SetType(typesys.ArgumentsType(types))
	return al
}

// ExtractArgumentAt implements spec §4.4's ExtractArgument rule: index i
// from a multi-value returns element i when known, a synthesized
// projection when opaque, or None when out of range.
func ExtractArgumentAt(a Anchor, v Value, i int) Value {
	switch t := v.(type) {
	case *ArgumentList:
		if i < len(t.Elems) {
			return t.Elems[i]
		}
		return NewNone(a)
	default:
		if typesys.IsArguments(v.Type()) {
			elems := typesys.ArgumentsElems(v.Type())
			if i >= len(elems) {
				return NewNone(a)
			}
			e := &ExtractArgument{base: newBase(a), Arg: v, Index: i}
			e.SetType(elems[i])
			return e
		}
		if i == 0 {
			return v
		}
		return NewNone(a)
	}
}
