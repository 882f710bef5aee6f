package typesys

// StorageType normalizes t to its storage representation. The full
// storage-type normalizer belongs to the external target type system
// (spec §1 Non-goals); this implementation covers the one rule the
// specializer itself depends on for Bitcast (spec §4.8.3): Real folds to
// an Integer of the same bit width for storage-compatibility purposes.
func StorageType(t Type) Type {
	if t.kind == Real {
		return NewInteger(t.realBits, false)
	}
	return t
}

// StorageKindEqual reports whether a and b have canonically-compatible
// storage kinds per Bitcast's rule (spec §4.8.3): aggregate storage
// (Array/Tuple/Union/Vector) requires exact equality, scalar storage
// compares after StorageType normalization.
func StorageKindEqual(a, b Type) bool {
	switch a.kind {
	case Array, Tuple, Union, Vector:
		return Equal(a, b)
	default:
		return Equal(StorageType(a), StorageType(b))
	}
}

// VectorSizesMatch reports whether a and b are both vectors of the same
// size, or both scalars (neither a vector) — the shape rule shared by
// every vectorizable builtin in the Tertiary/compare/binop tables.
func VectorSizesMatch(a, b Type) bool {
	aVec, bVec := a.kind == Vector, b.kind == Vector
	if aVec != bVec {
		return false
	}
	if !aVec {
		return true
	}
	return a.size == b.size
}

// ScalarOf returns the element type of a vector, or t itself if t is not
// a vector — used by the int/float binop and compare rules, which operate
// the same way on scalars and on vectors of matching size.
func ScalarOf(t Type) Type {
	if t.kind == Vector {
		return *t.elem
	}
	return t
}

// IsIntegerVector reports whether t is an Integer, or a Vector of Integer.
func IsIntegerVector(t Type) bool { return IsInteger(ScalarOf(t)) }

// IsRealVector reports whether t is a Real, or a Vector of Real.
func IsRealVector(t Type) bool { return IsReal(ScalarOf(t)) }

// IsBoolVector reports whether t is Bool, or a Vector of Bool.
func IsBoolVector(t Type) bool { return IsBool(ScalarOf(t)) }

// BoolLikeResult returns Bool, or a Vector of Bool sized like t if t is a
// vector — the result-type rule shared by every comparison builtin.
func BoolLikeResult(t Type) Type {
	if t.kind == Vector {
		return VectorType(NewBool(), t.size)
	}
	return NewBool()
}

// PointerElemCompatible reports whether two pointer element types are
// interchangeable as call arguments: equal types, or equal once normalized
// through the foreign-call flag/storage-class rule in PointerStorageCompatible.
func PointerElemCompatible(want, got Type) bool {
	if want.kind != Pointer || got.kind != Pointer {
		return Equal(want, got)
	}
	if !Equal(Elem(want), Elem(got)) {
		return false
	}
	return PointerFlagsCompatible(want.flags, got.flags) && PointerStorageCompatible(want.storage, got.storage)
}

// PointerFlagsCompatible reports whether a pointer with flags `got` may be
// passed where flags `want` are required: every flag `want` asks for must
// be present in `got` (a writable+readable source can satisfy a
// readable-only requirement, not the reverse).
func PointerFlagsCompatible(want, got PointerFlag) bool {
	return want&got == want
}

// PointerStorageCompatible implements the asymmetric storage-class
// subtyping described in SPEC_FULL §12, grounded on the original
// specializer: an unnamed destination class accepts a pointer of any
// source class (a generic caller doesn't care where the pointer came
// from); any other destination class requires an exact match.
func PointerStorageCompatible(want, got StorageClass) bool {
	if want == StorageUnnamed {
		return true
	}
	return want == got
}

// IntMinMax returns the representable signed/unsigned range of an integer
// type.
func IntMinMax(t Type) (min int64, max uint64) {
	w := uint(t.bits)
	if w == 0 || w > 64 {
		w = 64
	}
	if t.signed {
		if w == 64 {
			return -1 << 63, 1<<63 - 1
		}
		return -(1 << (w - 1)), uint64(1<<(w-1)) - 1
	}
	if w == 64 {
		return 0, ^uint64(0)
	}
	return 0, uint64(1<<w) - 1
}
