// Package typesys is the specializer's stand-in for the "target type
// system" that spec.md §6 names as an external collaborator. The real
// target type system (storage normalization against a specific backend,
// struct layout, etc.) is out of scope here; this package implements
// just enough of its interface — kind queries, storage normalization,
// the arguments tuple, pointer/vector compatibility, arithmetic kind
// checks — for the specializer to be self-contained and testable.
package typesys

import (
	"fmt"
	"strings"
)

// Kind is the tag of a Type's sum-type variant (spec §3).
type Kind int

const (
	Unknown Kind = iota
	Nothing
	NoReturn
	Bool
	Integer
	Real
	Pointer
	Array
	Tuple
	Union
	Vector
	Function
	Arguments
	Closure
	Builtin
	ASTMacro
	Extern
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Nothing:
		return "nothing"
	case NoReturn:
		return "noreturn"
	case Bool:
		return "bool"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Union:
		return "union"
	case Vector:
		return "vector"
	case Function:
		return "function"
	case Arguments:
		return "arguments"
	case Closure:
		return "closure"
	case Builtin:
		return "builtin"
	case ASTMacro:
		return "ast-macro"
	case Extern:
		return "extern"
	default:
		return "?"
	}
}

// PointerFlag marks readability/writability/volatility on a Pointer type.
type PointerFlag int

const (
	FlagReadable PointerFlag = 1 << iota
	FlagWritable
	FlagVolatile
)

// StorageClass distinguishes where a pointer originates: the unnamed class
// ("") is compatible with every named class as a call argument (§12 of
// SPEC_FULL, grounded on the original prover's storage-class subtyping);
// named classes are only compatible with themselves.
type StorageClass string

const (
	StorageUnnamed StorageClass = ""
	StorageLocal   StorageClass = "local"
	StorageNative  StorageClass = "native"
	StorageHeap    StorageClass = "heap"
)

// Field describes one element of an Array/Tuple/Union, optionally named
// (named fields are how GetElementPtr's symbol indices are resolved).
type Field struct {
	Name string
	Type Type
}

// Type is the specializer's view of a concrete type. It is a small
// immutable value, compared with Equal (§3 invariants: "value comparison
// on types"). It holds slices, so it is not comparable with == and is not
// usable as a map key; the function cache compares type lists with
// EqualSlice.
type Type struct {
	kind Kind

	// Integer
	bits   int
	signed bool

	// Real
	realBits int

	// Pointer
	elem    *Type
	flags   PointerFlag
	storage StorageClass

	// Array / Vector
	size int

	// Tuple / Union / Arguments
	fields []Field

	// Function / Closure-shaped function pointer
	ret    *Type
	except *Type
	params []Type
	raises bool

	// Extern
	externName string
}

func (t Type) Kind() Kind { return t.kind }

func (t Type) String() string {
	switch t.kind {
	case Unknown:
		return "?"
	case Nothing:
		return "nothing"
	case NoReturn:
		return "noreturn"
	case Bool:
		return "bool"
	case Integer:
		if t.signed {
			return fmt.Sprintf("i%d", t.bits)
		}
		return fmt.Sprintf("u%d", t.bits)
	case Real:
		return fmt.Sprintf("f%d", t.realBits)
	case Pointer:
		cls := ""
		if t.storage != StorageUnnamed {
			cls = "@" + string(t.storage)
		}
		return fmt.Sprintf("(pointer %s%s)", t.elem.String(), cls)
	case Array:
		return fmt.Sprintf("(array %s %d)", t.elem.String(), t.size)
	case Vector:
		return fmt.Sprintf("(vector %s %d)", t.elem.String(), t.size)
	case Tuple:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.Type.String()
		}
		return fmt.Sprintf("(tuple %s)", strings.Join(parts, " "))
	case Union:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.Type.String()
		}
		return fmt.Sprintf("(union %s)", strings.Join(parts, " "))
	case Arguments:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.Type.String()
		}
		return fmt.Sprintf("(arguments %s)", strings.Join(parts, " "))
	case Function:
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = p.String()
		}
		exc := ""
		if t.raises {
			exc = fmt.Sprintf("<%s> ", t.except.String())
		}
		return fmt.Sprintf("(function %s(%s) %s)", exc, strings.Join(parts, " "), t.ret.String())
	case Closure:
		return "closure"
	case Builtin:
		return "builtin"
	case ASTMacro:
		return "ast-macro"
	case Extern:
		return "extern<" + t.externName + ">"
	default:
		return "<bad>"
	}
}

// Equal is value equality over the type's full structure (spec §3: "value
// comparison on types").
func Equal(a, b Type) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Integer:
		return a.bits == b.bits && a.signed == b.signed
	case Real:
		return a.realBits == b.realBits
	case Pointer:
		return Equal(*a.elem, *b.elem) && a.flags == b.flags && a.storage == b.storage
	case Array, Vector:
		return Equal(*a.elem, *b.elem) && a.size == b.size
	case Tuple, Union, Arguments:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Type, b.fields[i].Type) {
				return false
			}
		}
		return true
	case Function:
		if len(a.params) != len(b.params) || a.raises != b.raises {
			return false
		}
		if !Equal(*a.ret, *b.ret) {
			return false
		}
		if a.raises && !Equal(*a.except, *b.except) {
			return false
		}
		for i := range a.params {
			if !Equal(a.params[i], b.params[i]) {
				return false
			}
		}
		return true
	case Extern:
		return a.externName == b.externName
	default:
		return true
	}
}

// EqualSlice compares two type vectors elementwise, used for the function
// cache's argument-type-vector key (spec §3 invariant).
func EqualSlice(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsReturning reports whether t is a type other than NoReturn
// (spec GLOSSARY: "Returning type").
func IsReturning(t Type) bool { return t.kind != NoReturn }

func IsArguments(t Type) bool { return t.kind == Arguments }

func IsInteger(t Type) bool { return t.kind == Integer }
func IsReal(t Type) bool    { return t.kind == Real }
func IsBool(t Type) bool    { return t.kind == Bool }
func IsPointer(t Type) bool { return t.kind == Pointer }

// --- constructors -----------------------------------------------------

func New(k Kind) Type                 { return Type{kind: k} }
func NewUnknown() Type                { return Type{kind: Unknown} }
func NewNothing() Type                { return Type{kind: Nothing} }
func NewNoReturn() Type               { return Type{kind: NoReturn} }
func NewBool() Type                   { return Type{kind: Bool} }
func NewInteger(bits int, signed bool) Type { return Type{kind: Integer, bits: bits, signed: signed} }
func NewReal(bits int) Type           { return Type{kind: Real, realBits: bits} }
func NewExtern(name string) Type      { return Type{kind: Extern, externName: name} }
func NewClosure() Type                { return Type{kind: Closure} }
func NewBuiltin() Type                { return Type{kind: Builtin} }
func NewASTMacro() Type               { return Type{kind: ASTMacro} }

func IntBits(t Type) int   { return t.bits }
func IntSigned(t Type) bool { return t.signed }
func RealBits(t Type) int  { return t.realBits }

func PointerType(elem Type, flags PointerFlag, storage StorageClass) Type {
	e := elem
	return Type{kind: Pointer, elem: &e, flags: flags, storage: storage}
}

// LocalPointerType is the read/write stack-local pointer Alloca produces.
func LocalPointerType(elem Type) Type {
	return PointerType(elem, FlagReadable|FlagWritable, StorageLocal)
}

// HeapPointerType is the read/write, unnamed-storage pointer the
// Malloc-family builtins produce (spec §4.8.3's Malloc/Free pairing):
// unnamed storage is what marks a pointer as having heap origin, which is
// what Free requires.
func HeapPointerType(elem Type) Type {
	return PointerType(elem, FlagReadable|FlagWritable, StorageUnnamed)
}

func Elem(t Type) Type {
	if t.elem == nil {
		return Type{kind: Unknown}
	}
	return *t.elem
}

func Flags(t Type) PointerFlag    { return t.flags }
func Storage(t Type) StorageClass { return t.storage }

func ArrayType(elem Type, size int) Type {
	e := elem
	return Type{kind: Array, elem: &e, size: size}
}

func VectorType(elem Type, size int) Type {
	e := elem
	return Type{kind: Vector, elem: &e, size: size}
}

func VectorSize(t Type) int { return t.size }

func TupleType(fields []Field) Type { return Type{kind: Tuple, fields: fields} }
func UnionType(fields []Field) Type { return Type{kind: Union, fields: fields} }

// ArgumentsType builds the distinguished "arguments" tuple used for
// multi-value returns (spec §3). A nil/empty vec yields EmptyArgumentsType.
func ArgumentsType(elems []Type) Type {
	fields := make([]Field, len(elems))
	for i, e := range elems {
		fields[i] = Field{Type: e}
	}
	return Type{kind: Arguments, fields: fields}
}

func EmptyArgumentsType() Type { return Type{kind: Arguments} }

func ArgumentsElems(t Type) []Type {
	out := make([]Type, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Type
	}
	return out
}

func FunctionType(ret Type, params []Type) Type {
	r := ret
	return Type{kind: Function, ret: &r, params: params}
}

func RaisingFunctionType(except, ret Type, params []Type) Type {
	e, r := except, ret
	return Type{kind: Function, ret: &r, except: &e, raises: true, params: params}
}

func Raises(t Type) bool { return t.raises }
func ExceptType(t Type) Type {
	if t.except == nil {
		return Type{kind: NoReturn}
	}
	return *t.except
}
func ReturnType(t Type) Type {
	if t.ret == nil {
		return Type{kind: Unknown}
	}
	return *t.ret
}
func Params(t Type) []Type { return t.params }

// FieldIndex looks up a named field on a Tuple/Union/struct-shaped type,
// used by GetElementPtr to rewrite a symbol index to a numeric one.
func FieldIndex(t Type, name string) (int, bool) {
	for i, f := range t.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

func FieldAt(t Type, i int) (Type, bool) {
	if i < 0 || i >= len(t.fields) {
		return Type{}, false
	}
	return t.fields[i].Type, true
}

func NumFields(t Type) int { return len(t.fields) }
