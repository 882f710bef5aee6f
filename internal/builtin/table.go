// Package builtin is the dispatch table mapping each primitive-operator
// tag to its arity bounds and type rule (spec §4.8.3, Design Notes:
// "encode as a static table ... collapses the macro-generated switch into
// data"). Structurally regular operators (the int/float binop, compare,
// and unary families) are table-driven; structurally unique ones
// (GetElementPtr, ExtractValue/InsertValue, Load/Store, Alloca/Malloc/Free,
// Dump, TypeOf, Undef, Bitcast) are named Go functions collected into the
// same table, mirroring how the teacher's irgen/expr.go mixes a map
// literal for simple binops with bespoke switch arms for structural ones.
package builtin

import (
	"fmt"

	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// CheckFunc verifies args (already specialized, Symbol-target values) and
// returns the builtin's result type, or an error (spec §4.8.3).
type CheckFunc func(a ir.Anchor, args []ir.Value) (typesys.Type, error)

// Rule is one builtin's arity bounds plus its type rule. MaxArgs = -1
// means unbounded (Dump accepts any arity, spec table).
type Rule struct {
	MinArgs int
	MaxArgs int
	Check   CheckFunc
}

func invalidOperands(a ir.Anchor, msg string, args ...any) error {
	return diag.New(diag.InvalidOperands, a, msg, args...)
}

func argCount(a ir.Anchor, tag string, n, min, max int) error {
	if n < min || (max >= 0 && n > max) {
		return diag.New(diag.ArgumentCountMismatch, a, "%s: expected %s argument(s), got %d", tag, arityDesc(min, max), n)
	}
	return nil
}

func arityDesc(min, max int) string {
	if max < 0 {
		return fmt.Sprintf("at least %d", min)
	}
	if min == max {
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d-%d", min, max)
}

func typeArg(a ir.Anchor, v ir.Value) (typesys.Type, error) {
	t, ok := ir.TypeArg(v)
	if !ok {
		return typesys.Type{}, diag.New(diag.ConstantExpected, a, "expected a compile-time type argument")
	}
	return t, nil
}

// --- regular families: binops, compares, unary ops -----------------------

func intBinop(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x, y := args[0].Type(), args[1].Type()
	if !typesys.IsIntegerVector(x) || !typesys.IsIntegerVector(y) {
		return typesys.Type{}, invalidOperands(a, "integer binary operator requires integer or integer-vector operands, got %s and %s", x, y)
	}
	if !typesys.VectorSizesMatch(x, y) || !typesys.Equal(x, y) {
		return typesys.Type{}, invalidOperands(a, "integer binary operator operand types must be equal, got %s and %s", x, y)
	}
	return x, nil
}

func floatBinop(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x, y := args[0].Type(), args[1].Type()
	if !typesys.IsRealVector(x) || !typesys.IsRealVector(y) {
		return typesys.Type{}, invalidOperands(a, "float binary operator requires real or real-vector operands, got %s and %s", x, y)
	}
	if !typesys.VectorSizesMatch(x, y) || !typesys.Equal(x, y) {
		return typesys.Type{}, invalidOperands(a, "float binary operator operand types must be equal, got %s and %s", x, y)
	}
	return x, nil
}

func intCompare(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x, y := args[0].Type(), args[1].Type()
	if !typesys.IsIntegerVector(x) || !typesys.IsIntegerVector(y) {
		return typesys.Type{}, invalidOperands(a, "integer compare requires integer or integer-vector operands, got %s and %s", x, y)
	}
	if !typesys.VectorSizesMatch(x, y) || !typesys.Equal(x, y) {
		return typesys.Type{}, invalidOperands(a, "integer compare operand types must be equal, got %s and %s", x, y)
	}
	return typesys.BoolLikeResult(x), nil
}

func floatCompare(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x, y := args[0].Type(), args[1].Type()
	if !typesys.IsRealVector(x) || !typesys.IsRealVector(y) {
		return typesys.Type{}, invalidOperands(a, "float compare requires real or real-vector operands, got %s and %s", x, y)
	}
	if !typesys.VectorSizesMatch(x, y) || !typesys.Equal(x, y) {
		return typesys.Type{}, invalidOperands(a, "float compare operand types must be equal, got %s and %s", x, y)
	}
	return typesys.BoolLikeResult(x), nil
}

func unaryInt(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x := args[0].Type()
	if !typesys.IsIntegerVector(x) {
		return typesys.Type{}, invalidOperands(a, "unary integer operator requires an integer or integer-vector operand, got %s", x)
	}
	return x, nil
}

func unaryFloat(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x := args[0].Type()
	if !typesys.IsRealVector(x) {
		return typesys.Type{}, invalidOperands(a, "unary float operator requires a real or real-vector operand, got %s", x)
	}
	return x, nil
}

func ternaryFloat(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	x, y, z := args[0].Type(), args[1].Type(), args[2].Type()
	if !typesys.IsRealVector(x) || !typesys.IsRealVector(y) || !typesys.IsRealVector(z) {
		return typesys.Type{}, invalidOperands(a, "FMix requires three real or real-vector operands")
	}
	if !typesys.Equal(x, y) || !typesys.Equal(y, z) {
		return typesys.Type{}, invalidOperands(a, "FMix operand types must all be equal")
	}
	return x, nil
}

// --- structurally unique builtins ----------------------------------------

func checkDump(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	types := make([]typesys.Type, len(args))
	for i, v := range args {
		types[i] = v.Type()
	}
	return typesys.ArgumentsType(types), nil
}

func checkUndef(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	return typeArg(a, args[0])
}

func checkTypeOf(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	return typesys.NewExtern("type"), nil
}

func checkTertiary(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	c, x, y := args[0].Type(), args[1].Type(), args[2].Type()
	if !typesys.IsBoolVector(c) {
		return typesys.Type{}, invalidOperands(a, "Tertiary condition must be bool or a bool-vector, got %s", c)
	}
	if !typesys.VectorSizesMatch(c, x) {
		return typesys.Type{}, invalidOperands(a, "Tertiary condition vector size must match its operands")
	}
	if !typesys.Equal(x, y) {
		return typesys.Type{}, invalidOperands(a, "Tertiary branch types must be equal, got %s and %s", x, y)
	}
	return x, nil
}

func checkBitcast(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.StorageKindEqual(src, dst) {
		return typesys.Type{}, invalidOperands(a, "Bitcast: incompatible storage kinds %s and %s", src, dst)
	}
	return dst, nil
}

// checkIntToPtr implements FN_IntToPtr (prover.cpp:911-918): the source
// must be integer, the destination a pointer.
func checkIntToPtr(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsInteger(src) {
		return typesys.Type{}, invalidOperands(a, "IntToPtr requires an integer source operand, got %s", args[0].Type())
	}
	if !typesys.IsPointer(dst) {
		return typesys.Type{}, invalidOperands(a, "IntToPtr requires a pointer destination type, got %s", dst)
	}
	return dst, nil
}

// checkPtrToInt implements FN_PtrToInt (prover.cpp:919-925): the source
// must be a pointer, the destination integer.
func checkPtrToInt(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsPointer(src) {
		return typesys.Type{}, invalidOperands(a, "PtrToInt requires a pointer source operand, got %s", args[0].Type())
	}
	if !typesys.IsInteger(dst) {
		return typesys.Type{}, invalidOperands(a, "PtrToInt requires an integer destination type, got %s", dst)
	}
	return dst, nil
}

// checkIntCast implements FN_ITrunc/FN_ZExt/FN_SExt (prover.cpp:926-933,
// 982-990): both sides must be integer; ITrunc/ZExt/SExt themselves don't
// further constrain width ordering in the original.
func checkIntCast(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsInteger(src) {
		return typesys.Type{}, invalidOperands(a, "integer cast requires an integer source operand, got %s", args[0].Type())
	}
	if !typesys.IsInteger(dst) {
		return typesys.Type{}, invalidOperands(a, "integer cast requires an integer destination type, got %s", dst)
	}
	return dst, nil
}

// checkFPTrunc implements FN_FPTrunc (prover.cpp:934-943): both sides
// real, and not widening (source width >= destination width).
func checkFPTrunc(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	sdst := dst
	if !typesys.IsReal(src) || !typesys.IsReal(sdst) {
		return typesys.Type{}, invalidOperands(a, "FPTrunc requires real operands, got %s and %s", args[0].Type(), dst)
	}
	if typesys.RealBits(src) < typesys.RealBits(sdst) {
		return typesys.Type{}, invalidOperands(a, "FPTrunc requires a narrowing conversion, got %s to %s", args[0].Type(), dst)
	}
	return dst, nil
}

// checkFPExt implements FN_FPExt (prover.cpp:944-953): both sides real,
// and not narrowing (source width <= destination width).
func checkFPExt(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	sdst := dst
	if !typesys.IsReal(src) || !typesys.IsReal(sdst) {
		return typesys.Type{}, invalidOperands(a, "FPExt requires real operands, got %s and %s", args[0].Type(), dst)
	}
	if typesys.RealBits(src) > typesys.RealBits(sdst) {
		return typesys.Type{}, invalidOperands(a, "FPExt requires a widening conversion, got %s to %s", args[0].Type(), dst)
	}
	return dst, nil
}

// isF32OrF64 implements prover.cpp's "(T != TYPE_F32) && (T != TYPE_F64)"
// restriction on the real operand of the int/float conversion builtins.
func isF32OrF64(t typesys.Type) bool {
	b := typesys.RealBits(t)
	return b == 32 || b == 64
}

// checkFloatToInt implements FN_FPToUI/FN_FPToSI (prover.cpp:954-965):
// source real (f32/f64 only), destination integer.
func checkFloatToInt(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsReal(src) || !isF32OrF64(src) {
		return typesys.Type{}, invalidOperands(a, "float-to-int conversion requires an f32 or f64 source operand, got %s", args[0].Type())
	}
	if !typesys.IsInteger(dst) {
		return typesys.Type{}, invalidOperands(a, "float-to-int conversion requires an integer destination type, got %s", dst)
	}
	return dst, nil
}

// checkIntToFloat implements FN_UIToFP/FN_SIToFP (prover.cpp:966-977):
// source integer, destination real (f32/f64 only).
func checkIntToFloat(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	src := args[0].Type()
	dst, err := typeArg(a, args[1])
	if err != nil {
		return typesys.Type{}, err
	}
	sdst := dst
	if !typesys.IsInteger(src) {
		return typesys.Type{}, invalidOperands(a, "int-to-float conversion requires an integer source operand, got %s", args[0].Type())
	}
	if !typesys.IsReal(sdst) || !isF32OrF64(sdst) {
		return typesys.Type{}, invalidOperands(a, "int-to-float conversion requires an f32 or f64 destination type, got %s", dst)
	}
	return dst, nil
}

func checkExtractValue(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	agg := args[0].Type()
	idx, ok := constIndex(args[1])
	if !ok {
		return typesys.Type{}, invalidOperands(a, "ExtractValue index must be a constant integer")
	}
	ft, ok := typesys.FieldAt(agg, idx)
	if !ok {
		return typesys.Type{}, invalidOperands(a, "ExtractValue index %d out of range for %s", idx, agg)
	}
	return ft, nil
}

func checkInsertValue(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	agg, val := args[0].Type(), args[1].Type()
	idx, ok := constIndex(args[2])
	if !ok {
		return typesys.Type{}, invalidOperands(a, "InsertValue index must be a constant integer")
	}
	ft, ok := typesys.FieldAt(agg, idx)
	if !ok {
		return typesys.Type{}, invalidOperands(a, "InsertValue index %d out of range for %s", idx, agg)
	}
	if !typesys.StorageKindEqual(val, ft) {
		return typesys.Type{}, invalidOperands(a, "InsertValue value storage %s does not match field storage %s", val, ft)
	}
	return agg, nil
}

func constIndex(v ir.Value) (int, bool) {
	ci, ok := v.(*ir.ConstInt)
	if !ok {
		return 0, false
	}
	return int(ci.V), true
}

// checkGetElementPtr resolves a chain of integer or symbol indices against
// a pointer's pointee type, rewriting symbol indices to field numbers in
// place (spec §4.8.3: "symbols are rewritten to field indices"). The
// result preserves the original pointer's flags and storage class.
func checkGetElementPtr(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	base := args[0].Type()
	if !typesys.IsPointer(base) {
		return typesys.Type{}, invalidOperands(a, "GetElementPtr requires a pointer base, got %s", base)
	}
	cur := typesys.Elem(base)
	for _, idxArg := range args[1:] {
		switch v := idxArg.(type) {
		case *ir.ConstInt:
			ft, ok := typesys.FieldAt(cur, int(v.V))
			if ok {
				cur = ft
				continue
			}
			if typesys.VectorSize(cur) > 0 || cur.Kind() == typesys.Array {
				cur = typesys.Elem(cur)
				continue
			}
			return typesys.Type{}, invalidOperands(a, "GetElementPtr index %d out of range for %s", v.V, cur)
		case *ir.Symbol:
			idx, ok := typesys.FieldIndex(cur, v.Name)
			if !ok {
				return typesys.Type{}, invalidOperands(a, "GetElementPtr: no field named %q in %s", v.Name, cur)
			}
			ft, _ := typesys.FieldAt(cur, idx)
			cur = ft
		default:
			return typesys.Type{}, invalidOperands(a, "GetElementPtr index must be an integer constant or a field symbol")
		}
	}
	return typesys.PointerType(cur, typesys.Flags(base), typesys.Storage(base)), nil
}

func checkLoad(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	p := args[0].Type()
	if !typesys.IsPointer(p) {
		return typesys.Type{}, invalidOperands(a, "Load requires a pointer operand, got %s", p)
	}
	if typesys.Flags(p)&typesys.FlagReadable == 0 {
		return typesys.Type{}, invalidOperands(a, "Load: pointer is non-readable")
	}
	return typesys.Elem(p), nil
}

func checkStore(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	val, p := args[0].Type(), args[1].Type()
	if !typesys.IsPointer(p) {
		return typesys.Type{}, invalidOperands(a, "Store requires a pointer operand, got %s", p)
	}
	if typesys.Flags(p)&typesys.FlagWritable == 0 {
		return typesys.Type{}, invalidOperands(a, "Store: pointer is non-writable")
	}
	if !typesys.StorageKindEqual(val, typesys.Elem(p)) {
		return typesys.Type{}, invalidOperands(a, "Store: value storage %s does not match pointee storage %s", val, typesys.Elem(p))
	}
	return typesys.EmptyArgumentsType(), nil
}

func checkAlloca(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	t, err := typeArg(a, args[0])
	if err != nil {
		return typesys.Type{}, err
	}
	return typesys.LocalPointerType(t), nil
}

func checkAllocaArray(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	t, err := typeArg(a, args[0])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsInteger(args[1].Type()) {
		return typesys.Type{}, invalidOperands(a, "AllocaArray count must be an integer, got %s", args[1].Type())
	}
	return typesys.LocalPointerType(t), nil
}

func checkMalloc(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	t, err := typeArg(a, args[0])
	if err != nil {
		return typesys.Type{}, err
	}
	return typesys.HeapPointerType(t), nil
}

func checkMallocArray(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	t, err := typeArg(a, args[0])
	if err != nil {
		return typesys.Type{}, err
	}
	if !typesys.IsInteger(args[1].Type()) {
		return typesys.Type{}, invalidOperands(a, "MallocArray count must be an integer, got %s", args[1].Type())
	}
	return typesys.HeapPointerType(t), nil
}

func checkFree(a ir.Anchor, args []ir.Value) (typesys.Type, error) {
	p := args[0].Type()
	if !typesys.IsPointer(p) {
		return typesys.Type{}, invalidOperands(a, "Free requires a pointer operand, got %s", p)
	}
	if typesys.Flags(p)&typesys.FlagWritable == 0 {
		return typesys.Type{}, invalidOperands(a, "Free: pointer is non-writable")
	}
	if typesys.Storage(p) != typesys.StorageUnnamed {
		return typesys.Type{}, invalidOperands(a, "Free: pointer has no heap origin")
	}
	return typesys.EmptyArgumentsType(), nil
}

// Table is the full builtin dispatch table (spec §4.8.3).
var Table = map[string]Rule{
	"Dump":    {0, -1, checkDump},
	"Undef":   {1, 1, checkUndef},
	"TypeOf":  {1, 1, checkTypeOf},
	"Tertiary": {3, 3, checkTertiary},
	"Bitcast": {2, 2, checkBitcast},

	"IntToPtr": {2, 2, checkIntToPtr},
	"PtrToInt": {2, 2, checkPtrToInt},
	"ITrunc":   {2, 2, checkIntCast},
	"ZExt":     {2, 2, checkIntCast},
	"SExt":     {2, 2, checkIntCast},

	"FPTrunc": {2, 2, checkFPTrunc},
	"FPExt":   {2, 2, checkFPExt},

	"FPToUI": {2, 2, checkFloatToInt},
	"FPToSI": {2, 2, checkFloatToInt},
	"UIToFP": {2, 2, checkIntToFloat},
	"SIToFP": {2, 2, checkIntToFloat},

	"ExtractValue": {2, 2, checkExtractValue},
	"InsertValue":  {3, 3, checkInsertValue},
	"GetElementPtr": {2, -1, checkGetElementPtr},

	"Load":         {1, 1, checkLoad},
	"VolatileLoad": {1, 1, checkLoad},
	"Store":        {2, 2, checkStore},
	"VolatileStore": {2, 2, checkStore},

	"Alloca":      {1, 1, checkAlloca},
	"AllocaArray": {2, 2, checkAllocaArray},
	"Malloc":      {1, 1, checkMalloc},
	"MallocArray": {2, 2, checkMallocArray},
	"Free":        {1, 1, checkFree},

	"FMix": {3, 3, ternaryFloat},
}

func init() {
	intCmp := []string{"ICmpEQ", "ICmpNE", "ICmpSGT", "ICmpSGE", "ICmpSLT", "ICmpSLE", "ICmpUGT", "ICmpUGE", "ICmpULT", "ICmpULE"}
	for _, tag := range intCmp {
		Table[tag] = Rule{2, 2, intCompare}
	}
	floatCmp := []string{"FCmpOEQ", "FCmpONE", "FCmpOGT", "FCmpOGE", "FCmpOLT", "FCmpOLE", "FCmpUEQ", "FCmpUNE"}
	for _, tag := range floatCmp {
		Table[tag] = Rule{2, 2, floatCompare}
	}
	intBin := []string{
		"Add", "AddNUW", "AddNSW", "Sub", "SubNUW", "SubNSW", "Mul", "MulNUW", "MulNSW",
		"SDiv", "UDiv", "SRem", "URem", "And", "Or", "Xor", "Shl", "LShr", "AShr",
	}
	for _, tag := range intBin {
		Table[tag] = Rule{2, 2, intBinop}
	}
	floatBin := []string{"FAdd", "FSub", "FMul", "FDiv", "FRem", "Atan2", "Step", "Pow"}
	for _, tag := range floatBin {
		Table[tag] = Rule{2, 2, floatBinop}
	}
	Table["SSign"] = Rule{1, 1, unaryInt}
	floatUnary := []string{
		"FAbs", "FSign", "Sin", "Cos", "Tan", "ASin", "ACos", "ATan", "Exp", "Exp2",
		"Log", "Log2", "Sqrt", "InverseSqrt", "Floor", "Ceil", "Trunc", "Round", "Radians", "Degrees",
	}
	for _, tag := range floatUnary {
		Table[tag] = Rule{1, 1, unaryFloat}
	}
}

// Check runs tag's rule against args, validating arity first (spec §4.8.3
// closing rule: "Any unknown builtin: cannot_type_builtin").
func Check(a ir.Anchor, tag string, args []ir.Value) (typesys.Type, error) {
	rule, ok := Table[tag]
	if !ok {
		return typesys.Type{}, diag.New(diag.CannotTypeBuiltin, a, "cannot type builtin %q", tag)
	}
	if err := argCount(a, tag, len(args), rule.MinArgs, rule.MaxArgs); err != nil {
		return typesys.Type{}, err
	}
	return rule.Check(a, args)
}
