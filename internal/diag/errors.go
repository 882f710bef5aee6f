package diag

import (
	"fmt"

	"github.com/purpleidea/mgmt/util/errwrap"

	"github.com/LunNova/fundament-scopes/internal/ir"
)

// Kind enumerates the specializer's named error conditions (spec §7).
// Kind is not exhaustive — Generic covers bespoke, anchor-tagged messages
// the spec allows ("plus a generic location-tagged message").
type Kind int

const (
	Generic Kind = iota
	CannotMergeExpressionTypes
	NoreturnNotLastExpression
	VariadicSymbolNotInLastPlace
	IllegalBreakOutsideLoop
	IllegalRepeatOutsideLoop
	IllegalReturnInInline
	CannotFindFrame
	UnboundSymbol
	InvalidConditionType
	ConstantExpected
	InvalidCallType
	InvalidOperands
	ArgumentCountMismatch
	ArgumentTypeMismatch
	UntypedRecursiveCall
	CannotTypeBuiltin
)

func (k Kind) String() string {
	switch k {
	case CannotMergeExpressionTypes:
		return "cannot_merge_expression_types"
	case NoreturnNotLastExpression:
		return "noreturn_not_last_expression"
	case VariadicSymbolNotInLastPlace:
		return "variadic_symbol_not_in_last_place"
	case IllegalBreakOutsideLoop:
		return "illegal_break_outside_loop"
	case IllegalRepeatOutsideLoop:
		return "illegal_repeat_outside_loop"
	case IllegalReturnInInline:
		return "illegal_return_in_inline"
	case CannotFindFrame:
		return "cannot_find_frame"
	case UnboundSymbol:
		return "unbound_symbol"
	case InvalidConditionType:
		return "invalid_condition_type"
	case ConstantExpected:
		return "constant_expected"
	case InvalidCallType:
		return "invalid_call_type"
	case InvalidOperands:
		return "invalid_operands"
	case ArgumentCountMismatch:
		return "argument_count_mismatch"
	case ArgumentTypeMismatch:
		return "argument_type_mismatch"
	case UntypedRecursiveCall:
		return "untyped_recursive_call"
	case CannotTypeBuiltin:
		return "cannot_type_builtin"
	default:
		return "generic"
	}
}

// Error is the specializer's error value: a Kind, the Anchor of the node
// that raised it, a message, and an optional wrapped cause. It satisfies
// errors.Unwrap so callers can errors.As down to a specific cause and
// errors.Is-compare against a Kind via Is(err, kind).
type Error struct {
	Kind   Kind
	Anchor ir.Anchor
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Anchor == ir.NoAnchor {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Anchor, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a Kind-tagged Error anchored at a.
func New(kind Kind, a ir.Anchor, msg string, args ...any) *Error {
	return &Error{Kind: kind, Anchor: a, Msg: fmt.Sprintf(msg, args...)}
}

// Is reports whether err is, or wraps, a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if as, ok := err.(*Error); ok {
			e = as
			if e.Kind == kind {
				return true
			}
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// AddErrorTrace attaches the given Call node's anchor to err's trace
// (spec §7: "the call specializer attaches the current Call node to the
// error trace before propagating"), using errwrap.Wrapf the same way
// purpleidea/mgmt's resource builder threads "could not build X" context
// onto an inner error without discarding it.
func AddErrorTrace(call *ir.Call, err error) error {
	if err == nil {
		return nil
	}
	return errwrap.Wrapf(err, "in call at %s", call.Anchor())
}
