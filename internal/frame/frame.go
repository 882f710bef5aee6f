// Package frame implements the behavior side of the specializer's Frame
// (spec §4.1, §3): binding lookups that walk the parent chain, and the
// monotone return/except type joins described in spec §4.2. The data
// layout itself (ir.Frame) lives in package ir because IR nodes (Template,
// Function, ConstClosure) reference it directly.
package frame

import (
	"github.com/LunNova/fundament-scopes/internal/diag"
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// Bind records that orig specializes to repl within f (spec §4.2 step 1).
func Bind(f *ir.Frame, orig, repl ir.Value) {
	f.Bindings[orig] = repl
}

// Lookup walks f and its ancestors for a binding of orig, returning the
// frame it was found in. Only the owning frame's bindings are mutated by
// any one job (spec §5), but lookups must see the whole chain because
// inline expansion and loops nest frames without necessarily rebinding
// every outer symbol.
func Lookup(f *ir.Frame, orig ir.Value) (ir.Value, bool) {
	for cur := f; cur != nil; cur = cur.Parent {
		if v, ok := cur.Bindings[orig]; ok {
			return v, true
		}
	}
	return nil, false
}

// FindOwning walks f and its ancestors for the first frame whose template
// is not flagged inline — i.e. the frame a Return made from inside zero or
// more nested inline expansions actually escapes to (spec §4.6: "make_return
// walks up the frame chain past frames whose template is marked inline").
// It returns diag.CannotFindFrame if the chain is exhausted.
func FindOwning(f *ir.Frame) (*ir.Frame, error) {
	for cur := f; cur != nil; cur = cur.Parent {
		if cur.Template == nil || !cur.Template.Inline {
			return cur, nil
		}
	}
	return nil, diag.New(diag.CannotFindFrame, ir.NoAnchor, "cannot find enclosing non-inline frame")
}

// MergeReturnType implements spec §4.2's merge_return_type: nullptr-like
// zero Type joins to the other side, equal types join to themselves, a
// NoReturn side always loses to a returning side, and two distinct
// returning types fail to merge.
func MergeReturnType(a ir.Anchor, cur, next typesys.Type) (typesys.Type, error) {
	if cur.Kind() == typesys.Unknown {
		return next, nil
	}
	if typesys.Equal(cur, next) {
		return cur, nil
	}
	if cur.Kind() == typesys.NoReturn {
		return next, nil
	}
	if next.Kind() == typesys.NoReturn {
		return cur, nil
	}
	return typesys.Type{}, diag.New(diag.CannotMergeExpressionTypes, a,
		"cannot merge expression types %s and %s", cur, next)
}

// JoinReturnType merges t into f.ReturnType in place (spec §4.2, used by
// Return and the top-level function result).
func JoinReturnType(f *ir.Frame, a ir.Anchor, t typesys.Type) error {
	merged, err := MergeReturnType(a, f.ReturnType, t)
	if err != nil {
		return err
	}
	f.ReturnType = merged
	return nil
}

// JoinExceptType merges t into f.ExceptType in place (spec §4.2, used by Raise).
func JoinExceptType(f *ir.Frame, a ir.Anchor, t typesys.Type) error {
	merged, err := MergeReturnType(a, f.ExceptType, t)
	if err != nil {
		return err
	}
	f.ExceptType = merged
	return nil
}
