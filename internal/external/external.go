// Package external declares the collaborators this module treats as out
// of scope (spec §1, §6): the surface-syntax expander that produces the
// untyped IR the specializer consumes, the code generator that consumes
// its typed output, and the sibling AST printer. They are referenced only
// by interface — nothing in this module implements them.
package external

import (
	"io"

	"github.com/LunNova/fundament-scopes/internal/ir"
)

// Expander produces Template/Symbol graphs from surface syntax, and
// expands a SyntaxExtend node's macro body against a freshly computed
// scope (spec §6).
type Expander interface {
	Expand(scope *ir.Frame, body ir.Value) (ir.Value, error)
}

// Compiler consumes a completed Function and produces a callable pointer,
// used only by SyntaxExtend evaluation (spec §6).
type Compiler interface {
	Compile(fn *ir.Function) (uintptr, error)
}

// AnchorMode controls how much source-location detail the Printer emits.
type AnchorMode int

const (
	AnchorNone AnchorMode = iota
	AnchorLine
	AnchorAll
)

// Printer walks the same IR graph the specializer produces, independent
// of it, for debugging output (spec §6: "stream_ast(ss, node, fmt)").
type Printer interface {
	StreamAST(w io.Writer, node ir.Value, anchors AnchorMode, depth, indent int) error
}
