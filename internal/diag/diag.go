// Package diag's Bag accumulates diagnostics for the driver to report
// (cmd/specialize): the specializer core itself stays fail-fast per spec
// §7, returning the first *Error rather than collecting a Bag, so Bag only
// exists on the CLI side of that boundary.
package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/LunNova/fundament-scopes/internal/ir"
)

type Item struct {
	Filename string
	Line     int
	Col      int
	Msg      string
}

type Bag struct {
	Items []Item
}

func (b *Bag) Add(filename string, line int, col int, msg string) {
	b.Items = append(b.Items, Item{Filename: filename, Line: line, Col: col, Msg: msg})
}

func (b *Bag) AddAt(loc Loc, msg string) {
	b.Add(loc.Filename, loc.Line, loc.Col, msg)
}

// AddError locates err at its *Error's Anchor when err carries one,
// falling back to a location-less item otherwise (e.g. a plain error from
// outside the specializer core). This is the path cmd/specialize's driver
// uses, so callers never need to pick apart an *Error's Anchor by hand.
func (b *Bag) AddError(fallbackFilename string, err error) {
	var e *Error
	for cur := err; cur != nil; {
		if as, ok := cur.(*Error); ok {
			e = as
			break
		}
		u, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}
	if e == nil || e.Anchor == ir.NoAnchor || e.Anchor.File == nil {
		b.Add(fallbackFilename, 0, 0, err.Error())
		return
	}
	line, col := e.Anchor.File.LineCol(e.Anchor.Start)
	b.Add(e.Anchor.File.Name, line, col, err.Error())
}

type Loc struct {
	Filename string
	Line     int
	Col      int
}

func Print(w io.Writer, b *Bag) {
	if b == nil || len(b.Items) == 0 {
		return
	}
	items := make([]Item, 0, len(b.Items))
	items = append(items, b.Items...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Filename != items[j].Filename {
			return items[i].Filename < items[j].Filename
		}
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return items[i].Col < items[j].Col
	})
	for _, it := range items {
		fmt.Fprintf(w, "%s:%d:%d: error: %s\n", it.Filename, it.Line, it.Col, it.Msg)
	}
}
