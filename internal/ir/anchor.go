package ir

import (
	"fmt"
	"sort"
)

// File holds a source file's text and precomputed line offsets, used only to
// turn a byte offset into a human-readable line/column for diagnostics. The
// specializer never reads file contents itself; the expander (external,
// spec §6) attaches Files to the Anchors it produces.
type File struct {
	Name        string
	Input       string
	lineOffsets []int
}

func NewFile(name, input string) *File {
	f := &File{Name: name, Input: input, lineOffsets: []int{0}}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

func (f *File) LineCol(off int) (line, col int) {
	if off < 0 {
		off = 0
	}
	if off > len(f.Input) {
		off = len(f.Input)
	}
	i := sort.Search(len(f.lineOffsets), func(i int) bool { return f.lineOffsets[i] > off }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, off - f.lineOffsets[i] + 1
}

// Anchor is the source-location record every Value carries (spec §3, §GLOSSARY).
type Anchor struct {
	File  *File
	Start int
}

func (a Anchor) String() string {
	if a.File == nil {
		return "<unknown>"
	}
	line, col := a.File.LineCol(a.Start)
	return fmt.Sprintf("%s:%d:%d", a.File.Name, line, col)
}

// NoAnchor is used for nodes synthesized by the specializer itself
// (synthesized Return/Block wrappers) that have no original source position.
var NoAnchor = Anchor{}
