package specializer

import (
	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

// Cache memoizes (frame identity, template identity, argument-type vector)
// → specialized Function (spec §3 invariant, §4.9). The Design Notes
// suggest threading the cache explicitly as an argument rather than
// keeping it process-global, so tests can run isolated specializations;
// here it is a field of Specializer instead, which amounts to the same
// thing without an extra parameter on every call.
type Cache struct {
	buckets map[bucketKey][]entry
}

// bucketKey covers the identity-comparable half of the cache key (frame
// and template pointers); the argument-type vector is compared by value
// within a bucket since typesys.Type is not comparable with ==.
type bucketKey struct {
	frame *ir.Frame
	tmpl  *ir.Template
}

type entry struct {
	args []typesys.Type
	fn   *ir.Function
}

func NewCache() *Cache {
	return &Cache{buckets: make(map[bucketKey][]entry)}
}

// Lookup returns the cached Function for this exact key, if any (spec §3:
// "lookup is exact identity comparison on frame and template, value
// comparison on types").
func (c *Cache) Lookup(frame *ir.Frame, tmpl *ir.Template, args []typesys.Type) (*ir.Function, bool) {
	key := bucketKey{frame: frame, tmpl: tmpl}
	for _, e := range c.buckets[key] {
		if typesys.EqualSlice(e.args, args) {
			return e.fn, true
		}
	}
	return nil, false
}

// Insert records fn under this key. It must be called before fn's body is
// specialized (spec §4.9 step 2) so that a recursive self-call finds the
// in-progress, incomplete Function rather than re-entering this path.
func (c *Cache) Insert(frame *ir.Frame, tmpl *ir.Template, args []typesys.Type, fn *ir.Function) {
	key := bucketKey{frame: frame, tmpl: tmpl}
	c.buckets[key] = append(c.buckets[key], entry{args: args, fn: fn})
}
