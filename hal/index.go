package hal

import (
	"strings"
)

// Index is the resolved variant selection for one owning context: one value
// per axis. It is resolved once, treated as read-only afterwards, and safe
// for any number of concurrent readers.
type Index struct {
	entries []Variant
}

// NewIndex builds an index from resolved variants. A later variant on the
// same axis replaces an earlier one.
func NewIndex(variants ...Variant) Index {
	idx := Index{}
	for _, v := range variants {
		idx = idx.With(v)
	}
	return idx
}

// With returns a copy of the index with v set, replacing any existing value
// on the same axis. The receiver is unchanged.
func (ix Index) With(v Variant) Index {
	if v.axis == nil {
		return ix
	}
	entries := make([]Variant, 0, len(ix.entries)+1)
	replaced := false
	for _, e := range ix.entries {
		if e.axis == v.axis {
			entries = append(entries, v)
			replaced = true
		} else {
			entries = append(entries, e)
		}
	}
	if !replaced {
		entries = append(entries, v)
	}
	return Index{entries: entries}
}

// Value returns the index's value on the given axis.
func (ix Index) Value(a *Axis) (uint32, bool) {
	for _, e := range ix.entries {
		if e.axis == a {
			return e.value, true
		}
	}
	return 0, false
}

// Variant returns the resolved variant on the given axis.
func (ix Index) Variant(a *Axis) (Variant, bool) {
	for _, e := range ix.entries {
		if e.axis == a {
			return e, true
		}
	}
	return Variant{}, false
}

// Axes returns the axes the index resolves, in insertion order.
func (ix Index) Axes() []*Axis {
	axes := make([]*Axis, len(ix.entries))
	for i, e := range ix.entries {
		axes[i] = e.axis
	}
	return axes
}

// IsZero reports whether no axis is resolved.
func (ix Index) IsZero() bool { return len(ix.entries) == 0 }

func (ix Index) String() string {
	if len(ix.entries) == 0 {
		return "<empty>"
	}
	parts := make([]string, len(ix.entries))
	for i, e := range ix.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Owner is implemented by the context object that resolved the variant
// index for its subtree. Object creation locates the nearest ancestor
// implementing Owner when no explicit index is supplied.
type Owner interface {
	VariantIndex() Index
}
