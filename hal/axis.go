package hal

import (
	"fmt"
	"strings"

	"github.com/hwstack/obj-runtime/errors"
)

// Axis is one independent hardware/firmware variant dimension. Axes are
// immutable after construction and safe for concurrent use.
type Axis struct {
	name   string
	values []string
}

// NewAxis creates an axis with the given ordered value names.
// Value names must be non-empty and unique within the axis.
func NewAxis(name string, values ...string) (*Axis, error) {
	if name == "" {
		return nil, errors.InvalidArgument(errors.PhaseDispatch, "axis name must not be empty")
	}
	if len(values) == 0 {
		return nil, errors.InvalidArgument(errors.PhaseDispatch,
			fmt.Sprintf("axis %s declares no values", name))
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			return nil, errors.InvalidArgument(errors.PhaseDispatch,
				fmt.Sprintf("axis %s has an empty value name", name))
		}
		if _, dup := seen[v]; dup {
			return nil, errors.InvalidArgument(errors.PhaseDispatch,
				fmt.Sprintf("axis %s declares value %s twice", name, v))
		}
		seen[v] = struct{}{}
	}
	return &Axis{name: name, values: append([]string(nil), values...)}, nil
}

// MustAxis is NewAxis panicking on error. Axes are built at program start;
// a malformed axis is a programming defect.
func MustAxis(name string, values ...string) *Axis {
	a, err := NewAxis(name, values...)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the axis name.
func (a *Axis) Name() string { return a.name }

// NumValues returns the number of values on the axis.
func (a *Axis) NumValues() int { return len(a.values) }

// Values returns a copy of the axis's ordered value names.
func (a *Axis) Values() []string { return append([]string(nil), a.values...) }

// ValueName returns the name of value index v, or "" if out of range.
func (a *Axis) ValueName(v uint32) string {
	if int(v) >= len(a.values) {
		return ""
	}
	return a.values[v]
}

// ValueIndex returns the index of the named value.
func (a *Axis) ValueIndex(name string) (uint32, bool) {
	for i, v := range a.values {
		if v == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// Variant resolves the named value to a (axis, value) pair.
func (a *Axis) Variant(name string) (Variant, error) {
	v, ok := a.ValueIndex(name)
	if !ok {
		return Variant{}, errors.NotFound(errors.PhaseDispatch, "axis "+a.name+" value", name)
	}
	return Variant{axis: a, value: v}, nil
}

// MustVariant is Variant panicking on an unknown value name.
func (a *Axis) MustVariant(name string) Variant {
	v, err := a.Variant(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Variant is one resolved value on one axis.
type Variant struct {
	axis  *Axis
	value uint32
}

// Axis returns the variant's axis.
func (v Variant) Axis() *Axis { return v.axis }

// Value returns the variant's value index on its axis.
func (v Variant) Value() uint32 { return v.value }

func (v Variant) String() string {
	if v.axis == nil {
		return "<nil axis>"
	}
	return v.axis.name + "=" + v.axis.ValueName(v.value)
}

// Mask is a set of values on one axis, stored as 32-bit words: value v is a
// member when words[v>>5] has bit v&31 set. Masks are immutable.
type Mask struct {
	axis  *Axis
	words []uint32
}

// Mask builds a predicate over the named values. Unknown value names panic:
// masks are declared in static rule tables and a typo there is a defect, not
// a runtime condition.
func (a *Axis) Mask(values ...string) Mask {
	words := make([]uint32, (len(a.values)+31)/32)
	for _, name := range values {
		v, ok := a.ValueIndex(name)
		if !ok {
			panic(errors.NotFound(errors.PhaseDispatch, "axis "+a.name+" value", name))
		}
		words[v>>5] |= 1 << (v & 31)
	}
	return Mask{axis: a, words: words}
}

// AllValues returns a mask containing every value on the axis.
func (a *Axis) AllValues() Mask {
	return a.Mask(a.values...)
}

// Axis returns the mask's axis.
func (m Mask) Axis() *Axis { return m.axis }

// Contains reports whether value index v is a member.
func (m Mask) Contains(v uint32) bool {
	w := v >> 5
	if int(w) >= len(m.words) {
		return false
	}
	return m.words[w]&(1<<(v&31)) != 0
}

// Empty reports whether the mask has no members.
func (m Mask) Empty() bool {
	for _, w := range m.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (m Mask) String() string {
	if m.axis == nil {
		return "<nil axis>"
	}
	var names []string
	for i := range m.axis.values {
		if m.Contains(uint32(i)) {
			names = append(names, m.axis.values[i])
		}
	}
	return m.axis.name + " in {" + strings.Join(names, ",") + "}"
}
