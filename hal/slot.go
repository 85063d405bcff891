package hal

import (
	"strings"

	"github.com/hwstack/obj-runtime/errors"
)

// rule pairs an implementation with a conjunction of masks over distinct
// axes. A rule matches an index when every mask contains the index's value
// on that mask's axis.
type rule[F any] struct {
	masks []Mask
	impl  F
}

func (r *rule[F]) matches(idx Index) bool {
	for _, m := range r.masks {
		v, ok := idx.Value(m.axis)
		if !ok || !m.Contains(v) {
			return false
		}
	}
	return true
}

func (r *rule[F]) String() string {
	parts := make([]string, len(r.masks))
	for i, m := range r.masks {
		parts[i] = m.String()
	}
	return strings.Join(parts, " && ")
}

// Slot is one virtual operation: an ordered rule list plus a default
// implementation. Rules are declared most-specific first; the first match
// wins. Slots are built at program start and immutable afterwards; Bind is
// safe for concurrent use.
type Slot[F any] struct {
	name       string
	rules      []rule[F]
	def        F
	hasDefault bool
}

// NewSlot creates an empty slot for implementations of func type F.
func NewSlot[F any](name string) *Slot[F] {
	return &Slot[F]{name: name}
}

// When appends a rule binding impl to the conjunction of masks. Declaration
// order is priority order. A rule needs at least one mask (an unconditional
// rule belongs in Default) and at most one mask per axis; violations panic,
// as rule tables are static and a malformed one is a defect.
func (s *Slot[F]) When(impl F, masks ...Mask) *Slot[F] {
	if len(masks) == 0 {
		panic(errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
			Slot(s.name).
			Detail("rule %d has no masks; use Default for the unconditional case", len(s.rules)).
			Build())
	}
	seen := make(map[*Axis]struct{}, len(masks))
	for _, m := range masks {
		if m.axis == nil {
			panic(errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
				Slot(s.name).
				Detail("rule %d has a mask with no axis", len(s.rules)).
				Build())
		}
		if _, dup := seen[m.axis]; dup {
			panic(errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
				Slot(s.name).
				Detail("rule %d constrains axis %s twice", len(s.rules), m.axis.name).
				Build())
		}
		seen[m.axis] = struct{}{}
	}
	s.rules = append(s.rules, rule[F]{masks: masks, impl: impl})
	return s
}

// Default sets the fallback implementation bound when no rule matches.
// Every slot reachable at runtime must have one.
func (s *Slot[F]) Default(impl F) *Slot[F] {
	if s.hasDefault {
		panic(errors.New(errors.PhaseDispatch, errors.KindAlreadyRegistered).
			Slot(s.name).
			Detail("default declared twice").
			Build())
	}
	s.def = impl
	s.hasDefault = true
	return s
}

// Name returns the slot name.
func (s *Slot[F]) Name() string { return s.name }

// Bind resolves the slot for the given index: the first matching rule in
// declaration order, else the default. The same index always yields the
// same binding.
func (s *Slot[F]) Bind(idx Index) (F, error) {
	for i := range s.rules {
		if s.rules[i].matches(idx) {
			return s.rules[i].impl, nil
		}
	}
	if s.hasDefault {
		return s.def, nil
	}
	var zero F
	return zero, errors.UnresolvedDispatch(s.name, idx.String())
}

// MustBind is Bind panicking on an unresolved slot. Use only where
// Validate has already proven coverage.
func (s *Slot[F]) MustBind(idx Index) F {
	f, err := s.Bind(idx)
	if err != nil {
		panic(err)
	}
	return f
}

// Validate exhaustively checks the slot against every combination of values
// on the axes its rules reference. It reports the first uncovered
// combination when no default exists, and any rule that is shadowed by
// earlier rules for every combination it could match.
func (s *Slot[F]) Validate() error {
	axes := s.referencedAxes()

	selected := make([]bool, len(s.rules))
	var uncovered *Index

	s.eachCombination(axes, func(idx Index) {
		for i := range s.rules {
			if s.rules[i].matches(idx) {
				selected[i] = true
				return
			}
		}
		if !s.hasDefault && uncovered == nil {
			cp := idx
			uncovered = &cp
		}
	})

	if uncovered != nil {
		return errors.UnresolvedDispatch(s.name, uncovered.String())
	}
	for i, sel := range selected {
		if !sel {
			return errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
				Slot(s.name).
				Detail("rule %d (%s) is shadowed and can never be selected", i, s.rules[i].String()).
				Build()
		}
	}
	return nil
}

func (s *Slot[F]) referencedAxes() []*Axis {
	var axes []*Axis
	seen := make(map[*Axis]struct{})
	for i := range s.rules {
		for _, m := range s.rules[i].masks {
			if _, ok := seen[m.axis]; !ok {
				seen[m.axis] = struct{}{}
				axes = append(axes, m.axis)
			}
		}
	}
	return axes
}

// eachCombination walks the cartesian product of the given axes' values.
// With no axes the single empty index is visited once.
func (s *Slot[F]) eachCombination(axes []*Axis, visit func(Index)) {
	if len(axes) == 0 {
		visit(Index{})
		return
	}
	counters := make([]uint32, len(axes))
	for {
		variants := make([]Variant, len(axes))
		for i, a := range axes {
			variants[i] = Variant{axis: a, value: counters[i]}
		}
		visit(NewIndex(variants...))

		i := len(axes) - 1
		for i >= 0 {
			counters[i]++
			if int(counters[i]) < axes[i].NumValues() {
				break
			}
			counters[i] = 0
			i--
		}
		if i < 0 {
			return
		}
	}
}

// Description is the inspector-facing view of a slot's rule table.
type Description struct {
	Name       string
	Rules      []string
	HasDefault bool
}

// Describable is implemented by every Slot instantiation so heterogeneous
// slots can be listed together.
type Describable interface {
	Describe() Description
}

// Describe returns a printable summary of the slot's rule table.
func (s *Slot[F]) Describe() Description {
	d := Description{Name: s.name, HasDefault: s.hasDefault}
	for i := range s.rules {
		d.Rules = append(d.Rules, s.rules[i].String())
	}
	return d
}
