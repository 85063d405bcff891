// Package hal implements hardware-variant dispatch: per-instance selection
// of one implementation out of several variant-specific candidates.
//
// # Axes and Variants
//
// An Axis is an independent hardware/firmware dimension (silicon family,
// execution mode). Each axis carries an ordered list of value names; values
// are identified by small indices:
//
//	ChipFamily := hal.MustAxis("ChipFamily", "TU102", "GA100", "AD102", "GH100", "GB20B")
//	RMVariant  := hal.MustAxis("RMVariant", "VF", "PFKernelOnly", "PFFull")
//
// An Index is the resolved variant selection for one owning context: exactly
// one value per axis, immutable once built. It is resolved once per context
// and read by every descendant sharing that context.
//
// # Masks
//
// A Mask is a bitset over one axis's values, stored as 32-bit words; value v
// is a member when words[v>>5] has bit v&31 set. Masks are the predicate
// form rules are declared with:
//
//	gb20b := ChipFamily.Mask("GB20B")
//	vf    := RMVariant.Mask("VF")
//
// # Slots
//
// A Slot is one virtual operation: an ordered rule list plus a default. Each
// rule pairs an implementation with a conjunction of masks over distinct
// axes. The first rule whose every mask contains the index's value on that
// mask's axis wins; more specific rules are declared first. Binding happens
// exactly once per instance, at construction time:
//
//	chooseKindZ := hal.NewSlot[func(PageFormat) PTEKind]("chooseKindZ").
//	    When(chooseKindZGB20B, gb20b).
//	    Default(chooseKindZTU102)
//
//	fn, err := chooseKindZ.Bind(idx)
//
// A slot with no default and incomplete rule coverage is a design defect;
// Validate checks the full cartesian product of referenced axes and also
// reports rules that can never be selected.
package hal
