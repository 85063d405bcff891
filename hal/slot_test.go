package hal

import (
	stderrors "errors"
	"strings"
	"testing"

	rterrors "github.com/hwstack/obj-runtime/errors"
)

var (
	testFamily  = MustAxis("ChipFamily", "TU102", "GA100", "AD102", "GH100", "GB20B")
	testVariant = MustAxis("RMVariant", "VF", "PFKernelOnly", "PFFull")
)

func testIndex(family, variant string) Index {
	return NewIndex(testFamily.MustVariant(family), testVariant.MustVariant(variant))
}

func TestSlot_FirstMatchWins(t *testing.T) {
	slot := NewSlot[func() int]("op").
		When(func() int { return 1 }, testFamily.Mask("GH100", "GB20B")).
		When(func() int { return 2 }, testFamily.Mask("GB20B")).
		Default(func() int { return 0 })

	fn, err := slot.Bind(testIndex("GB20B", "VF"))
	if err != nil {
		t.Fatal(err)
	}
	// Both rules cover GB20B; declaration order decides.
	if fn() != 1 {
		t.Fatalf("expected rule 0 to win, got %d", fn())
	}
}

func TestSlot_DefaultWhenNoRuleMatches(t *testing.T) {
	slot := NewSlot[func() string]("op").
		When(func() string { return "gb20b" }, testFamily.Mask("GB20B")).
		Default(func() string { return "default" })

	fn, err := slot.Bind(testIndex("TU102", "PFFull"))
	if err != nil {
		t.Fatal(err)
	}
	if fn() != "default" {
		t.Fatalf("expected default, got %q", fn())
	}
}

func TestSlot_MultiAxisConjunction(t *testing.T) {
	// The NVOC nested-rule shape (VF branch with a GH100 inner case)
	// flattened: the conjunction is listed before the broader VF rule.
	slot := NewSlot[func() string]("coherency").
		When(func() string { return "vf-gh100" },
			testVariant.Mask("VF"), testFamily.Mask("GH100")).
		When(func() string { return "vf" }, testVariant.Mask("VF")).
		Default(func() string { return "probe" })

	cases := []struct {
		family, variant, want string
	}{
		{"GH100", "VF", "vf-gh100"},
		{"TU102", "VF", "vf"},
		{"GH100", "PFFull", "probe"},
		{"TU102", "PFKernelOnly", "probe"},
	}
	for _, c := range cases {
		fn, err := slot.Bind(testIndex(c.family, c.variant))
		if err != nil {
			t.Fatal(err)
		}
		if fn() != c.want {
			t.Fatalf("Bind(%s,%s) = %q, want %q", c.family, c.variant, fn(), c.want)
		}
	}
}

func TestSlot_MissingAxisValueNeverMatches(t *testing.T) {
	slot := NewSlot[func() int]("op").
		When(func() int { return 1 }, testFamily.Mask("TU102")).
		Default(func() int { return 0 })

	// Index resolves only the variant axis; family rules cannot match.
	idx := NewIndex(testVariant.MustVariant("VF"))
	fn, err := slot.Bind(idx)
	if err != nil {
		t.Fatal(err)
	}
	if fn() != 0 {
		t.Fatal("rule on an unresolved axis must not match")
	}
}

func TestSlot_UnresolvedWithoutDefault(t *testing.T) {
	slot := NewSlot[func()]("op").
		When(func() {}, testFamily.Mask("GB20B"))

	_, err := slot.Bind(testIndex("TU102", "VF"))
	if err == nil {
		t.Fatal("expected UnresolvedDispatch")
	}
	if !stderrors.Is(err, &rterrors.Error{Phase: rterrors.PhaseDispatch, Kind: rterrors.KindUnresolvedDispatch}) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestSlot_BindDeterminism(t *testing.T) {
	slot := NewSlot[func() int]("op").
		When(func() int { return 1 }, testFamily.Mask("GB20B")).
		Default(func() int { return 0 })

	idx := testIndex("GB20B", "PFKernelOnly")
	first, err := slot.Bind(idx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		fn, err := slot.Bind(idx)
		if err != nil {
			t.Fatal(err)
		}
		if fn() != first() {
			t.Fatal("binding is not deterministic")
		}
	}
}

func TestSlot_WhenRejectsNoMasks(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for rule with no masks")
		}
	}()
	NewSlot[func()]("op").When(func() {})
}

func TestSlot_WhenRejectsDuplicateAxis(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for rule constraining one axis twice")
		}
	}()
	NewSlot[func()]("op").When(func() {}, testFamily.Mask("TU102"), testFamily.Mask("GH100"))
}

func TestSlot_DoubleDefaultPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for second default")
		}
	}()
	NewSlot[func()]("op").Default(func() {}).Default(func() {})
}

func TestSlot_ValidateUncovered(t *testing.T) {
	slot := NewSlot[func()]("op").
		When(func() {}, testFamily.Mask("GB20B"))

	err := slot.Validate()
	if err == nil {
		t.Fatal("expected uncovered combination without default")
	}
	if !stderrors.Is(err, &rterrors.Error{Phase: rterrors.PhaseDispatch, Kind: rterrors.KindUnresolvedDispatch}) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestSlot_ValidateFullRuleCoverageWithoutDefault(t *testing.T) {
	slot := NewSlot[func()]("op").
		When(func() {}, testFamily.Mask("TU102", "GA100", "AD102")).
		When(func() {}, testFamily.Mask("GH100", "GB20B"))

	if err := slot.Validate(); err != nil {
		t.Fatalf("rules cover the axis, expected no error: %v", err)
	}
}

func TestSlot_ValidateShadowedRule(t *testing.T) {
	slot := NewSlot[func()]("op").
		When(func() {}, testFamily.Mask("GB20B", "GH100")).
		When(func() {}, testFamily.Mask("GB20B")). // unreachable
		Default(func() {})

	err := slot.Validate()
	if err == nil {
		t.Fatal("expected shadowed-rule defect")
	}
	if !strings.Contains(err.Error(), "shadowed") {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestSlot_ValidateDefaultOnly(t *testing.T) {
	slot := NewSlot[func()]("op").Default(func() {})
	if err := slot.Validate(); err != nil {
		t.Fatalf("default-only slot must validate: %v", err)
	}
}

func TestSlot_Describe(t *testing.T) {
	slot := NewSlot[func()]("chooseKindZ").
		When(func() {}, testFamily.Mask("GB20B")).
		Default(func() {})

	d := slot.Describe()
	if d.Name != "chooseKindZ" {
		t.Fatalf("Name = %q", d.Name)
	}
	if !d.HasDefault {
		t.Fatal("HasDefault = false")
	}
	if len(d.Rules) != 1 || !strings.Contains(d.Rules[0], "GB20B") {
		t.Fatalf("Rules = %v", d.Rules)
	}

	// Slot satisfies the heterogeneous listing interface.
	var _ Describable = slot
}
