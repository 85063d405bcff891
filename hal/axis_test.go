package hal

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewAxis_Validation(t *testing.T) {
	if _, err := NewAxis("", "A"); err == nil {
		t.Fatal("expected error for empty axis name")
	}
	if _, err := NewAxis("Family"); err == nil {
		t.Fatal("expected error for axis with no values")
	}
	if _, err := NewAxis("Family", "A", ""); err == nil {
		t.Fatal("expected error for empty value name")
	}
	if _, err := NewAxis("Family", "A", "B", "A"); err == nil {
		t.Fatal("expected error for duplicate value name")
	}
	if _, err := NewAxis("Family", "A", "B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAxis_ValueLookup(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GA100", "GH100")

	v, ok := family.ValueIndex("GA100")
	if !ok || v != 1 {
		t.Fatalf("ValueIndex(GA100) = %d, %v", v, ok)
	}
	if _, ok := family.ValueIndex("GB20B"); ok {
		t.Fatal("expected miss for unknown value")
	}
	if name := family.ValueName(2); name != "GH100" {
		t.Fatalf("ValueName(2) = %q", name)
	}
	if name := family.ValueName(3); name != "" {
		t.Fatalf("ValueName out of range = %q", name)
	}
}

func TestVariant_String(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GH100")
	v := family.MustVariant("GH100")
	if v.String() != "ChipFamily=GH100" {
		t.Fatalf("String() = %q", v.String())
	}
	if v.Value() != 1 {
		t.Fatalf("Value() = %d", v.Value())
	}
}

func TestMask_Membership(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GA100", "AD102", "GH100", "GB20B")
	m := family.Mask("GA100", "GB20B")

	for i, want := range []bool{false, true, false, false, true} {
		if got := m.Contains(uint32(i)); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
	if m.Contains(99) {
		t.Fatal("Contains out of range should be false")
	}
	if m.Empty() {
		t.Fatal("mask should not be empty")
	}
	if !family.Mask().Empty() {
		t.Fatal("mask of no values should be empty")
	}
}

func TestMask_MultiWord(t *testing.T) {
	// More than 32 values forces the second word, exercising the
	// words[v>>5] / bit v&31 layout.
	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("GPU%02d", i)
	}
	axis := MustAxis("ChipFamily", names...)

	m := axis.Mask("GPU05", "GPU33", "GPU39")
	for i := 0; i < 40; i++ {
		want := i == 5 || i == 33 || i == 39
		if got := m.Contains(uint32(i)); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestMask_UnknownValuePanics(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown value in mask")
		}
	}()
	family.Mask("GB20B")
}

func TestMask_String(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GH100", "GB20B")
	s := family.Mask("GB20B", "TU102").String()
	if !strings.Contains(s, "TU102") || !strings.Contains(s, "GB20B") {
		t.Fatalf("String() = %q", s)
	}
	if strings.Contains(s, "GH100") {
		t.Fatalf("String() leaked non-member: %q", s)
	}
}

func TestAllValues(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GA100", "GH100")
	m := family.AllValues()
	for i := 0; i < 3; i++ {
		if !m.Contains(uint32(i)) {
			t.Fatalf("AllValues missing %d", i)
		}
	}
}

func TestIndex_WithReplaces(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GH100")
	variant := MustAxis("RMVariant", "VF", "PFKernelOnly")

	idx := NewIndex(family.MustVariant("TU102"), variant.MustVariant("VF"))
	idx2 := idx.With(family.MustVariant("GH100"))

	if v, _ := idx.Value(family); v != 0 {
		t.Fatal("With mutated the receiver")
	}
	if v, _ := idx2.Value(family); v != 1 {
		t.Fatal("With did not replace the axis value")
	}
	if v, _ := idx2.Value(variant); v != 0 {
		t.Fatal("With disturbed an unrelated axis")
	}
	if len(idx2.Axes()) != 2 {
		t.Fatalf("Axes() = %v", idx2.Axes())
	}
}

func TestIndex_DuplicateAxisLastWins(t *testing.T) {
	family := MustAxis("ChipFamily", "TU102", "GH100")
	idx := NewIndex(family.MustVariant("TU102"), family.MustVariant("GH100"))
	if v, _ := idx.Value(family); v != 1 {
		t.Fatalf("expected last variant to win, got %d", v)
	}
}

func TestIndex_String(t *testing.T) {
	if (Index{}).String() != "<empty>" {
		t.Fatal("empty index String()")
	}
	family := MustAxis("ChipFamily", "TU102")
	idx := NewIndex(family.MustVariant("TU102"))
	if idx.String() != "ChipFamily=TU102" {
		t.Fatalf("String() = %q", idx.String())
	}
}
