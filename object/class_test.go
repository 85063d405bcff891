package object

import (
	"reflect"
	"testing"

	"github.com/hwstack/obj-runtime/errors"
)

func TestRegisterRejectsBadSpecs(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Register(ClassSpec{New: func() Dynamic { return new(fixState) }}); err == nil {
		t.Fatal("expected error for empty class name")
	}
	if _, err := r.Register(ClassSpec{Name: "NoFactory"}); err == nil {
		t.Fatal("expected error for nil New factory")
	}
	if _, err := r.Register(ClassSpec{
		Name: "NilFactory",
		New:  func() Dynamic { return nil },
	}); err == nil {
		t.Fatal("expected error for factory returning nil")
	}
	if _, err := r.Register(ClassSpec{
		Name:  "NoUpcast",
		Bases: []*Class{fixStateClass},
		New:   func() Dynamic { return new(fixEngine) },
	}); err == nil {
		t.Fatal("expected error for missing base upcast")
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	_, err := Register(ClassSpec{
		Name: "fix.State",
		New:  func() Dynamic { return new(fixState) },
	})
	if err == nil {
		t.Fatal("expected duplicate-name error")
	}
	if !errors.Is(err, errors.PhaseRegistry, errors.KindAlreadyRegistered) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestRegisterRejectsDiamond(t *testing.T) {
	// fix.Engine already inherits fix.State; listing both repeats fix.State
	// in the flattened chain.
	_, err := Register(ClassSpec{
		Name:  "fix.Diamond",
		Bases: []*Class{fixEngineClass, fixStateClass},
		Upcasts: Upcasts{
			fixEngineClass: identity,
			fixStateClass:  identity,
		},
		New: func() Dynamic { return new(fixEngine) },
	})
	if err == nil {
		t.Fatal("expected diamond rejection")
	}
	if !errors.Is(err, errors.PhaseRegistry, errors.KindInvalidArgument) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestSharedObjectRootIsAllowed(t *testing.T) {
	// fix.DualEngine has two Object-rooted bases; the registry collapses the
	// shared root instead of rejecting it, and the cast graph lists Object
	// exactly once.
	count := 0
	for _, rel := range fixDualEngineClass.Relatives() {
		if rel.Class == ObjectClass {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Object appears %d times in the cast graph, want 1", count)
	}
}

func TestImplicitObjectBase(t *testing.T) {
	bases := fixStateClass.Bases()
	if len(bases) != 1 || bases[0] != ObjectClass {
		t.Fatalf("bases = %v, want [Object]", bases)
	}
}

func TestRelativesOrderedDerivedToRoot(t *testing.T) {
	var names []string
	for _, rel := range fixFifoClass.Relatives() {
		names = append(names, rel.Class.Name())
	}
	want := []string{"fix.Fifo", "fix.Engine", "fix.State", "Object"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("relatives = %v, want %v", names, want)
	}
}

func TestClassMetadata(t *testing.T) {
	if got, want := fixEngineClass.Size(), reflect.TypeOf(fixEngine{}).Size(); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}
	if fixEngineClass.ID() == 0 {
		t.Fatal("ClassID must be nonzero")
	}
	if fixEngineClass.ID() == fixStateClass.ID() {
		t.Fatal("distinct classes must have distinct IDs")
	}

	c, ok := Lookup(fixEngineClass.ID())
	if !ok || c != fixEngineClass {
		t.Fatalf("Lookup(%v) = %v, %v", fixEngineClass.ID(), c, ok)
	}
	c, ok = LookupName("fix.Engine")
	if !ok || c != fixEngineClass {
		t.Fatalf("LookupName = %v, %v", c, ok)
	}
	if _, ok := LookupName("fix.Nonexistent"); ok {
		t.Fatal("LookupName must miss unknown names")
	}
}

func TestClassesSortedByName(t *testing.T) {
	all := Classes()
	if len(all) < 2 {
		t.Fatalf("expected fixture classes registered, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name() >= all[i].Name() {
			t.Fatalf("classes out of order: %s before %s", all[i-1].Name(), all[i].Name())
		}
	}
}
