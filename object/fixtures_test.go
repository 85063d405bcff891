package object

import (
	"fmt"

	"github.com/hwstack/obj-runtime/hal"
)

// trace records constructor and destructor invocations in order; failCtor
// names the class whose constructor fails the current test.
var (
	trace    []string
	failCtor string
)

func resetTrace() {
	trace = nil
	failCtor = ""
}

func tracedCtor(name string) ConstructFunc {
	return func(self Dynamic, _ hal.Index) error {
		trace = append(trace, "ctor:"+name)
		if failCtor == name {
			return fmt.Errorf("%s constructor tripped", name)
		}
		return nil
	}
}

func tracedDtor(name string) DestructFunc {
	return func(Dynamic) {
		trace = append(trace, "dtor:"+name)
	}
}

// Three-level primary chain: fixState <- fixEngine <- fixFifo.

type fixState struct {
	Object
	ready bool
}

type fixEngine struct {
	fixState
	cfg int
}

type fixFifo struct {
	fixEngine
	depth int
}

type fixUnrelated struct {
	Object
}

var (
	fixStateClass = MustRegister(ClassSpec{
		Name: "fix.State",
		New:  func() Dynamic { return new(fixState) },
		InitData: func(self Dynamic, _ hal.Index) {
			self.(*fixState).ready = true
		},
		Construct: tracedCtor("State"),
		Destruct:  tracedDtor("State"),
	})

	fixEngineClass = MustRegister(ClassSpec{
		Name:  "fix.Engine",
		Bases: []*Class{fixStateClass},
		Upcasts: Upcasts{
			fixStateClass: func(d Dynamic) Dynamic { return &d.(*fixEngine).fixState },
		},
		New:       func() Dynamic { return new(fixEngine) },
		Construct: tracedCtor("Engine"),
		Destruct:  tracedDtor("Engine"),
	})

	fixFifoClass = MustRegister(ClassSpec{
		Name:  "fix.Fifo",
		Bases: []*Class{fixEngineClass},
		Upcasts: Upcasts{
			fixEngineClass: func(d Dynamic) Dynamic { return &d.(*fixFifo).fixEngine },
		},
		New:       func() Dynamic { return new(fixFifo) },
		Construct: tracedCtor("Fifo"),
		Destruct:  tracedDtor("Fifo"),
	})

	fixUnrelatedClass = MustRegister(ClassSpec{
		Name: "fix.Unrelated",
		New:  func() Dynamic { return new(fixUnrelated) },
	})
)

// Variant axis and owning device for dispatch tests.

var fixChipAxis = hal.MustAxis("fix.Chip", "TU102", "GA100", "GH100")

type fixDevice struct {
	Object
	idx hal.Index
}

func (d *fixDevice) VariantIndex() hal.Index { return d.idx }

var fixDeviceClass = MustRegister(ClassSpec{
	Name: "fix.Device",
	New:  func() Dynamic { return new(fixDevice) },
	Construct: func(self Dynamic, idx hal.Index) error {
		self.(*fixDevice).idx = idx
		return nil
	},
})

var fixRegReadSlot = hal.NewSlot[func() string]("fix.regRead").
	When(func() string { return "ga100" }, fixChipAxis.Mask("GA100")).
	Default(func() string { return "generic" })

// fixHalUser binds a dispatch slot at creation; its constructor checks the
// binding happened first.
type fixHalUser struct {
	fixState
	regRead func() string
}

var fixHalUserClass = MustRegister(ClassSpec{
	Name:  "fix.HalUser",
	Bases: []*Class{fixStateClass},
	Upcasts: Upcasts{
		fixStateClass: func(d Dynamic) Dynamic { return &d.(*fixHalUser).fixState },
	},
	New: func() Dynamic { return new(fixHalUser) },
	BindDispatch: func(self Dynamic, idx hal.Index) error {
		f, err := fixRegReadSlot.Bind(idx)
		if err != nil {
			return err
		}
		self.(*fixHalUser).regRead = f
		return nil
	},
	Construct: func(self Dynamic, _ hal.Index) error {
		if self.(*fixHalUser).regRead == nil {
			return fmt.Errorf("constructor ran before dispatch binding")
		}
		trace = append(trace, "ctor:HalUser")
		return nil
	},
	Destruct: tracedDtor("HalUser"),
})

// Secondary base and a dual-base class for multi-prologue casts.

type fixAperture struct {
	Object
	mmio bool
}

type fixDualEngine struct {
	fixState
	fixAperture
	lanes int
}

// RuntimeObject disambiguates the two embedded prologues; the primary base
// chain wins.
func (e *fixDualEngine) RuntimeObject() *Object { return e.fixState.RuntimeObject() }

var (
	fixApertureClass = MustRegister(ClassSpec{
		Name: "fix.Aperture",
		New:  func() Dynamic { return new(fixAperture) },
	})

	fixDualEngineClass = MustRegister(ClassSpec{
		Name:  "fix.DualEngine",
		Bases: []*Class{fixStateClass, fixApertureClass},
		Upcasts: Upcasts{
			fixStateClass:    func(d Dynamic) Dynamic { return &d.(*fixDualEngine).fixState },
			fixApertureClass: func(d Dynamic) Dynamic { return &d.(*fixDualEngine).fixAperture },
		},
		New:       func() Dynamic { return new(fixDualEngine) },
		Construct: tracedCtor("DualEngine"),
		Destruct:  tracedDtor("DualEngine"),
	})
)
