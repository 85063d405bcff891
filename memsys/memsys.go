package memsys

import (
	"go.uber.org/zap"

	"github.com/hwstack/obj-runtime/engstate"
	"github.com/hwstack/obj-runtime/hal"
	"github.com/hwstack/obj-runtime/object"
)

// The two variant axes the runtime dispatches on.
var (
	ChipFamily = hal.MustAxis("ChipFamily", "TU102", "GA100", "AD102", "GH100", "GB20B")
	RMVariant  = hal.MustAxis("RMVariant", "VF", "PFKernelOnly", "PFFull")
)

// Policy slots, resolved once per instance. VF guests never see coherent
// I/O except on GH100, where the coherent link is exposed to the guest;
// the conjunction rule must therefore precede the plain VF rule.
var (
	chooseKindZSlot = hal.NewSlot[func(PageFormat) PTEKind]("kmemsysChooseKindZ").
			When(chooseKindZGB20B, ChipFamily.Mask("GB20B")).
			Default(chooseKindZTU102)

	chooseKindCompressZSlot = hal.NewSlot[func(PageFormat) PTEKind]("kmemsysChooseKindCompressZ").
				When(chooseKindCompressZGB20B, ChipFamily.Mask("GB20B")).
				Default(chooseKindCompressZDefault)

	ioCoherencySlot = hal.NewSlot[func(*KernelMemorySystem) bool]("kmemsysCheckIOCoherency").
			When(ioCoherencyTrue, RMVariant.Mask("VF"), ChipFamily.Mask("GH100")).
			When(ioCoherencyFalse, RMVariant.Mask("VF")).
			Default(ioCoherencyProbe)
)

// Slots lists the package's dispatch slots for the inspector.
func Slots() []hal.Describable {
	return []hal.Describable{chooseKindZSlot, chooseKindCompressZSlot, ioCoherencySlot}
}

func ioCoherencyTrue(*KernelMemorySystem) bool  { return true }
func ioCoherencyFalse(*KernelMemorySystem) bool { return false }

func ioCoherencyProbe(k *KernelMemorySystem) bool {
	return k.Descriptor().Flags&engstate.FlagCoherentIO != 0
}

// staticConfig is computed once during locked init.
type staticConfig struct {
	ioCoherent  bool
	initialized bool
}

// KernelMemorySystem is the memory system engine. Its policy bindings are
// resolved at creation for the owning context's variant index and never
// change afterwards.
type KernelMemorySystem struct {
	engstate.EngineState

	chooseKindZ         func(PageFormat) PTEKind
	chooseKindCompressZ func(PageFormat) PTEKind
	checkIOCoherency    func(*KernelMemorySystem) bool

	cfg staticConfig
}

// Class is the KernelMemorySystem class descriptor.
var Class = object.MustRegister(object.ClassSpec{
	Name:  "KernelMemorySystem",
	Bases: []*object.Class{engstate.Class},
	Upcasts: object.Upcasts{
		engstate.Class: func(d object.Dynamic) object.Dynamic {
			return &d.(*KernelMemorySystem).EngineState
		},
	},
	New: func() object.Dynamic { return new(KernelMemorySystem) },
	BindDispatch: func(self object.Dynamic, idx hal.Index) error {
		k := self.(*KernelMemorySystem)
		var err error
		if k.chooseKindZ, err = chooseKindZSlot.Bind(idx); err != nil {
			return err
		}
		if k.chooseKindCompressZ, err = chooseKindCompressZSlot.Bind(idx); err != nil {
			return err
		}
		if k.checkIOCoherency, err = ioCoherencySlot.Bind(idx); err != nil {
			return err
		}
		e := &k.EngineState
		e.OpConstructEngine = k.constructEngine
		e.OpStateInitLocked = k.stateInitLocked
		e.OpStateDestroyHook = k.stateDestroy
		return nil
	},
	Construct: func(self object.Dynamic, _ hal.Index) error {
		self.(*KernelMemorySystem).SetDescriptor(engstate.Descriptor{
			Name: "KernelMemorySystem",
			ID:   0x4b4d5359, // "KMSY"
		})
		return nil
	},
})

// AsKernelMemorySystem casts d to the memory system engine.
func AsKernelMemorySystem(d object.Dynamic) (*KernelMemorySystem, bool) {
	v, ok := object.DynamicCast(d, Class)
	if !ok {
		return nil, false
	}
	return v.(*KernelMemorySystem), true
}

func (k *KernelMemorySystem) constructEngine() error {
	object.Logger().Debug("memory system constructed",
		zap.String("engine", k.Name()))
	return nil
}

func (k *KernelMemorySystem) stateInitLocked() error {
	k.cfg = staticConfig{
		ioCoherent:  k.checkIOCoherency(k),
		initialized: true,
	}
	object.Logger().Debug("memory system static config",
		zap.Bool("ioCoherent", k.cfg.ioCoherent))
	return nil
}

func (k *KernelMemorySystem) stateDestroy() {
	k.cfg = staticConfig{}
}

// ChooseKindZ selects the PTE kind for an uncompressed depth surface.
func (k *KernelMemorySystem) ChooseKindZ(f PageFormat) PTEKind {
	return k.chooseKindZ(f)
}

// ChooseKindCompressZ selects the PTE kind for a compressed depth surface.
func (k *KernelMemorySystem) ChooseKindCompressZ(f PageFormat) PTEKind {
	return k.chooseKindCompressZ(f)
}

// IOCoherent reports whether the engine's register window is I/O coherent.
// It reflects the static config after locked init; before that it probes
// the bound policy directly.
func (k *KernelMemorySystem) IOCoherent() bool {
	if k.cfg.initialized {
		return k.cfg.ioCoherent
	}
	return k.checkIOCoherency(k)
}
