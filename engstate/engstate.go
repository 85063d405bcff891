package engstate

import (
	"github.com/hwstack/obj-runtime/errors"
	"github.com/hwstack/obj-runtime/hal"
	"github.com/hwstack/obj-runtime/object"
)

// Descriptor identifies an engine to the orchestrator and the inspector.
// Flags carries per-engine capability bits probed by dispatch defaults.
type Descriptor struct {
	Name  string
	ID    uint32
	Flags uint32
}

// FlagCoherentIO marks an engine whose register window is I/O coherent.
const FlagCoherentIO uint32 = 1 << 0

// EngineState is the lifecycle base class. Concrete engines embed it as
// their primary base and list Class among their bases. Each lifecycle step
// calls through the Op* table; the base dispatch binding installs no-op
// defaults, and a derived class's own BindDispatch overwrites the entries
// it implements.
type EngineState struct {
	object.Object

	desc  Descriptor
	state State

	OpConstructEngine  func() error
	OpStatePreInit     func() error
	OpStateInitLocked  func() error
	OpStateInitUnlock  func() error
	OpStatePreLoad     func(flags uint32) error
	OpStateLoad        func(flags uint32) error
	OpStatePostLoad    func(flags uint32) error
	OpStatePreUnload   func(flags uint32) error
	OpStateUnload      func(flags uint32) error
	OpStatePostUnload  func(flags uint32) error
	OpStateDestroyHook func()
	OpInitMissingHook  func()
	OpIsPresent        func() bool
}

// Class is the EngineState class descriptor. Concrete engines list it (or
// a class derived from it) in their Bases.
var Class = object.MustRegister(object.ClassSpec{
	Name: "EngineState",
	New:  func() object.Dynamic { return new(EngineState) },
	BindDispatch: func(self object.Dynamic, _ hal.Index) error {
		e := self.(*EngineState)
		nop := func() error { return nil }
		nopf := func(uint32) error { return nil }
		e.OpConstructEngine = nop
		e.OpStatePreInit = nop
		e.OpStateInitLocked = nop
		e.OpStateInitUnlock = nop
		e.OpStatePreLoad = nopf
		e.OpStateLoad = nopf
		e.OpStatePostLoad = nopf
		e.OpStatePreUnload = nopf
		e.OpStateUnload = nopf
		e.OpStatePostUnload = nopf
		e.OpStateDestroyHook = func() {}
		e.OpInitMissingHook = func() {}
		e.OpIsPresent = func() bool { return true }
		return nil
	},
	Construct: func(self object.Dynamic, _ hal.Index) error {
		self.(*EngineState).state = StateConstructed
		return nil
	},
	Destruct: func(self object.Dynamic) {
		self.(*EngineState).state = StateDestroyed
	},
})

// AsEngineState casts any object derived from EngineState to its lifecycle
// sub-object.
func AsEngineState(d object.Dynamic) (*EngineState, bool) {
	v, ok := object.DynamicCast(d, Class)
	if !ok {
		return nil, false
	}
	return v.(*EngineState), true
}

// SetDescriptor records the engine identity; concrete constructors call it.
func (e *EngineState) SetDescriptor(d Descriptor) { e.desc = d }

// Descriptor returns the engine identity.
func (e *EngineState) Descriptor() Descriptor { return e.desc }

// State returns the engine's current lifecycle state.
func (e *EngineState) State() State { return e.state }

// Name returns the descriptor name, or the class name when no descriptor
// was recorded.
func (e *EngineState) Name() string {
	if e.desc.Name != "" {
		return e.desc.Name
	}
	if c := e.Class(); c != nil {
		return c.Name()
	}
	return "<engine>"
}

// IsPresent reports whether the engine exists on the active hardware
// variant. The default binding reports present.
func (e *EngineState) IsPresent() bool {
	if e.OpIsPresent == nil {
		return true
	}
	return e.OpIsPresent()
}

// InitMissing marks a never-constructed engine. Every later lifecycle step
// skips it.
func (e *EngineState) InitMissing() {
	if e.OpInitMissingHook != nil {
		e.OpInitMissingHook()
	}
	e.state = StateMissing
}

// wrapFlags adapts a flag-taking op to step's signature, treating an
// unbound op as a no-op.
func wrapFlags(op func(uint32) error, flags uint32) func() error {
	if op == nil {
		return nil
	}
	return func() error { return op(flags) }
}

// step enforces the lifecycle order: the engine must be in from, and moves
// to the target state only when the op succeeds. Missing engines no-op.
func (e *EngineState) step(op Op, from, to State, run func() error) error {
	if e.state == StateMissing {
		return nil
	}
	if e.state != from {
		return errors.New(errors.PhaseLifecycle, errors.KindInvalidState).
			Class(e.Name()).
			Detail("%s requires state %s, engine is %s", op, from, e.state).
			Build()
	}
	if run != nil {
		if err := run(); err != nil {
			return err
		}
	}
	e.state = to
	return nil
}

// ConstructEngine runs the engine's one-time construction step. The engine
// stays Constructed; this is the hardware-independent half of bring-up.
func (e *EngineState) ConstructEngine() error {
	return e.step(OpConstructEngine, StateConstructed, StateConstructed, e.OpConstructEngine)
}

// StatePreInitLocked runs pre-initialization under the init lock.
func (e *EngineState) StatePreInitLocked() error {
	return e.step(OpPreInitLocked, StateConstructed, StatePreInitLocked, e.OpStatePreInit)
}

// StateInitLocked runs initialization under the init lock.
func (e *EngineState) StateInitLocked() error {
	return e.step(OpInitLocked, StatePreInitLocked, StateInitLocked, e.OpStateInitLocked)
}

// StateInitUnlocked runs initialization outside the init lock.
func (e *EngineState) StateInitUnlocked() error {
	return e.step(OpInitUnlocked, StateInitLocked, StateInitUnlocked, e.OpStateInitUnlock)
}

// StatePreLoad prepares the engine for loading.
func (e *EngineState) StatePreLoad(flags uint32) error {
	return e.step(OpPreLoad, StateInitUnlocked, StatePreLoad, wrapFlags(e.OpStatePreLoad, flags))
}

// StateLoad loads the engine.
func (e *EngineState) StateLoad(flags uint32) error {
	return e.step(OpLoad, StatePreLoad, StateLoad, wrapFlags(e.OpStateLoad, flags))
}

// StatePostLoad finishes loading; success puts the engine in Running.
func (e *EngineState) StatePostLoad(flags uint32) error {
	return e.step(OpPostLoad, StateLoad, StateRunning, wrapFlags(e.OpStatePostLoad, flags))
}

// StatePreUnload prepares a running engine for unloading.
func (e *EngineState) StatePreUnload(flags uint32) error {
	return e.step(OpPreUnload, StateRunning, StatePreUnload, wrapFlags(e.OpStatePreUnload, flags))
}

// StateUnload unloads the engine.
func (e *EngineState) StateUnload(flags uint32) error {
	return e.step(OpUnload, StatePreUnload, StateUnload, wrapFlags(e.OpStateUnload, flags))
}

// StatePostUnload finishes unloading.
func (e *EngineState) StatePostUnload(flags uint32) error {
	return e.step(OpPostUnload, StateUnload, StatePostUnload, wrapFlags(e.OpStatePostUnload, flags))
}

// StateDestroy tears the engine's lifecycle state down. It cannot fail and
// is valid from any state; Missing and Destroyed engines no-op.
func (e *EngineState) StateDestroy() {
	if e.state == StateMissing || e.state == StateDestroyed {
		return
	}
	if e.OpStateDestroyHook != nil {
		e.OpStateDestroyHook()
	}
	e.state = StateDestroyed
}
