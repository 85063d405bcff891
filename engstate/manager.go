package engstate

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hwstack/obj-runtime/errors"
	"github.com/hwstack/obj-runtime/object"
)

// Event describes one attempted lifecycle transition.
type Event struct {
	Engine *EngineState
	Op     Op
	From   State
	To     State
	Err    error
}

// Observer receives notifications about lifecycle events.
type Observer interface {
	OnLifecycleEvent(Event)
}

// FailurePolicy decides whether a step failure halts the run. Returning nil
// tolerates the failure and continues with the next engine; returning an
// error (normally err itself) halts and surfaces it to the caller.
type FailurePolicy func(e *EngineState, op Op, err error) error

// HaltOnError is the default policy: the first failure stops the run.
func HaltOnError(_ *EngineState, _ Op, err error) error { return err }

// TolerateAll continues past every failure; observers still see the error.
func TolerateAll(*EngineState, Op, error) error { return nil }

// Manager orchestrates a fixed, ordered list of engines through the
// lifecycle. Bring-up steps walk the list in registration order; unload and
// destroy steps walk it in reverse. Build the engine list up front; the
// step methods may then be called from one goroutine at a time.
type Manager struct {
	engines []*EngineState
	policy  FailurePolicy

	obsMu     sync.RWMutex
	observers []Observer
}

// NewManager creates an empty manager with the HaltOnError policy.
func NewManager() *Manager {
	return &Manager{policy: HaltOnError}
}

// SetFailurePolicy replaces the failure policy. A nil policy restores
// HaltOnError.
func (m *Manager) SetFailurePolicy(p FailurePolicy) {
	if p == nil {
		p = HaltOnError
	}
	m.policy = p
}

// Add appends an engine to the bring-up order. The object must derive from
// EngineState.
func (m *Manager) Add(d object.Dynamic) error {
	e, ok := AsEngineState(d)
	if !ok {
		name := "<nil>"
		if d != nil {
			if o := d.RuntimeObject(); o != nil && o.Class() != nil {
				name = o.Class().Name()
			}
		}
		return errors.New(errors.PhaseLifecycle, errors.KindInvalidArgument).
			Class(name).
			Detail("object does not derive from EngineState").
			Build()
	}
	m.engines = append(m.engines, e)
	return nil
}

// Engines returns the managed engines in bring-up order.
func (m *Manager) Engines() []*EngineState {
	return append([]*EngineState(nil), m.engines...)
}

// Subscribe adds an observer for lifecycle events.
func (m *Manager) Subscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

// Unsubscribe removes an observer.
func (m *Manager) Unsubscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for i, obs := range m.observers {
		if obs == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

func (m *Manager) notify(ev Event) {
	m.obsMu.RLock()
	defer m.obsMu.RUnlock()
	for _, o := range m.observers {
		o.OnLifecycleEvent(ev)
	}
}

// apply drives one op across the engine list, skipping missing engines,
// notifying observers per transition, and applying the failure policy.
func (m *Manager) apply(op Op, reverse bool, step func(*EngineState) error) error {
	n := len(m.engines)
	for i := 0; i < n; i++ {
		e := m.engines[i]
		if reverse {
			e = m.engines[n-1-i]
		}
		if e.State() == StateMissing {
			continue
		}
		from := e.State()
		err := step(e)
		m.notify(Event{Engine: e, Op: op, From: from, To: e.State(), Err: err})
		if err != nil {
			object.Logger().Warn("lifecycle step failed",
				zap.String("engine", e.Name()),
				zap.String("op", string(op)),
				zap.Error(err))
			if perr := m.policy(e, op, err); perr != nil {
				return perr
			}
			continue
		}
		object.Logger().Debug("lifecycle step",
			zap.String("engine", e.Name()),
			zap.String("op", string(op)),
			zap.String("state", e.State().String()))
	}
	return nil
}

// ConstructAll runs the construction step on every engine. Engines that
// report themselves absent are marked Missing and skipped by every later
// step.
func (m *Manager) ConstructAll() error {
	for _, e := range m.engines {
		if !e.IsPresent() {
			from := e.State()
			e.InitMissing()
			m.notify(Event{Engine: e, Op: OpInitMissing, From: from, To: StateMissing})
			object.Logger().Debug("engine missing", zap.String("engine", e.Name()))
			continue
		}
		from := e.State()
		err := e.ConstructEngine()
		m.notify(Event{Engine: e, Op: OpConstructEngine, From: from, To: e.State(), Err: err})
		if err != nil {
			if perr := m.policy(e, OpConstructEngine, err); perr != nil {
				return perr
			}
		}
	}
	return nil
}

// StatePreInitLocked runs pre-initialization on every engine in order.
func (m *Manager) StatePreInitLocked() error {
	return m.apply(OpPreInitLocked, false, (*EngineState).StatePreInitLocked)
}

// StateInitLocked runs locked initialization on every engine in order.
func (m *Manager) StateInitLocked() error {
	return m.apply(OpInitLocked, false, (*EngineState).StateInitLocked)
}

// StateInitUnlocked runs unlocked initialization on every engine in order.
func (m *Manager) StateInitUnlocked() error {
	return m.apply(OpInitUnlocked, false, (*EngineState).StateInitUnlocked)
}

// StatePreLoad runs the pre-load step on every engine in order.
func (m *Manager) StatePreLoad(flags uint32) error {
	return m.apply(OpPreLoad, false, func(e *EngineState) error { return e.StatePreLoad(flags) })
}

// StateLoad runs the load step on every engine in order.
func (m *Manager) StateLoad(flags uint32) error {
	return m.apply(OpLoad, false, func(e *EngineState) error { return e.StateLoad(flags) })
}

// StatePostLoad runs the post-load step on every engine in order; engines
// that complete it are Running.
func (m *Manager) StatePostLoad(flags uint32) error {
	return m.apply(OpPostLoad, false, func(e *EngineState) error { return e.StatePostLoad(flags) })
}

// StatePreUnload runs the pre-unload step on every engine in reverse order.
func (m *Manager) StatePreUnload(flags uint32) error {
	return m.apply(OpPreUnload, true, func(e *EngineState) error { return e.StatePreUnload(flags) })
}

// StateUnload runs the unload step on every engine in reverse order.
func (m *Manager) StateUnload(flags uint32) error {
	return m.apply(OpUnload, true, func(e *EngineState) error { return e.StateUnload(flags) })
}

// StatePostUnload runs the post-unload step on every engine in reverse
// order.
func (m *Manager) StatePostUnload(flags uint32) error {
	return m.apply(OpPostUnload, true, func(e *EngineState) error { return e.StatePostUnload(flags) })
}

// DestroyAll runs the destroy step on every engine in reverse order.
// Destroy is valid from any state and cannot fail; missing engines stay
// Missing.
func (m *Manager) DestroyAll() {
	for i := len(m.engines) - 1; i >= 0; i-- {
		e := m.engines[i]
		from := e.State()
		e.StateDestroy()
		m.notify(Event{Engine: e, Op: OpStateDestroy, From: from, To: e.State()})
	}
}
