// Package engstate provides the engine lifecycle base class and its
// orchestrator.
//
// An engine is any subsystem that participates in device bring-up and
// teardown. Concrete engine classes derive from the EngineState class
// (see Class) and override only the lifecycle steps they need; every other
// step defaults to a no-op installed at dispatch-binding time.
//
// # Lifecycle
//
// Engines move through a fixed order of states:
//
//	Constructed -> PreInitLocked -> InitLocked -> InitUnlocked ->
//	PreLoad -> Load -> PostLoad -> Running ->
//	PreUnload -> Unload -> PostUnload -> Destroyed
//
// An engine that reports itself absent for the active hardware variant is
// marked Missing during construction and skipped by every later step.
//
// # Orchestration
//
// The Manager drives one step at a time across its ordered engine list:
// forward order for bring-up, reverse order for unload and destroy. A step
// failure is reported through the engine's originating status; whether the
// run halts or tolerates the failure is the Manager's FailurePolicy.
// Observers receive an Event per attempted transition.
package engstate
