package engstate

import "fmt"

// State is an engine's position in the lifecycle. States advance strictly
// in declaration order; Missing and Destroyed are terminal.
type State int32

const (
	// StateMissing marks an engine absent for the active hardware variant.
	// Every lifecycle step skips a missing engine.
	StateMissing State = iota

	// StateConstructed is the state after object creation succeeds.
	StateConstructed

	StatePreInitLocked
	StateInitLocked
	StateInitUnlocked
	StatePreLoad
	StateLoad
	StatePostLoad

	// StateRunning is entered when post-load completes.
	StateRunning

	StatePreUnload
	StateUnload
	StatePostUnload
	StateDestroyed
)

var stateNames = [...]string{
	StateMissing:       "Missing",
	StateConstructed:   "Constructed",
	StatePreInitLocked: "PreInitLocked",
	StateInitLocked:    "InitLocked",
	StateInitUnlocked:  "InitUnlocked",
	StatePreLoad:       "PreLoad",
	StateLoad:          "Load",
	StatePostLoad:      "PostLoad",
	StateRunning:       "Running",
	StatePreUnload:     "PreUnload",
	StateUnload:        "Unload",
	StatePostUnload:    "PostUnload",
	StateDestroyed:     "Destroyed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// Op identifies one lifecycle operation in events and error reports.
type Op string

const (
	OpConstructEngine Op = "ConstructEngine"
	OpInitMissing     Op = "InitMissing"
	OpPreInitLocked   Op = "StatePreInitLocked"
	OpInitLocked      Op = "StateInitLocked"
	OpInitUnlocked    Op = "StateInitUnlocked"
	OpPreLoad         Op = "StatePreLoad"
	OpLoad            Op = "StateLoad"
	OpPostLoad        Op = "StatePostLoad"
	OpPreUnload       Op = "StatePreUnload"
	OpUnload          Op = "StateUnload"
	OpPostUnload      Op = "StatePostUnload"
	OpStateDestroy    Op = "StateDestroy"
)
