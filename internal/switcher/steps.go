package switcher

import "context"

// Policy decides what a step failure does to the rest of the sequence.
type Policy int

const (
	// BestEffort failures are logged and the sequence continues.
	BestEffort Policy = iota
	// Fatal failures abort the sequence.
	Fatal
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// State is the position of a switch attempt in its sequence.
type State int

const (
	StateIdle State = iota
	StateStoppingSession
	StateStoppingContainer
	StateRewritingConfig
	StateRepairingEnv
	StateStartingSession
	StateSucceeded
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateStoppingSession:   "stopping session",
	StateStoppingContainer: "stopping container",
	StateRewritingConfig:   "rewriting config",
	StateRepairingEnv:      "repairing environment",
	StateStartingSession:   "starting session",
	StateSucceeded:         "succeeded",
	StateFailed:            "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Step is one row of the switch sequence.
type Step struct {
	State  State
	Policy Policy
	Run    func(ctx context.Context, a *attempt) error
}

// Steps returns the ordered step table used by Switch.
func (o *Orchestrator) Steps() []Step {
	return []Step{
		{State: StateStoppingSession, Policy: BestEffort, Run: o.stopSession},
		{State: StateStoppingContainer, Policy: BestEffort, Run: o.stopContainer},
		{State: StateRewritingConfig, Policy: Fatal, Run: o.rewriteConfig},
		{State: StateRepairingEnv, Policy: Fatal, Run: o.repairEnv},
		{State: StateStartingSession, Policy: Fatal, Run: o.startSession},
	}
}
