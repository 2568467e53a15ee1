package daemon

// Action is what a poll tick decided to do.
type Action int

const (
	// ActionNone keeps the daemon in its steady state.
	ActionNone Action = iota

	// ActionRestore moves the window back per the restore_to policy.
	ActionRestore

	// ActionTerminate removes the stack record and exits without touching
	// the window: it was closed or restored outside our control.
	ActionTerminate
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRestore:
		return "restore"
	case ActionTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Observation is the compositor state relevant to one minimized window,
// gathered fresh on every tick.
type Observation struct {
	// Exists reports whether the window is still open.
	Exists bool

	// OnHiddenWorkspace reports whether the window still sits on the hidden
	// special workspace. False means something else already restored it.
	OnHiddenWorkspace bool

	// Focused reports whether the window currently holds focus, which can
	// happen when the user switches to the hidden workspace directly.
	Focused bool
}

// Policy is the configured reconciliation behavior.
type Policy struct {
	AutoUnminimizeOnFocus bool
}

// Reconcile decides what a poll tick should do. It is a pure function of its
// inputs so the drift-correction rules stay testable in isolation.
func Reconcile(obs Observation, pol Policy) Action {
	if !obs.Exists {
		return ActionTerminate
	}
	if !obs.OnHiddenWorkspace {
		// Restored externally; the record is stale but the window is fine.
		return ActionTerminate
	}
	if obs.Focused && pol.AutoUnminimizeOnFocus {
		return ActionRestore
	}
	return ActionNone
}
