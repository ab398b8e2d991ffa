package core

// Action represents a semantic game action, abstracted from physical key presses.
// Front ends translate their own input (keys, websocket messages) into actions.
type Action int

const (
	ActionNone     Action = iota
	ActionLift            // Space, W, Up - press or hold to lift the orb
	ActionRelease         // Explicit lift release (browser key-up)
	ActionStart           // Enter - start a run from Ready
	ActionPause           // P, Escape - pause/resume
	ActionRestart         // R - regenerate the level and return to Ready
	ActionBack            // B - back to level select
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLift:
		return "Lift"
	case ActionRelease:
		return "Release"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction maps a wire name (as sent by remote clients) to an Action.
func ParseAction(name string) Action {
	switch name {
	case "lift", "lift_on":
		return ActionLift
	case "release", "lift_off":
		return ActionRelease
	case "start":
		return ActionStart
	case "pause":
		return ActionPause
	case "restart":
		return ActionRestart
	case "back":
		return ActionBack
	case "quit":
		return ActionQuit
	default:
		return ActionNone
	}
}
