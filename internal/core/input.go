package core

// Action represents an admin command, abstracted from physical key presses
// and websocket messages.
type Action int

const (
	ActionNone      Action = iota
	ActionStartRace        // S - start the lane race
	ActionResetRace        // R - reset the lane race to the start line
	ActionExplode          // X - explosion impulse from the canvas center
	ActionRerunAll         // E - re-run every sprite (pachinko, race)
	ActionNextMode         // Tab - switch to the next registered mode
	ActionPrevMode         // Shift+Tab - switch to the previous registered mode
	ActionAddOrb           // A - spawn a random orb
	ActionClear            // C - remove every orb
	ActionHelp             // ? - toggle the help view
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionStartRace:
		return "StartRace"
	case ActionResetRace:
		return "ResetRace"
	case ActionExplode:
		return "Explode"
	case ActionRerunAll:
		return "RerunAll"
	case ActionNextMode:
		return "NextMode"
	case ActionPrevMode:
		return "PrevMode"
	case ActionAddOrb:
		return "AddOrb"
	case ActionClear:
		return "Clear"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction maps a wire name (as used by the websocket feed) to an Action.
func ParseAction(name string) Action {
	switch name {
	case "start":
		return ActionStartRace
	case "reset":
		return ActionResetRace
	case "explode":
		return ActionExplode
	case "rerun-all":
		return ActionRerunAll
	case "next":
		return ActionNextMode
	case "prev":
		return ActionPrevMode
	case "add":
		return ActionAddOrb
	case "clear":
		return ActionClear
	}
	return ActionNone
}

// InputFrame collects the actions triggered between two frames.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// List returns the triggered actions in declaration order.
func (f InputFrame) List() []Action {
	var out []Action
	for a := ActionStartRace; a <= ActionQuit; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}
