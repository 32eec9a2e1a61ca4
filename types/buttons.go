package types

// ButtonID is the action id reported by the ADC button ladder: the index of the
// voltage interval the reading fell into.
type ButtonID int

// Korvo-1 button ladder, lowest voltage first.
const (
	ButtonVolUp ButtonID = iota
	ButtonVolDown
	ButtonSet
	ButtonPlay
	ButtonMode
	ButtonRec

	ButtonCount = int(ButtonRec) + 1
)

// Action is the semantic meaning of a button on this board.
type Action string

const (
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionSet        Action = "set"
	ActionPlay       Action = "play"
	ActionMode       Action = "mode"
	ActionRecord     Action = "record"
	ActionUnknown    Action = "unknown"
)

// Action maps the id to its board function.
func (id ButtonID) Action() Action {
	switch id {
	case ButtonVolUp:
		return ActionVolumeUp
	case ButtonVolDown:
		return ActionVolumeDown
	case ButtonSet:
		return ActionSet
	case ButtonPlay:
		return ActionPlay
	case ButtonMode:
		return ActionMode
	case ButtonRec:
		return ActionRecord
	default:
		return ActionUnknown
	}
}

// Label is the human-readable form used in log lines.
func (a Action) Label() string {
	switch a {
	case ActionVolumeUp:
		return "Volume Up"
	case ActionVolumeDown:
		return "Volume Down"
	case ActionSet:
		return "Set"
	case ActionPlay:
		return "Play"
	case ActionMode:
		return "Mode"
	case ActionRecord:
		return "Record"
	default:
		return "Unknown"
	}
}
