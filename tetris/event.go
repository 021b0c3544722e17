package tetris

// Event is something that happened during a command or a tick. Collaborators
// such as the audio player react to them; the engine does not care whether
// anybody listens.
type Event string

const (
	EventMove      Event = "move"
	EventRotate    Event = "rotate"
	EventSoftDrop  Event = "soft-drop"
	EventHardDrop  Event = "hard-drop"
	EventHold      Event = "hold"
	EventLineClear Event = "line-clear"
	EventLevelUp   Event = "level-up"
	EventGameOver  Event = "game-over"
	EventPause     Event = "pause"
	EventResume    Event = "resume"
)

// Events lists every event the engine emits.
var Events = []Event{
	EventMove,
	EventRotate,
	EventSoftDrop,
	EventHardDrop,
	EventHold,
	EventLineClear,
	EventLevelUp,
	EventGameOver,
	EventPause,
	EventResume,
}
