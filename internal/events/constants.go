package events

// Event type constants
const (
	EventTypeMessage          EventType = "message"
	EventTypeHealthChanged    EventType = "health_changed"
	EventTypeMagicChanged     EventType = "magic_changed"
	EventTypeTurnOrderChanged EventType = "turn_order_changed"
	EventTypeCombatantRemoved EventType = "combatant_removed"
	EventTypePhaseChanged     EventType = "phase_changed"

	// EventTypeAll subscribes a listener to every event
	EventTypeAll EventType = "*"
)

// Priority levels for listener delivery order
const (
	PriorityState        = 0   // Stores and reports
	PriorityPresentation = 100 // Health bars, banners, turn track
	PriorityDiagnostics  = 500 // Logging, recording
)
