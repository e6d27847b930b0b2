package events

// EventType represents the type of battle event
type EventType string

// Event is the base interface for everything the battle core reports
// to the presentation layer
type Event interface {
	GetType() EventType
	GetBattleID() string
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type     EventType `json:"type"`
	BattleID string    `json:"battle_id"`
}

func (e *BaseEvent) GetType() EventType  { return e.Type }
func (e *BaseEvent) GetBattleID() string { return e.BattleID }

// MessageEvent carries a line of battle text for the message banner
type MessageEvent struct {
	BaseEvent
	Text string `json:"text"`
}

// HealthChanged reports a combatant's final HP after an action
type HealthChanged struct {
	BaseEvent
	CombatantID int `json:"combatant_id"`
	Value       int `json:"value"`
	Max         int `json:"max"`
}

// MagicChanged reports a player's final MP after casting
type MagicChanged struct {
	BaseEvent
	CombatantID int `json:"combatant_id"`
	Value       int `json:"value"`
	Max         int `json:"max"`
}

// TurnOrderChanged reports the sprite handles of a newly built round, in turn order
type TurnOrderChanged struct {
	BaseEvent
	Round   int      `json:"round"`
	Sprites []string `json:"sprites"`
}

// CombatantRemoved reports an enemy taken off the field
type CombatantRemoved struct {
	BaseEvent
	CombatantID int `json:"combatant_id"`
}

// PhaseChanged reports a battle phase transition
type PhaseChanged struct {
	BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// NewMessage creates a message event
func NewMessage(battleID, text string) *MessageEvent {
	return &MessageEvent{
		BaseEvent: BaseEvent{Type: EventTypeMessage, BattleID: battleID},
		Text:      text,
	}
}

// NewHealthChanged creates a health event
func NewHealthChanged(battleID string, combatantID, value, maxValue int) *HealthChanged {
	return &HealthChanged{
		BaseEvent:   BaseEvent{Type: EventTypeHealthChanged, BattleID: battleID},
		CombatantID: combatantID,
		Value:       value,
		Max:         maxValue,
	}
}

// NewMagicChanged creates a magic points event
func NewMagicChanged(battleID string, combatantID, value, maxValue int) *MagicChanged {
	return &MagicChanged{
		BaseEvent:   BaseEvent{Type: EventTypeMagicChanged, BattleID: battleID},
		CombatantID: combatantID,
		Value:       value,
		Max:         maxValue,
	}
}

// NewTurnOrderChanged creates a turn order event
func NewTurnOrderChanged(battleID string, round int, sprites []string) *TurnOrderChanged {
	return &TurnOrderChanged{
		BaseEvent: BaseEvent{Type: EventTypeTurnOrderChanged, BattleID: battleID},
		Round:     round,
		Sprites:   sprites,
	}
}

// NewCombatantRemoved creates a removal event
func NewCombatantRemoved(battleID string, combatantID int) *CombatantRemoved {
	return &CombatantRemoved{
		BaseEvent:   BaseEvent{Type: EventTypeCombatantRemoved, BattleID: battleID},
		CombatantID: combatantID,
	}
}

// NewPhaseChanged creates a phase transition event
func NewPhaseChanged(battleID, from, to string) *PhaseChanged {
	return &PhaseChanged{
		BaseEvent: BaseEvent{Type: EventTypePhaseChanged, BattleID: battleID},
		From:      from,
		To:        to,
	}
}
