package combat

// Phase is where a battle currently is in its turn cycle
type Phase string

const (
	PhaseStart            Phase = "start"              // Rosters spawned, first round built
	PhasePlayerSelectMove Phase = "player_select_move" // Waiting on a player's action request
	PhasePlayerAttack     Phase = "player_attack"      // A confirmed player action is resolving
	PhaseEnemyTurn        Phase = "enemy_turn"         // An enemy is deciding and acting
	PhaseVictory          Phase = "victory"            // No enemy remains, or the party escaped
	PhaseDefeat           Phase = "defeat"             // No player is conscious
)

// IsTerminal reports whether the battle has ended
func (p Phase) IsTerminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// Outcome records how a finished battle ended
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeEscaped Outcome = "escaped"
)
