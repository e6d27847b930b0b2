package combat

import "fmt"

// ActionKind is the kind of request a player can make on their turn
type ActionKind string

const (
	ActionAttack ActionKind = "attack"
	ActionCast   ActionKind = "cast"
	ActionGuard  ActionKind = "guard"
	ActionFlee   ActionKind = "flee"
)

// ActionRequest is a single player decision forwarded by the input layer
type ActionRequest struct {
	Kind       ActionKind `json:"kind"`
	TargetID   int        `json:"target_id"`
	MagicID    int        `json:"magic_id,omitempty"`
	TargetsAll bool       `json:"targets_all,omitempty"`
}

// AttackAction targets a single enemy with a physical attack
func AttackAction(targetID int) ActionRequest {
	return ActionRequest{Kind: ActionAttack, TargetID: targetID}
}

// CastAction casts magic on one target
func CastAction(magicID, targetID int) ActionRequest {
	return ActionRequest{Kind: ActionCast, MagicID: magicID, TargetID: targetID}
}

// CastAllAction casts magic on every eligible member of the spell's side
func CastAllAction(magicID int) ActionRequest {
	return ActionRequest{Kind: ActionCast, MagicID: magicID, TargetID: NoTarget, TargetsAll: true}
}

// GuardAction raises the actor's guard until their next turn
func GuardAction() ActionRequest {
	return ActionRequest{Kind: ActionGuard, TargetID: NoTarget}
}

// FleeAction attempts to escape the battle
func FleeAction() ActionRequest {
	return ActionRequest{Kind: ActionFlee, TargetID: NoTarget}
}

func (a ActionRequest) String() string {
	switch a.Kind {
	case ActionAttack:
		return fmt.Sprintf("attack(%d)", a.TargetID)
	case ActionCast:
		if a.TargetsAll {
			return fmt.Sprintf("cast(%d, all)", a.MagicID)
		}
		return fmt.Sprintf("cast(%d, %d)", a.MagicID, a.TargetID)
	default:
		return string(a.Kind)
	}
}
