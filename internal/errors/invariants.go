package errors

import (
	"errors"
	"fmt"
)

// EmptyScheduleError is returned when the turn order is queried while it holds no entries.
// It means a caller skipped BuildRound or purged every combatant without ending the battle.
type EmptyScheduleError struct {
	Round int
}

func (e *EmptyScheduleError) Error() string {
	return fmt.Sprintf("turn order is empty in round %d", e.Round)
}

// NoTargetFoundError is returned when an enemy's decision engine cannot resolve a target
// for the state it settled on.
type NoTargetFoundError struct {
	EnemyID int
	State   string
	Marker  int
}

func (e *NoTargetFoundError) Error() string {
	return fmt.Sprintf("enemy %d found no target in state %s (marker %d)", e.EnemyID, e.State, e.Marker)
}

// IsInvariant reports whether err (or anything it wraps) is one of the invariant errors.
func IsInvariant(err error) bool {
	var empty *EmptyScheduleError
	if errors.As(err, &empty) {
		return true
	}
	var noTarget *NoTargetFoundError
	return errors.As(err, &noTarget)
}
