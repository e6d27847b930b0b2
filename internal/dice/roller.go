package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller is the only source of randomness in a battle.
// Seed it (or script it) and the whole fight replays identically.
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// Float64 returns a uniform value in [0, 1)
	Float64() (float64, error)
}

// RollResult contains detailed information about a dice roll
type RollResult struct {
	Total    int   // Sum of all dice plus bonus
	Rolls    []int // Individual die results
	Bonus    int   // Bonus applied
	Count    int   // Number of dice rolled
	Sides    int   // Number of sides on each die
	RawTotal int   // Sum of dice without bonus
}

// IntRange draws a uniform integer in [minValue, maxValue) using a single die.
func IntRange(r Roller, minValue, maxValue int) (int, error) {
	if maxValue <= minValue {
		return minValue, nil
	}

	// 1dN lands on [1, N]; shift it so the low face maps to minValue
	result, err := r.Roll(1, maxValue-minValue, minValue-1)
	if err != nil {
		return 0, err
	}

	return result.Total, nil
}

// FloatRange draws a uniform value in [minValue, maxValue).
func FloatRange(r Roller, minValue, maxValue float64) (float64, error) {
	f, err := r.Float64()
	if err != nil {
		return 0, err
	}

	return minValue + f*(maxValue-minValue), nil
}
