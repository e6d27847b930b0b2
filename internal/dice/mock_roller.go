package dice

import (
	"fmt"
	"sync"
)

// MockRoller implements Roller for testing with predetermined results.
// Dice faces and float draws are scripted on separate queues.
type MockRoller struct {
	mu         sync.Mutex
	rolls      []int
	rollIndex  int
	floats     []float64
	floatIndex int
}

// NewMockRoller creates a new mock dice roller
func NewMockRoller() *MockRoller {
	return &MockRoller{
		rolls:  []int{},
		floats: []float64{},
	}
}

// SetNextRoll queues the next die face
func (m *MockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queued die faces
func (m *MockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// SetNextFloat queues the next Float64 draw
func (m *MockRoller) SetNextFloat(f float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floats = append(m.floats, f)
}

// SetFloats replaces the queued Float64 draws
func (m *MockRoller) SetFloats(floats []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floats = floats
	m.floatIndex = 0
}

// Reset clears all scripted values
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
	m.floats = []float64{}
	m.floatIndex = 0
}

// Remaining reports how many scripted rolls and floats have not been consumed
func (m *MockRoller) Remaining() (rolls, floats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolls) - m.rollIndex, len(m.floats) - m.floatIndex
}

func (m *MockRoller) getNextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}

// Roll implements Roller.Roll
func (m *MockRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	rolls := make([]int, count)
	raw := 0

	for i := 0; i < count; i++ {
		roll, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
		rolls[i] = roll
		raw += roll
	}

	return &RollResult{
		Total:    raw + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}, nil
}

// Float64 implements Roller.Float64
func (m *MockRoller) Float64() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.floatIndex >= len(m.floats) {
		return 0, fmt.Errorf("no more predetermined floats available (used %d of %d)", m.floatIndex, len(m.floats))
	}

	f := m.floats[m.floatIndex]
	if f < 0 || f >= 1 {
		return 0, fmt.Errorf("invalid float %v, must be in [0,1)", f)
	}
	m.floatIndex++
	return f, nil
}
