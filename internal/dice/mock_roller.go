package dice

import (
	"fmt"
	"sync"
)

// MockRoller implements Roller for testing with predetermined results
type MockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewMockRoller creates a new mock dice roller
func NewMockRoller() *MockRoller {
	return &MockRoller{
		rolls: []int{},
	}
}

// SetNextRoll sets the next roll result
func (m *MockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls sets multiple roll results
func (m *MockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears all rolls and resets the index
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
}

// getNextRoll returns the next predetermined roll
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
	total := 0

	for i := 0; i < count; i++ {
		roll, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
		rolls[i] = roll
		total += roll
	}

	result := &RollResult{
		Total:    total + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: total,
	}

	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollExpression implements Roller.RollExpression
func (m *MockRoller) RollExpression(expr string) (*RollResult, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	if parsed.Count == 0 {
		return &RollResult{
			Total: parsed.Bonus,
			Rolls: []int{},
			Bonus: parsed.Bonus,
		}, nil
	}

	return m.Roll(parsed.Count, parsed.Sides, parsed.Bonus)
}

// RollWithAdvantage implements Roller.RollWithAdvantage, consuming two
// predetermined rolls
func (m *MockRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	roll1, roll2, err := m.nextPair(sides)
	if err != nil {
		return nil, err
	}
	return pickRoll(roll1, roll2, sides, bonus, true), nil
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage, consuming two
// predetermined rolls
func (m *MockRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	roll1, roll2, err := m.nextPair(sides)
	if err != nil {
		return nil, err
	}
	return pickRoll(roll1, roll2, sides, bonus, false), nil
}

func (m *MockRoller) nextPair(sides int) (int, int, error) {
	roll1, err := m.getNextRoll()
	if err != nil {
		return 0, 0, err
	}
	roll2, err := m.getNextRoll()
	if err != nil {
		return 0, 0, err
	}
	for _, roll := range []int{roll1, roll2} {
		if roll < 1 || roll > sides {
			return 0, 0, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
	}
	return roll1, roll2, nil
}
