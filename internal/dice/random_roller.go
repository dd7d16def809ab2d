package dice

// randomRoller implements Roller using the package-level Roll function
type randomRoller struct{}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	return Roll(count, sides, bonus)
}

// RollExpression implements Roller.RollExpression
func (r *randomRoller) RollExpression(expr string) (*RollResult, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	// Flat modifier, no dice to roll
	if parsed.Count == 0 {
		return &RollResult{
			Total:    parsed.Bonus,
			Rolls:    []int{},
			Bonus:    parsed.Bonus,
			RawTotal: 0,
		}, nil
	}

	return Roll(parsed.Count, parsed.Sides, parsed.Bonus)
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *randomRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	first, err := Roll(1, sides, 0)
	if err != nil {
		return nil, err
	}
	second, err := Roll(1, sides, 0)
	if err != nil {
		return nil, err
	}
	return pickRoll(first.Rolls[0], second.Rolls[0], sides, bonus, true), nil
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *randomRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	first, err := Roll(1, sides, 0)
	if err != nil {
		return nil, err
	}
	second, err := Roll(1, sides, 0)
	if err != nil {
		return nil, err
	}
	return pickRoll(first.Rolls[0], second.Rolls[0], sides, bonus, false), nil
}

// pickRoll keeps the higher or lower of two rolls. Both rolls are reported
// so hosts can show the discarded die.
func pickRoll(roll1, roll2, sides, bonus int, takeHigher bool) *RollResult {
	kept := roll1
	if takeHigher && roll2 > roll1 {
		kept = roll2
	}
	if !takeHigher && roll2 < roll1 {
		kept = roll2
	}

	result := &RollResult{
		Total:    kept + bonus,
		Rolls:    []int{roll1, roll2},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}

	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}

	return result
}
