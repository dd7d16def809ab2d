package dice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

// RollResult holds the outcome of a dice roll
type RollResult struct {
	Total    int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	RawTotal int  // Total without the bonus
	IsCrit   bool // Natural max on a single d20
	IsFumble bool // Natural 1 on a single d20
}

// Expression is a parsed dice expression like "2d6+3"
type Expression struct {
	Count int
	Sides int
	Bonus int
}

// Roll rolls count dice with the given number of sides and adds a bonus
func Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, dnderr.InvalidArgument("invalid dice count")
	}
	if sides < 1 {
		return nil, dnderr.InvalidArgument("invalid dice size")
	}

	rolls := make([]int, count)
	total := 0
	for i := 0; i < count; i++ {
		rolls[i] = rand.Intn(sides) + 1
		total += rolls[i]
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

// Parse parses a dice expression of the form "2d6+3", "d20", "1d8-1" or a
// flat integer like "5"
func Parse(expr string) (*Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return nil, dnderr.InvalidArgument("empty dice expression")
	}

	// Flat modifier with no dice
	if !strings.Contains(s, "d") {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return nil, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
		}
		return &Expression{Count: 0, Sides: 0, Bonus: flat}, nil
	}

	bonus := 0
	dicePart := s
	if idx := strings.IndexAny(s[1:], "+-"); idx >= 0 {
		idx++ // offset for the skipped first rune
		var err error
		bonus, err = strconv.Atoi(s[idx:])
		if err != nil {
			return nil, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
		}
		dicePart = s[:idx]
	}

	parts := strings.SplitN(dicePart, "d", 2)
	if len(parts) != 2 {
		return nil, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
	}

	count := 1
	if parts[0] != "" {
		var err error
		count, err = strconv.Atoi(parts[0])
		if err != nil || count < 1 {
			return nil, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
		}
	}

	sides, err := strconv.Atoi(parts[1])
	if err != nil || sides < 1 {
		return nil, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
	}

	return &Expression{Count: count, Sides: sides, Bonus: bonus}, nil
}

// String renders the expression back into its canonical "NdS+B" form
func (e *Expression) String() string {
	if e.Count == 0 {
		return strconv.Itoa(e.Bonus)
	}
	out := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	if e.Bonus > 0 {
		out += "+" + strconv.Itoa(e.Bonus)
	} else if e.Bonus < 0 {
		out += strconv.Itoa(e.Bonus)
	}
	return out
}

// String renders a roll like "**14** [6,5]+3"
func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", ",")
	if r.Bonus != 0 {
		return fmt.Sprintf("**%d** %s%+d", r.Total, compact, r.Bonus)
	}
	return fmt.Sprintf("**%d** %s", r.Total, compact)
}
