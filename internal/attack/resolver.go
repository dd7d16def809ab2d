package attack

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/move-engine/internal/dice"
	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

// diceResolver implements effects.Resolver using the dice package
type diceResolver struct {
	roller dice.Roller
}

// ResolverConfig holds configuration for the dice-backed resolver
type ResolverConfig struct {
	Roller dice.Roller
}

// NewDiceResolver creates an attack resolver backed by dice rolls
func NewDiceResolver(cfg *ResolverConfig) effects.Resolver {
	r := &diceResolver{}
	if cfg != nil {
		r.roller = cfg.Roller
	}
	if r.roller == nil {
		r.roller = dice.NewRandomRoller()
	}
	return r
}

// Resolve rolls the attack against each target, applies damage on hits and
// returns one message line per target. With no targets the attack roll is
// still made and reported so the host can adjudicate manually.
func (r *diceResolver) Resolve(ctx context.Context, input *effects.ResolveInput) (*effects.ResolveResult, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.AttackRoll == "" {
		return nil, dnderr.InvalidArgument("attack roll expression is required")
	}

	critRange := input.CritRange
	if critRange == 0 {
		critRange = 20
	}

	attackerName := "Attacker"
	if input.Attacker != nil {
		attackerName = input.Attacker.Name
	}

	result := &effects.ResolveResult{}

	if len(input.Targets) == 0 {
		roll, err := r.roller.RollExpression(input.AttackRoll)
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to roll %q", input.AttackRoll)
		}
		result.Message = fmt.Sprintf("%s rolls %d for %s", attackerName, roll.Total, input.Reason)
		return result, nil
	}

	var lines []string
	for _, target := range input.Targets {
		roll, err := r.roller.RollExpression(input.AttackRoll)
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to roll %q", input.AttackRoll)
		}

		crit := isCrit(roll, critRange)
		hit := !roll.IsFumble && (crit || roll.Total >= target.AC)

		tr := effects.TargetResult{
			TargetID:    target.ID,
			TargetName:  target.Name,
			Hit:         hit,
			Crit:        crit,
			AttackTotal: roll.Total,
		}

		line := fmt.Sprintf("%s attacks %s with %s: %d vs AC %d", attackerName, target.Name, input.Reason, roll.Total, target.AC)

		if hit {
			if crit {
				line += " — CRITICAL HIT!"
			} else {
				line += " — HIT!"
			}

			if input.Damage != "" {
				dealt, err := r.rollDamage(input.Damage, crit)
				if err != nil {
					return nil, dnderr.Wrapf(err, "failed to roll damage %q", input.Damage)
				}
				if target.Resources != nil {
					dealt = target.Resources.ApplyDamage(dealt)
				}
				tr.DamageDealt = dealt
				line += fmt.Sprintf(" %d damage", dealt)
			}

			result.Hit = true
		} else {
			line += " — Miss"
		}

		result.PerTarget = append(result.PerTarget, tr)
		lines = append(lines, line)
	}

	result.Message = strings.Join(lines, "\n")
	return result, nil
}

// rollDamage rolls a damage expression, doubling the dice on a crit
func (r *diceResolver) rollDamage(expr string, crit bool) (int, error) {
	parsed, err := dice.Parse(expr)
	if err != nil {
		return 0, err
	}

	if parsed.Count == 0 {
		return parsed.Bonus, nil
	}

	count := parsed.Count
	if crit {
		count *= 2
	}

	roll, err := r.roller.Roll(count, parsed.Sides, parsed.Bonus)
	if err != nil {
		return 0, err
	}
	return roll.Total, nil
}

// isCrit checks for a natural roll at or above the crit threshold
func isCrit(roll *dice.RollResult, critRange int) bool {
	if roll.Count != 1 || roll.Sides != 20 || len(roll.Rolls) == 0 {
		return false
	}
	return roll.Rolls[0] >= critRange
}
