package game

// Combatant is a participant in an encounter. Effects are tracked
// separately (effects.Collection holds a reference back to its owner);
// the combatant itself only carries identity and expendable state.
//
// All mutation must happen on the turn-processing path for this
// combatant; the type is not safe for concurrent use on its own.
type Combatant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	AC   int    `json:"ac"`

	Resources *Resources `json:"resources"`

	// HeatStacks is combat bookkeeping fed by the on-hit hook; the phase
	// engine never reads it
	HeatStacks int `json:"heat_stacks,omitempty"`
}

// NewCombatant creates a combatant with full resource pools
func NewCombatant(id, name string, ac, maxHP, maxMP, maxStars int) *Combatant {
	return &Combatant{
		ID:        id,
		Name:      name,
		AC:        ac,
		Resources: NewResources(maxHP, maxMP, maxStars),
	}
}

// IsAlive reports whether the combatant still has hit points
func (c *Combatant) IsAlive() bool {
	return c.Resources != nil && c.Resources.HP.Current > 0
}
