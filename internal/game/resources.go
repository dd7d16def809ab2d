package game

// Pool is a bounded resource pool (HP, MP, action stars)
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Apply charges a cost against the pool and returns the new current value.
// A positive delta consumes, a negative delta restores. The result is always
// clamped to [0, Max]; sufficiency checks belong to the caller.
func (p *Pool) Apply(delta int) int {
	p.Current -= delta
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	return p.Current
}

// Remaining returns how much of the pool is left
func (p *Pool) Remaining() int {
	return p.Current
}

// Resources tracks all expendable resources for one combatant
type Resources struct {
	HP    Pool `json:"hp"`
	MP    Pool `json:"mp"`
	Stars Pool `json:"stars"`

	// TemporaryHP absorbs damage before the HP pool
	TemporaryHP int `json:"temporary_hp"`

	// Damage-type overlays granted by temporary effects
	Resistances     []string `json:"resistances,omitempty"`
	Vulnerabilities []string `json:"vulnerabilities,omitempty"`
}

// NewResources creates resources with all pools at full
func NewResources(maxHP, maxMP, maxStars int) *Resources {
	return &Resources{
		HP:    Pool{Current: maxHP, Max: maxHP},
		MP:    Pool{Current: maxMP, Max: maxMP},
		Stars: Pool{Current: maxStars, Max: maxStars},
	}
}

// ApplyDamage applies damage, using temporary HP first, and returns the
// total damage dealt
func (r *Resources) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}

	dealt := amount

	if r.TemporaryHP > 0 {
		if r.TemporaryHP >= amount {
			r.TemporaryHP -= amount
			return dealt
		}
		amount -= r.TemporaryHP
		r.TemporaryHP = 0
	}

	r.HP.Apply(amount)
	return dealt
}

// AddTemporaryHP adds temporary hit points (doesn't stack, highest wins)
func (r *Resources) AddTemporaryHP(amount int) {
	if amount > r.TemporaryHP {
		r.TemporaryHP = amount
	}
}

// AddResistance grants resistance to a damage type
func (r *Resources) AddResistance(damageType string) {
	if !contains(r.Resistances, damageType) {
		r.Resistances = append(r.Resistances, damageType)
	}
}

// AddVulnerability grants vulnerability to a damage type
func (r *Resources) AddVulnerability(damageType string) {
	if !contains(r.Vulnerabilities, damageType) {
		r.Vulnerabilities = append(r.Vulnerabilities, damageType)
	}
}

// HasResistance checks for resistance to a damage type
func (r *Resources) HasResistance(damageType string) bool {
	return contains(r.Resistances, damageType)
}

// ResetOverlays clears temporary HP and damage-type overlays back to
// baseline. Called when temporary effects are cleared in bulk.
func (r *Resources) ResetOverlays() {
	r.TemporaryHP = 0
	r.Resistances = nil
	r.Vulnerabilities = nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
