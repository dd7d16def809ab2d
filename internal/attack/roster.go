package attack

import (
	"sync"

	"github.com/KirkDiggler/move-engine/internal/game"
)

// Roster is a simple target provider backed by a map. Hosts register the
// combatants in the encounter; effects resolve their stored target IDs
// through it, and an ID removed mid-encounter is reported as stale.
type Roster struct {
	mu   sync.RWMutex
	byID map[string]*game.Combatant
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		byID: make(map[string]*game.Combatant),
	}
}

// Add registers a combatant
func (r *Roster) Add(c *game.Combatant) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

// Remove unregisters a combatant; effects targeting it will drop the
// reference on their next resolution
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Combatant implements effects.TargetProvider
func (r *Roster) Combatant(id string) (*game.Combatant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}
