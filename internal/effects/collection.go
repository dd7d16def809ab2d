package effects

import (
	"context"
	"sync"

	"github.com/KirkDiggler/move-engine/internal/game"
	"github.com/KirkDiggler/move-engine/internal/uuid"
)

// Collection is the ordered set of active effects on a single combatant.
// Insertion order is preserved for deterministic message ordering. All
// access, including the whole turn-advancement pass (ProcessTurn), goes
// through a single lock so host commands racing to modify the same
// combatant cannot interleave mid-mutation.
type Collection struct {
	mu      sync.Mutex
	owner   *game.Combatant
	moves   []*MoveEffect
	uuidGen uuid.Generator
}

// CollectionConfig holds configuration for a collection
type CollectionConfig struct {
	Owner         *game.Combatant
	UUIDGenerator uuid.Generator
}

// NewCollection creates an effect collection owned by one combatant
func NewCollection(cfg *CollectionConfig) *Collection {
	if cfg == nil || cfg.Owner == nil {
		panic("collection owner is required")
	}

	col := &Collection{
		owner:   cfg.Owner,
		uuidGen: cfg.UUIDGenerator,
	}
	if col.uuidGen == nil {
		col.uuidGen = uuid.NewGoogleUUIDGenerator()
	}
	return col
}

// Owner returns the combatant this collection belongs to
func (c *Collection) Owner() *game.Combatant {
	return c.owner
}

// Add activates the effect and inserts it, or merges it into an existing
// stackable effect of the same name. A same-name non-stackable effect is
// refreshed: the old instance expires (its expiry note is prepended to the
// returned message) and the new one takes its place, so a name never has
// more than one entry. Instant effects activate but are never inserted;
// they are terminal before this call returns. The activation or stacking
// feedback message is returned.
func (c *Collection) Add(ctx context.Context, effect *MoveEffect, round int, rt *Runtime) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var refreshed string
	if existing := c.findByName(effect.Name); existing != nil {
		if existing.Stackable {
			return existing.AddStack()
		}
		refreshed = existing.OnExpire(c.owner)
		c.removeLocked(existing)
	}

	if effect.ID == "" {
		effect.ID = c.uuidGen.New()
	}

	result := effect.Activate(ctx, c.owner, round, rt)

	if !effect.IsTerminal() {
		c.moves = append(c.moves, effect)
	}

	if refreshed != "" {
		return refreshed + "\n" + result.Message
	}
	return result.Message
}

// Remove removes the effect by identity and reports whether it was present.
// It does not fire expiry; the turn processor collects the expiry message
// itself before removing, and Dispel covers early cancellation.
func (c *Collection) Remove(effect *MoveEffect) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(effect)
}

func (c *Collection) removeLocked(effect *MoveEffect) bool {
	for i, m := range c.moves {
		if m == effect || (m.ID != "" && m.ID == effect.ID) {
			c.moves = append(c.moves[:i], c.moves[i+1:]...)
			return true
		}
	}
	return false
}

// Dispel cancels an effect by name before its natural terminal state. It
// fires expiry exactly like natural termination, so observers cannot tell
// "timed out" from "cancelled" except by message text.
func (c *Collection) Dispel(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	effect := c.findByName(name)
	if effect == nil {
		return "", false
	}

	message := effect.OnExpire(c.owner)
	c.removeLocked(effect)
	return message, true
}

// Get returns the effect with the given name, or nil
func (c *Collection) Get(name string) *MoveEffect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findByName(name)
}

func (c *Collection) findByName(name string) *MoveEffect {
	for _, m := range c.moves {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Moves returns a copy of the effect list in insertion order, safe to
// iterate while effects are being removed
func (c *Collection) Moves() []*MoveEffect {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*MoveEffect, len(c.moves))
	copy(out, c.moves)
	return out
}

// Len returns the number of effect entries (stacks count as one)
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.moves)
}

// TurnRecord is the per-effect outcome of one ProcessTurn pass
type TurnRecord struct {
	Effect        *MoveEffect
	Messages      []string
	Expired       bool
	ExpiryMessage string
}

// TurnStartTexts collects the turn-start announcements in insertion order.
// It never advances phase counters.
func (c *Collection) TurnStartTexts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var messages []string
	for _, m := range c.moves {
		if text := m.TurnStartText(); text != "" {
			messages = append(messages, text)
		}
	}
	return messages
}

// ProcessTurn advances every effect by one owner turn and removes the ones
// that became terminal, firing their expiry. The whole pass runs under the
// collection lock so a host command racing to add or dispel an effect
// cannot observe a partial transition. Records are returned in insertion
// order.
func (c *Collection) ProcessTurn(ctx context.Context, round int, rt *Runtime) []TurnRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Iterate over a snapshot so terminal effects can be removed safely
	snapshot := make([]*MoveEffect, len(c.moves))
	copy(snapshot, c.moves)

	var records []TurnRecord
	for _, m := range snapshot {
		outcome := m.AdvanceTurn(ctx, c.owner, round, c.owner.Name, rt)

		rec := TurnRecord{Effect: m, Messages: outcome.Messages}
		if outcome.BecameTerminal {
			rec.Expired = true
			rec.ExpiryMessage = m.OnExpire(c.owner)
			c.removeLocked(m)
		}
		records = append(records, rec)
	}
	return records
}

// ClearTemporary removes every non-permanent effect, firing expiry for
// each, and resets the owner's temporary HP and damage-type overlays to
// baseline. Permanent effects are untouched.
func (c *Collection) ClearTemporary() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var messages []string
	var kept []*MoveEffect

	for _, m := range c.moves {
		if m.Permanent {
			kept = append(kept, m)
			continue
		}
		if msg := m.OnExpire(c.owner); msg != "" {
			messages = append(messages, msg)
		}
	}
	c.moves = kept

	if c.owner.Resources != nil {
		c.owner.Resources.ResetOverlays()
	}

	return messages
}

// ClearAll removes everything matching the filter, permanent effects
// included. A nil filter matches everything. Used for full resets.
func (c *Collection) ClearAll(filter func(*MoveEffect) bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var messages []string
	var kept []*MoveEffect

	for _, m := range c.moves {
		if filter != nil && !filter(m) {
			kept = append(kept, m)
			continue
		}
		if msg := m.OnExpire(c.owner); msg != "" {
			messages = append(messages, msg)
		}
	}
	c.moves = kept

	return messages
}

// Snapshots serializes every effect in insertion order
func (c *Collection) Snapshots() []*Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Snapshot, 0, len(c.moves))
	for _, m := range c.moves {
		out = append(out, m.ToSnapshot())
	}
	return out
}

// Restore replaces the collection contents from snapshots, skipping any
// snapshot that cannot be reconstructed. The number of restored effects is
// returned along with the first reconstruction error for logging.
func (c *Collection) Restore(snaps []*Snapshot) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	c.moves = c.moves[:0]
	for _, snap := range snaps {
		effect, err := FromSnapshot(snap)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.moves = append(c.moves, effect)
	}

	return len(c.moves), firstErr
}
