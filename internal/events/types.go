package events

// EventType identifies a combat side-channel event
type EventType string

const (
	// EventMoveActivated fires when a move effect is applied to a combatant
	EventMoveActivated EventType = "move.activated"

	// EventMoveAdvanced fires once per owner turn when an effect progresses
	EventMoveAdvanced EventType = "move.advanced"

	// EventMoveExpired fires when an effect reaches terminal and is removed,
	// whether it timed out or was dispelled
	EventMoveExpired EventType = "move.expired"
)

// Event is a combat side-channel notification. The turn processor emits
// these to the bus instead of writing to any global combat log.
type Event struct {
	Type     EventType
	Owner    string
	Effect   string
	Round    int
	Messages []string
}
