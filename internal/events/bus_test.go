package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingListener appends its ID to a shared log when invoked
type recordingListener struct {
	id       string
	priority int
	log      *[]string
	err      error
}

func (l *recordingListener) HandleEvent(event Event) error {
	*l.log = append(*l.log, l.id)
	return l.err
}

func (l *recordingListener) Priority() int { return l.priority }
func (l *recordingListener) ID() string    { return l.id }

func TestBus_EmitInPriorityOrder(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "late", priority: 10, log: &log})
	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "early", priority: 1, log: &log})
	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "middle", priority: 5, log: &log})

	err := bus.Emit(Event{Type: EventMoveAdvanced, Owner: "Aria", Effect: "Haste", Round: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"early", "middle", "late"}, log)
}

func TestBus_EmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventMoveExpired, &recordingListener{id: "expiry", log: &log})

	err := bus.Emit(Event{Type: EventMoveAdvanced})
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "a", log: &log})
	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "b", log: &log})

	bus.Unsubscribe(EventMoveAdvanced, "a")

	require.NoError(t, bus.Emit(Event{Type: EventMoveAdvanced}))
	assert.Equal(t, []string{"b"}, log)
}

func TestBus_ListenerErrorStopsEmit(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "first", priority: 1, log: &log, err: errors.New("boom")})
	bus.Subscribe(EventMoveAdvanced, &recordingListener{id: "second", priority: 2, log: &log})

	err := bus.Emit(Event{Type: EventMoveAdvanced})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, []string{"first"}, log, "later listeners are not invoked after a failure")
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventMoveActivated, &recordingListener{id: "a", log: &log})
	bus.Clear()

	require.NoError(t, bus.Emit(Event{Type: EventMoveActivated}))
	assert.Empty(t, log)
}
