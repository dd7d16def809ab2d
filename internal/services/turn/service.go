package turn

//go:generate mockgen -destination=mock/mock_service.go -package=mockturn -source=service.go

import (
	"context"

	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
	"github.com/KirkDiggler/move-engine/internal/events"
)

// Service drives every effect on a combatant through exactly one advance
// per owner turn. The external scheduler owns whose turn it is and round
// incrementing; this service only consumes (collection, round) pairs.
type Service interface {
	// BeginTurn collects turn-start announcements. It never mutates phase
	// counters, so UI code may call it any number of times mid-turn.
	BeginTurn(ctx context.Context, collection *effects.Collection, round int) []string

	// EndTurn advances every effect once, removes the ones that became
	// terminal and returns the ordered message list. Calling it twice for
	// the same round is a no-op the second time.
	EndTurn(ctx context.Context, collection *effects.Collection, round int) ([]string, error)

	// Runtime exposes the capability bundle so hosts activate effects
	// through Collection.Add with the same resolver and hooks
	Runtime() *effects.Runtime
}

type service struct {
	runtime *effects.Runtime
	bus     *events.Bus
}

// ServiceConfig holds configuration for the turn service
type ServiceConfig struct {
	// Resolver handles attack rolls at phase boundaries; nil disables
	// combat resolution entirely
	Resolver effects.Resolver

	// Targets resolves effect target IDs to live combatants
	Targets effects.TargetProvider

	// OnHit is the post-resolution bookkeeping hook
	OnHit effects.OnHitFunc

	// Bus receives side-channel events; nil disables observation
	Bus *events.Bus
}

// NewService creates a new turn service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	return &service{
		runtime: &effects.Runtime{
			Resolver: cfg.Resolver,
			Targets:  cfg.Targets,
			OnHit:    cfg.OnHit,
		},
		bus: cfg.Bus,
	}
}

// Runtime exposes the capability bundle for hosts that activate effects
// directly through Collection.Add
func (s *service) Runtime() *effects.Runtime {
	return s.runtime
}

// BeginTurn implements Service.BeginTurn
func (s *service) BeginTurn(ctx context.Context, collection *effects.Collection, round int) []string {
	if collection == nil {
		return nil
	}
	return collection.TurnStartTexts()
}

// EndTurn implements Service.EndTurn. The advancement pass runs inside the
// collection so the whole turn is serialized against racing host commands.
func (s *service) EndTurn(ctx context.Context, collection *effects.Collection, round int) ([]string, error) {
	if collection == nil {
		return nil, dnderr.InvalidArgument("collection cannot be nil")
	}

	owner := collection.Owner()
	messages := []string{}

	for _, rec := range collection.ProcessTurn(ctx, round, s.runtime) {
		messages = append(messages, rec.Messages...)

		if len(rec.Messages) > 0 {
			s.emit(events.Event{
				Type:     events.EventMoveAdvanced,
				Owner:    owner.Name,
				Effect:   rec.Effect.Name,
				Round:    round,
				Messages: rec.Messages,
			})
		}

		if !rec.Expired {
			continue
		}

		if rec.ExpiryMessage != "" {
			messages = append(messages, rec.ExpiryMessage)
		}

		s.emit(events.Event{
			Type:     events.EventMoveExpired,
			Owner:    owner.Name,
			Effect:   rec.Effect.Name,
			Round:    round,
			Messages: []string{rec.ExpiryMessage},
		})
	}

	return messages, nil
}

func (s *service) emit(event events.Event) {
	if s.bus == nil {
		return
	}
	// Observer failures are side-channel only; they never affect the turn
	_ = s.bus.Emit(event)
}
