package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/move-engine/internal/attack"
	"github.com/KirkDiggler/move-engine/internal/config"
	"github.com/KirkDiggler/move-engine/internal/effects"
	"github.com/KirkDiggler/move-engine/internal/events"
	"github.com/KirkDiggler/move-engine/internal/game"
	"github.com/KirkDiggler/move-engine/internal/repositories/moveeffects"
	"github.com/KirkDiggler/move-engine/internal/services/turn"
)

// logListener prints side-channel events to the process log
type logListener struct{}

func (l *logListener) HandleEvent(event events.Event) error {
	log.Printf("[%s] %s / %s (round %d)", event.Type, event.Owner, event.Effect, event.Round)
	return nil
}

func (l *logListener) Priority() int { return 0 }
func (l *logListener) ID() string    { return "log-listener" }

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Prefer Redis persistence, fall back to in-memory
	repo := moveeffects.NewInMemoryRepository()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable (%v), using in-memory persistence", err)
	} else {
		repo = moveeffects.NewRedisRepository(&moveeffects.RedisRepoConfig{Client: redisClient})
		log.Printf("Connected to Redis at %s", cfg.Redis.Addr)
	}
	cancel()

	// Encounter setup
	aria := game.NewCombatant("aria", "Aria", 14, 30, 20, 5)
	grok := game.NewCombatant("grok", "Grok", 13, 40, 0, 5)

	roster := attack.NewRoster()
	roster.Add(aria)
	roster.Add(grok)

	bus := events.NewBus()
	bus.Subscribe(events.EventMoveAdvanced, &logListener{})
	bus.Subscribe(events.EventMoveExpired, &logListener{})

	turnService := turn.NewService(&turn.ServiceConfig{
		Resolver: attack.NewDiceResolver(nil),
		Targets:  roster,
		OnHit: func(attacker, target *game.Combatant, hit bool) {
			if hit {
				attacker.HeatStacks++
				target.HeatStacks++
			}
		},
		Bus: bus,
	})

	collections := map[string]*effects.Collection{
		aria.ID: effects.NewCollection(&effects.CollectionConfig{Owner: aria}),
		grok.ID: effects.NewCollection(&effects.CollectionConfig{Owner: grok}),
	}

	// Aria channels a phased attack: 2 turns of casting, 3 active turns
	// rolling every turn, then a 2 turn cooldown
	fmt.Println(collections[aria.ID].Add(ctx, effects.NewMoveEffect(&effects.MoveConfig{
		Name:        "Scorching Ray",
		Description: "Rays of fire lash the target",
		CastTime:    2,
		Duration:    3,
		Cooldown:    2,
		MPCost:      5,
		AttackRoll:  "d20+5",
		Damage:      "2d6+2",
		RollTiming:  effects.RollEveryTurn,
		TargetIDs:   []string{grok.ID},
	}), 1, turnService.Runtime()))

	// Grok shrugs off pain with a stackable buff
	fmt.Println(collections[grok.ID].Add(ctx, effects.NewMoveEffect(&effects.MoveConfig{
		Name:        "Thick Hide",
		Description: "Damage resistance while active",
		Duration:    4,
		Stackable:   true,
	}), 1, turnService.Runtime()))
	grok.Resources.AddResistance("fire")

	order := []*game.Combatant{aria, grok}

	for round := 1; round <= cfg.Simulator.Rounds; round++ {
		fmt.Printf("\n=== Round %d ===\n", round)

		for _, combatant := range order {
			col := collections[combatant.ID]

			for _, msg := range turnService.BeginTurn(ctx, col, round) {
				fmt.Printf("  [%s] %s\n", combatant.Name, msg)
			}

			msgs, err := turnService.EndTurn(ctx, col, round)
			if err != nil {
				log.Fatalf("Turn processing failed: %v", err)
			}
			for _, msg := range msgs {
				fmt.Printf("  [%s] %s\n", combatant.Name, msg)
			}

			if err := repo.SaveAll(ctx, combatant.ID, col.Snapshots()); err != nil {
				log.Printf("Failed to persist effects for %s: %v", combatant.Name, err)
			}
		}
	}

	fmt.Printf("\nAria: HP %d/%d, MP %d/%d, heat %d\n",
		aria.Resources.HP.Current, aria.Resources.HP.Max,
		aria.Resources.MP.Current, aria.Resources.MP.Max, aria.HeatStacks)
	fmt.Printf("Grok: HP %d/%d, heat %d\n",
		grok.Resources.HP.Current, grok.Resources.HP.Max, grok.HeatStacks)

	// Combat teardown clears temporary effects and overlays
	for _, combatant := range order {
		for _, msg := range collections[combatant.ID].ClearTemporary() {
			fmt.Printf("  [%s] %s\n", combatant.Name, msg)
		}
		if err := repo.DeleteByOwner(ctx, combatant.ID); err != nil {
			log.Printf("Failed to clear persisted effects for %s: %v", combatant.Name, err)
		}
	}
}
