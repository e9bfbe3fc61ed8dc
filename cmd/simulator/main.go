package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hearthforge/hearth-engine-go/internal/config"
	"github.com/hearthforge/hearth-engine-go/internal/game"
	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
	"github.com/hearthforge/hearth-engine-go/internal/game/rules"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	seed := flag.Int64("seed", 0, "random seed (0 = derive from clock)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *seed == 0 {
		*seed = cfg.Game.RandomSeed
	}

	g, err := game.New(game.Config{
		Player1: game.PlayerConfig{Name: "Alice", Deck: demoDeck("ali")},
		Player2: game.PlayerConfig{Name: "Bob", Deck: demoDeck("bob")},
		Seed:    *seed,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create game", zap.Error(err))
	}

	// Observe every resolved event.
	g.Events().Subscribe(func(evt rules.Event) {
		logger.Info("event resolved",
			zap.String("type", string(evt.Type)),
			zap.String("id", evt.ID),
			zap.Int("depth", evt.Depth),
		)
	})

	// A standing trigger: whenever the first player's hero takes damage,
	// heal one back, mirroring a lifesteal-style chained effect.
	hero := heroOf(g, entity.Player1)
	g.Dispatcher().Register(rules.NewTrigger(rules.TriggerConfig{
		Owner:     hero,
		EventType: rules.EventDamage,
		Condition: func(evt rules.Event) bool {
			return len(evt.Targets) > 0 && evt.Targets[0].ID == hero.ID
		},
		Handler: rules.HandlerFunc(func(evt rules.Event) []rules.Event {
			if d, ok := hero.AsHero(); ok {
				d.Health -= evt.Amount
			}
			return []rules.Event{rules.NewHealEvent(hero, hero, 1)}
		}),
	}))
	g.Dispatcher().Register(rules.NewTrigger(rules.TriggerConfig{
		Owner:     hero,
		EventType: rules.EventHeal,
		Handler: rules.HandlerFunc(func(evt rules.Event) []rules.Event {
			if d, ok := hero.AsHero(); ok && d.Health < d.MaxHealth {
				d.Health += evt.Amount
			}
			return nil
		}),
	}))

	if err := g.Start(); err != nil {
		logger.Fatal("failed to start game", zap.Error(err))
	}

	// A short scripted exchange.
	opponentHero := heroOf(g, entity.Player2)
	g.Dispatcher().Dispatch(rules.NewDamageEvent(opponentHero, hero, 3, false, true))
	g.EndTurn()
	g.Dispatcher().Dispatch(rules.NewDamageEvent(hero, opponentHero, 4, false, true))
	g.EndTurn()

	if err := g.End(entity.Player1); err != nil {
		logger.Fatal("failed to end game", zap.Error(err))
	}

	out, err := game.MarshalSnapshot(g.Snapshot())
	if err != nil {
		logger.Fatal("failed to marshal snapshot", zap.Error(err))
	}
	fmt.Println(string(out))
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

func heroOf(g *game.Game, pid entity.PlayerID) *entity.Entity {
	player := g.Player(pid)
	data, _ := player.AsPlayer()
	return data.Hero
}

func demoDeck(prefix string) []game.CardRecord {
	deck := make([]game.CardRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		deck = append(deck, game.CardRecord{
			CardID: fmt.Sprintf("%s_%02d", prefix, i),
			Name:   fmt.Sprintf("Card %d", i),
			Cost:   (i % 5) + 1,
			Rarity: "COMMON",
		})
	}
	return deck
}
