package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/blur-battle/internal/config"
	"github.com/KirkDiggler/blur-battle/internal/dice"
	"github.com/KirkDiggler/blur-battle/internal/domain/battle"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/feedback"
	"github.com/KirkDiggler/blur-battle/internal/repositories/saves"
	"github.com/KirkDiggler/blur-battle/internal/scheduler"
	"github.com/KirkDiggler/blur-battle/internal/services"
)

// lowHealthPercent is when the autopilot drinks a potion instead of attacking
const lowHealthPercent = 35

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	roller := dice.NewRandomRoller()
	if cfg.Sim.Seed != 0 {
		roller = dice.NewSeededRoller(cfg.Sim.Seed)
		log.Printf("Using seed %d", cfg.Sim.Seed)
	}

	sounds := feedback.NewAsync(&feedback.LogSink{Prefix: "Sound"}, 32)
	defer sounds.Close()

	providerConfig := &services.ProviderConfig{
		ProfileID:   cfg.Battle.ProfileID,
		Roller:      roller,
		Scheduler:   scheduler.NewTimer(),
		PacingDelay: &cfg.Battle.PacingDelay,
		Feedback:    sounds,
	}

	// Keep Redis client for cleanup
	redisClient := connectRedis(cfg.Redis)
	if redisClient != nil {
		providerConfig.SaveRepository = saves.NewRedis(redisClient)
		log.Println("Using Redis for saves")
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
	} else {
		log.Println("Using in-memory saves")
	}

	provider, err := services.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}
	game := provider.GameService

	if err := game.Load(ctx); err != nil {
		log.Printf("Failed to load save, starting fresh: %v", err)
	}

	for i := 1; i <= cfg.Sim.Battles; i++ {
		if ctx.Err() != nil {
			break
		}

		engine, err := game.StartBattle(ctx)
		if err != nil {
			log.Fatalf("Failed to start battle: %v", err)
		}

		final, err := autoplay(ctx, engine)
		if err != nil {
			log.Printf("Battle %d interrupted: %v", i, err)
			break
		}

		progress := game.Progress()
		fmt.Printf("Battle %d: %s vs %s -> %s in %d rounds (+%d exp, level %d, %d/%d exp)\n",
			i, final.Player.Stats.Name, final.Enemy.Name, final.Outcome, final.Round,
			final.ExpGained, progress.Level, progress.Exp, progress.RequiredExp)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := game.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to save on shutdown: %v", err)
	}

	stats := game.Statistics()
	fmt.Printf("Fought %d, defeated %d, dealt %d, taken %d, highest level %d\n",
		stats.BattlesFought, stats.EnemiesDefeated, stats.DamageDealt, stats.DamageTaken, stats.HighestLevel)
}

// autoplay drives a battle to its end. Actions are taken from this goroutine,
// never from inside a listener.
func autoplay(ctx context.Context, engine *battle.Engine) (battle.Snapshot, error) {
	updates := make(chan battle.Snapshot, 16)
	unsubscribe := engine.Subscribe(func(s battle.Snapshot) {
		select {
		case updates <- s:
		default:
			log.Printf("Sim: dropped snapshot %d", s.Sequence)
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return battle.Snapshot{}, ctx.Err()
		case snap := <-updates:
			if snap.IsEnded() {
				return snap, nil
			}
			if !snap.IsPlayerTurn() {
				continue
			}
			if err := act(engine, snap); err != nil && !battleerr.IsMercyRefused(err) {
				return battle.Snapshot{}, err
			}
		}
	}
}

func act(engine *battle.Engine, snap battle.Snapshot) error {
	stats := snap.Player.Stats
	switch {
	case snap.MercyEligible:
		return engine.Mercy()
	case stats.HP*100 < stats.MaxHP*lowHealthPercent:
		return engine.UseItem()
	default:
		return engine.Attack()
	}
}

func connectRedis(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Printf("Invalid Redis configuration: %v", err)
		return nil
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis at %s: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}

	log.Printf("Connected to Redis at %s", opts.Addr)
	return client
}
