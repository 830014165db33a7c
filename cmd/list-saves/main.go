package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/blur-battle/internal/config"
	"github.com/KirkDiggler/blur-battle/internal/repositories/saves"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisCfg := cfg.Redis
	if !redisCfg.Enabled() {
		redisCfg.URL = "redis://localhost:6379/0"
	}

	opts, err := redisCfg.Options()
	if err != nil {
		log.Fatalf("Invalid Redis configuration: %v", err)
	}

	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	all, err := saves.NewRedis(client).ListAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list saves: %v", err)
	}

	fmt.Printf("Found %d saves:\n", len(all))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROFILE\tLEVEL\tEXP\tHP\tBATTLES\tDEFEATED\tLAST ENEMY\tUPDATED")
	for _, save := range all {
		p := save.Progression
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			save.ProfileID, p.Level, p.Exp, p.HP, save.TotalBattles,
			p.Statistics.EnemiesDefeated, save.LastEnemy, save.UpdatedAt.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}
