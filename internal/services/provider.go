package services

import (
	"time"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/feedback"
	"github.com/KirkDiggler/blur-battle/internal/repositories/saves"
	"github.com/KirkDiggler/blur-battle/internal/scheduler"
	enemyService "github.com/KirkDiggler/blur-battle/internal/services/enemy"
	gameService "github.com/KirkDiggler/blur-battle/internal/services/game"
	sessionService "github.com/KirkDiggler/blur-battle/internal/services/session"
	"github.com/KirkDiggler/blur-battle/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	Progression    *progression.Engine
	EnemyService   enemyService.Service
	SessionService sessionService.Service
	GameService    gameService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	ProfileID      string
	Roller         dice.Roller
	Scheduler      scheduler.Scheduler
	PacingDelay    *time.Duration // nil uses the battle default
	Feedback       feedback.Sink
	SaveRepository saves.Repository
	IDGenerator    uuid.Generator
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	// Use in-memory repository if none provided
	saveRepo := cfg.SaveRepository
	if saveRepo == nil {
		saveRepo = saves.NewInMemoryRepository(nil)
	}

	enemies, err := enemyService.NewService(&enemyService.ServiceConfig{
		Roller: roller,
	})
	if err != nil {
		return nil, err
	}

	prog := progression.NewEngine(nil)

	sessService := sessionService.NewService(&sessionService.ServiceConfig{
		Progression: prog,
		Roller:      roller,
		Scheduler:   cfg.Scheduler,
		PacingDelay: cfg.PacingDelay,
		Feedback:    cfg.Feedback,
		IDGenerator: cfg.IDGenerator,
	})

	gameSvc := gameService.NewService(&gameService.ServiceConfig{
		ProfileID:   cfg.ProfileID,
		Progression: prog,
		Session:     sessService,
		Enemies:     enemies,
		Saves:       saveRepo,
	})

	return &Provider{
		Progression:    prog,
		EnemyService:   enemies,
		SessionService: sessService,
		GameService:    gameSvc,
	}, nil
}
