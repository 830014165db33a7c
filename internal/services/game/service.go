// Package game is the context a single player's run lives in: one progression,
// one battle session, the enemy catalog and the save slot they are persisted to.
package game

import (
	"context"
	"log"
	"sync"

	"github.com/KirkDiggler/blur-battle/internal/domain/battle"
	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/repositories/saves"
	"github.com/KirkDiggler/blur-battle/internal/services/enemy"
	"github.com/KirkDiggler/blur-battle/internal/services/session"
)

// DefaultProfileID is the save slot used when none is configured
const DefaultProfileID = "default"

// Service runs a player's game
type Service interface {
	// NewGame resets progression and battle history and overwrites the save
	NewGame(ctx context.Context) error

	// StartBattle starts a battle against a random enemy of the player's tier
	StartBattle(ctx context.Context) (*battle.Engine, error)

	// StartBattleAgainst starts a battle against a specific catalog enemy
	StartBattleAgainst(ctx context.Context, enemyID string) (*battle.Engine, error)

	// Save writes the current progress to the save slot
	Save(ctx context.Context) error

	// Load restores progress from the save slot and ends the live battle.
	// A missing save leaves a fresh game.
	Load(ctx context.Context) error

	// Progress returns the player's level, experience and stats
	Progress() progression.Progress

	// Statistics returns the cumulative battle counters
	Statistics() progression.Statistics

	// History returns the battles started this session
	History() []session.BattleRecord

	// Shutdown ends the live battle and saves
	Shutdown(ctx context.Context) error
}

type service struct {
	profileID   string
	progression *progression.Engine
	session     session.Service
	enemies     enemy.Service
	saves       saves.Repository

	mu sync.Mutex
	// battles recorded in the loaded save, before this session
	priorBattles int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	ProfileID   string              // Optional, DefaultProfileID if empty
	Progression *progression.Engine // Required
	Session     session.Service     // Required
	Enemies     enemy.Service       // Required
	Saves       saves.Repository    // Optional, progress is not persisted if nil
}

// NewService creates a new game service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Progression == nil {
		panic("progression is required")
	}
	if cfg.Session == nil {
		panic("session service is required")
	}
	if cfg.Enemies == nil {
		panic("enemy service is required")
	}

	profileID := cfg.ProfileID
	if profileID == "" {
		profileID = DefaultProfileID
	}

	return &service{
		profileID:   profileID,
		progression: cfg.Progression,
		session:     cfg.Session,
		enemies:     cfg.Enemies,
		saves:       cfg.Saves,
	}
}

func (s *service) NewGame(ctx context.Context) error {
	s.session.Reset()
	s.progression.ResetToInitial()

	s.mu.Lock()
	s.priorBattles = 0
	s.mu.Unlock()

	log.Printf("Game: new game for profile %s", s.profileID)
	return s.Save(ctx)
}

func (s *service) StartBattle(ctx context.Context) (*battle.Engine, error) {
	tier := enemy.TierForLevel(s.progression.Level())

	foe, err := s.enemies.GetByDifficulty(ctx, tier)
	if err != nil {
		return nil, battleerr.Wrapf(err, "failed to pick a %s enemy", tier)
	}

	return s.start(foe)
}

func (s *service) StartBattleAgainst(ctx context.Context, enemyID string) (*battle.Engine, error) {
	foe, err := s.enemies.GetEnemy(ctx, enemyID)
	if err != nil {
		return nil, err
	}

	return s.start(foe)
}

func (s *service) start(foe *entities.Enemy) (*battle.Engine, error) {
	engine, err := s.session.StartNewBattle(foe)
	if err != nil {
		return nil, err
	}

	engine.OnBattleEnd(func(outcome battle.Outcome, final battle.Snapshot) {
		log.Printf("Game: battle %s against %s ended in %s", final.BattleID, final.Enemy.Name, outcome)
		if err := s.Save(context.Background()); err != nil {
			log.Printf("Game: failed to save after battle %s: %v", final.BattleID, err)
		}
	})

	return engine, nil
}

func (s *service) Save(ctx context.Context) error {
	if s.saves == nil {
		return nil
	}

	history := s.session.History()

	s.mu.Lock()
	save := &entities.GameSave{
		ProfileID:    s.profileID,
		Progression:  s.progression.Export(),
		TotalBattles: s.priorBattles + len(history),
	}
	s.mu.Unlock()

	if len(history) > 0 {
		save.LastEnemy = history[len(history)-1].EnemyName
	}

	if err := s.saves.Save(ctx, save); err != nil {
		log.Printf("Game: failed to save profile %s: %v", s.profileID, err)
		return battleerr.Wrapf(err, "failed to save profile %s", s.profileID)
	}

	return nil
}

func (s *service) Load(ctx context.Context) error {
	if s.saves == nil {
		return nil
	}

	save, err := s.saves.Get(ctx, s.profileID)
	if err != nil {
		if battleerr.IsNotFound(err) {
			log.Printf("Game: no save for profile %s, starting fresh", s.profileID)
			return nil
		}
		log.Printf("Game: failed to load profile %s: %v", s.profileID, err)
		return battleerr.Wrapf(err, "failed to load profile %s", s.profileID)
	}

	s.session.Reset()
	if err := s.progression.Restore(save.Progression); err != nil {
		return battleerr.Wrapf(err, "save for profile %s is corrupt", s.profileID)
	}

	s.mu.Lock()
	s.priorBattles = save.TotalBattles
	s.mu.Unlock()

	log.Printf("Game: loaded profile %s at level %d", s.profileID, save.Progression.Level)
	return nil
}

func (s *service) Progress() progression.Progress {
	return s.progression.GetProgress()
}

func (s *service) Statistics() progression.Statistics {
	return s.progression.Statistics()
}

func (s *service) History() []session.BattleRecord {
	return s.session.History()
}

func (s *service) Shutdown(ctx context.Context) error {
	s.session.EndCurrentBattle()
	return s.Save(ctx)
}
