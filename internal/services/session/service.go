package session

import (
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	"github.com/KirkDiggler/blur-battle/internal/domain/battle"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/feedback"
	"github.com/KirkDiggler/blur-battle/internal/scheduler"
	"github.com/KirkDiggler/blur-battle/internal/uuid"
)

// TimeProvider supplies timestamps for history records
type TimeProvider interface {
	Now() time.Time
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// BattleRecord is one entry in the session's battle history
type BattleRecord struct {
	BattleID  string    `json:"battle_id"`
	EnemyName string    `json:"enemy_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Service owns the single live battle of a game session
type Service interface {
	// StartNewBattle disposes the live battle, if any, and starts one against enemy.
	// A malformed enemy leaves both the live battle and the history untouched.
	StartNewBattle(enemy *entities.Enemy) (*battle.Engine, error)

	// EndCurrentBattle disposes and drops the live battle
	EndCurrentBattle()

	// CurrentBattle returns the live battle, or nil
	CurrentBattle() *battle.Engine

	// History returns a copy of every battle started since the last reset
	History() []BattleRecord

	// GetTotalBattles returns len(History())
	GetTotalBattles() int

	// Reset ends the live battle and clears history
	Reset()
}

type service struct {
	progression battle.Progression
	roller      dice.Roller
	scheduler   scheduler.Scheduler
	delay       time.Duration
	sink        feedback.Sink
	ids         uuid.Generator
	clock       TimeProvider

	mu      sync.Mutex
	current *battle.Engine
	history []BattleRecord
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Progression  battle.Progression  // Required
	Roller       dice.Roller         // Optional, random if nil
	Scheduler    scheduler.Scheduler // Optional, wall-clock timer if nil
	PacingDelay  *time.Duration      // Optional, battle.DefaultPacingDelay if nil or negative; zero replies immediately
	Feedback     feedback.Sink       // Optional
	IDGenerator  uuid.Generator      // Optional, random UUIDs if nil
	TimeProvider TimeProvider        // Optional, wall clock if nil
}

// NewService creates a new battle session
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Progression == nil {
		panic("progression is required")
	}

	svc := &service{
		progression: cfg.Progression,
		roller:      cfg.Roller,
		scheduler:   cfg.Scheduler,
		delay:       battle.DefaultPacingDelay,
		sink:        cfg.Feedback,
		ids:         cfg.IDGenerator,
		clock:       cfg.TimeProvider,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.scheduler == nil {
		svc.scheduler = scheduler.NewTimer()
	}
	if cfg.PacingDelay != nil && *cfg.PacingDelay >= 0 {
		svc.delay = *cfg.PacingDelay
	}
	if svc.ids == nil {
		svc.ids = uuid.NewGoogleUUIDGenerator()
	}
	if svc.clock == nil {
		svc.clock = realTime{}
	}

	return svc
}

func (s *service) StartNewBattle(enemy *entities.Enemy) (*battle.Engine, error) {
	if err := enemy.Validate(); err != nil {
		return nil, battleerr.Wrap(err, "failed to start battle")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}

	// A downed player gets back up for the next fight
	if s.progression.Player().HP <= 0 {
		s.progression.RestoreFullHealth()
		log.Printf("Session: revived player before battle")
	}

	engine, err := battle.NewEngine(&battle.Config{
		ID:          s.ids.New(),
		Enemy:       enemy.Clone(),
		Progression: s.progression,
		Roller:      s.roller,
		Scheduler:   s.scheduler,
		PacingDelay: s.delay,
		Feedback:    s.sink,
	})
	if err != nil {
		return nil, battleerr.Wrap(err, "failed to start battle")
	}

	s.current = engine
	s.history = append(s.history, BattleRecord{
		BattleID:  engine.ID(),
		EnemyName: enemy.Name,
		Timestamp: s.clock.Now(),
	})

	log.Printf("Session: battle %d started against %s", len(s.history), enemy.Name)
	return engine, nil
}

func (s *service) EndCurrentBattle() {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}

func (s *service) CurrentBattle() *battle.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *service) History() []BattleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]BattleRecord, len(s.history))
	copy(out, s.history)
	return out
}

func (s *service) GetTotalBattles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *service) Reset() {
	s.EndCurrentBattle()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
