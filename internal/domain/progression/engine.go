// Package progression owns the player's level, experience and derived stats.
// One Engine lives for a whole game session and is shared by every battle in it.
package progression

import (
	"log"
	"math"
	"sync"

	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// Level-1 defaults
const (
	DefaultName                = "Player"
	DefaultMaxHP               = 40
	DefaultAttack              = 22
	DefaultDefense             = 5
	DefaultBaseExpForNextLevel = 40
)

const (
	// ExpGrowthRate scales the experience needed for each further level
	ExpGrowthRate = 1.5

	// StatGrowthRate scales max hp, attack and defense per level
	StatGrowthRate = 1.25
)

// Stats is a point-in-time view of the player's combat stats
type Stats struct {
	Name    string `json:"name"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
}

// Progress is the view returned by GetProgress
type Progress struct {
	Level       int     `json:"level"`
	Exp         int     `json:"exp"`
	RequiredExp int     `json:"required_exp"`
	Percent     float64 `json:"percent"`
	Stats       Stats   `json:"stats"`
}

// Statistics are the cumulative counters kept across battles
type Statistics struct {
	BattlesFought   int `json:"battles_fought"`
	EnemiesDefeated int `json:"enemies_defeated"`
	DamageDealt     int `json:"damage_dealt"`
	DamageTaken     int `json:"damage_taken"`
	HighestLevel    int `json:"highest_level"`
}

// State is everything needed to rebuild an Engine, used by save repositories
type State struct {
	Name        string     `json:"name"`
	Level       int        `json:"level"`
	Exp         int        `json:"exp"`
	HP          int        `json:"hp"`
	BaseMaxHP   int        `json:"base_max_hp"`
	BaseAttack  int        `json:"base_attack"`
	BaseDefense int        `json:"base_defense"`
	Statistics  Statistics `json:"statistics"`
}

// Config holds the level-1 values. Zero fields fall back to the defaults.
type Config struct {
	Name                string
	BaseMaxHP           int
	BaseAttack          int
	BaseDefense         int
	BaseExpForNextLevel int
}

// Engine tracks one player's progression. Safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	defaults Config

	name        string
	level       int
	exp         int
	hp          int
	baseMaxHP   int
	baseAttack  int
	baseDefense int

	maxHP   int
	attack  int
	defense int

	stats Statistics
}

// NewEngine creates an engine at level 1 with full health
func NewEngine(cfg *Config) *Engine {
	defaults := Config{
		Name:                DefaultName,
		BaseMaxHP:           DefaultMaxHP,
		BaseAttack:          DefaultAttack,
		BaseDefense:         DefaultDefense,
		BaseExpForNextLevel: DefaultBaseExpForNextLevel,
	}
	if cfg != nil {
		if cfg.Name != "" {
			defaults.Name = cfg.Name
		}
		if cfg.BaseMaxHP > 0 {
			defaults.BaseMaxHP = cfg.BaseMaxHP
		}
		if cfg.BaseAttack > 0 {
			defaults.BaseAttack = cfg.BaseAttack
		}
		if cfg.BaseDefense > 0 {
			defaults.BaseDefense = cfg.BaseDefense
		}
		if cfg.BaseExpForNextLevel > 0 {
			defaults.BaseExpForNextLevel = cfg.BaseExpForNextLevel
		}
	}

	e := &Engine{defaults: defaults}
	e.ResetToInitial()
	return e
}

// ResetToInitial starts a new game: level 1, no experience, full health, counters zeroed
func (e *Engine) ResetToInitial() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.name = e.defaults.Name
	e.level = 1
	e.exp = 0
	e.baseMaxHP = e.defaults.BaseMaxHP
	e.baseAttack = e.defaults.BaseAttack
	e.baseDefense = e.defaults.BaseDefense
	e.recomputeStats()
	e.hp = e.maxHP
	e.stats = Statistics{HighestLevel: 1}
}

// AddExp adds experience and applies every level-up it pays for.
// Returns the number of levels gained; any level-up restores hp to the new max.
func (e *Engine) AddExp(amount int) int {
	if amount <= 0 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.exp += amount

	levelsGained := 0
	required := e.requiredFor(e.level)
	for e.exp >= required {
		e.level++
		e.exp -= required
		levelsGained++
		e.recomputeStats()
		if e.level > e.stats.HighestLevel {
			e.stats.HighestLevel = e.level
		}
		required = e.requiredFor(e.level)
	}

	if levelsGained > 0 {
		e.hp = e.maxHP
		log.Printf("Progression: %s reached level %d (+%d)", e.name, e.level, levelsGained)
	}

	return levelsGained
}

// TakeDamage lowers hp, never below zero, and returns the amount recorded as taken
func (e *Engine) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.hp = max(0, e.hp-amount)
	e.stats.DamageTaken += amount
	return amount
}

// Heal restores up to amount hp, capped at max hp, and returns what was actually restored
func (e *Engine) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actual := min(e.maxHP-e.hp, amount)
	e.hp += actual
	return actual
}

// RestoreFullHealth sets hp to max hp
func (e *Engine) RestoreFullHealth() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hp = e.maxHP
}

// GetProgress returns level, experience and a stat snapshot
func (e *Engine) GetProgress() Progress {
	e.mu.RLock()
	defer e.mu.RUnlock()

	required := e.requiredFor(e.level)
	return Progress{
		Level:       e.level,
		Exp:         e.exp,
		RequiredExp: required,
		Percent:     float64(e.exp) / float64(required) * 100,
		Stats:       e.statsLocked(),
	}
}

// Player returns the current combat stats
func (e *Engine) Player() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statsLocked()
}

// Level returns the current level
func (e *Engine) Level() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level
}

// IsDefeated reports whether hp is zero
func (e *Engine) IsDefeated() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hp <= 0
}

// RequiredExp returns the experience needed to leave the given level
func (e *Engine) RequiredExp(level int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.requiredFor(level)
}

// RecordDamageDealt adds to the damage dealt counter
func (e *Engine) RecordDamageDealt(amount int) {
	if amount <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.DamageDealt += amount
}

// RecordBattleVictory counts a defeated (or spared) enemy
func (e *Engine) RecordBattleVictory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.EnemiesDefeated++
}

// RecordBattleStarted counts a battle fought
func (e *Engine) RecordBattleStarted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.BattlesFought++
}

// Statistics returns the cumulative counters
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Export returns the state needed to rebuild this engine
func (e *Engine) Export() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return State{
		Name:        e.name,
		Level:       e.level,
		Exp:         e.exp,
		HP:          e.hp,
		BaseMaxHP:   e.baseMaxHP,
		BaseAttack:  e.baseAttack,
		BaseDefense: e.baseDefense,
		Statistics:  e.stats,
	}
}

// Restore replaces the engine's state with a previously exported one
func (e *Engine) Restore(state State) error {
	if state.Level < 1 {
		return battleerr.Validationf("level must be at least 1, got %d", state.Level)
	}
	if state.Exp < 0 {
		return battleerr.Validationf("exp must not be negative, got %d", state.Exp)
	}
	if state.BaseMaxHP <= 0 {
		return battleerr.Validationf("base max hp must be positive, got %d", state.BaseMaxHP)
	}
	if state.BaseAttack < 0 || state.BaseDefense < 0 {
		return battleerr.Validationf("base attack and defense must not be negative")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.name = state.Name
	if e.name == "" {
		e.name = e.defaults.Name
	}
	e.level = state.Level
	e.exp = state.Exp
	e.baseMaxHP = state.BaseMaxHP
	e.baseAttack = state.BaseAttack
	e.baseDefense = state.BaseDefense
	e.recomputeStats()
	e.hp = min(max(0, state.HP), e.maxHP)
	e.stats = state.Statistics
	if e.stats.HighestLevel < e.level {
		e.stats.HighestLevel = e.level
	}

	return nil
}

func (e *Engine) statsLocked() Stats {
	return Stats{
		Name:    e.name,
		HP:      e.hp,
		MaxHP:   e.maxHP,
		Attack:  e.attack,
		Defense: e.defense,
	}
}

func (e *Engine) recomputeStats() {
	multiplier := math.Pow(StatGrowthRate, float64(e.level-1))
	e.maxHP = int(math.Floor(float64(e.baseMaxHP) * multiplier))
	e.attack = int(math.Floor(float64(e.baseAttack) * multiplier))
	e.defense = int(math.Floor(float64(e.baseDefense) * multiplier))
	if e.hp > e.maxHP {
		e.hp = e.maxHP
	}
}

// requiredFor never returns less than 1 so AddExp always terminates
func (e *Engine) requiredFor(level int) int {
	required := int(math.Floor(float64(e.defaults.BaseExpForNextLevel) * math.Pow(ExpGrowthRate, float64(level-1))))
	return max(1, required)
}
