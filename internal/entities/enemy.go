package entities

import (
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// Tier is a difficulty bucket used to pick an enemy
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// EnemyTemplate is a catalog entry. Templates are never mutated; battles get Enemy copies.
type EnemyTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Tier    Tier   `json:"tier"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	ExpMin  int    `json:"exp_min"`
	ExpMax  int    `json:"exp_max"`
}

// Enemy is a materialized opponent owned by a single battle
type Enemy struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	ExpReward int    `json:"exp_reward"`
}

// Validate checks that every stat a battle needs is present
func (e *Enemy) Validate() error {
	if e == nil {
		return battleerr.Validationf("enemy is required")
	}
	if e.Name == "" {
		return battleerr.Validationf("enemy name is required").WithMeta("field", "name")
	}
	if e.MaxHP <= 0 {
		return battleerr.Validationf("enemy %s: max hp must be positive, got %d", e.Name, e.MaxHP).
			WithMeta("field", "max_hp")
	}
	if e.HP <= 0 || e.HP > e.MaxHP {
		return battleerr.Validationf("enemy %s: hp must be in 1..%d, got %d", e.Name, e.MaxHP, e.HP).
			WithMeta("field", "hp")
	}
	if e.Attack <= 0 {
		return battleerr.Validationf("enemy %s: attack must be positive, got %d", e.Name, e.Attack).
			WithMeta("field", "attack")
	}
	if e.Defense < 0 {
		return battleerr.Validationf("enemy %s: defense must not be negative, got %d", e.Name, e.Defense).
			WithMeta("field", "defense")
	}
	if e.ExpReward < 0 {
		return battleerr.Validationf("enemy %s: exp reward must not be negative, got %d", e.Name, e.ExpReward).
			WithMeta("field", "exp_reward")
	}
	return nil
}

// Clone returns an independent copy
func (e *Enemy) Clone() *Enemy {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
