package entities

import (
	"time"

	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
)

// GameSave is the persisted progress of one profile
type GameSave struct {
	ProfileID    string            `json:"profile_id"`
	Progression  progression.State `json:"progression"`
	TotalBattles int               `json:"total_battles"`
	LastEnemy    string            `json:"last_enemy,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Clone returns an independent copy
func (s *GameSave) Clone() *GameSave {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
