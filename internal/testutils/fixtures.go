package testutils

import (
	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/entities"
)

// CreateTestEnemy creates a full-health enemy
func CreateTestEnemy(name string, maxHP, attack, defense, expReward int) *entities.Enemy {
	return &entities.Enemy{
		ID:        name,
		Name:      name,
		HP:        maxHP,
		MaxHP:     maxHP,
		Attack:    attack,
		Defense:   defense,
		ExpReward: expReward,
	}
}

// CreateTestProgression creates a level-1 progression state carrying exp.
// Enough exp levels the player up the same way a battle would.
func CreateTestProgression(exp int) progression.State {
	engine := progression.NewEngine(nil)
	engine.AddExp(exp)
	return engine.Export()
}

// CreateTestSave creates a save for profileID
func CreateTestSave(profileID string, exp, totalBattles int) *entities.GameSave {
	return &entities.GameSave{
		ProfileID:    profileID,
		Progression:  CreateTestProgression(exp),
		TotalBattles: totalBattles,
	}
}
