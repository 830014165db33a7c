package entities_test

import (
	"testing"

	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/stretchr/testify/assert"
)

func validEnemy() *entities.Enemy {
	return &entities.Enemy{ID: "goblin", Name: "Goblin", HP: 60, MaxHP: 60, Attack: 14, Defense: 2, ExpReward: 15}
}

func TestEnemy_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(e *entities.Enemy)
		wantField string
	}{
		{name: "valid", mutate: func(e *entities.Enemy) {}},
		{name: "zero defense is fine", mutate: func(e *entities.Enemy) { e.Defense = 0 }},
		{name: "missing name", mutate: func(e *entities.Enemy) { e.Name = "" }, wantField: "name"},
		{name: "missing max hp", mutate: func(e *entities.Enemy) { e.MaxHP = 0 }, wantField: "max_hp"},
		{name: "hp above max", mutate: func(e *entities.Enemy) { e.HP = 61 }, wantField: "hp"},
		{name: "missing hp", mutate: func(e *entities.Enemy) { e.HP = 0 }, wantField: "hp"},
		{name: "missing attack", mutate: func(e *entities.Enemy) { e.Attack = 0 }, wantField: "attack"},
		{name: "negative defense", mutate: func(e *entities.Enemy) { e.Defense = -1 }, wantField: "defense"},
		{name: "negative reward", mutate: func(e *entities.Enemy) { e.ExpReward = -1 }, wantField: "exp_reward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enemy := validEnemy()
			tt.mutate(enemy)

			err := enemy.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			assert.True(t, battleerr.IsValidation(err))
			assert.Equal(t, tt.wantField, battleerr.GetMeta(err)["field"])
		})
	}
}

func TestEnemy_ValidateNil(t *testing.T) {
	var enemy *entities.Enemy
	assert.True(t, battleerr.IsValidation(enemy.Validate()))
}

func TestEnemy_Clone(t *testing.T) {
	original := validEnemy()
	clone := original.Clone()

	clone.HP = 1
	assert.Equal(t, 60, original.HP)
	assert.Nil(t, (*entities.Enemy)(nil).Clone())
}
