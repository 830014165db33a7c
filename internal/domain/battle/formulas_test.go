package battle_test

import (
	"testing"

	"github.com/KirkDiggler/blur-battle/internal/domain/battle"
	"github.com/stretchr/testify/assert"
)

func TestPlayerAttackDamage(t *testing.T) {
	tests := []struct {
		name       string
		attack     int
		defense    int
		multiplier float64
		crit       bool
		want       int
	}{
		{name: "plain hit", attack: 22, defense: 2, multiplier: 1.0, want: 20},
		{name: "crit", attack: 22, defense: 2, multiplier: 1.0, crit: true, want: 35},
		{name: "low roll floors", attack: 22, defense: 10, multiplier: 0.6, want: 3},
		{name: "armor never drops below one", attack: 5, defense: 40, multiplier: 0.6, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, battle.PlayerAttackDamage(tt.attack, tt.defense, tt.multiplier, tt.crit))
		})
	}
}

func TestEnemyDamage(t *testing.T) {
	tests := []struct {
		name      string
		raw       int
		defense   int
		defending bool
		want      int
	}{
		{name: "defending", raw: 20, defense: 5, defending: true, want: 9},
		{name: "not defending", raw: 20, defense: 5, want: 15},
		{name: "fractional mitigation rounds in player's favor", raw: 20, defense: 6, defending: true, want: 6},
		{name: "minimum one", raw: 3, defense: 5, defending: true, want: 1},
		{name: "no defense", raw: 7, defense: 0, defending: true, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, battle.EnemyDamage(tt.raw, tt.defense, tt.defending))
		})
	}
}

func TestEnemyRawDamage(t *testing.T) {
	assert.Equal(t, 20, battle.EnemyRawDamage(20, 1.0))
	assert.Equal(t, 8, battle.EnemyRawDamage(14, 0.6))
	assert.Equal(t, 26, battle.EnemyRawDamage(20, 1.3))
}

func TestMercyEligible(t *testing.T) {
	assert.False(t, battle.MercyEligible(60, 60, 1))
	assert.False(t, battle.MercyEligible(10, 100, 8), "exactly 10% is not below it")
	assert.True(t, battle.MercyEligible(9, 100, 1))
	assert.True(t, battle.MercyEligible(60, 60, 9), "round past the threshold is enough on its own")
	assert.False(t, battle.MercyEligible(60, 60, 8))
}
