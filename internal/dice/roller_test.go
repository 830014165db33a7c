package dice_test

import (
	"testing"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	mockdice "github.com/KirkDiggler/blur-battle/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRoller_UniformBounds(t *testing.T) {
	roller := dice.NewSeededRoller(42)

	for i := 0; i < 1000; i++ {
		v := roller.Uniform(0.6, 1.3)
		require.GreaterOrEqual(t, v, 0.6)
		require.Less(t, v, 1.3)
	}

	assert.Equal(t, 5.0, roller.Uniform(5, 5), "empty range returns min")
}

func TestRandomRoller_SeedIsDeterministic(t *testing.T) {
	a := dice.NewSeededRoller(7)
	b := dice.NewSeededRoller(7)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Uniform(8, 28), b.Uniform(8, 28))
		assert.Equal(t, a.Intn(6), b.Intn(6))
	}
}

func TestRandomRoller_ChanceExtremes(t *testing.T) {
	roller := dice.NewRandomRoller()

	for i := 0; i < 100; i++ {
		assert.False(t, roller.Chance(0))
		assert.True(t, roller.Chance(1))
	}
}

func TestRandomRoller_IntnRange(t *testing.T) {
	roller := dice.NewSeededRoller(3)
	seen := map[int]bool{}

	for i := 0; i < 500; i++ {
		v := roller.Intn(3)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 3)
		seen[v] = true
	}

	assert.Len(t, seen, 3)
	assert.Equal(t, 0, roller.Intn(1))
}

func TestFloorUniform(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		min  float64
		max  float64
		want int
	}{
		{name: "truncates fraction", draw: 20.9, min: 8, max: 28, want: 20},
		{name: "lower bound", draw: 8, min: 8, max: 28, want: 8},
		{name: "negative range floors down", draw: -1.5, min: -2, max: 0, want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller().SetUniforms(tt.draw)
			assert.Equal(t, tt.want, dice.FloorUniform(roller, tt.min, tt.max))
		})
	}
}

func TestManualMockRoller_Queues(t *testing.T) {
	roller := mockdice.NewManualMockRoller().
		SetUniforms(1.0, 0.6).
		SetChances(true, false).
		SetInts(1)

	assert.Equal(t, 5, roller.Remaining())
	assert.Equal(t, 1.0, roller.Uniform(0.6, 1.3))
	assert.True(t, roller.Chance(0.08))
	assert.Equal(t, 1, roller.Intn(2))
	assert.Equal(t, 0.6, roller.Uniform(0.6, 1.3))
	assert.False(t, roller.Chance(0.08))
	assert.Equal(t, 0, roller.Remaining())
}

func TestManualMockRoller_PanicsWhenExhaustedOrOutOfRange(t *testing.T) {
	roller := mockdice.NewManualMockRoller()

	assert.Panics(t, func() { roller.Uniform(0, 1) })
	assert.Panics(t, func() { roller.Chance(0.5) })
	assert.Panics(t, func() { roller.Intn(2) })

	roller.SetUniforms(2.0).SetInts(5)
	assert.Panics(t, func() { roller.Uniform(0, 1) })
	assert.Panics(t, func() { roller.Intn(2) })
}
