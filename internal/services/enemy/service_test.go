package enemy_test

import (
	"context"
	"testing"

	mockdice "github.com/KirkDiggler/blur-battle/internal/dice/mock"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/services/enemy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, roller *mockdice.ManualMockRoller) enemy.Service {
	t.Helper()
	svc, err := enemy.NewService(&enemy.ServiceConfig{Roller: roller})
	require.NoError(t, err)
	return svc
}

func TestGetByDifficulty_PicksFromTier(t *testing.T) {
	tests := []struct {
		tier   entities.Tier
		index  int
		wantID string
	}{
		{tier: entities.TierEasy, index: 0, wantID: "skeleton"},
		{tier: entities.TierEasy, index: 1, wantID: "goblin"},
		{tier: entities.TierMedium, index: 0, wantID: "orc"},
		{tier: entities.TierMedium, index: 1, wantID: "ghost"},
		{tier: entities.TierHard, index: 0, wantID: "dragon"},
		{tier: entities.TierHard, index: 1, wantID: "lich"},
	}

	for _, tt := range tests {
		t.Run(tt.wantID, func(t *testing.T) {
			var tmpl entities.EnemyTemplate
			for _, candidate := range enemy.DefaultTemplates() {
				if candidate.ID == tt.wantID {
					tmpl = candidate
				}
			}
			roller := mockdice.NewManualMockRoller().SetInts(tt.index).SetUniforms(float64(tmpl.ExpMin))

			got, err := newCatalog(t, roller).GetByDifficulty(context.Background(), tt.tier)
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tmpl.MaxHP, got.HP, "materialized at full health")
			assert.Equal(t, tmpl.MaxHP, got.MaxHP)
			assert.Equal(t, tmpl.ExpMin, got.ExpReward)
		})
	}
}

func TestGetByDifficulty_SamplesRewardFromInclusiveRange(t *testing.T) {
	tests := []struct {
		name       string
		draw       float64
		wantReward int
	}{
		{name: "minimum", draw: 10, wantReward: 10},
		{name: "fraction floors", draw: 14.99, wantReward: 14},
		{name: "top of range", draw: 20.7, wantReward: 20},
		{name: "upper bound clamps", draw: 21, wantReward: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// goblin: exp 10..20
			roller := mockdice.NewManualMockRoller().SetInts(1).SetUniforms(tt.draw)

			got, err := newCatalog(t, roller).GetByDifficulty(context.Background(), entities.TierEasy)
			require.NoError(t, err)
			assert.Equal(t, "goblin", got.ID)
			assert.Equal(t, tt.wantReward, got.ExpReward)
		})
	}
}

func TestGetByDifficulty_UnknownTier(t *testing.T) {
	svc := newCatalog(t, mockdice.NewManualMockRoller())

	_, err := svc.GetByDifficulty(context.Background(), entities.Tier("deadly"))
	assert.True(t, battleerr.IsInvalidArgument(err))
}

func TestMaterialize_DoesNotShareTemplates(t *testing.T) {
	roller := mockdice.NewManualMockRoller().SetUniforms(15, 15)
	svc := newCatalog(t, roller)

	first, err := svc.GetEnemy(context.Background(), "skeleton")
	require.NoError(t, err)
	first.HP = 1
	first.Name = "Changed"

	second, err := svc.GetEnemy(context.Background(), "Skeleton")
	require.NoError(t, err)
	assert.Equal(t, 80, second.HP)
	assert.Equal(t, "Skeleton", second.Name)
	assert.Equal(t, "Skeleton", svc.ListTemplates()[0].Name)
}

func TestGetEnemy_Errors(t *testing.T) {
	svc := newCatalog(t, mockdice.NewManualMockRoller())

	_, err := svc.GetEnemy(context.Background(), "")
	assert.True(t, battleerr.IsInvalidArgument(err))

	_, err = svc.GetEnemy(context.Background(), "beholder")
	assert.True(t, battleerr.IsNotFound(err))
}

func TestGetRandomEnemy(t *testing.T) {
	roller := mockdice.NewManualMockRoller().SetInts(4).SetUniforms(130)

	got, err := newCatalog(t, roller).GetRandomEnemy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dragon", got.ID)
	assert.Equal(t, 130, got.ExpReward)
}

func TestListTemplates_CatalogOrder(t *testing.T) {
	svc := newCatalog(t, mockdice.NewManualMockRoller())

	var ids []string
	for _, tmpl := range svc.ListTemplates() {
		ids = append(ids, tmpl.ID)
	}
	assert.Equal(t, []string{"skeleton", "goblin", "orc", "ghost", "dragon", "lich"}, ids)
}

func TestNewService_RejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name      string
		templates []entities.EnemyTemplate
	}{
		{
			name:      "missing id",
			templates: []entities.EnemyTemplate{{Name: "Nameless", Tier: entities.TierEasy, MaxHP: 1, Attack: 1}},
		},
		{
			name:      "bad exp range",
			templates: []entities.EnemyTemplate{{ID: "x", Name: "X", Tier: entities.TierEasy, MaxHP: 1, Attack: 1, ExpMin: 5, ExpMax: 1}},
		},
		{
			name:      "unknown tier",
			templates: []entities.EnemyTemplate{{ID: "x", Name: "X", Tier: "legendary", MaxHP: 1, Attack: 1}},
		},
		{
			name: "duplicate id",
			templates: []entities.EnemyTemplate{
				{ID: "x", Name: "X", Tier: entities.TierEasy, MaxHP: 1, Attack: 1},
				{ID: "x", Name: "X2", Tier: entities.TierEasy, MaxHP: 1, Attack: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enemy.NewService(&enemy.ServiceConfig{
				Roller:    mockdice.NewManualMockRoller(),
				Templates: tt.templates,
			})
			assert.True(t, battleerr.IsValidation(err))
		})
	}
}

func TestNewService_RequiresRoller(t *testing.T) {
	assert.Panics(t, func() { _, _ = enemy.NewService(&enemy.ServiceConfig{}) })
}

func TestTierForLevel(t *testing.T) {
	assert.Equal(t, entities.TierEasy, enemy.TierForLevel(1))
	assert.Equal(t, entities.TierEasy, enemy.TierForLevel(2))
	assert.Equal(t, entities.TierMedium, enemy.TierForLevel(3))
	assert.Equal(t, entities.TierMedium, enemy.TierForLevel(5))
	assert.Equal(t, entities.TierHard, enemy.TierForLevel(6))
	assert.Equal(t, entities.TierHard, enemy.TierForLevel(40))
}

func TestParseTier(t *testing.T) {
	tier, err := enemy.ParseTier(" Medium ")
	require.NoError(t, err)
	assert.Equal(t, entities.TierMedium, tier)

	_, err = enemy.ParseTier("deadly")
	assert.True(t, battleerr.IsInvalidArgument(err))
}
