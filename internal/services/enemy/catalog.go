package enemy

import (
	"strings"

	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// DefaultTemplates returns the built-in opponents, grouped easy, medium, hard
func DefaultTemplates() []entities.EnemyTemplate {
	return []entities.EnemyTemplate{
		{ID: "skeleton", Name: "Skeleton", Image: "skeleton", Tier: entities.TierEasy, MaxHP: 80, Attack: 11, Defense: 6, ExpMin: 15, ExpMax: 25},
		{ID: "goblin", Name: "Goblin", Image: "goblin", Tier: entities.TierEasy, MaxHP: 60, Attack: 14, Defense: 2, ExpMin: 10, ExpMax: 20},
		{ID: "orc", Name: "Orc", Image: "orc", Tier: entities.TierMedium, MaxHP: 120, Attack: 17, Defense: 4, ExpMin: 30, ExpMax: 45},
		{ID: "ghost", Name: "Ghost", Image: "ghost", Tier: entities.TierMedium, MaxHP: 50, Attack: 20, Defense: 0, ExpMin: 25, ExpMax: 40},
		{ID: "dragon", Name: "Dragon", Image: "dragon", Tier: entities.TierHard, MaxHP: 300, Attack: 24, Defense: 10, ExpMin: 120, ExpMax: 160},
		{ID: "lich", Name: "Lich", Image: "lich", Tier: entities.TierHard, MaxHP: 200, Attack: 20, Defense: 6, ExpMin: 90, ExpMax: 120},
	}
}

// TierForLevel maps a player level onto a difficulty tier
func TierForLevel(level int) entities.Tier {
	switch {
	case level >= 6:
		return entities.TierHard
	case level >= 3:
		return entities.TierMedium
	default:
		return entities.TierEasy
	}
}

// ParseTier parses a tier name, case-insensitively
func ParseTier(s string) (entities.Tier, error) {
	switch tier := entities.Tier(strings.ToLower(strings.TrimSpace(s))); tier {
	case entities.TierEasy, entities.TierMedium, entities.TierHard:
		return tier, nil
	default:
		return "", battleerr.InvalidArgumentf("difficulty must be easy, medium, or hard, got %q", s)
	}
}
