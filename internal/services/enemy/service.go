package enemy

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// Service is the catalog of opponents
type Service interface {
	// GetByDifficulty picks a random enemy from the tier and materializes it
	GetByDifficulty(ctx context.Context, tier entities.Tier) (*entities.Enemy, error)

	// GetEnemy materializes a specific enemy by ID
	GetEnemy(ctx context.Context, id string) (*entities.Enemy, error)

	// GetRandomEnemy materializes an enemy from any tier
	GetRandomEnemy(ctx context.Context) (*entities.Enemy, error)

	// ListTemplates returns copies of every template in catalog order
	ListTemplates() []entities.EnemyTemplate
}

type service struct {
	roller    dice.Roller
	templates map[string]entities.EnemyTemplate
	order     []string
	tiers     map[entities.Tier][]string
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Roller    dice.Roller              // Required
	Templates []entities.EnemyTemplate // Optional, DefaultTemplates if empty
}

// NewService creates a new enemy catalog
func NewService(cfg *ServiceConfig) (Service, error) {
	if cfg == nil || cfg.Roller == nil {
		panic("roller is required")
	}

	templates := cfg.Templates
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}

	svc := &service{
		roller:    cfg.Roller,
		templates: make(map[string]entities.EnemyTemplate, len(templates)),
		tiers:     make(map[entities.Tier][]string),
	}

	for _, tmpl := range templates {
		if err := validateTemplate(tmpl); err != nil {
			return nil, err
		}
		if _, exists := svc.templates[tmpl.ID]; exists {
			return nil, battleerr.Validationf("duplicate enemy template %q", tmpl.ID)
		}
		svc.templates[tmpl.ID] = tmpl
		svc.order = append(svc.order, tmpl.ID)
		svc.tiers[tmpl.Tier] = append(svc.tiers[tmpl.Tier], tmpl.ID)
	}

	return svc, nil
}

// GetByDifficulty picks a random enemy from the tier and materializes it
func (s *service) GetByDifficulty(ctx context.Context, tier entities.Tier) (*entities.Enemy, error) {
	ids, ok := s.tiers[tier]
	if !ok || len(ids) == 0 {
		return nil, battleerr.InvalidArgumentf("unknown difficulty %q", tier).WithMeta("tier", string(tier))
	}

	id := ids[s.roller.Intn(len(ids))]
	return s.materialize(s.templates[id]), nil
}

// GetEnemy materializes a specific enemy by ID
func (s *service) GetEnemy(ctx context.Context, id string) (*entities.Enemy, error) {
	if id == "" {
		return nil, battleerr.InvalidArgument("enemy id is required")
	}

	tmpl, ok := s.templates[strings.ToLower(id)]
	if !ok {
		return nil, battleerr.NotFoundf("enemy %q not found", id)
	}

	return s.materialize(tmpl), nil
}

// GetRandomEnemy materializes an enemy from any tier
func (s *service) GetRandomEnemy(ctx context.Context) (*entities.Enemy, error) {
	if len(s.order) == 0 {
		return nil, battleerr.NotFoundf("enemy catalog is empty")
	}

	id := s.order[s.roller.Intn(len(s.order))]
	return s.materialize(s.templates[id]), nil
}

// ListTemplates returns copies of every template in catalog order
func (s *service) ListTemplates() []entities.EnemyTemplate {
	out := make([]entities.EnemyTemplate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.templates[id])
	}
	return out
}

// materialize copies the template's stats and samples the experience reward once
func (s *service) materialize(tmpl entities.EnemyTemplate) *entities.Enemy {
	reward := dice.FloorUniform(s.roller, float64(tmpl.ExpMin), float64(tmpl.ExpMax+1))
	reward = min(max(reward, tmpl.ExpMin), tmpl.ExpMax)

	log.Printf("EnemyCatalog: materialized %s (exp reward %d)", tmpl.ID, reward)

	return &entities.Enemy{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Image:     tmpl.Image,
		HP:        tmpl.MaxHP,
		MaxHP:     tmpl.MaxHP,
		Attack:    tmpl.Attack,
		Defense:   tmpl.Defense,
		ExpReward: reward,
	}
}

func validateTemplate(tmpl entities.EnemyTemplate) error {
	switch {
	case tmpl.ID == "":
		return battleerr.Validationf("enemy template id is required")
	case tmpl.Name == "":
		return battleerr.Validationf("enemy template %q: name is required", tmpl.ID)
	case tmpl.MaxHP <= 0:
		return battleerr.Validationf("enemy template %q: max hp must be positive", tmpl.ID)
	case tmpl.Attack <= 0:
		return battleerr.Validationf("enemy template %q: attack must be positive", tmpl.ID)
	case tmpl.Defense < 0:
		return battleerr.Validationf("enemy template %q: defense must not be negative", tmpl.ID)
	case tmpl.ExpMin < 0 || tmpl.ExpMax < tmpl.ExpMin:
		return battleerr.Validationf("enemy template %q: invalid exp range [%d, %d]", tmpl.ID, tmpl.ExpMin, tmpl.ExpMax)
	}

	switch tmpl.Tier {
	case entities.TierEasy, entities.TierMedium, entities.TierHard:
		return nil
	default:
		return battleerr.Validationf("enemy template %q: unknown tier %q", tmpl.ID, tmpl.Tier)
	}
}
