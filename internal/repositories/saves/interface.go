// Package saves persists player progress between runs
package saves

//go:generate mockgen -destination=mock/mock_repository.go -package=mocksaves github.com/KirkDiggler/blur-battle/internal/repositories/saves Repository
//go:generate mockgen -destination=mock/mock_time_provider.go -package=mocksaves github.com/KirkDiggler/blur-battle/internal/repositories/saves TimeProvider

import (
	"context"
	"time"

	"github.com/KirkDiggler/blur-battle/internal/entities"
)

// Repository stores one save per profile
type Repository interface {
	// Save creates or replaces the save for save.ProfileID, stamping its timestamps
	Save(ctx context.Context, save *entities.GameSave) error

	// Get returns the save for a profile, or a not_found error
	Get(ctx context.Context, profileID string) (*entities.GameSave, error)

	// Delete removes the save for a profile, or returns a not_found error
	Delete(ctx context.Context, profileID string) error

	// ListAll returns every save ordered by profile ID
	ListAll(ctx context.Context) ([]*entities.GameSave, error)
}

// TimeProvider supplies save timestamps
type TimeProvider interface {
	Now() time.Time
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now().UTC() }
