package saves

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// InMemoryRepository keeps saves for the lifetime of the process.
// Used when no Redis is configured and in tests.
type InMemoryRepository struct {
	mu           sync.RWMutex
	saves        map[string]*entities.GameSave
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository; timeProvider may be nil
func NewInMemoryRepository(timeProvider TimeProvider) *InMemoryRepository {
	if timeProvider == nil {
		timeProvider = realTime{}
	}
	return &InMemoryRepository{
		saves:        make(map[string]*entities.GameSave),
		timeProvider: timeProvider,
	}
}

// Save creates or replaces a save
func (r *InMemoryRepository) Save(_ context.Context, save *entities.GameSave) error {
	if err := validateSave(save); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeProvider.Now()
	if existing, ok := r.saves[save.ProfileID]; ok && save.CreatedAt.IsZero() {
		save.CreatedAt = existing.CreatedAt
	}
	if save.CreatedAt.IsZero() {
		save.CreatedAt = now
	}
	save.UpdatedAt = now

	r.saves[save.ProfileID] = save.Clone()
	return nil
}

// Get retrieves a save by profile ID
func (r *InMemoryRepository) Get(_ context.Context, profileID string) (*entities.GameSave, error) {
	if profileID == "" {
		return nil, battleerr.InvalidArgument("profile ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	save, ok := r.saves[profileID]
	if !ok {
		return nil, notFound(profileID)
	}
	return save.Clone(), nil
}

// Delete removes a save
func (r *InMemoryRepository) Delete(_ context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.saves[profileID]; !ok {
		return notFound(profileID)
	}
	delete(r.saves, profileID)
	return nil
}

// ListAll returns every save ordered by profile ID
func (r *InMemoryRepository) ListAll(_ context.Context) ([]*entities.GameSave, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.GameSave, 0, len(r.saves))
	for _, save := range r.saves {
		result = append(result, save.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProfileID < result[j].ProfileID })
	return result, nil
}
