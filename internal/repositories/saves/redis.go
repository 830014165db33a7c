package saves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	saveKeyPrefix = "save:"
	savesIndexKey = "saves"
)

// Data is the stored form of a save
type Data struct {
	ProfileID    string            `json:"profile_id"`
	Progression  progression.State `json:"progression"`
	TotalBattles int               `json:"total_battles"`
	LastEnemy    string            `json:"last_enemy,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient // Required
	TimeProvider TimeProvider          // Optional, wall clock if nil
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// NewRedisRepository creates a Redis-backed save repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = realTime{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
	}
}

// NewRedis creates a Redis-backed save repository using the wall clock
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func saveKey(profileID string) string {
	return saveKeyPrefix + profileID
}

func (r *redisRepo) Save(ctx context.Context, save *entities.GameSave) error {
	if err := validateSave(save); err != nil {
		return err
	}

	now := r.timeProvider.Now()
	if save.CreatedAt.IsZero() {
		createdAt, err := r.createdAt(ctx, save.ProfileID, now)
		if err != nil {
			return err
		}
		save.CreatedAt = createdAt
	}
	save.UpdatedAt = now

	jsonData, err := json.Marshal(toData(save))
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, saveKey(save.ProfileID), string(jsonData), 0)
	pipe.SAdd(ctx, savesIndexKey, save.ProfileID)
	if _, err := pipe.Exec(ctx); err != nil {
		return battleerr.WrapWithCode(err, battleerr.CodeUnavailable, "failed to store save in redis")
	}

	return nil
}

func (r *redisRepo) Get(ctx context.Context, profileID string) (*entities.GameSave, error) {
	if profileID == "" {
		return nil, battleerr.InvalidArgument("profile ID is required")
	}

	jsonData, err := r.client.Get(ctx, saveKey(profileID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(profileID)
		}
		return nil, battleerr.WrapWithCode(err, battleerr.CodeUnavailable, "failed to get save from redis")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, battleerr.Internalf("save for profile '%s' is corrupt: %v", profileID, err).
			WithMeta("profile_id", profileID)
	}

	return toSave(&data), nil
}

// createdAt returns the stored creation time of a profile's save, or now for a
// new save. A corrupt record is overwritten as new.
func (r *redisRepo) createdAt(ctx context.Context, profileID string, now time.Time) (time.Time, error) {
	existing, err := r.Get(ctx, profileID)
	switch {
	case err == nil && !existing.CreatedAt.IsZero():
		return existing.CreatedAt, nil
	case err == nil, battleerr.IsNotFound(err), battleerr.Is(err, battleerr.CodeInternal):
		return now, nil
	default:
		return time.Time{}, err
	}
}

func (r *redisRepo) Delete(ctx context.Context, profileID string) error {
	if profileID == "" {
		return battleerr.InvalidArgument("profile ID is required")
	}

	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, saveKey(profileID))
	pipe.SRem(ctx, savesIndexKey, profileID)
	if _, err := pipe.Exec(ctx); err != nil {
		return battleerr.WrapWithCode(err, battleerr.CodeUnavailable, "failed to delete save from redis")
	}

	if del.Val() == 0 {
		return notFound(profileID)
	}
	return nil
}

func (r *redisRepo) ListAll(ctx context.Context) ([]*entities.GameSave, error) {
	profileIDs, err := r.client.SMembers(ctx, savesIndexKey).Result()
	if err != nil {
		return nil, battleerr.WrapWithCode(err, battleerr.CodeUnavailable, "failed to list saves from redis")
	}

	sort.Strings(profileIDs)
	saves := make([]*entities.GameSave, len(profileIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range profileIDs {
		g.Go(func() error {
			save, err := r.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get save %s: %w", id, err)
			}
			saves[i] = save
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return saves, nil
}

func toData(save *entities.GameSave) *Data {
	return &Data{
		ProfileID:    save.ProfileID,
		Progression:  save.Progression,
		TotalBattles: save.TotalBattles,
		LastEnemy:    save.LastEnemy,
		CreatedAt:    save.CreatedAt,
		UpdatedAt:    save.UpdatedAt,
	}
}

func toSave(data *Data) *entities.GameSave {
	return &entities.GameSave{
		ProfileID:    data.ProfileID,
		Progression:  data.Progression,
		TotalBattles: data.TotalBattles,
		LastEnemy:    data.LastEnemy,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
