package saves_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/repositories/saves"
	mocksaves "github.com/KirkDiggler/blur-battle/internal/repositories/saves/mock"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient   *redis.Client
	mock         redismock.ClientMock
	repo         saves.Repository
	mockCtrl     *gomock.Controller
	timeProvider *mocksaves.MockTimeProvider
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mocksaves.NewMockTimeProvider(s.mockCtrl)
	s.repo = saves.NewRedisRepository(&saves.RedisRepoConfig{
		Client:       s.mockClient,
		TimeProvider: s.timeProvider,
	})
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func testState() progression.State {
	return progression.NewEngine(nil).Export()
}

func (s *RedisRepoTestSuite) encode(save *entities.GameSave) string {
	data, err := json.Marshal(saves.Data{
		ProfileID:    save.ProfileID,
		Progression:  save.Progression,
		TotalBattles: save.TotalBattles,
		LastEnemy:    save.LastEnemy,
		CreatedAt:    save.CreatedAt,
		UpdatedAt:    save.UpdatedAt,
	})
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	save := &entities.GameSave{ProfileID: "default", Progression: testState(), TotalBattles: 3, LastEnemy: "Orc"}
	expected := &entities.GameSave{
		ProfileID:    "default",
		Progression:  save.Progression,
		TotalBattles: 3,
		LastEnemy:    "Orc",
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}

	s.mock.ExpectGet("save:default").RedisNil()
	s.mock.ExpectSet("save:default", s.encode(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("saves", "default").SetVal(1)

	s.NoError(s.repo.Save(ctx, save))
	s.Equal(s.now, save.CreatedAt)
	s.Equal(s.now, save.UpdatedAt)
}

func (s *RedisRepoTestSuite) TestSave_KeepsStoredCreatedAt() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	created := s.now.Add(-48 * time.Hour)
	stored := &entities.GameSave{ProfileID: "default", Progression: testState(), TotalBattles: 1, CreatedAt: created, UpdatedAt: created}

	// A fresh save built by the game service carries no creation time
	save := &entities.GameSave{ProfileID: "default", Progression: testState(), TotalBattles: 2}
	expected := save.Clone()
	expected.CreatedAt = created
	expected.UpdatedAt = s.now

	s.mock.ExpectGet("save:default").SetVal(s.encode(stored))
	s.mock.ExpectSet("save:default", s.encode(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("saves", "default").SetVal(0)

	s.NoError(s.repo.Save(ctx, save))
	s.Equal(created, save.CreatedAt)
	s.Equal(s.now, save.UpdatedAt)
}

func (s *RedisRepoTestSuite) TestSave_OverwritesCorruptRecord() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	save := &entities.GameSave{ProfileID: "default", Progression: testState()}
	expected := save.Clone()
	expected.CreatedAt = s.now
	expected.UpdatedAt = s.now

	s.mock.ExpectGet("save:default").SetVal("{not json")
	s.mock.ExpectSet("save:default", s.encode(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("saves", "default").SetVal(0)

	s.NoError(s.repo.Save(ctx, save))
}

func (s *RedisRepoTestSuite) TestSave_CreatedAtLookupError() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	s.mock.ExpectGet("save:default").SetErr(errors.New("redis error"))

	err := s.repo.Save(ctx, &entities.GameSave{ProfileID: "default", Progression: testState()})
	s.Error(err)
	s.Equal(battleerr.CodeUnavailable, battleerr.GetCode(err))
}

func (s *RedisRepoTestSuite) TestSave_KeepsCreatedAt() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	created := s.now.Add(-time.Hour)
	save := &entities.GameSave{ProfileID: "default", Progression: testState(), CreatedAt: created}
	expected := save.Clone()
	expected.UpdatedAt = s.now

	s.mock.ExpectSet("save:default", s.encode(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("saves", "default").SetVal(0)

	s.NoError(s.repo.Save(ctx, save))
	s.Equal(created, save.CreatedAt)
}

func (s *RedisRepoTestSuite) TestSave_Errors() {
	ctx := context.Background()

	// Input validation
	s.True(battleerr.IsInvalidArgument(s.repo.Save(ctx, nil)))
	s.True(battleerr.IsInvalidArgument(s.repo.Save(ctx, &entities.GameSave{})))

	// Dependency error
	s.timeProvider.EXPECT().Now().Return(s.now)
	save := &entities.GameSave{ProfileID: "default", Progression: testState()}
	expected := save.Clone()
	expected.CreatedAt = s.now
	expected.UpdatedAt = s.now
	s.mock.ExpectGet("save:default").RedisNil()
	s.mock.ExpectSet("save:default", s.encode(expected), 0).SetErr(errors.New("redis error"))

	err := s.repo.Save(ctx, save)
	s.Error(err)
	s.Equal(battleerr.CodeUnavailable, battleerr.GetCode(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	stored := &entities.GameSave{
		ProfileID:    "default",
		Progression:  testState(),
		TotalBattles: 2,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}

	// Happy path
	s.mock.ExpectGet("save:default").SetVal(s.encode(stored))

	save, err := s.repo.Get(ctx, "default")
	s.Require().NoError(err)
	s.Equal(stored, save)

	// Missing
	s.mock.ExpectGet("save:other").RedisNil()

	_, err = s.repo.Get(ctx, "other")
	s.True(battleerr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("save:default").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "default")
	s.Error(err)
	s.False(battleerr.IsNotFound(err))

	// Corrupt record
	s.mock.ExpectGet("save:default").SetVal("{not json")

	_, err = s.repo.Get(ctx, "default")
	s.Equal(battleerr.CodeInternal, battleerr.GetCode(err))
	s.Equal("default", battleerr.GetMeta(err)["profile_id"])

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.True(battleerr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	s.mock.ExpectDel("save:default").SetVal(1)
	s.mock.ExpectSRem("saves", "default").SetVal(1)
	s.NoError(s.repo.Delete(ctx, "default"))

	s.mock.ExpectDel("save:gone").SetVal(0)
	s.mock.ExpectSRem("saves", "gone").SetVal(0)
	s.True(battleerr.IsNotFound(s.repo.Delete(ctx, "gone")))
}

func (s *RedisRepoTestSuite) TestListAll() {
	ctx := context.Background()
	first := &entities.GameSave{ProfileID: "alice", Progression: testState(), CreatedAt: s.now, UpdatedAt: s.now}
	second := &entities.GameSave{ProfileID: "bob", Progression: testState(), CreatedAt: s.now, UpdatedAt: s.now}

	// Gets run in parallel
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers("saves").SetVal([]string{"bob", "alice"})
	s.mock.ExpectGet("save:alice").SetVal(s.encode(first))
	s.mock.ExpectGet("save:bob").SetVal(s.encode(second))

	result, err := s.repo.ListAll(ctx)
	s.Require().NoError(err)
	s.Equal([]*entities.GameSave{first, second}, result)
}

func (s *RedisRepoTestSuite) TestListAll_Error() {
	ctx := context.Background()

	s.mock.ExpectSMembers("saves").SetErr(errors.New("redis error"))

	_, err := s.repo.ListAll(ctx)
	s.Error(err)
}
