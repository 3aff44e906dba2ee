package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/contract"
	"cooking-coach-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionRepo struct {
	contract.SessionRepository

	attemptsUsed int64
	created      []*entity.CookingSession
}

func (r *stubSessionRepo) CountByUserAndDish(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return r.attemptsUsed, nil
}

func (r *stubSessionRepo) Create(_ context.Context, s *entity.CookingSession) error {
	r.created = append(r.created, s)
	return nil
}

type stubDishRepo struct {
	contract.DishRepository

	dish *entity.Dish
}

func (r *stubDishRepo) FindByID(context.Context, uuid.UUID) (*entity.Dish, error) {
	return r.dish, nil
}

type stubUow struct {
	unitofwork.UnitOfWork

	sessions *stubSessionRepo
	dishes   *stubDishRepo
}

func (u *stubUow) SessionRepository() contract.SessionRepository {
	return u.sessions
}

func (u *stubUow) DishRepository() contract.DishRepository {
	return u.dishes
}

type stubUowFactory struct {
	uow *stubUow
}

func (f *stubUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubSigner struct {
	urls []string
}

func (s *stubSigner) SignedUploadURL(objectPath string, _ string, _ time.Duration) (string, error) {
	url := "https://storage.example/" + objectPath + "?signed"
	s.urls = append(s.urls, url)
	return url, nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}

func (noopLogger) Sync() error { return nil }

func newCreateHarness(dish *entity.Dish, attemptsUsed int64) (ISessionService, *stubSessionRepo, *stubSigner) {
	sessions := &stubSessionRepo{attemptsUsed: attemptsUsed}
	uow := &stubUow{
		sessions: sessions,
		dishes:   &stubDishRepo{dish: dish},
	}
	signer := &stubSigner{}
	svc := NewSessionService(&stubUowFactory{uow: uow}, signer, nil, nil, "pipeline.session.uploaded", noopLogger{})
	return svc, sessions, signer
}

func TestCreateSessionFirstAttempt(t *testing.T) {
	dish := &entity.Dish{Id: uuid.New(), NameJa: "だし巻き卵", MaxAttempts: 3}
	svc, sessions, signer := newCreateHarness(dish, 0)

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{DishId: dish.Id})
	require.NoError(t, err)

	assert.Equal(t, 1, res.AttemptNumber)
	assert.Equal(t, string(entity.StatusPendingUpload), res.Status)
	assert.NotEmpty(t, res.VideoUploadURL)
	assert.Empty(t, res.VoiceMemoUploadURL)

	require.Len(t, sessions.created, 1)
	assert.Empty(t, sessions.created[0].RawVideoPath, "the raw path is only set at confirm-upload")
	assert.Len(t, signer.urls, 1)
}

func TestCreateSessionWithVoiceMemo(t *testing.T) {
	dish := &entity.Dish{Id: uuid.New(), MaxAttempts: 3}
	svc, sessions, signer := newCreateHarness(dish, 0)

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{
		DishId:        dish.Id,
		WithVoiceMemo: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.VoiceMemoUploadURL)
	require.Len(t, sessions.created, 1)
	assert.NotEmpty(t, sessions.created[0].VoiceMemoPath)
	assert.Len(t, signer.urls, 2)
}

func TestCreateSessionAttemptCap(t *testing.T) {
	dish := &entity.Dish{Id: uuid.New(), MaxAttempts: 3}

	t.Run("last allowed attempt passes", func(t *testing.T) {
		svc, _, _ := newCreateHarness(dish, 2)

		res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{DishId: dish.Id})
		require.NoError(t, err)
		assert.Equal(t, 3, res.AttemptNumber)
	})

	t.Run("cap reached conflicts", func(t *testing.T) {
		svc, sessions, _ := newCreateHarness(dish, 3)

		_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{DishId: dish.Id})
		require.Error(t, err)

		var fiberErr *fiber.Error
		require.True(t, errors.As(err, &fiberErr))
		assert.Equal(t, fiber.StatusConflict, fiberErr.Code)
		assert.Empty(t, sessions.created)
	})

	t.Run("free-choice dish has no cap", func(t *testing.T) {
		free := &entity.Dish{Id: uuid.New(), MaxAttempts: 0}
		svc, _, _ := newCreateHarness(free, 12)

		res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{
			DishId:         free.Id,
			CustomDishName: "チャーハン",
		})
		require.NoError(t, err)
		assert.Equal(t, 13, res.AttemptNumber)
	})
}

func TestCreateSessionUnknownDish(t *testing.T) {
	svc, _, _ := newCreateHarness(nil, 0)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateSessionRequest{DishId: uuid.New()})
	require.Error(t, err)

	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr))
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}
