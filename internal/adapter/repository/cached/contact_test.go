package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/cache"
	domain "contacts-api/internal/domain/contact"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, c *domain.Contact) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id, ownerID int64) (*domain.Contact, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *mockRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Contact, error) {
	args := m.Called(ctx, ownerID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id, ownerID int64) (*domain.Contact, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func newCacheBackedRepo(t *testing.T, dbRepo *mockRepository) (*CachedContactRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	contactCache := cache.NewRedisContactCache(
		goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		time.Minute,
		zap.NewNop(),
	)
	repo := NewCachedContactRepository(dbRepo, contactCache, zap.NewNop()).(*CachedContactRepository)
	return repo, mr
}

func sampleContact() *domain.Contact {
	return &domain.Contact{
		ID:          10,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+44123456789",
		Birthday:    time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		OwnerID:     1,
	}
}

func TestGetByIDServesSecondReadFromCache(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockRepository)
	repo, _ := newCacheBackedRepo(t, dbRepo)

	// The DB is consulted exactly once, the second read hits the cache.
	dbRepo.On("GetByID", ctx, int64(10), int64(1)).Return(sampleContact(), nil).Once()

	for i := 0; i < 2; i++ {
		c, err := repo.GetByID(ctx, 10, 1)
		require.NoError(t, err)
		assert.Equal(t, "Ada", c.FirstName)
	}

	dbRepo.AssertExpectations(t)
}

func TestGetByIDFailsOpenWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockRepository)
	repo, mr := newCacheBackedRepo(t, dbRepo)
	mr.Close()

	dbRepo.On("GetByID", ctx, int64(10), int64(1)).Return(sampleContact(), nil)

	c, err := repo.GetByID(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.ID)

	// Still uncached, so every read goes to the DB.
	_, err = repo.GetByID(ctx, 10, 1)
	require.NoError(t, err)
	dbRepo.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestUpdateInvalidatesCachedEntry(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockRepository)
	repo, _ := newCacheBackedRepo(t, dbRepo)

	dbRepo.On("GetByID", ctx, int64(10), int64(1)).Return(sampleContact(), nil).Once()
	_, err := repo.GetByID(ctx, 10, 1)
	require.NoError(t, err)

	updated := sampleContact()
	updated.FirstName = "Augusta"
	dbRepo.On("Update", ctx, mock.AnythingOfType("*contact.Contact")).Return(updated, nil)
	_, err = repo.Update(ctx, updated)
	require.NoError(t, err)

	// The stale entry is gone, the next read goes back to the DB.
	dbRepo.On("GetByID", ctx, int64(10), int64(1)).Return(updated, nil).Once()
	c, err := repo.GetByID(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", c.FirstName)

	dbRepo.AssertExpectations(t)
}

func TestDeleteInvalidatesCachedEntry(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockRepository)
	repo, mr := newCacheBackedRepo(t, dbRepo)

	dbRepo.On("GetByID", ctx, int64(10), int64(1)).Return(sampleContact(), nil).Once()
	_, err := repo.GetByID(ctx, 10, 1)
	require.NoError(t, err)

	dbRepo.On("Delete", ctx, int64(10), int64(1)).Return(sampleContact(), nil)
	_, err = repo.Delete(ctx, 10, 1)
	require.NoError(t, err)

	assert.False(t, mr.Exists("contact:1:10"))
}
