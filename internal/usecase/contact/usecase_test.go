package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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

func birthday(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func validInput() ContactInput {
	return ContactInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+44123456789",
		Birthday:    birthday(1990, 12, 10),
	}
}

func TestCreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and returns contact", func(t *testing.T) {
		repo := new(mockRepository)
		svc := New(repo, zap.NewNop())

		repo.On("Create", ctx, mock.MatchedBy(func(c *domain.Contact) bool {
			return c.OwnerID == 1 && c.Email == "ada@example.com"
		})).Return(int64(10), nil)
		repo.On("GetByID", ctx, int64(10), int64(1)).
			Return(&domain.Contact{ID: 10, FirstName: "Ada", OwnerID: 1}, nil)

		out, err := svc.CreateContact(ctx, 1, validInput())
		require.NoError(t, err)
		assert.Equal(t, int64(10), out.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := new(mockRepository)
		svc := New(repo, zap.NewNop())

		in := validInput()
		in.FirstName = ""

		_, err := svc.CreateContact(ctx, 1, in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FirstName")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		repo := new(mockRepository)
		svc := New(repo, zap.NewNop())

		in := validInput()
		in.Email = "nope"

		_, err := svc.CreateContact(ctx, 1, in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email")
	})
}

func TestListContacts(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults skip and limit", func(t *testing.T) {
		repo := new(mockRepository)
		svc := New(repo, zap.NewNop())

		repo.On("ListByOwner", ctx, int64(1), 0, DefaultListLimit).Return([]domain.Contact{}, nil)

		out, err := svc.ListContacts(ctx, 1, ListContactsRequest{Skip: -5, Limit: 0})
		require.NoError(t, err)
		assert.Empty(t, out)
		repo.AssertExpectations(t)
	})

	t.Run("caps the limit", func(t *testing.T) {
		repo := new(mockRepository)
		svc := New(repo, zap.NewNop())

		repo.On("ListByOwner", ctx, int64(1), 10, MaxListLimit).Return([]domain.Contact{{ID: 3, OwnerID: 1}}, nil)

		out, err := svc.ListContacts(ctx, 1, ListContactsRequest{Skip: 10, Limit: 5000})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(3), out[0].ID)
	})
}

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	svc := New(repo, zap.NewNop())

	repo.On("Update", ctx, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.ID == 10 && c.OwnerID == 1 && c.PhoneNumber == "+44123456789"
	})).Return(&domain.Contact{ID: 10, FirstName: "Ada", OwnerID: 1}, nil)

	out, err := svc.UpdateContact(ctx, 1, 10, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	repo.AssertExpectations(t)
}

func TestDeleteContact(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	svc := New(repo, zap.NewNop())

	repo.On("Delete", ctx, int64(10), int64(1)).
		Return(&domain.Contact{ID: 10, FirstName: "Ada", OwnerID: 1}, nil)

	out, err := svc.DeleteContact(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.FirstName)
	repo.AssertExpectations(t)
}

func TestUpcomingBirthdays(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	svc := New(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 12, 28, 9, 0, 0, 0, time.UTC) }

	repo.On("ListByOwner", ctx, int64(1), 0, 0).Return([]domain.Contact{
		{ID: 1, FirstName: "Today", Birthday: birthday(1990, 12, 28), OwnerID: 1},
		{ID: 2, FirstName: "YearWrap", Birthday: birthday(1985, 1, 2), OwnerID: 1},
		{ID: 3, FirstName: "TooFar", Birthday: birthday(1970, 2, 15), OwnerID: 1},
		{ID: 4, FirstName: "Yesterday", Birthday: birthday(2000, 12, 27), OwnerID: 1},
	}, nil)

	out, err := svc.UpcomingBirthdays(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Today", out[0].FirstName)
	assert.Equal(t, "YearWrap", out[1].FirstName)
}
