package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/auth"
	"gearshare/internal/user"
)

// fakeRepository is an in-memory user.Repository for service tests.
type fakeRepository struct {
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeRepository) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrEmailAlreadyUsed
	}
	u.ID = uuid.New().String()
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

// Low bcrypt cost keeps the tests fast.
func newTestService() user.Service {
	return user.NewService(newFakeRepository(), auth.NewBcryptPasswordHasherWithCost(4))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Registration", func(t *testing.T) {
		svc := newTestService()

		u, err := svc.Register(ctx, "Alice@Example.com", "secret-pass", "Alice")
		require.NoError(t, err)

		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "alice@example.com", u.Email, "Email should be normalized")
		assert.Equal(t, "Alice", u.Name)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "secret-pass", u.PasswordHash)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Register(ctx, "alice@example.com", "secret-pass", "Alice")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "ALICE@example.com", "other-pass", "Alice Again")
		assert.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
	})

	t.Run("Missing Email", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "   ", "secret-pass", "Alice")
		assert.ErrorIs(t, err, user.ErrEmailRequired)
	})

	t.Run("Missing Name", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "alice@example.com", "secret-pass", "  ")
		assert.ErrorIs(t, err, user.ErrNameRequired)
	})

	t.Run("Short Password", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "alice@example.com", "short", "Alice")
		assert.ErrorIs(t, err, user.ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	svc := newTestService()
	registered, err := svc.Register(ctx, "bob@example.com", "secret-pass", "Bob")
	require.NoError(t, err)

	t.Run("Valid Credentials", func(t *testing.T) {
		u, err := svc.Login(ctx, "bob@example.com", "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("Email Is Normalized", func(t *testing.T) {
		u, err := svc.Login(ctx, "  BOB@Example.com ", "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob@example.com", "wrong-pass")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret-pass")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("Blank Password", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob@example.com", "   ")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestExists(t *testing.T) {
	ctx := context.Background()

	svc := newTestService()
	u, err := svc.Register(ctx, "carol@example.com", "secret-pass", "Carol")
	require.NoError(t, err)

	ok, err := svc.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
