package v1

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/internal/core/repository"
)

func newTestAuthService(t *testing.T, users domain.UserRepository) *AuthService {
	t.Helper()
	svc := NewAuthService(users, NewTokenCodec(testSecret, "sales-service", 24*time.Hour))
	svc.cost = bcrypt.MinCost
	return svc
}

// racingUsers reports every email as free and then rejects the insert,
// as a unique index does when two registrations race.
type racingUsers struct {
	*repository.MemoryUserRepository
}

func (racingUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (racingUsers) Create(context.Context, *domain.UserRow) error      { return domain.ErrDuplicate }

type brokenUsers struct {
	*repository.MemoryUserRepository
}

var errStoreDown = errors.New("store down")

func (brokenUsers) GetByEmail(context.Context, string) (*domain.UserRow, error) {
	return nil, errStoreDown
}
func (brokenUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, errStoreDown }

func TestAuthService_RegisterThenAuthorize(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	svc := newTestAuthService(t, users)
	ctx := context.Background()

	resp, err := svc.Register(ctx, domain.RegisterRequest{Name: "Al", Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resp.User.Email)
	assert.Equal(t, "Al", resp.User.Name)
	assert.NotEmpty(t, resp.Token)

	stored, err := users.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))

	identity, err := svc.Authorize("Bearer " + resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)

	me, err := svc.CurrentUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, me.ID)
}

func TestAuthService_RegisterUsesDefaultCost(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryUserRepository(), NewTokenCodec(testSecret, "x", time.Hour))
	assert.Equal(t, 10, svc.cost)
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	ctx := context.Background()
	req := domain.RegisterRequest{Name: "Al", Email: "a@b.com", Password: "secret"}

	svc := newTestAuthService(t, repository.NewMemoryUserRepository())
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)

	racing := newTestAuthService(t, racingUsers{repository.NewMemoryUserRepository()})
	_, err = racing.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_RegisterValidationSkipsStore(t *testing.T) {
	svc := newTestAuthService(t, brokenUsers{repository.NewMemoryUserRepository()})

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Name: "Al", Email: "a@b.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, errStoreDown)
}

func TestAuthService_ConcurrentRegistration(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryUserRepository())
	req := domain.RegisterRequest{Name: "Al", Email: "same@b.com", Password: "secret"}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), req)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrUserExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, repository.NewMemoryUserRepository())

	registered, err := svc.Register(ctx, domain.RegisterRequest{Name: "Al", Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)

	identity, err := svc.Authorize("Bearer " + resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, identity.UserID)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@b.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "A@B.COM", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserNotFound, "emails are case-sensitive as stored")
}

func TestAuthService_LoginStoreError(t *testing.T) {
	svc := newTestAuthService(t, brokenUsers{repository.NewMemoryUserRepository()})

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "secret"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authorize(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryUserRepository())
	token, _, err := svc.tokens.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{name: "missing", header: "", want: ErrTokenMissing},
		{name: "wrong scheme", header: "Basic abc", want: ErrTokenMissing},
		{name: "lowercase scheme", header: "bearer " + token, want: ErrTokenMissing},
		{name: "empty token", header: "Bearer ", want: ErrTokenMissing},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: ErrTokenInvalid},
		{name: "valid", header: "Bearer " + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.Authorize(tt.header)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", identity.UserID)
		})
	}
}

func TestAuthService_CurrentUserMissing(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryUserRepository())

	_, err := svc.CurrentUser(context.Background(), domain.Identity{UserID: "gone"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
