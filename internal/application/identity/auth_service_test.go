package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/identity"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/auth"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func newTestAuthService(userRepo identity.UserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})

	return NewAuthService(
		userRepo,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("rahim.staff", "correct-password", "Rahim Uddin", role)
	require.NoError(t, err)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		result, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "rahim.staff", result.User.Username)
		assert.Equal(t, "staff", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		service := newTestAuthService(userRepo)
		_, err := service.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects wrong password and counts the failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		_, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "wrong"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("locks the account after repeated failures", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		jwtService := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "test-issuer",
			MaxRefreshCount:        10,
		})
		service := NewAuthService(userRepo, jwtService, nil,
			AuthServiceConfig{MaxLoginAttempts: 2, LockDuration: 15 * time.Minute}, zap.NewNop())

		_, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "wrong"})
		require.Error(t, err)

		_, err = service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "wrong"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
		assert.True(t, user.IsLocked())
	})

	t.Run("rejects locked account while the lock holds", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)
		user.RecordLoginFailure(1, 15*time.Minute)
		require.True(t, user.IsLocked())

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)

		service := newTestAuthService(userRepo)
		_, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("clears an expired lock and logs in", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)
		user.RecordLoginFailure(1, 1*time.Millisecond)
		require.True(t, user.IsLocked())
		time.Sleep(5 * time.Millisecond)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		result, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.True(t, user.IsActive())
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)
		require.NoError(t, user.Deactivate())

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)

		service := newTestAuthService(userRepo)
		_, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a new pair for a valid refresh token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		login, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})
		require.NoError(t, err)

		result, err := service.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: login.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, login.RefreshToken, result.RefreshToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		userRepo := new(MockUserRepository)

		service := newTestAuthService(userRepo)
		_, err := service.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: "not-a-token"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("rejects refresh for a deactivated user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		login, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})
		require.NoError(t, err)

		require.NoError(t, user.Deactivate())

		_, err = service.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: login.RefreshToken})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the presented access token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByUsername", ctx, "rahim.staff").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		login, err := service.Login(ctx, LoginRequest{Username: "rahim.staff", Password: "correct-password"})
		require.NoError(t, err)

		err = service.Logout(ctx, LogoutRequest{UserID: user.ID, AccessToken: login.AccessToken})
		require.NoError(t, err)

		claims, err := service.jwtService.ValidateAccessToken(login.AccessToken)
		require.NoError(t, err)

		revoked, err := service.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("tolerates a missing token", func(t *testing.T) {
		service := newTestAuthService(new(MockUserRepository))

		err := service.Logout(ctx, LogoutRequest{UserID: uuid.New()})
		assert.NoError(t, err)
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password with correct old password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		service := newTestAuthService(userRepo)
		err := service.ChangePassword(ctx, ChangePasswordRequest{
			UserID:      user.ID,
			OldPassword: "correct-password",
			NewPassword: "new-password-123",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("new-password-123"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleStaff)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		service := newTestAuthService(userRepo)
		err := service.ChangePassword(ctx, ChangePasswordRequest{
			UserID:      user.ID,
			OldPassword: "wrong",
			NewPassword: "new-password-123",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
