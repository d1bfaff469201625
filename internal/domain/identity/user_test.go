package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user", func(t *testing.T) {
		u, err := NewUser("Admin.User", "s3cret-pass", "Admin User", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "admin.user", u.Username)
		assert.Equal(t, RoleAdmin, u.Role)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.True(t, u.VerifyPassword("s3cret-pass"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("admin", "short", "", RoleAdmin)
		assert.Error(t, err)
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := NewUser("a b", "s3cret-pass", "", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("admin", "s3cret-pass", "", Role("owner"))
		assert.Error(t, err)
	})
}

func TestUserChangePassword(t *testing.T) {
	u, err := NewUser("staff", "old-password", "", RoleStaff)
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := u.ChangePassword("not-the-password", "new-password-1")
		assert.Error(t, err)
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		require.NoError(t, u.ChangePassword("old-password", "new-password-1"))
		assert.True(t, u.VerifyPassword("new-password-1"))
		assert.False(t, u.VerifyPassword("old-password"))
	})
}

func TestUserLockout(t *testing.T) {
	u, err := NewUser("staff", "s3cret-pass", "", RoleStaff)
	require.NoError(t, err)

	locked := u.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = u.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = u.RecordLoginFailure(3, time.Hour)
	assert.True(t, locked)
	assert.True(t, u.IsLocked())
	require.NotNil(t, u.LockedUntil)

	require.NoError(t, u.Activate())
	assert.True(t, u.IsActive())
	assert.Zero(t, u.FailedAttempts)
}

func TestUserDeactivate(t *testing.T) {
	u, err := NewUser("staff", "s3cret-pass", "", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.Error(t, u.Deactivate())
}
