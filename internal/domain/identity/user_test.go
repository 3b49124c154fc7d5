package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates tenant user", func(t *testing.T) {
		user, err := NewUser(tenantID, "Maria", "segredo123", UserRoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, "maria", user.Username)
		require.NotNil(t, user.TenantID)
		assert.Equal(t, tenantID, *user.TenantID)
		assert.False(t, user.IsMaster())
		assert.True(t, user.CheckPassword("segredo123"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(tenantID, "maria", "short", UserRoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects master role via NewUser", func(t *testing.T) {
		_, err := NewUser(tenantID, "maria", "segredo123", UserRoleMaster)
		assert.Error(t, err)
	})
}

func TestNewMasterUser(t *testing.T) {
	user, err := NewMasterUser("dev", "masterpass")

	require.NoError(t, err)
	assert.True(t, user.IsMaster())
	assert.Nil(t, user.TenantID)
}

func TestUser_Lockout(t *testing.T) {
	user, err := NewMasterUser("dev", "masterpass")
	require.NoError(t, err)

	for i := 0; i < maxFailedAttempts-1; i++ {
		user.RecordLoginFailure()
		assert.False(t, user.IsLocked())
	}

	user.RecordLoginFailure()
	assert.True(t, user.IsLocked())

	user.RecordLoginSuccess()
	assert.False(t, user.IsLocked())
	assert.Zero(t, user.FailedAttempts)
	assert.NotNil(t, user.LastLoginAt)
}
