package usermgmt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"analytics-service/internal/authz"
	"analytics-service/pkg/config"
	"analytics-service/pkg/database"
	"analytics-service/pkg/jwtutil"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	m := New(db)
	m.now = func() time.Time {
		return time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	}
	return m
}

func TestAuthenticate(t *testing.T) {
	m := testManager(t)
	_, err := m.CreateUser("alice", "s3cret", authz.RoleAdmin)
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		result, err := m.Authenticate("alice", "s3cret")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "alice", result.Username)
		assert.Equal(t, authz.RoleAdmin, result.Role)

		claims, err := jwtutil.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, authz.RoleAdmin, claims.Role)
	})

	t.Run("login stamps last_login", func(t *testing.T) {
		_, err := m.Authenticate("alice", "s3cret")
		require.NoError(t, err)

		users, err := m.ListUsers()
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "2024-04-01 09:30:00", users[0].LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := m.Authenticate("alice", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user fails the same way", func(t *testing.T) {
		_, err := m.Authenticate("mallory", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCreateUser(t *testing.T) {
	m := testManager(t)

	t.Run("stores a hash, not the password", func(t *testing.T) {
		user, err := m.CreateUser("bob", "hunter2", authz.RoleAnalyst)
		require.NoError(t, err)
		assert.NotEqual(t, "hunter2", user.PasswordHash)
		assert.NotEmpty(t, user.PasswordHash)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := m.CreateUser("bob", "other", authz.RoleAnalyst)
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := m.CreateUser("carol", "pw", "superuser")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUpdateUser(t *testing.T) {
	m := testManager(t)
	user, err := m.CreateUser("dave", "oldpw", authz.RoleManager)
	require.NoError(t, err)

	t.Run("partial update changes only the role", func(t *testing.T) {
		role := authz.RoleAnalyst
		updated, err := m.UpdateUser(user.ID, UserUpdate{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, authz.RoleAnalyst, updated.Role)

		_, err = m.Authenticate("dave", "oldpw")
		assert.NoError(t, err)
	})

	t.Run("password update rehashes", func(t *testing.T) {
		password := "newpw"
		_, err := m.UpdateUser(user.ID, UserUpdate{Password: &password})
		require.NoError(t, err)

		_, err = m.Authenticate("dave", "oldpw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = m.Authenticate("dave", "newpw")
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := m.UpdateUser(9999, UserUpdate{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	m := testManager(t)
	user, err := m.CreateUser("erin", "pw", authz.RoleAnalyst)
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(user.ID))

	users, err := m.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	assert.ErrorIs(t, m.DeleteUser(user.ID), ErrUserNotFound)
}

func TestPermissions(t *testing.T) {
	m := testManager(t)
	user, err := m.CreateUser("frank", "pw", authz.RoleManager)
	require.NoError(t, err)

	permissions, err := m.Permissions(user.ID)
	require.NoError(t, err)
	assert.True(t, permissions.Inventory)
	assert.False(t, permissions.ML)
	assert.False(t, permissions.UserManagement)

	_, err = m.Permissions(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
