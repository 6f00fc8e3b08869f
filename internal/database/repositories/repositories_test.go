package repositories

import (
	"database/sql"
	"testing"
	"time"

	"token-service/internal/database"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// In-memory sqlite exists per connection, so the pool must stay at one.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db, "sqlite"))
	return db
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT * FROM users WHERE id = ?", rebind("sqlite", "SELECT * FROM users WHERE id = ?"))
	assert.Equal(t, "SELECT * FROM users WHERE id = $1", rebind("postgres", "SELECT * FROM users WHERE id = ?"))
	assert.Equal(t,
		"INSERT INTO audit_logs (a, b, c) VALUES ($1, $2, $3)",
		rebind("postgres", "INSERT INTO audit_logs (a, b, c) VALUES (?, ?, ?)"))
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, "sqlite")

	user := &database.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$notarealhash",
		Role:         "admin",
	}
	require.NoError(t, repo.Create(user))

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "admin", got.Role)
		assert.True(t, got.IsActive)
		assert.Nil(t, got.LastLogin)
	})

	t.Run("GetByUsernameUnknown", func(t *testing.T) {
		_, err := repo.GetByUsername("nobody")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		require.NoError(t, repo.UpdateLastLogin(user.ID))

		got, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.LastLogin)
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(user.ID, "$2a$10$anotherhash"))

		got, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$anotherhash", got.PasswordHash)
	})

	t.Run("Deactivate", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(user.ID))

		// Deactivated users are invisible to username lookups
		_, err := repo.GetByUsername("alice")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		got, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}

func TestAuditLogRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db, "sqlite")

	entries := []*database.AuditLog{
		{Action: "login_success", Username: "alice", Details: "web login", IPAddress: "10.0.0.1"},
		{Action: "login_failed", Username: "bob", Details: "bad password", IPAddress: "10.0.0.2"},
		{Action: "login_failed", Username: "bob", Details: "bad password", IPAddress: "10.0.0.2"},
	}
	for _, e := range entries {
		require.NoError(t, repo.InsertAuditLog(e))
		assert.NotZero(t, e.ID)
	}

	t.Run("ListAll", func(t *testing.T) {
		logs, err := repo.GetAuditLogs(50, 0, "", "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 3)
	})

	t.Run("FilterByAction", func(t *testing.T) {
		logs, err := repo.GetAuditLogs(50, 0, "login_failed", "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 2)
		for _, l := range logs {
			assert.Equal(t, "login_failed", l.Action)
		}
	})

	t.Run("FilterByUsername", func(t *testing.T) {
		logs, err := repo.GetAuditLogs(50, 0, "", "alice", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
		assert.Equal(t, "web login", logs[0].Details)
	})

	t.Run("FilterByTimeRange", func(t *testing.T) {
		// UTC to match what sqlite stores for CURRENT_TIMESTAMP
		past := time.Now().UTC().Add(-time.Hour)
		future := time.Now().UTC().Add(time.Hour)

		logs, err := repo.GetAuditLogs(50, 0, "", "", &past, &future)
		require.NoError(t, err)
		assert.Len(t, logs, 3)

		logs, err = repo.GetAuditLogs(50, 0, "", "", &future, nil)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("Pagination", func(t *testing.T) {
		logs, err := repo.GetAuditLogs(2, 0, "", "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 2)

		logs, err = repo.GetAuditLogs(2, 2, "", "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("Recent", func(t *testing.T) {
		logs, err := repo.GetRecentAuditLogs(1)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}
