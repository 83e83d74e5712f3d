// Package testkit holds helpers shared by package tests.
package testkit

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rohits-web03/innerself/internal/auth"
	"github.com/rohits-web03/innerself/internal/logging"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), repositories.NewGormConfig(logging.Discard()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// Hasher is a bcrypt hasher at minimum cost.
func Hasher() *auth.PasswordHasher {
	return auth.NewPasswordHasherWithCost(bcrypt.MinCost)
}

// Ptr returns a pointer to v, for patch structs.
func Ptr[T any](v T) *T {
	return &v
}
