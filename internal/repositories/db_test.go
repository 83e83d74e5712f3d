package repositories_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormErrorsGoThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	db, err := gorm.Open(sqlite.Open(":memory:"), repositories.NewGormConfig(log))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var n int
	require.Error(t, db.Raw("SELECT count(*) FROM missing_table").Scan(&n).Error)

	out := buf.String()
	assert.Contains(t, out, `"component":"gorm"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "missing_table")
	assert.NotContains(t, out, `\u001b[`, "no terminal colour codes")
}
