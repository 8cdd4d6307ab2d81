package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunPostgres builds statements with the postgres dialect without connecting, and
// returns a function reporting every SELECT built so far.
func newDryRunPostgres(t *testing.T) (*gorm.DB, func() []string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=examprep dbname=examprep sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var queries []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	}))
	return db, func() []string { return queries }
}

func TestLockByIDSelectsForUpdate(t *testing.T) {
	db, queries := newDryRunPostgres(t)

	_, err := NewUserRepository(db).LockByID(7)
	require.NoError(t, err)

	require.Len(t, queries(), 1)
	assert.Contains(t, queries()[0], `FROM "users"`)
	assert.Contains(t, queries()[0], "FOR UPDATE")
}

func TestProgressLockForUpdateSelectsForUpdate(t *testing.T) {
	db, queries := newDryRunPostgres(t)

	_, err := NewProgressRepository(db).LockForUpdate(7, 3)
	require.NoError(t, err)

	require.Len(t, queries(), 1)
	assert.Contains(t, queries()[0], `FROM "question_progress"`)
	assert.Contains(t, queries()[0], "user_id = $1 AND question_id = $2")
	assert.Contains(t, queries()[0], "FOR UPDATE")
}

func TestPlainReadsDoNotLock(t *testing.T) {
	db, queries := newDryRunPostgres(t)

	_, err := NewUserRepository(db).FindByID(7)
	require.NoError(t, err)

	require.Len(t, queries(), 1)
	assert.NotContains(t, queries()[0], "FOR UPDATE")
}
