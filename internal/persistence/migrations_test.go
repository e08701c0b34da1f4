package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationSourceHasPairedFiles(t *testing.T) {
	entries, err := fs.ReadDir(MigrationSource(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitialSchemaEnforcesConstraints(t *testing.T) {
	content, err := fs.ReadFile(MigrationSource(), "0001_init.up.sql")
	require.NoError(t, err)
	sql := string(content)

	assert.Contains(t, sql, "CONSTRAINT users_username_key UNIQUE (username)")
	assert.Contains(t, sql, "CONSTRAINT users_email_key UNIQUE (email)")
	assert.Contains(t, sql, "status IN ('Pending', 'In Progress', 'Completed')")
	assert.Contains(t, sql, "(response IS NULL) = (responded_at IS NULL)")
	assert.Equal(t, 3, strings.Count(sql, "ON DELETE CASCADE"))
}

func TestRunMigrationsWithoutDSN(t *testing.T) {
	assert.NoError(t, RunMigrations("", MigrateUp, zap.NewNop()))
}
