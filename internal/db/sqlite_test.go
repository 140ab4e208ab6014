package db

import (
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN_Write(t *testing.T) {
	dsn := buildDSN("/tmp/test.sqlite", "write")

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_synchronous=NORMAL")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.True(t, strings.HasPrefix(dsn, "/tmp/test.sqlite?"))
}

func TestBuildDSN_Read(t *testing.T) {
	dsn := buildDSN("/tmp/test.sqlite", "read")

	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.NotContains(t, dsn, "_txlock")
}

func TestOpen_InvalidMode(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "test.db"), "invalid", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpenPair_PoolSizes(t *testing.T) {
	writeDB, readDB, err := OpenPair(filepath.Join(t.TempDir(), "test.db"), 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	assert.Equal(t, 1, writeDB.Stats().MaxOpenConnections)
	assert.Equal(t, 4, readDB.Stats().MaxOpenConnections)
}

func TestRunMigrations_CreatesHierarchyTables(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	for _, table := range []string{
		"clusters", "domains", "resources",
		"cluster_memberships", "cluster_domain_links", "domain_resource_links",
	} {
		var name string
		err := readDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}

	// Foreign keys must be enforced: a dangling membership insert fails.
	_, err := writeDB.Exec(
		`INSERT INTO cluster_memberships (id, cluster_id, identity_id, role) VALUES ('m1', 'nope', 'u1', 'owner')`,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestMigrations_LiveNameUniqueness(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)

	_, err := writeDB.Exec(`INSERT INTO clusters (id, name) VALUES ('c1', 'alpha')`)
	require.NoError(t, err)

	_, err = writeDB.Exec(`INSERT INTO clusters (id, name) VALUES ('c2', 'alpha')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")

	// Soft-deleting the first frees the name.
	_, err = writeDB.Exec(`UPDATE clusters SET deleted_at = CURRENT_TIMESTAMP WHERE id = 'c1'`)
	require.NoError(t, err)
	_, err = writeDB.Exec(`INSERT INTO clusters (id, name) VALUES ('c3', 'alpha')`)
	require.NoError(t, err)
}
