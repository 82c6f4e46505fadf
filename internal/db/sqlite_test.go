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
	dsn := buildDSN("/tmp/vault.sqlite", ModeWrite)

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_synchronous=NORMAL")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.True(t, strings.HasPrefix(dsn, "/tmp/vault.sqlite?"))
}

func TestBuildDSN_Read(t *testing.T) {
	dsn := buildDSN("/tmp/vault.sqlite", ModeRead)

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.NotContains(t, dsn, "_txlock")
}

func TestOpenSQLite_InvalidMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "exclusive", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpenSQLite_WritePoolIsSingleConnection(t *testing.T) {
	pool, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), ModeWrite, 0)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	var mode string
	require.NoError(t, pool.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))

	assert.Equal(t, 1, pool.Stats().MaxOpenConnections)
}

func TestRunMigrations(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	// Every table the repositories depend on must exist, on both pools.
	for _, table := range []string{
		"workspaces", "workspace_users", "user_groups", "group_members",
		"artifacts", "revisions", "acl_entries", "vault_events",
	} {
		var name string
		err := readDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}

	// Migrations are idempotent.
	require.NoError(t, RunMigrations(writeDB))
}
