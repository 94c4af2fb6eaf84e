package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "conversation_log.db")

	db, err := openDB(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestOpenDB_SettingsApplyToEveryConnection(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "conversation_log.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	// hold two connections at once so the second one is freshly dialed
	first, err := db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var mode string
		var fk, busy int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy))
		assert.Equal(t, "wal", mode)
		assert.Equal(t, 1, fk)
		assert.Equal(t, 3000, busy)
	}
}

func TestOpenDB_RejectsEmptyPath(t *testing.T) {
	_, err := openDB("  ")
	assert.Error(t, err)
}
