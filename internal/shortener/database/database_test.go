package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_RunMigrations(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, DriverSQLite))

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM short_links").Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, DriverSQLite))
	assert.NoError(t, RunMigrations(db, DriverSQLite))
}

func TestOpenSQLite_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "linker.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, DriverSQLite))
	assert.FileExists(t, path)
}

func TestUniqueIndexIgnoresCase(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db, DriverSQLite))

	_, err = db.Exec(`INSERT INTO short_links (id, alias, original_url) VALUES ('1', 'AbCdEf', 'https://a.example')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO short_links (id, alias, original_url) VALUES ('2', 'abcdef', 'https://b.example')`)
	assert.ErrorContains(t, err, "UNIQUE")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRunMigrations_UnsupportedDriver(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Error(t, RunMigrations(db, "mysql"))
}
