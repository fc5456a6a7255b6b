package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoad_OrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V2__add_index.sql", "CREATE INDEX i ON t (c);")
	writeFile(t, dir, "V1__create_table.sql", "CREATE TABLE t (c INT);")
	writeFile(t, dir, "README.md", "not a migration")

	migs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "create_table", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoad_MissingDir(t *testing.T) {
	migs, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migs)
}

func TestLoad_Rejects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__empty.sql", "   ")
	_, err := Load(dir)
	assert.ErrorContains(t, err, "empty migration file")

	dir = t.TempDir()
	writeFile(t, dir, "V1__a.sql", "SELECT 1;")
	writeFile(t, dir, "V01__b.sql", "SELECT 2;")
	_, err = Load(dir)
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestPending(t *testing.T) {
	migs := []Migration{{Version: 1}, {Version: 2}, {Version: 3}}
	applied := map[int64]appliedMigration{2: {Version: 2}}

	got := Pending(migs, applied)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Version)
	assert.Equal(t, int64(3), got[1].Version)
}

func TestLoad_RepositoryMigrations(t *testing.T) {
	migs, err := Load(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Contains(t, migs[0].SQL, "job_listings")
}
