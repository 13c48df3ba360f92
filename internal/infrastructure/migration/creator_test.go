package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add alerts table", "add_alerts_table"},
		{"Add-Fuel-Deliveries", "add_fuel_deliveries"},
		{"ADD_CREDITOR_INDEX", "add_creditor_index"},
		{"add__cash__reports", "add_cash_reports"},
		{"Backfill Sales 2026", "backfill_sales_2026"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add fuel deliveries", "Track tanker deliveries", now)
	require.NoError(t, err)
	assert.Equal(t, "20261019083000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20261019083000_add_fuel_deliveries.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20261019083000_add_fuel_deliveries.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_fuel_deliveries")
	assert.Contains(t, string(up), "-- Description: Track tanker deliveries")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")

	t.Run("same second bumps the version", func(t *testing.T) {
		next, err := createMigrationAt(dir, "add index", "", now)
		require.NoError(t, err)
		assert.Equal(t, "20261019083001", next.Version)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := createMigrationAt(dir, "!!!", "", now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20261001090100_create_station_tables.up.sql",
		"20261001090100_create_station_tables.down.sql",
		"20261001090000_create_identity_tables.up.sql",
		"20261001090000_create_identity_tables.down.sql",
		"20261001090200_create_operations_tables.up.sql",
		"20261001090300_orphan.down.sql",
		"README.md",
		"notaversion_foo.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "20261001090400_dir.up.sql"), 0o755))

	entries, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Version: 20261001090000, Name: "create_identity_tables", HasDown: true}, entries[0])
	assert.Equal(t, "20261001090100_create_station_tables", entries[1].BaseName())
	assert.Equal(t, "create_operations_tables", entries[2].Name)
	assert.False(t, entries[2].HasDown)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	entries, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListMigrations_RepositoryMigrations(t *testing.T) {
	entries, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, e.HasDown, "migration %s has no down file", e.BaseName())
	}
}
