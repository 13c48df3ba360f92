package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopedRow struct {
	ID       int
	TenantID uuid.UUID
	Name     string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedRow{}))
	return db
}

func TestScope(t *testing.T) {
	db := setupDB(t)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&[]scopedRow{{TenantID: a, Name: "a1"}, {TenantID: a, Name: "a2"}, {TenantID: b, Name: "b1"}}).Error)

	var rows []scopedRow
	require.NoError(t, db.Scopes(Scope(a)).Find(&rows).Error)
	assert.Len(t, rows, 2)

	rows = nil
	require.NoError(t, db.Table("scoped_rows r").Scopes(ScopeTable("r", b)).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].Name)
}

func TestScopeRequiresTenant(t *testing.T) {
	db := setupDB(t)

	var rows []scopedRow
	err := db.Scopes(Scope(uuid.Nil)).Find(&rows).Error
	assert.ErrorIs(t, err, ErrTenantIDRequired)
}
