package persistence

import (
	"testing"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		"  ASC ":                   "ASC",
		"desc":                     "DESC",
		"sideways":                 "DESC",
		"ASC; DROP TABLE sales;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "recorded_at"},
		{"amount", "amount"},
		{"  volume ", "volume"},
		{"AMOUNT", "recorded_at"},
		{"cost_price", "recorded_at"},
		{"amount; DROP TABLE sales;--", "recorded_at"},
		{"amount, (SELECT password_hash FROM users)", "recorded_at"},
		{"CASE WHEN 1=1 THEN amount ELSE volume END", "recorded_at"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortField(tt.input, SaleSortFields, "recorded_at"), "input %q", tt.input)
	}
}

func TestSortWhitelistsIncludeCommonFields(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"users":     UserSortFields,
		"tenants":   TenantSortFields,
		"stations":  StationSortFields,
		"creditors": CreditorSortFields,
		"sales":     SaleSortFields,
	} {
		for field := range CommonSortFields {
			assert.True(t, fields[field], "%s should allow sorting by %s", name, field)
		}
	}
}

func TestApplyPage(t *testing.T) {
	db := setupTestDB(t)

	render := func(filter shared.Filter) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []models.SaleModel
			return applyPage(tx.Model(&models.SaleModel{}), filter, SaleSortFields, "recorded_at", "sales.").Find(&rows)
		})
	}

	sql := render(shared.Filter{Page: 3, PageSize: 20, OrderBy: "amount", OrderDir: "asc"})
	assert.Contains(t, sql, "ORDER BY sales.amount ASC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 40")

	sql = render(shared.Filter{OrderBy: "password_hash"})
	assert.Contains(t, sql, "ORDER BY sales.recorded_at DESC")
	assert.NotContains(t, sql, "LIMIT")
}
