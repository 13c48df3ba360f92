package migration

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ExpectedSchema lists the columns the application reads and writes, per
// table. It mirrors migrations/ and is checked by `fsctl validate-schema`.
var ExpectedSchema = map[string][]string{
	"plans": {
		"id", "name", "max_stations", "max_pumps_per_station", "max_nozzles_per_pump",
		"price_monthly", "price_yearly", "features", "created_at", "updated_at",
	},
	"tenants":     {"id", "name", "plan_id", "status", "created_at", "updated_at"},
	"users":       {"id", "tenant_id", "email", "name", "role", "password_hash", "created_at", "updated_at"},
	"admin_users": {"id", "email", "name", "role", "password_hash", "created_at", "updated_at"},
	"stations":    {"id", "tenant_id", "name", "address", "status", "created_at", "updated_at"},
	"user_stations": {"user_id", "station_id", "tenant_id", "created_at"},
	"pumps": {
		"id", "tenant_id", "station_id", "name", "serial_number", "status", "created_at", "updated_at",
	},
	"nozzles": {
		"id", "tenant_id", "pump_id", "nozzle_number", "fuel_type", "status", "created_at", "updated_at",
	},
	"fuel_prices": {
		"id", "tenant_id", "station_id", "fuel_type", "price", "cost_price", "valid_from", "created_by",
		"created_at", "updated_at",
	},
	"creditors": {
		"id", "tenant_id", "station_id", "party_name", "contact_name", "phone", "email", "address",
		"credit_limit", "balance", "status", "created_at", "updated_at",
	},
	"nozzle_readings": {
		"id", "tenant_id", "nozzle_id", "station_id", "reading", "recorded_at", "payment_method",
		"creditor_id", "recorded_by", "voided", "void_reason", "voided_at", "voided_by",
		"created_at", "updated_at",
	},
	"sales": {
		"id", "tenant_id", "reading_id", "nozzle_id", "station_id", "fuel_type", "volume", "fuel_price",
		"cost_price", "amount", "profit", "payment_method", "creditor_id", "recorded_at", "status",
		"created_by", "created_at", "updated_at",
	},
	"credit_payments": {
		"id", "tenant_id", "creditor_id", "amount", "payment_method", "reference_no", "notes",
		"received_at", "received_by", "created_at", "updated_at",
	},
	"cash_reports": {
		"id", "tenant_id", "station_id", "user_id", "report_date", "shift", "cash_amount", "card_amount",
		"upi_amount", "credit_amount", "notes", "created_at", "updated_at",
	},
	"day_reconciliations": {
		"id", "tenant_id", "station_id", "business_date",
		"expected_cash", "expected_card", "expected_upi", "expected_credit",
		"declared_cash", "declared_card", "declared_upi", "declared_credit",
		"total_sales", "total_collected", "difference", "outcome", "finalized",
		"reconciled_by", "approved_by", "approved_at", "created_at", "updated_at",
	},
	"fuel_inventory": {
		"id", "tenant_id", "station_id", "fuel_type", "current_stock", "minimum_level", "capacity",
		"last_updated", "created_at", "updated_at",
	},
	"fuel_deliveries": {
		"id", "tenant_id", "station_id", "fuel_type", "volume", "delivered_at", "supplier",
		"invoice_number", "created_by", "created_at", "updated_at",
	},
	"alerts": {
		"id", "tenant_id", "station_id", "alert_type", "message", "severity", "dedup_key",
		"is_read", "read_at", "created_at", "updated_at",
	},
	"report_schedules": {
		"id", "tenant_id", "station_id", "type", "frequency", "created_by", "next_run_at",
		"created_at", "updated_at",
	},
}

// SchemaIssue is one table or column missing from the live database
type SchemaIssue struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
}

func (i SchemaIssue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("missing table %s", i.Table)
	}
	return fmt.Sprintf("missing column %s.%s", i.Table, i.Column)
}

const columnsQuery = `SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = $1`

// ValidateSchema compares the live schema against ExpectedSchema and returns
// every missing table or column, sorted by table then column.
func ValidateSchema(ctx context.Context, db *sql.DB, schema string) ([]SchemaIssue, error) {
	if schema == "" {
		schema = "public"
	}
	rows, err := db.QueryContext(ctx, columnsQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	live := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if live[table] == nil {
			live[table] = make(map[string]bool)
		}
		live[table][column] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	tables := make([]string, 0, len(ExpectedSchema))
	for t := range ExpectedSchema {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var issues []SchemaIssue
	for _, table := range tables {
		cols, ok := live[table]
		if !ok {
			issues = append(issues, SchemaIssue{Table: table})
			continue
		}
		expected := slices.Clone(ExpectedSchema[table])
		sort.Strings(expected)
		for _, col := range expected {
			if !cols[col] {
				issues = append(issues, SchemaIssue{Table: table, Column: col})
			}
		}
	}
	return issues, nil
}

// DBInfo describes a reachable database
type DBInfo struct {
	ServerVersion string `json:"server_version"`
	Database      string `json:"database"`
}

// CheckConnection pings the database and reads its version and name
func CheckConnection(ctx context.Context, db *sql.DB) (*DBInfo, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	info := &DBInfo{}
	err := db.QueryRowContext(ctx, "SELECT version(), current_database()").Scan(&info.ServerVersion, &info.Database)
	if err != nil {
		return nil, fmt.Errorf("read server version: %w", err)
	}
	if i := strings.Index(info.ServerVersion, " on "); i > 0 {
		info.ServerVersion = info.ServerVersion[:i]
	}
	return info, nil
}
