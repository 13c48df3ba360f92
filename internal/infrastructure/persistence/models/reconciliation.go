package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashReportModel is the persistence model for attendant cash reports
type CashReportModel struct {
	TenantModel
	StationID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_cash_reports_station_date,priority:1"`
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Date         time.Time            `gorm:"column:report_date;type:date;not null;index:idx_cash_reports_station_date,priority:2"`
	Shift        reconciliation.Shift `gorm:"type:varchar(20);not null"`
	CashAmount   decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	CardAmount   decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	UPIAmount    decimal.Decimal      `gorm:"column:upi_amount;type:decimal(12,2);not null;default:0"`
	CreditAmount decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	Notes        string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashReportModel) TableName() string {
	return "cash_reports"
}

// ToDomain converts the persistence model to a domain CashReport
func (m *CashReportModel) ToDomain() *reconciliation.CashReport {
	return &reconciliation.CashReport{
		TenantEntity: m.ToTenantEntity(),
		StationID:    m.StationID,
		UserID:       m.UserID,
		Date:         shared.StartOfDay(m.Date),
		Shift:        m.Shift,
		CashAmount:   m.CashAmount,
		CardAmount:   m.CardAmount,
		UPIAmount:    m.UPIAmount,
		CreditAmount: m.CreditAmount,
		Notes:        m.Notes,
	}
}

// CashReportModelFromDomain creates a persistence model from a domain CashReport
func CashReportModelFromDomain(r *reconciliation.CashReport) *CashReportModel {
	m := &CashReportModel{
		StationID:    r.StationID,
		UserID:       r.UserID,
		Date:         r.Date,
		Shift:        r.Shift,
		CashAmount:   r.CashAmount,
		CardAmount:   r.CardAmount,
		UPIAmount:    r.UPIAmount,
		CreditAmount: r.CreditAmount,
		Notes:        r.Notes,
	}
	m.FromTenantEntity(r.TenantEntity)
	return m
}

// DayReconciliationModel is the persistence model for day reconciliations
type DayReconciliationModel struct {
	TenantModel
	StationID      uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_day_reconciliations_station_date,priority:1"`
	Date           time.Time              `gorm:"column:business_date;type:date;not null;uniqueIndex:idx_day_reconciliations_station_date,priority:2"`
	ExpectedCash   decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedCard   decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedUPI    decimal.Decimal        `gorm:"column:expected_upi;type:decimal(12,2);not null;default:0"`
	ExpectedCredit decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	DeclaredCash   decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	DeclaredCard   decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	DeclaredUPI    decimal.Decimal        `gorm:"column:declared_upi;type:decimal(12,2);not null;default:0"`
	DeclaredCredit decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSales     decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCollected decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Difference     decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Outcome        reconciliation.Outcome `gorm:"type:varchar(20);not null"`
	Finalized      bool                   `gorm:"not null;default:false"`
	ReconciledBy   *uuid.UUID             `gorm:"type:uuid"`
	ApprovedBy     *uuid.UUID             `gorm:"type:uuid"`
	ApprovedAt     *time.Time
}

// TableName returns the table name for GORM
func (DayReconciliationModel) TableName() string {
	return "day_reconciliations"
}

// ToDomain converts the persistence model to a domain DayReconciliation
func (m *DayReconciliationModel) ToDomain() *reconciliation.DayReconciliation {
	return &reconciliation.DayReconciliation{
		TenantAggregateRoot: shared.TenantAggregateRoot{TenantEntity: m.ToTenantEntity()},
		StationID:           m.StationID,
		Date:                shared.StartOfDay(m.Date),
		Expected: reconciliation.Totals{
			Cash: m.ExpectedCash, Card: m.ExpectedCard, UPI: m.ExpectedUPI, Credit: m.ExpectedCredit,
		},
		Declared: reconciliation.Totals{
			Cash: m.DeclaredCash, Card: m.DeclaredCard, UPI: m.DeclaredUPI, Credit: m.DeclaredCredit,
		},
		TotalSales:   m.TotalSales,
		TotalCollect: m.TotalCollected,
		Difference:   m.Difference,
		Outcome:      m.Outcome,
		Finalized:    m.Finalized,
		ReconciledBy: m.ReconciledBy,
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
	}
}

// DayReconciliationModelFromDomain creates a persistence model from a domain DayReconciliation
func DayReconciliationModelFromDomain(r *reconciliation.DayReconciliation) *DayReconciliationModel {
	m := &DayReconciliationModel{
		StationID:      r.StationID,
		Date:           r.Date,
		ExpectedCash:   r.Expected.Cash,
		ExpectedCard:   r.Expected.Card,
		ExpectedUPI:    r.Expected.UPI,
		ExpectedCredit: r.Expected.Credit,
		DeclaredCash:   r.Declared.Cash,
		DeclaredCard:   r.Declared.Card,
		DeclaredUPI:    r.Declared.UPI,
		DeclaredCredit: r.Declared.Credit,
		TotalSales:     r.TotalSales,
		TotalCollected: r.TotalCollect,
		Difference:     r.Difference,
		Outcome:        r.Outcome,
		Finalized:      r.Finalized,
		ReconciledBy:   r.ReconciledBy,
		ApprovedBy:     r.ApprovedBy,
		ApprovedAt:     r.ApprovedAt,
	}
	m.FromTenantEntity(r.TenantEntity)
	return m
}
