package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxExportDays bounds the window of one export
const maxExportDays = 366

// ArchiveStore keeps exported files and hands out temporary links
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string) (string, time.Time, error)
}

// ReportService renders sales exports and financial reports
type ReportService struct {
	repos   unitofwork.Repositories
	archive ArchiveStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService creates a report service. archive may be nil, in which
// case archived exports are rejected.
func NewReportService(repos unitofwork.Repositories, archive ArchiveStore, logger *zap.Logger) *ReportService {
	return &ReportService{repos: repos, archive: archive, logger: logger, now: time.Now}
}

// window applies the default range, the last 30 days through now
func window(from, to time.Time, now time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = shared.StartOfDay(to).AddDate(0, 0, -29)
	}
	if from.After(to) {
		return from, to, shared.NewDomainError(shared.CodeInvalidInput, "From must not be after to")
	}
	return from, to, nil
}

// ExportSales renders posted sales as json, csv or xlsx
func (s *ReportService) ExportSales(ctx context.Context, actor access.Actor, input ExportInput) (*Export, error) {
	format := input.Format
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatCSV, FormatXLSX:
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid format: %s", format)
	}
	if input.Archive && s.archive == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Report archiving is not configured")
	}
	now := s.now()
	from, to, err := window(input.From, input.To, now)
	if err != nil {
		return nil, err
	}
	if to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, shared.Errorf(shared.CodeInvalidInput, "Export range cannot exceed %d days", maxExportDays)
	}

	filter := report.SalesFilter{StationID: input.StationID, StationIDs: actor.StationScope(), From: from, To: to}
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	rows, err := s.repos.Reports().SaleRows(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	totals := report.Summarize(rows)

	out := &Export{
		Filename: fmt.Sprintf("sales-%s-%s.%s", from.Format(time.DateOnly), to.Format(time.DateOnly), format),
		Rows:     len(rows),
	}
	switch format {
	case FormatJSON:
		out.ContentType = "application/json"
		out.Data, err = json.Marshal(SalesExport{From: from, To: to, Rows: rows, Summary: totals})
	case FormatCSV:
		out.ContentType = "text/csv"
		out.Data, err = salesTable(rows, totals).CSV()
	case FormatXLSX:
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		out.Data, err = salesTable(rows, totals).XLSX(now)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	if input.Archive {
		key := fmt.Sprintf("exports/%s/%d-%s", actor.TenantID, now.Unix(), out.Filename)
		if err := s.archive.Put(ctx, key, out.Data, out.ContentType); err != nil {
			return nil, fmt.Errorf("archive export: %w", err)
		}
		url, expires, err := s.archive.PresignGet(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("presign export: %w", err)
		}
		out.URL, out.ExpiresAt = url, &expires
	}

	s.logger.Info("Sales exported",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("format", format),
		zap.Int("rows", len(rows)),
		zap.Bool("archived", input.Archive))
	return out, nil
}

func salesTable(rows []report.SaleRow, totals report.Totals) *document.Table {
	t := &document.Table{
		Title: "Sales Report",
		Columns: []document.Column{
			{Key: "station", Label: "Station", Width: 24},
			{Key: "fuel_type", Label: "Fuel Type"},
			{Key: "volume", Label: "Volume"},
			{Key: "fuel_price", Label: "Price"},
			{Key: "cost_price", Label: "Cost Price"},
			{Key: "amount", Label: "Amount"},
			{Key: "profit", Label: "Profit"},
			{Key: "payment_method", Label: "Payment Method"},
			{Key: "creditor", Label: "Creditor", Width: 24},
			{Key: "recorded_at", Label: "Recorded At", Width: 22},
		},
		Rows: make([][]any, len(rows)),
		Summary: []document.SummaryLine{
			{Label: "Transactions", Value: fmt.Sprint(totals.Count)},
			{Label: "Total volume", Value: document.FormatVolume(totals.Volume)},
			{Label: "Total amount", Value: document.FormatAmount(totals.Amount)},
			{Label: "Total profit", Value: document.FormatAmount(totals.Profit)},
		},
	}
	for i, r := range rows {
		t.Rows[i] = []any{
			r.StationName, document.Label(r.FuelType), r.Volume, r.FuelPrice, r.CostPrice,
			r.Amount, r.Profit, document.Label(r.PaymentMethod), r.CreditorName, r.RecordedAt,
		}
	}
	return t
}

// Financial totals sales per station and fuel type over a trailing period
func (s *ReportService) Financial(ctx context.Context, actor access.Actor, stationID *uuid.UUID, period string) (*FinancialReport, error) {
	p, err := report.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	scoped, err := actor.ResolveStation(stationID)
	if err != nil {
		return nil, err
	}
	since := p.Since(s.now())
	rows, err := s.repos.Reports().Financial(ctx, actor.TenantID, scoped, since)
	if err != nil {
		return nil, err
	}
	out := &FinancialReport{Period: p, Since: since, Rows: rows,
		Totals: report.Totals{Amount: decimal.Zero, Volume: decimal.Zero, Profit: decimal.Zero}}
	for _, r := range rows {
		out.Totals.Amount = out.Totals.Amount.Add(r.TotalRevenue)
		out.Totals.Volume = out.Totals.Volume.Add(r.TotalVolume)
		out.Totals.Profit = out.Totals.Profit.Add(r.TotalProfit)
		out.Totals.Count += r.TransactionCount
	}
	return out, nil
}
