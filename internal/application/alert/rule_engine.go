package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	noReadingWindow = 24 * time.Hour
	// jumpHistory is how many earlier sale volumes form a nozzle's average
	jumpHistory    = 7
	jumpMinHistory = 3
)

// Rules holds the thresholds of the scheduled checks
type Rules struct {
	CashReportCutoffHour int
	ReadingJumpRatio     float64
	MaintenanceDays      int
	InactiveHours        int
}

// DefaultRules returns the stock thresholds
func DefaultRules() Rules {
	return Rules{CashReportCutoffHour: 20, ReadingJumpRatio: 1.2, MaintenanceDays: 7, InactiveHours: 48}
}

// RuleEngine evaluates the scheduled alert rules
type RuleEngine struct {
	repos  unitofwork.Repositories
	alerts *AlertService
	rules  Rules
	logger *zap.Logger
	now    func() time.Time
}

// NewRuleEngine creates a rule engine raising alerts through alerts
func NewRuleEngine(repos unitofwork.Repositories, alerts *AlertService, rules Rules, logger *zap.Logger) *RuleEngine {
	return &RuleEngine{repos: repos, alerts: alerts, rules: rules, logger: logger.Named("alert-rules"), now: time.Now}
}

// RunOnce evaluates every rule for every active tenant. A failing tenant
// does not stop the pass; its error is returned with the others.
func (e *RuleEngine) RunOnce(ctx context.Context) (int, error) {
	tenants, err := e.repos.Tenants().FindActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	var (
		total int
		errs  []error
	)
	for _, tenantID := range tenants {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := e.RunTenant(ctx, tenantID)
		total += n
		if err != nil {
			e.logger.Error("Alert rules failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
		}
	}
	return total, errors.Join(errs...)
}

// tenantState is what every rule of one tenant pass reads
type tenantState struct {
	tenantID    uuid.UUID
	now         time.Time
	stations    map[uuid.UUID]station.StationSummary
	nozzles     []station.NozzleLocation
	lastReading map[uuid.UUID]time.Time
	created     int
}

// RunTenant evaluates every rule for one tenant
func (e *RuleEngine) RunTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	st := &tenantState{tenantID: tenantID, now: e.now().UTC(), stations: map[uuid.UUID]station.StationSummary{}}

	stations, _, err := e.repos.Stations().FindAll(ctx, tenantID, shared.Filter{})
	if err != nil {
		return 0, err
	}
	for _, s := range stations {
		st.stations[s.ID] = s
	}
	if st.nozzles, err = e.repos.Nozzles().FindAll(ctx, tenantID, station.NozzleFilter{}); err != nil {
		return 0, err
	}
	if st.lastReading, err = e.repos.Readings().LastRecordedAtByNozzle(ctx, tenantID); err != nil {
		return 0, err
	}

	checks := []func(context.Context, *tenantState) error{
		e.checkNoReadings,
		e.checkMissingPrices,
		e.checkCreditors,
		e.checkInactiveStations,
		e.checkMaintenance,
		e.checkReadingJumps,
		e.checkCashReports,
	}
	for _, check := range checks {
		if err := check(ctx, st); err != nil {
			return st.created, err
		}
	}
	return st.created, nil
}

func (e *RuleEngine) raise(ctx context.Context, st *tenantState, stationID *uuid.UUID, typ alert.Type, severity alert.Severity, subject, message string) error {
	created, err := e.alerts.Raise(ctx, st.tenantID, stationID, typ, severity, subject, message)
	if err != nil {
		return err
	}
	if created {
		st.created++
	}
	return nil
}

// activeNozzles yields nozzles that are active on an active station
func (st *tenantState) activeNozzles() []station.NozzleLocation {
	out := make([]station.NozzleLocation, 0, len(st.nozzles))
	for _, n := range st.nozzles {
		s, ok := st.stations[n.StationID]
		if !ok || !s.IsActive() || !n.IsActive() {
			continue
		}
		out = append(out, n)
	}
	return out
}

func nozzleName(n station.NozzleLocation) string {
	return fmt.Sprintf("%s nozzle %d (%s) at %s", n.PumpName, n.NozzleNumber, n.FuelType, n.StationName)
}

func (e *RuleEngine) checkNoReadings(ctx context.Context, st *tenantState) error {
	cutoff := st.now.Add(-noReadingWindow)
	for _, n := range st.activeNozzles() {
		if n.CreatedAt.After(cutoff) {
			continue
		}
		if last, ok := st.lastReading[n.ID]; ok && last.After(cutoff) {
			continue
		}
		stationID := n.StationID
		if err := e.raise(ctx, st, &stationID, alert.TypeNoReadings, alert.SeverityWarning, n.ID.String(),
			"No readings for "+nozzleName(n)+" in the last 24h"); err != nil {
			return err
		}
	}
	return nil
}

func (e *RuleEngine) checkMissingPrices(ctx context.Context, st *tenantState) error {
	type key struct {
		stationID uuid.UUID
		fuel      station.FuelType
	}
	seen := map[key]bool{}
	for _, n := range st.activeNozzles() {
		k := key{n.StationID, n.FuelType}
		if seen[k] {
			continue
		}
		seen[k] = true
		_, err := e.repos.Prices().PriceAt(ctx, st.tenantID, n.StationID, n.FuelType, st.now)
		if err == nil {
			continue
		}
		if !errors.Is(err, pricing.ErrPriceNotFound) {
			return err
		}
		stationID := n.StationID
		if err := e.raise(ctx, st, &stationID, alert.TypeMissingPrice, alert.SeverityWarning,
			n.StationID.String()+"/"+string(n.FuelType),
			fmt.Sprintf("No current %s price at %s", n.FuelType, n.StationName)); err != nil {
			return err
		}
	}
	return nil
}

func (e *RuleEngine) checkCreditors(ctx context.Context, st *tenantState) error {
	creditors, _, err := e.repos.Creditors().FindAll(ctx, st.tenantID, credit.CreditorFilter{Status: credit.CreditorActive})
	if err != nil {
		return err
	}
	for i := range creditors {
		c := &creditors[i]
		if !c.IsNearLimit() {
			continue
		}
		severity := alert.SeverityWarning
		if c.Balance.GreaterThanOrEqual(c.CreditLimit) {
			severity = alert.SeverityCritical
		}
		if err := e.raise(ctx, st, c.StationID, alert.TypeCreditNearLimit, severity, c.ID.String(),
			fmt.Sprintf("%s is at %s%% of the credit limit", c.PartyName, c.Utilization().String())); err != nil {
			return err
		}
	}
	return nil
}

func (e *RuleEngine) checkInactiveStations(ctx context.Context, st *tenantState) error {
	cutoff := st.now.Add(-time.Duration(e.rules.InactiveHours) * time.Hour)
	latest := map[uuid.UUID]time.Time{}
	for _, n := range st.nozzles {
		if t, ok := st.lastReading[n.ID]; ok && t.After(latest[n.StationID]) {
			latest[n.StationID] = t
		}
	}
	for id, s := range st.stations {
		if !s.IsActive() || s.CreatedAt.After(cutoff) || latest[id].After(cutoff) {
			continue
		}
		stationID := id
		if err := e.raise(ctx, st, &stationID, alert.TypeStationInactive, alert.SeverityWarning, id.String(),
			fmt.Sprintf("%s has recorded no readings for %dh", s.Name, e.rules.InactiveHours)); err != nil {
			return err
		}
	}
	return nil
}

func (e *RuleEngine) checkMaintenance(ctx context.Context, st *tenantState) error {
	pumps, err := e.repos.Pumps().FindInMaintenance(ctx, st.tenantID)
	if err != nil {
		return err
	}
	cutoff := st.now.AddDate(0, 0, -e.rules.MaintenanceDays)
	for _, p := range pumps {
		if p.UpdatedAt.After(cutoff) {
			continue
		}
		stationID := p.StationID
		if err := e.raise(ctx, st, &stationID, alert.TypeMaintenanceOverdue, alert.SeverityWarning, p.ID.String(),
			fmt.Sprintf("Pump %s at %s has been in maintenance for over %d days", p.Name, st.stations[p.StationID].Name, e.rules.MaintenanceDays)); err != nil {
			return err
		}
	}
	return nil
}

// checkReadingJumps flags nozzles whose latest sale volume exceeds the
// average of the preceding ones by the configured ratio
func (e *RuleEngine) checkReadingJumps(ctx context.Context, st *tenantState) error {
	ratio := decimal.NewFromFloat(e.rules.ReadingJumpRatio)
	cutoff := st.now.Add(-noReadingWindow)
	for _, n := range st.activeNozzles() {
		if last, ok := st.lastReading[n.ID]; !ok || last.Before(cutoff) {
			continue
		}
		deltas, err := e.repos.Sales().NozzleDeltas(ctx, st.tenantID, n.ID, jumpHistory+1)
		if err != nil {
			return err
		}
		if len(deltas) < jumpMinHistory+1 {
			continue
		}
		latest, history := deltas[0], deltas[1:]
		avg := decimal.Avg(history[0], history[1:]...)
		if !avg.IsPositive() || latest.LessThanOrEqual(avg.Mul(ratio)) {
			continue
		}
		stationID := n.StationID
		if err := e.raise(ctx, st, &stationID, alert.TypeReadingJump, alert.SeverityWarning, n.ID.String(),
			fmt.Sprintf("Latest sale of %s L on %s is well above the recent average of %s L",
				latest.StringFixed(3), nozzleName(n), avg.StringFixed(3))); err != nil {
			return err
		}
	}
	return nil
}

func (e *RuleEngine) checkCashReports(ctx context.Context, st *tenantState) error {
	if st.now.Hour() < e.rules.CashReportCutoffHour {
		return nil
	}
	for id, s := range st.stations {
		if !s.IsActive() {
			continue
		}
		exists, err := e.repos.CashReports().ExistsForDay(ctx, st.tenantID, id, st.now)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		stationID := id
		if err := e.raise(ctx, st, &stationID, alert.TypeMissingCashReport, alert.SeverityInfo, id.String(),
			fmt.Sprintf("No cash report submitted today for %s", s.Name)); err != nil {
			return err
		}
	}
	return nil
}
