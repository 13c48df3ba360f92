package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics turns domain events into FuelSync business metrics. It is
// subscribed to the event bus, so metric recording never sits on the request
// path of the service that raised the event.
type BusinessMetrics struct {
	logger *zap.Logger

	readingsTotal     *Counter
	readingsVoided    *Counter
	salesVolume       *FloatCounter
	salesAmount       *FloatCounter
	shortfallsTotal   *Counter
	warningsTotal     *Counter
	alertRunDuration  *Histogram
	alertsRaisedTotal *Counter
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.readingsTotal, err = NewCounter(meter, "fuelsync_readings_total", "Nozzle readings recorded", "{readings}"); err != nil {
		return nil, err
	}
	if bm.readingsVoided, err = NewCounter(meter, "fuelsync_readings_voided_total", "Nozzle readings voided", "{readings}"); err != nil {
		return nil, err
	}
	if bm.salesVolume, err = NewFloatCounter(meter, "fuelsync_sales_volume_litres", "Fuel volume sold", "L"); err != nil {
		return nil, err
	}
	if bm.salesAmount, err = NewFloatCounter(meter, "fuelsync_sales_amount", "Sales value in currency units", "{currency}"); err != nil {
		return nil, err
	}
	if bm.shortfallsTotal, err = NewCounter(meter, "fuelsync_reconciliation_shortfalls_total", "Reconciliations closed with a shortfall", "{reconciliations}"); err != nil {
		return nil, err
	}
	if bm.warningsTotal, err = NewCounter(meter, "fuelsync_threshold_events_total", "Credit and stock threshold crossings", "{events}"); err != nil {
		return nil, err
	}
	if bm.alertsRaisedTotal, err = NewCounter(meter, "fuelsync_alerts_raised_total", "Alerts created by the scheduler", "{alerts}"); err != nil {
		return nil, err
	}
	bm.alertRunDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "fuelsync_alert_run_duration_seconds",
		Description: "Duration of alert evaluation passes",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// EventTypes implements shared.EventHandler
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		sales.EventTypeReadingRecorded,
		sales.EventTypeReadingVoided,
		reconciliation.EventTypeReconciliationShortfall,
		credit.EventTypeCreditorNearLimit,
		inventory.EventTypeInventoryLow,
	}
}

// Handle implements shared.EventHandler
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *sales.ReadingRecordedEvent:
		attrs := []attribute.KeyValue{tenant, AttrStationID.String(e.StationID.String()), AttrFuelType.String(e.FuelType)}
		bm.readingsTotal.Inc(ctx, attrs...)
		bm.salesVolume.Add(ctx, e.Volume.InexactFloat64(), attrs...)
		bm.salesAmount.Add(ctx, e.Amount.InexactFloat64(), attrs...)
	case *sales.ReadingVoidedEvent:
		bm.readingsVoided.Inc(ctx, tenant, AttrStationID.String(e.StationID.String()))
	case *reconciliation.ShortfallEvent:
		bm.shortfallsTotal.Inc(ctx, tenant, AttrStationID.String(e.StationID.String()))
	default:
		bm.warningsTotal.Inc(ctx, tenant, AttrEventType.String(event.EventType()))
	}
	return nil
}

// ObserveAlertRun records one alert scheduler pass
func (bm *BusinessMetrics) ObserveAlertRun(ctx context.Context, created int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	bm.alertRunDuration.RecordDuration(ctx, elapsed, AttrOutcome.String(outcome))
	if created > 0 {
		bm.alertsRaisedTotal.Add(ctx, int64(created))
	}
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
