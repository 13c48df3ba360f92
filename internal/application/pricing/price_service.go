package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how long a station's current prices stay cached
const DefaultCacheTTL = 10 * time.Minute

// PriceDTO is the API representation of a fuel price
type PriceDTO struct {
	ID        uuid.UUID       `json:"id"`
	StationID uuid.UUID       `json:"station_id"`
	FuelType  string          `json:"fuel_type"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Margin    decimal.Decimal `json:"margin"`
	ValidFrom time.Time       `json:"valid_from"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToPriceDTO converts a domain price
func ToPriceDTO(p *pricing.FuelPrice) PriceDTO {
	return PriceDTO{
		ID:        p.ID,
		StationID: p.StationID,
		FuelType:  string(p.FuelType),
		Price:     p.Price,
		CostPrice: p.CostPrice,
		Margin:    p.Margin(),
		ValidFrom: p.ValidFrom,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

// CreatePriceInput carries a new price; a zero ValidFrom means now
type CreatePriceInput struct {
	StationID uuid.UUID
	FuelType  string
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	ValidFrom time.Time
}

// PriceService manages fuel prices and caches each station's current prices
type PriceService struct {
	repos     unitofwork.Repositories
	cache     cache.Store
	ttl       time.Duration
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPriceService creates a price service. store and publisher may be nil.
func NewPriceService(repos unitofwork.Repositories, store cache.Store, publisher shared.EventPublisher, logger *zap.Logger) *PriceService {
	return &PriceService{repos: repos, cache: store, ttl: DefaultCacheTTL, publisher: publisher, logger: logger}
}

// WithCacheTTL overrides DefaultCacheTTL
func (s *PriceService) WithCacheTTL(ttl time.Duration) *PriceService {
	s.ttl = ttl
	return s
}

func currentKey(tenantID, stationID uuid.UUID) string {
	return fmt.Sprintf("prices:current:%s:%s", tenantID, stationID)
}

// Create adds a price row and invalidates the station's cached current prices
func (s *PriceService) Create(ctx context.Context, actor access.Actor, input CreatePriceInput) (*PriceDTO, error) {
	if err := actor.CheckStation(input.StationID); err != nil {
		return nil, err
	}
	fuel, err := station.ParseFuelType(input.FuelType)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Stations().FindByID(ctx, actor.TenantID, input.StationID); err != nil {
		return nil, err
	}
	price, err := pricing.NewFuelPrice(actor.TenantID, input.StationID, fuel, input.Price, input.CostPrice, input.ValidFrom, actor.UserRef())
	if err != nil {
		return nil, err
	}
	if err := s.repos.Prices().Save(ctx, price); err != nil {
		return nil, err
	}
	s.invalidate(ctx, actor.TenantID, input.StationID)

	var events unitofwork.Events
	events.Collect(price)
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Fuel price created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", input.StationID.String()),
		zap.String("fuel_type", string(fuel)),
		zap.String("price", price.Price.String()))
	dto := ToPriceDTO(price)
	return &dto, nil
}

// List returns price history, optionally narrowed by station and fuel type
func (s *PriceService) List(ctx context.Context, actor access.Actor, stationID *uuid.UUID, fuelType string) ([]PriceDTO, error) {
	filter := pricing.PriceFilter{StationID: stationID}
	if stationID != nil {
		if err := actor.CheckStation(*stationID); err != nil {
			return nil, err
		}
	}
	if fuelType != "" {
		fuel, err := station.ParseFuelType(fuelType)
		if err != nil {
			return nil, err
		}
		filter.FuelType = fuel
	}
	prices, err := s.repos.Prices().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PriceDTO, 0, len(prices))
	for i := range prices {
		if !actor.CanAccess(prices[i].StationID) {
			continue
		}
		out = append(out, ToPriceDTO(&prices[i]))
	}
	return out, nil
}

// Current returns the effective price of every fuel type at a station
func (s *PriceService) Current(ctx context.Context, actor access.Actor, stationID uuid.UUID) ([]PriceDTO, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	key := currentKey(actor.TenantID, stationID)
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Price cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			var cached []PriceDTO
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	prices, err := s.repos.Prices().Current(ctx, actor.TenantID, stationID)
	if err != nil {
		return nil, err
	}
	out := make([]PriceDTO, len(prices))
	for i := range prices {
		out[i] = ToPriceDTO(&prices[i])
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				s.logger.Warn("Price cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return out, nil
}

// PriceAt returns the price in effect for a station and fuel at a moment
func (s *PriceService) PriceAt(ctx context.Context, actor access.Actor, stationID uuid.UUID, fuelType string, at time.Time) (*PriceDTO, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	fuel, err := station.ParseFuelType(fuelType)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	price, err := s.repos.Prices().PriceAt(ctx, actor.TenantID, stationID, fuel, at)
	if err != nil {
		return nil, err
	}
	dto := ToPriceDTO(price)
	return &dto, nil
}

func (s *PriceService) invalidate(ctx context.Context, tenantID, stationID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, currentKey(tenantID, stationID)); err != nil {
		s.logger.Warn("Price cache invalidation failed", zap.String("station_id", stationID.String()), zap.Error(err))
	}
}
