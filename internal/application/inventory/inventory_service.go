package inventory

import (
	"context"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// deliveryListLimit caps delivery listings
const deliveryListLimit = 100

// InventoryService tracks tank stock and fuel deliveries
type InventoryService struct {
	repos     unitofwork.Repositories
	txScope   unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewInventoryService creates an inventory service. publisher may be nil.
func NewInventoryService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{repos: repos, txScope: txScope, publisher: publisher, logger: logger}
}

// CreateDelivery records a delivery and adds its volume to the tank
func (s *InventoryService) CreateDelivery(ctx context.Context, actor access.Actor, input CreateDeliveryInput) (*DeliveryResult, error) {
	if err := actor.CheckStation(input.StationID); err != nil {
		return nil, err
	}
	fuel, err := station.ParseFuelType(input.FuelType)
	if err != nil {
		return nil, err
	}
	delivery, err := inventory.NewDelivery(actor.TenantID, input.StationID, fuel, input.Volume,
		input.DeliveredAt, input.Supplier, input.InvoiceNumber, actor.UserRef())
	if err != nil {
		return nil, err
	}

	var (
		tank   *inventory.Inventory
		events unitofwork.Events
	)
	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Stations().FindByID(ctx, actor.TenantID, input.StationID); err != nil {
			return err
		}
		if err := repos.Deliveries().Save(ctx, delivery); err != nil {
			return err
		}
		inv, err := repos.Inventory().LockOrCreate(ctx, actor.TenantID, input.StationID, fuel)
		if err != nil {
			return err
		}
		inv.Receive(delivery.Volume)
		if err := repos.Inventory().Save(ctx, inv); err != nil {
			return err
		}
		tank = inv
		events.Collect(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Fuel delivery recorded",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", input.StationID.String()),
		zap.String("fuel_type", string(fuel)),
		zap.String("volume", delivery.Volume.String()),
		zap.String("stock", tank.CurrentStock.String()))
	return &DeliveryResult{
		Delivery:  ToDeliveryDTO(delivery),
		Inventory: ToInventoryDTO(tank, ""),
	}, nil
}

// ListDeliveries returns recent deliveries, newest first
func (s *InventoryService) ListDeliveries(ctx context.Context, actor access.Actor, stationID *uuid.UUID, limit int) ([]DeliveryDTO, error) {
	if stationID != nil {
		if err := actor.CheckStation(*stationID); err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > deliveryListLimit {
		limit = deliveryListLimit
	}
	rows, err := s.repos.Deliveries().FindAll(ctx, actor.TenantID, stationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DeliveryDTO, 0, len(rows))
	for i := range rows {
		if !actor.CanAccess(rows[i].StationID) {
			continue
		}
		out = append(out, ToDeliveryDTO(&rows[i]))
	}
	return out, nil
}

// List returns tank levels with their stock status
func (s *InventoryService) List(ctx context.Context, actor access.Actor, stationID *uuid.UUID) ([]InventoryDTO, error) {
	if stationID != nil {
		if err := actor.CheckStation(*stationID); err != nil {
			return nil, err
		}
	}
	rows, err := s.repos.Inventory().FindAll(ctx, actor.TenantID, stationID)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		if !actor.CanAccess(rows[i].StationID) {
			continue
		}
		out = append(out, ToInventoryDTO(&rows[i].Inventory, rows[i].StationName))
	}
	return out, nil
}

// Update overrides tank levels, e.g. after a dip measurement
func (s *InventoryService) Update(ctx context.Context, actor access.Actor, input UpdateInventoryInput) (*InventoryDTO, error) {
	if err := actor.CheckStation(input.StationID); err != nil {
		return nil, err
	}
	fuel, err := station.ParseFuelType(input.FuelType)
	if err != nil {
		return nil, err
	}

	var (
		tank   *inventory.Inventory
		events unitofwork.Events
	)
	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Stations().FindByID(ctx, actor.TenantID, input.StationID); err != nil {
			return err
		}
		inv, err := repos.Inventory().LockOrCreate(ctx, actor.TenantID, input.StationID, fuel)
		if err != nil {
			return err
		}
		if err := inv.SetLevels(input.CurrentStock, input.MinimumLevel, input.Capacity); err != nil {
			return err
		}
		if err := repos.Inventory().Save(ctx, inv); err != nil {
			return err
		}
		tank = inv
		events.Collect(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.publisher, s.logger)

	s.logger.Info("Inventory levels updated",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", input.StationID.String()),
		zap.String("fuel_type", string(fuel)),
		zap.String("stock", tank.CurrentStock.String()),
		zap.String("status", string(tank.Status())))
	dto := ToInventoryDTO(tank, "")
	return &dto, nil
}
