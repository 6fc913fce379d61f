package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"eazymove/pkg/geo"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

// CatalogService manages the reference data orders are priced from:
// locations and per-vehicle tariffs.
type CatalogService interface {
	Locations(ctx context.Context) ([]*models.Location, error)
	CreateLocation(ctx context.Context, name string, lat, lng float64) (*models.Location, error)
	Tariffs(ctx context.Context) ([]*models.Tariff, error)
	UpdateTariff(ctx context.Context, vehicleType string, rate decimal.Decimal, active bool) (*models.Tariff, error)
}

type catalogService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewCatalogService(stg storage.IStorage, log logger.ILogger) CatalogService {
	return &catalogService{
		stg: stg,
		log: log,
	}
}

func (s *catalogService) Locations(ctx context.Context) ([]*models.Location, error) {
	locations, err := s.stg.Location().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (s *catalogService) CreateLocation(ctx context.Context, name string, lat, lng float64) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("Location name is required")
	}
	if !(geo.Point{Lat: lat, Lng: lng}).Valid() {
		return nil, badRequest("Coordinates are out of range")
	}

	loc, err := s.stg.Location().Create(ctx, &models.Location{Name: name, Latitude: lat, Longitude: lng})
	if err != nil {
		return nil, conflictOr(err, "Location already exists", "create location")
	}
	s.log.Info("location created", logger.Int64("location_id", loc.ID), logger.String("name", loc.Name))
	return loc, nil
}

func (s *catalogService) Tariffs(ctx context.Context) ([]*models.Tariff, error) {
	tariffs, err := s.stg.Tariff().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	return tariffs, nil
}

func (s *catalogService) UpdateTariff(ctx context.Context, vehicleType string, rate decimal.Decimal, active bool) (*models.Tariff, error) {
	if rate.IsNegative() {
		return nil, badRequest("Rate per km cannot be negative")
	}
	tariff, err := s.stg.Tariff().Update(ctx, normalizeVehicleType(vehicleType), rate.Round(2), active)
	if err != nil {
		return nil, notFoundOr(err, "Tariff not found", "update tariff")
	}
	s.log.Info("tariff updated",
		logger.String("vehicle_type", tariff.VehicleType),
		logger.String("rate_per_km", tariff.RatePerKM.StringFixed(2)),
		logger.Bool("active", tariff.IsActive),
	)
	return tariff, nil
}
