package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type tariffRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewTariffRepo(db *pgxpool.Pool, log logger.ILogger) storage.ITariffStorage {
	return &tariffRepo{db: db, log: log}
}

func (r *tariffRepo) GetAll(ctx context.Context) ([]*models.Tariff, error) {
	query := `SELECT vehicle_type, name, rate_per_km, is_active FROM tariffs ORDER BY rate_per_km DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list tariffs", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	tariffs := []*models.Tariff{}
	for rows.Next() {
		var t models.Tariff
		if err := rows.Scan(&t.VehicleType, &t.Name, &t.RatePerKM, &t.IsActive); err != nil {
			return nil, err
		}
		tariffs = append(tariffs, &t)
	}
	return tariffs, rows.Err()
}

func (r *tariffRepo) GetByVehicleType(ctx context.Context, vehicleType string) (*models.Tariff, error) {
	var t models.Tariff
	query := `SELECT vehicle_type, name, rate_per_km, is_active FROM tariffs WHERE vehicle_type = $1`
	err := r.db.QueryRow(ctx, query, vehicleType).Scan(&t.VehicleType, &t.Name, &t.RatePerKM, &t.IsActive)
	if err != nil {
		return nil, logFail(r.log, "failed to get tariff", err, logger.String("vehicle_type", vehicleType))
	}
	return &t, nil
}

func (r *tariffRepo) Update(ctx context.Context, vehicleType string, rate decimal.Decimal, active bool) (*models.Tariff, error) {
	var t models.Tariff
	query := `
		UPDATE tariffs SET rate_per_km = $1, is_active = $2
		WHERE vehicle_type = $3
		RETURNING vehicle_type, name, rate_per_km, is_active
	`
	err := r.db.QueryRow(ctx, query, rate, active, vehicleType).Scan(&t.VehicleType, &t.Name, &t.RatePerKM, &t.IsActive)
	if err != nil {
		return nil, logFail(r.log, "failed to update tariff", err, logger.String("vehicle_type", vehicleType))
	}
	return &t, nil
}
