package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type vehicleRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewVehicleRepo(db *pgxpool.Pool, log logger.ILogger) storage.IVehicleStorage {
	return &vehicleRepo{db: db, log: log}
}

func (r *vehicleRepo) GetByDriver(ctx context.Context, driverID int64) (*models.Vehicle, error) {
	var v models.Vehicle
	query := `SELECT vehicle_id, driver_id, vehicle_type, license_plate, experience FROM vehicles WHERE driver_id = $1`
	err := r.db.QueryRow(ctx, query, driverID).Scan(&v.ID, &v.DriverID, &v.VehicleType, &v.LicensePlate, &v.Experience)
	if err != nil {
		return nil, logFail(r.log, "failed to get vehicle", err, logger.Int64("driver_id", driverID))
	}
	return &v, nil
}

func (r *vehicleRepo) UpdateLicensePlate(ctx context.Context, driverID int64, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	query := `
		UPDATE vehicles SET license_plate = $1
		WHERE driver_id = $2
		RETURNING vehicle_id, driver_id, vehicle_type, license_plate, experience
	`
	err := r.db.QueryRow(ctx, query, plate, driverID).Scan(&v.ID, &v.DriverID, &v.VehicleType, &v.LicensePlate, &v.Experience)
	if err != nil {
		return nil, logFail(r.log, "failed to update license plate", err, logger.Int64("driver_id", driverID))
	}
	return &v, nil
}
