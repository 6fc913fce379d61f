package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

const driverColumns = `d.driver_id, d.driver_username, d.email, d.password, d.phone_number, d.driver_license, d.status, d.earning, d.created_at`

const profileQuery = `
	SELECT ` + driverColumns + `, v.vehicle_type, v.license_plate, v.experience
	FROM drivers d
	LEFT JOIN vehicles v ON v.driver_id = d.driver_id
`

func scanDriver(row interface{ Scan(...any) error }) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.Username, &d.Email, &d.PasswordHash, &d.Phone, &d.License, &d.Status, &d.Earning, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanProfile(row interface{ Scan(...any) error }) (*models.DriverProfile, error) {
	var p models.DriverProfile
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.Phone, &p.License, &p.Status, &p.Earning, &p.CreatedAt,
		&p.VehicleType, &p.LicensePlate, &p.Experience,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *driverRepo) Create(ctx context.Context, driver *models.Driver, vehicle *models.Vehicle) (*models.Driver, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("failed to begin driver registration", logger.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO drivers (driver_username, email, password, phone_number, driver_license, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING driver_id, earning, created_at
	`
	err = tx.QueryRow(ctx, query,
		driver.Username,
		driver.Email,
		driver.PasswordHash,
		driver.Phone,
		driver.License,
		driver.Status,
	).Scan(&driver.ID, &driver.Earning, &driver.CreatedAt)
	if err != nil {
		r.log.Error("failed to create driver", logger.String("email", driver.Email), logger.Error(err))
		return nil, mapErr(err)
	}

	vehicle.DriverID = driver.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO vehicles (driver_id, vehicle_type, license_plate, experience)
		VALUES ($1, $2, $3, $4)
		RETURNING vehicle_id
	`, vehicle.DriverID, vehicle.VehicleType, vehicle.LicensePlate, vehicle.Experience).Scan(&vehicle.ID)
	if err != nil {
		r.log.Error("failed to create vehicle", logger.Int64("driver_id", driver.ID), logger.Error(err))
		return nil, mapErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit driver registration", logger.Error(err))
		return nil, err
	}
	return driver, nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers d WHERE d.driver_id = $1`
	d, err := scanDriver(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, logFail(r.log, "failed to get driver by id", err, logger.Int64("id", id))
	}
	return d, nil
}

func (r *driverRepo) GetByEmail(ctx context.Context, email string) (*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers d WHERE d.email = $1`
	d, err := scanDriver(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, logFail(r.log, "failed to get driver by email", err, logger.String("email", email))
	}
	return d, nil
}

func (r *driverRepo) GetProfile(ctx context.Context, id int64) (*models.DriverProfile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, profileQuery+` WHERE d.driver_id = $1`, id))
	if err != nil {
		return nil, logFail(r.log, "failed to get driver profile", err, logger.Int64("id", id))
	}
	return p, nil
}

func (r *driverRepo) GetAll(ctx context.Context) ([]*models.DriverProfile, error) {
	query := profileQuery + `
		ORDER BY CASE WHEN d.status = 'pending' THEN 0 ELSE 1 END, d.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	drivers := []*models.DriverProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, p)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) Update(ctx context.Context, id int64, upd models.DriverUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("failed to begin driver update", logger.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		UPDATE drivers SET
			driver_username = COALESCE($1, driver_username),
			phone_number    = COALESCE($2, phone_number),
			driver_license  = COALESCE($3, driver_license)
		WHERE driver_id = $4
	`, upd.Username, upd.Phone, upd.License, id)
	if err != nil {
		r.log.Error("failed to update driver", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if upd.VehicleType != nil || upd.LicensePlate != nil {
		res, err = tx.Exec(ctx, `
			UPDATE vehicles SET
				vehicle_type  = COALESCE($1, vehicle_type),
				license_plate = COALESCE($2, license_plate)
			WHERE driver_id = $3
		`, upd.VehicleType, upd.LicensePlate, id)
		if err != nil {
			r.log.Error("failed to update driver vehicle", logger.Int64("id", id), logger.Error(err))
			return mapErr(err)
		}
		if res.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit driver update", logger.Error(err))
		return err
	}
	return nil
}

func (r *driverRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.Exec(ctx, `UPDATE drivers SET password = $1 WHERE driver_id = $2`, hash, id)
	if err != nil {
		r.log.Error("failed to update driver password", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *driverRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.Exec(ctx, `UPDATE drivers SET status = $1 WHERE driver_id = $2`, status, id)
	if err != nil {
		r.log.Error("failed to update driver status", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("failed to begin driver delete", logger.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM vehicles WHERE driver_id = $1`, id); err != nil {
		r.log.Error("failed to delete driver vehicle", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	res, err := tx.Exec(ctx, `DELETE FROM drivers WHERE driver_id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete driver", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit driver delete", logger.Error(err))
		return err
	}
	return nil
}

func (r *driverRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM drivers WHERE status = $1`, status).Scan(&n); err != nil {
		r.log.Error("failed to count drivers", logger.String("status", status), logger.Error(err))
		return 0, err
	}
	return n, nil
}
