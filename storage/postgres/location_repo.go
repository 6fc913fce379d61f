package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type locationRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewLocationRepo(db *pgxpool.Pool, log logger.ILogger) storage.ILocationStorage {
	return &locationRepo{db: db, log: log}
}

func (r *locationRepo) GetAll(ctx context.Context) ([]*models.Location, error) {
	query := `SELECT location_id, name, latitude, longitude FROM locations ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list locations", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	locations := []*models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *locationRepo) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	var l models.Location
	query := `SELECT location_id, name, latitude, longitude FROM locations WHERE location_id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude)
	if err != nil {
		return nil, logFail(r.log, "failed to get location", err, logger.Int64("id", id))
	}
	return &l, nil
}

func (r *locationRepo) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	query := `INSERT INTO locations (name, latitude, longitude) VALUES ($1, $2, $3) RETURNING location_id`
	if err := r.db.QueryRow(ctx, query, loc.Name, loc.Latitude, loc.Longitude).Scan(&loc.ID); err != nil {
		r.log.Error("failed to create location", logger.String("name", loc.Name), logger.Error(err))
		return nil, mapErr(err)
	}
	return loc, nil
}
