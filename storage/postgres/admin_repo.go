package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type adminRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewAdminRepo(db *pgxpool.Pool, log logger.ILogger) storage.IAdminStorage {
	return &adminRepo{db: db, log: log}
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	query := `SELECT admin_email, password, created_at FROM admins WHERE admin_email = $1`
	err := r.db.QueryRow(ctx, query, email).Scan(&a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, logFail(r.log, "failed to get admin", err)
	}
	return &a, nil
}

// Upsert creates the admin account or resets its password hash.
func (r *adminRepo) Upsert(ctx context.Context, email, hash string) error {
	query := `
		INSERT INTO admins (admin_email, password) VALUES ($1, $2)
		ON CONFLICT (admin_email) DO UPDATE SET password = EXCLUDED.password
	`
	if _, err := r.db.Exec(ctx, query, email, hash); err != nil {
		r.log.Error("failed to upsert admin", logger.String("email", email), logger.Error(err))
		return err
	}
	return nil
}
