package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type customerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCustomerRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICustomerStorage {
	return &customerRepo{db: db, log: log}
}

const customerColumns = `customer_id, name, email, password, phone_number, status, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Phone, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	query := `
		INSERT INTO customers (name, email, password, phone_number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING customer_id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.PasswordHash,
		customer.Phone,
		customer.Status,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		r.log.Error("failed to create customer", logger.String("email", customer.Email), logger.Error(err))
		return nil, mapErr(err)
	}
	return customer, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, logFail(r.log, "failed to get customer by id", err, logger.Int64("id", id))
	}
	return c, nil
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, logFail(r.log, "failed to get customer by email", err, logger.String("email", email))
	}
	return c, nil
}

func (r *customerRepo) GetAll(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list customers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepo) UpdateProfile(ctx context.Context, id int64, name, phone string) (*models.Customer, error) {
	query := `
		UPDATE customers SET name = $1, phone_number = $2
		WHERE customer_id = $3
		RETURNING ` + customerColumns
	c, err := scanCustomer(r.db.QueryRow(ctx, query, name, phone, id))
	if err != nil {
		return nil, logFail(r.log, "failed to update customer profile", err, logger.Int64("id", id))
	}
	return c, nil
}

func (r *customerRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.Exec(ctx, `UPDATE customers SET password = $1 WHERE customer_id = $2`, hash, id)
	if err != nil {
		r.log.Error("failed to update customer password", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *customerRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.Exec(ctx, `UPDATE customers SET status = $1 WHERE customer_id = $2`, status, id)
	if err != nil {
		r.log.Error("failed to update customer status", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete customer", logger.Int64("id", id), logger.Error(err))
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		r.log.Error("failed to count customers", logger.Error(err))
		return 0, err
	}
	return n, nil
}
