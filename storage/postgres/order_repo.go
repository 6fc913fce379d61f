package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type orderRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewOrderRepo(db *pgxpool.Pool, log logger.ILogger) storage.IOrderStorage {
	return &orderRepo{db: db, log: log}
}

const orderColumns = `order_id, customer_id, driver_id, pickup_location, dropoff_location, vehicle_type, order_status, price, payment, distance_km, order_date, pickup_time, dropoff_time`

const detailsQuery = `
	SELECT o.order_id, o.customer_id, o.driver_id, o.pickup_location, o.dropoff_location, o.vehicle_type,
	       o.order_status, o.price, o.payment, o.distance_km, o.order_date, o.pickup_time, o.dropoff_time,
	       pl.name AS pickup_address,
	       dl.name AS dropoff_address,
	       d.driver_username,
	       d.phone_number AS driver_phone,
	       c.name AS customer_name,
	       c.phone_number AS customer_phone
	FROM orders o
	LEFT JOIN locations pl ON o.pickup_location = pl.location_id
	LEFT JOIN locations dl ON o.dropoff_location = dl.location_id
	LEFT JOIN drivers d ON o.driver_id = d.driver_id
	LEFT JOIN customers c ON o.customer_id = c.customer_id
`

const activeStatuses = `('on route', 'package collected')`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.DriverID, &o.PickupLocationID, &o.DropoffLocationID, &o.VehicleType,
		&o.Status, &o.Price, &o.Payment, &o.DistanceKM, &o.OrderDate, &o.PickupTime, &o.DropoffTime,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanDetails(row interface{ Scan(...any) error }) (*models.OrderDetails, error) {
	var o models.OrderDetails
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.DriverID, &o.PickupLocationID, &o.DropoffLocationID, &o.VehicleType,
		&o.Status, &o.Price, &o.Payment, &o.DistanceKM, &o.OrderDate, &o.PickupTime, &o.DropoffTime,
		&o.PickupAddress, &o.DropoffAddress, &o.DriverUsername, &o.DriverPhone, &o.CustomerName, &o.CustomerPhone,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `
		INSERT INTO orders (customer_id, pickup_location, dropoff_location, vehicle_type, order_status, price, payment, distance_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING order_id, order_date
	`
	err := r.db.QueryRow(ctx, query,
		order.CustomerID,
		order.PickupLocationID,
		order.DropoffLocationID,
		order.VehicleType,
		order.Status,
		order.Price,
		order.Payment,
		order.DistanceKM,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		r.log.Error("failed to create order", logger.Int64("customer_id", order.CustomerID), logger.Error(err))
		return nil, mapErr(err)
	}
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, logFail(r.log, "failed to get order by id", err, logger.Int64("id", id))
	}
	return o, nil
}

func (r *orderRepo) GetDetails(ctx context.Context, id int64) (*models.OrderDetails, error) {
	o, err := scanDetails(r.db.QueryRow(ctx, detailsQuery+` WHERE o.order_id = $1`, id))
	if err != nil {
		return nil, logFail(r.log, "failed to get order details", err, logger.Int64("id", id))
	}
	return o, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]*models.OrderDetails, error) {
	return r.scanDetailsList(ctx, detailsQuery+` ORDER BY o.order_date DESC`)
}

func (r *orderRepo) GetCustomerOrders(ctx context.Context, customerID int64) ([]*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.customer_id = $1
		ORDER BY o.order_date DESC
	`
	return r.scanDetailsList(ctx, query, customerID)
}

func (r *orderRepo) GetCustomerCompleted(ctx context.Context, customerID int64) ([]*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.customer_id = $1 AND o.order_status = 'delivered' AND o.payment = 'paid'
		ORDER BY o.dropoff_time DESC NULLS LAST
	`
	return r.scanDetailsList(ctx, query, customerID)
}

func (r *orderRepo) GetCustomerActive(ctx context.Context, customerID int64) ([]*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.customer_id = $1 AND o.order_status NOT IN ('delivered', 'cancelled')
		ORDER BY o.order_date DESC
	`
	return r.scanDetailsList(ctx, query, customerID)
}

func (r *orderRepo) CountCustomerDelivered(ctx context.Context, customerID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND order_status = 'delivered'`, customerID)
}

func (r *orderRepo) GetAvailable(ctx context.Context, vehicleType string) ([]*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.order_status = 'pending' AND o.driver_id IS NULL AND o.vehicle_type = $1
		ORDER BY o.order_date ASC
	`
	return r.scanDetailsList(ctx, query, vehicleType)
}

func (r *orderRepo) GetDriverCurrent(ctx context.Context, driverID int64) (*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.driver_id = $1 AND o.order_status IN ` + activeStatuses + `
		ORDER BY o.order_date DESC
		LIMIT 1
	`
	o, err := scanDetails(r.db.QueryRow(ctx, query, driverID))
	if err != nil {
		return nil, logFail(r.log, "failed to get current order", err, logger.Int64("driver_id", driverID))
	}
	return o, nil
}

func (r *orderRepo) GetDriverHistory(ctx context.Context, driverID int64) ([]*models.OrderDetails, error) {
	query := detailsQuery + `
		WHERE o.driver_id = $1 AND o.order_status = 'delivered'
		ORDER BY o.dropoff_time DESC NULLS LAST
	`
	return r.scanDetailsList(ctx, query, driverID)
}

func (r *orderRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE order_status = $1`, status)
}

func (r *orderRepo) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID)
}

func (r *orderRepo) CountByDriver(ctx context.Context, driverID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE driver_id = $1`, driverID)
}

// Accept only matches while the order is still pending and unassigned and the
// driver holds no other active order, so two drivers cannot both win it.
func (r *orderRepo) Accept(ctx context.Context, orderID, driverID int64) error {
	query := `
		UPDATE orders SET driver_id = $1, order_status = 'on route'
		WHERE order_id = $2
		  AND order_status = 'pending'
		  AND driver_id IS NULL
		  AND NOT EXISTS (
		      SELECT 1 FROM orders WHERE driver_id = $1 AND order_status IN ` + activeStatuses + `
		  )
	`
	res, err := r.db.Exec(ctx, query, driverID, orderID)
	if err != nil {
		r.log.Error("failed to accept order", logger.Int64("order_id", orderID), logger.Int64("driver_id", driverID), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *orderRepo) Transition(ctx context.Context, orderID, driverID int64, from, to string, at time.Time) error {
	var pickupAt, dropoffAt *time.Time
	switch to {
	case models.OrderCollected:
		pickupAt = &at
	case models.OrderDelivered:
		dropoffAt = &at
	}

	query := `
		UPDATE orders SET
			order_status = $1,
			pickup_time  = COALESCE($2, pickup_time),
			dropoff_time = COALESCE($3, dropoff_time)
		WHERE order_id = $4 AND driver_id = $5 AND order_status = $6
	`
	res, err := r.db.Exec(ctx, query, to, pickupAt, dropoffAt, orderID, driverID, from)
	if err != nil {
		r.log.Error("failed to update order status",
			logger.Int64("order_id", orderID),
			logger.String("from", from),
			logger.String("to", to),
			logger.Error(err),
		)
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *orderRepo) Cancel(ctx context.Context, orderID, customerID int64, from string) error {
	query := `
		UPDATE orders SET order_status = 'cancelled'
		WHERE order_id = $1 AND customer_id = $2 AND order_status = $3
	`
	res, err := r.db.Exec(ctx, query, orderID, customerID, from)
	if err != nil {
		r.log.Error("failed to cancel order", logger.Int64("order_id", orderID), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *orderRepo) DeletePending(ctx context.Context, orderID, customerID int64) error {
	query := `DELETE FROM orders WHERE order_id = $1 AND customer_id = $2 AND order_status = 'pending'`
	res, err := r.db.Exec(ctx, query, orderID, customerID)
	if err != nil {
		r.log.Error("failed to delete pending order", logger.Int64("order_id", orderID), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *orderRepo) MarkPaid(ctx context.Context, orderID, customerID int64) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("failed to begin payment", logger.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders SET payment = 'paid'
		WHERE order_id = $1 AND customer_id = $2 AND order_status = 'delivered' AND payment = 'unpaid'
		RETURNING ` + orderColumns
	o, err := scanOrder(tx.QueryRow(ctx, query, orderID, customerID))
	if err != nil {
		return nil, logFail(r.log, "failed to mark order paid", err, logger.Int64("order_id", orderID))
	}

	if o.DriverID != nil {
		_, err = tx.Exec(ctx, `UPDATE drivers SET earning = earning + $1 WHERE driver_id = $2`, o.Price, *o.DriverID)
		if err != nil {
			r.log.Error("failed to credit driver earning", logger.Int64("driver_id", *o.DriverID), logger.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit payment", logger.Int64("order_id", orderID), logger.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		r.log.Error("failed to count orders", logger.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *orderRepo) scanDetailsList(ctx context.Context, query string, args ...any) ([]*models.OrderDetails, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query orders", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*models.OrderDetails{}
	for rows.Next() {
		o, err := scanDetails(rows)
		if err != nil {
			r.log.Error("failed to scan order", logger.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
