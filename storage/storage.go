package storage

import (
	"context"
	"errors"
	"time"

	"eazymove/pkg/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup or a guarded update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned for unique or foreign-key violations.
	ErrConflict = errors.New("record conflicts with existing data")
	// ErrTooLong is returned when a value exceeds its column length.
	ErrTooLong = errors.New("value too long for column")
)

type IStorage interface {
	Customer() ICustomerStorage
	Driver() IDriverStorage
	Vehicle() IVehicleStorage
	Location() ILocationStorage
	Tariff() ITariffStorage
	Order() IOrderStorage
	Admin() IAdminStorage
	Ping(ctx context.Context) error
	Close()
}

type ICustomerStorage interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetAll(ctx context.Context) ([]*models.Customer, error)
	UpdateProfile(ctx context.Context, id int64, name, phone string) (*models.Customer, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type IDriverStorage interface {
	// Create inserts the driver and its vehicle in one transaction.
	Create(ctx context.Context, driver *models.Driver, vehicle *models.Vehicle) (*models.Driver, error)
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByEmail(ctx context.Context, email string) (*models.Driver, error)
	GetProfile(ctx context.Context, id int64) (*models.DriverProfile, error)
	// GetAll lists profiles with pending applications first.
	GetAll(ctx context.Context) ([]*models.DriverProfile, error)
	// Update applies personal and vehicle changes in one transaction.
	Update(ctx context.Context, id int64, upd models.DriverUpdate) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	// Delete removes the vehicle and the driver in one transaction.
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

type IVehicleStorage interface {
	GetByDriver(ctx context.Context, driverID int64) (*models.Vehicle, error)
	UpdateLicensePlate(ctx context.Context, driverID int64, plate string) (*models.Vehicle, error)
}

type ILocationStorage interface {
	GetAll(ctx context.Context) ([]*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, loc *models.Location) (*models.Location, error)
}

type ITariffStorage interface {
	GetAll(ctx context.Context) ([]*models.Tariff, error)
	GetByVehicleType(ctx context.Context, vehicleType string) (*models.Tariff, error)
	Update(ctx context.Context, vehicleType string, rate decimal.Decimal, active bool) (*models.Tariff, error)
}

type IOrderStorage interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetDetails(ctx context.Context, id int64) (*models.OrderDetails, error)
	GetAll(ctx context.Context) ([]*models.OrderDetails, error)
	GetCustomerOrders(ctx context.Context, customerID int64) ([]*models.OrderDetails, error)
	GetCustomerCompleted(ctx context.Context, customerID int64) ([]*models.OrderDetails, error)
	GetCustomerActive(ctx context.Context, customerID int64) ([]*models.OrderDetails, error)
	CountCustomerDelivered(ctx context.Context, customerID int64) (int, error)
	GetAvailable(ctx context.Context, vehicleType string) ([]*models.OrderDetails, error)
	GetDriverCurrent(ctx context.Context, driverID int64) (*models.OrderDetails, error)
	GetDriverHistory(ctx context.Context, driverID int64) ([]*models.OrderDetails, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
	CountByDriver(ctx context.Context, driverID int64) (int, error)

	// Accept assigns the driver to a pending, unassigned order.
	Accept(ctx context.Context, orderID, driverID int64) error
	// Transition moves an order owned by driverID from one status to another
	// and stamps pickup or dropoff time for the matching status.
	Transition(ctx context.Context, orderID, driverID int64, from, to string, at time.Time) error
	// Cancel marks an order of customerID cancelled when it is in status from.
	Cancel(ctx context.Context, orderID, customerID int64, from string) error
	// DeletePending removes a pending order of customerID.
	DeletePending(ctx context.Context, orderID, customerID int64) error
	// MarkPaid sets payment to paid and credits the driver's earning in one
	// transaction. It only matches delivered, unpaid orders of customerID.
	MarkPaid(ctx context.Context, orderID, customerID int64) (*models.Order, error)
}

type IAdminStorage interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Upsert(ctx context.Context, email, hash string) error
}
