package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eazymove/pkg/errs"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/pkg/notify"
	"eazymove/pkg/security"
	"eazymove/storage"
)

// nextStatus maps each status a driver may set to the status it must follow.
var nextStatus = map[string]string{
	models.OrderCollected: models.OrderOnRoute,
	models.OrderDelivered: models.OrderCollected,
}

type PersonalInfo struct {
	Username string
	Phone    string
	License  string
}

type VehicleInfo struct {
	VehicleType  string
	LicensePlate string
}

type DriverProfileUpdate struct {
	Personal *PersonalInfo
	Vehicle  *VehicleInfo
}

type DriverService interface {
	AvailableOrders(ctx context.Context, driverID int64) ([]*models.OrderDetails, error)
	Accept(ctx context.Context, driverID, orderID int64) (*models.OrderDetails, error)
	UpdateStatus(ctx context.Context, driverID, orderID int64, status string) (*models.OrderDetails, error)
	// CurrentOrder returns nil when the driver has no active order.
	CurrentOrder(ctx context.Context, driverID int64) (*models.OrderDetails, error)
	OrderHistory(ctx context.Context, driverID int64) ([]*models.OrderDetails, error)
	Earnings(ctx context.Context, driverID int64) (decimal.Decimal, error)
	Profile(ctx context.Context, driverID int64) (*models.DriverProfile, error)
	UpdateProfile(ctx context.Context, driverID int64, upd DriverProfileUpdate) (*models.DriverProfile, error)
	ChangePassword(ctx context.Context, driverID int64, current, next string) error
	UpdateLicensePlate(ctx context.Context, driverID int64, plate string) (*models.Vehicle, error)
}

type driverService struct {
	stg    storage.IStorage
	hasher *security.PasswordHasher
	events *publisher
	log    logger.ILogger
	now    func() time.Time
}

func NewDriverService(stg storage.IStorage, hasher *security.PasswordHasher, events *publisher, log logger.ILogger) DriverService {
	return &driverService{
		stg:    stg,
		hasher: hasher,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *driverService) AvailableOrders(ctx context.Context, driverID int64) ([]*models.OrderDetails, error) {
	vehicle, err := s.stg.Vehicle().GetByDriver(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Vehicle not found for this driver", "get vehicle")
	}
	orders, err := s.stg.Order().GetAvailable(ctx, vehicle.VehicleType)
	if err != nil {
		return nil, fmt.Errorf("list available orders: %w", err)
	}
	return orders, nil
}

func (s *driverService) Accept(ctx context.Context, driverID, orderID int64) (*models.OrderDetails, error) {
	current, err := s.CurrentOrder(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, errDriverBusy
	}

	if err := s.stg.Order().Accept(ctx, orderID, driverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The guard also fails when another order became active for
			// this driver after the check above.
			if current, cerr := s.CurrentOrder(ctx, driverID); cerr == nil && current != nil {
				return nil, errDriverBusy
			}
		}
		return nil, notFoundOr(err, "Order not found or already accepted", "accept order")
	}

	order, err := s.stg.Order().GetDetails(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get accepted order: %w", err)
	}

	s.log.Info("order accepted", logger.Int64("order_id", orderID), logger.Int64("driver_id", driverID))
	s.events.publish(ctx, notify.Event{
		Type:       notify.OrderAccepted,
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		DriverID:   driverID,
		Status:     order.Status,
	})
	return order, nil
}

func (s *driverService) UpdateStatus(ctx context.Context, driverID, orderID int64, status string) (*models.OrderDetails, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	from, ok := nextStatus[status]
	if !ok {
		return nil, badRequest("Invalid status")
	}

	order, err := s.stg.Order().GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found or not assigned to this driver", "get order")
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		return nil, errs.NewNotFoundError("Order not found or not assigned to this driver")
	}
	if order.Status != from {
		return nil, errs.NewConflictError(fmt.Sprintf("Order must be %q before it can be %q", from, status))
	}

	if err := s.stg.Order().Transition(ctx, orderID, driverID, from, status, s.now()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NewConflictError("Order status changed, please refresh")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	updated, err := s.stg.Order().GetDetails(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get updated order: %w", err)
	}

	s.log.Info("order status updated",
		logger.Int64("order_id", orderID),
		logger.String("from", from),
		logger.String("to", status),
	)
	s.events.publish(ctx, notify.Event{
		Type:       notify.OrderStatusChanged,
		OrderID:    orderID,
		CustomerID: updated.CustomerID,
		DriverID:   driverID,
		Status:     status,
	})
	return updated, nil
}

func (s *driverService) CurrentOrder(ctx context.Context, driverID int64) (*models.OrderDetails, error) {
	order, err := s.stg.Order().GetDriverCurrent(ctx, driverID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current order: %w", err)
	}
	return order, nil
}

func (s *driverService) OrderHistory(ctx context.Context, driverID int64) ([]*models.OrderDetails, error) {
	orders, err := s.stg.Order().GetDriverHistory(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("get order history: %w", err)
	}
	return orders, nil
}

func (s *driverService) Earnings(ctx context.Context, driverID int64) (decimal.Decimal, error) {
	driver, err := s.stg.Driver().GetByID(ctx, driverID)
	if err != nil {
		return decimal.Zero, notFoundOr(err, "Driver not found", "get driver")
	}
	return driver.Earning, nil
}

func (s *driverService) Profile(ctx context.Context, driverID int64) (*models.DriverProfile, error) {
	profile, err := s.stg.Driver().GetProfile(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver not found", "get driver profile")
	}
	return profile, nil
}

func (s *driverService) UpdateProfile(ctx context.Context, driverID int64, upd DriverProfileUpdate) (*models.DriverProfile, error) {
	if upd.Personal == nil && upd.Vehicle == nil {
		return nil, badRequest("Nothing to update")
	}

	var change models.DriverUpdate
	if p := upd.Personal; p != nil {
		username, phone, license := strings.TrimSpace(p.Username), strings.TrimSpace(p.Phone), strings.TrimSpace(p.License)
		if username == "" || phone == "" || license == "" {
			return nil, badRequest("Missing required fields")
		}
		change.Username, change.Phone, change.License = &username, &phone, &license
	}
	if v := upd.Vehicle; v != nil {
		vehicleType, plate := normalizeVehicleType(v.VehicleType), strings.TrimSpace(v.LicensePlate)
		if vehicleType == "" || plate == "" {
			return nil, badRequest("Missing required fields")
		}
		if _, err := s.stg.Tariff().GetByVehicleType(ctx, vehicleType); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, badRequest("Unsupported vehicle type")
			}
			return nil, fmt.Errorf("get tariff: %w", err)
		}
		change.VehicleType, change.LicensePlate = &vehicleType, &plate
	}

	if err := s.stg.Driver().Update(ctx, driverID, change); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, badRequest("Unsupported vehicle type")
		}
		return nil, notFoundOr(err, "Driver not found", "update driver")
	}
	s.log.Info("driver profile updated", logger.Int64("driver_id", driverID))
	return s.Profile(ctx, driverID)
}

func (s *driverService) ChangePassword(ctx context.Context, driverID int64, current, next string) error {
	if current == "" || next == "" {
		return badRequest("Current and new password are required")
	}
	driver, err := s.stg.Driver().GetByID(ctx, driverID)
	if err != nil {
		return notFoundOr(err, "Driver not found", "get driver")
	}

	ok, err := s.hasher.Compare(driver.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("compare driver password: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	hash, err := hashPassword(s.hasher, next)
	if err != nil {
		return err
	}
	if err := s.stg.Driver().UpdatePassword(ctx, driverID, hash); err != nil {
		return notFoundOr(err, "Driver not found", "update driver password")
	}
	s.log.Info("driver password changed", logger.Int64("driver_id", driverID))
	return nil
}

func (s *driverService) UpdateLicensePlate(ctx context.Context, driverID int64, plate string) (*models.Vehicle, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, badRequest("License plate is required")
	}
	vehicle, err := s.stg.Vehicle().UpdateLicensePlate(ctx, driverID, plate)
	if err != nil {
		return nil, notFoundOr(err, "Vehicle not found", "update license plate")
	}
	return vehicle, nil
}
