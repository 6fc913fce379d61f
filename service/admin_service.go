package service

import (
	"context"
	"fmt"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

type AdminService interface {
	DashboardStats(ctx context.Context) (*models.AdminStats, error)
	Customers(ctx context.Context) ([]*models.Customer, error)
	SetCustomerStatus(ctx context.Context, customerID int64, status string) error
	DeleteCustomer(ctx context.Context, customerID int64) error
	Drivers(ctx context.Context) ([]*models.DriverProfile, error)
	ApproveDriver(ctx context.Context, driverID int64) error
	RejectDriver(ctx context.Context, driverID int64) error
	DeleteDriver(ctx context.Context, driverID int64) error
	Orders(ctx context.Context) ([]*models.OrderDetails, error)
}

type adminService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewAdminService(stg storage.IStorage, log logger.ILogger) AdminService {
	return &adminService{
		stg: stg,
		log: log,
	}
}

func (s *adminService) DashboardStats(ctx context.Context) (*models.AdminStats, error) {
	users, err := s.stg.Customer().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	drivers, err := s.stg.Driver().CountByStatus(ctx, models.DriverApproved)
	if err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}
	pending, err := s.stg.Order().CountByStatus(ctx, models.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	return &models.AdminStats{
		TotalUsers:    users,
		ActiveDrivers: drivers,
		PendingOrders: pending,
	}, nil
}

func (s *adminService) Customers(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.stg.Customer().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *adminService) SetCustomerStatus(ctx context.Context, customerID int64, status string) error {
	if status != models.CustomerActive && status != models.CustomerSuspended {
		return badRequest("Status must be active or suspended")
	}
	if err := s.stg.Customer().UpdateStatus(ctx, customerID, status); err != nil {
		return notFoundOr(err, "User not found", "update customer status")
	}
	s.log.Info("customer status changed", logger.Int64("customer_id", customerID), logger.String("status", status))
	return nil
}

func (s *adminService) DeleteCustomer(ctx context.Context, customerID int64) error {
	if err := s.stg.Customer().Delete(ctx, customerID); err != nil {
		return translate(err, "delete customer", "User not found", "User has orders and cannot be deleted")
	}
	s.log.Info("customer deleted", logger.Int64("customer_id", customerID))
	return nil
}

func (s *adminService) Drivers(ctx context.Context) ([]*models.DriverProfile, error) {
	drivers, err := s.stg.Driver().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, nil
}

func (s *adminService) ApproveDriver(ctx context.Context, driverID int64) error {
	return s.setDriverStatus(ctx, driverID, models.DriverApproved)
}

func (s *adminService) RejectDriver(ctx context.Context, driverID int64) error {
	return s.setDriverStatus(ctx, driverID, models.DriverRejected)
}

func (s *adminService) setDriverStatus(ctx context.Context, driverID int64, status string) error {
	if err := s.stg.Driver().UpdateStatus(ctx, driverID, status); err != nil {
		return notFoundOr(err, "Driver not found", "update driver status")
	}
	s.log.Info("driver status changed", logger.Int64("driver_id", driverID), logger.String("status", status))
	return nil
}

func (s *adminService) DeleteDriver(ctx context.Context, driverID int64) error {
	if err := s.stg.Driver().Delete(ctx, driverID); err != nil {
		return translate(err, "delete driver", "Driver not found", "Driver has orders and cannot be deleted")
	}
	s.log.Info("driver deleted", logger.Int64("driver_id", driverID))
	return nil
}

func (s *adminService) Orders(ctx context.Context) ([]*models.OrderDetails, error) {
	orders, err := s.stg.Order().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
