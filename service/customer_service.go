package service

import (
	"context"
	"fmt"
	"strings"

	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/pkg/security"
	"eazymove/storage"
)

type CustomerProfileUpdate struct {
	Name  string
	Phone string
	// Email is rejected when set; it is accepted only to report that.
	Email string
}

type CustomerService interface {
	Profile(ctx context.Context, customerID int64) (*models.Customer, error)
	UpdateProfile(ctx context.Context, customerID int64, upd CustomerProfileUpdate) (*models.Customer, error)
	ChangePassword(ctx context.Context, customerID int64, current, next string) error
	DashboardStats(ctx context.Context, customerID int64) (*models.CustomerStats, error)
}

type customerService struct {
	stg    storage.IStorage
	hasher *security.PasswordHasher
	log    logger.ILogger
}

func NewCustomerService(stg storage.IStorage, hasher *security.PasswordHasher, log logger.ILogger) CustomerService {
	return &customerService{
		stg:    stg,
		hasher: hasher,
		log:    log,
	}
}

func (s *customerService) Profile(ctx context.Context, customerID int64) (*models.Customer, error) {
	customer, err := s.stg.Customer().GetByID(ctx, customerID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "get customer")
	}
	return customer, nil
}

func (s *customerService) UpdateProfile(ctx context.Context, customerID int64, upd CustomerProfileUpdate) (*models.Customer, error) {
	if strings.TrimSpace(upd.Email) != "" {
		return nil, ErrEmailImmutable
	}
	name, phone := strings.TrimSpace(upd.Name), strings.TrimSpace(upd.Phone)
	if name == "" || phone == "" {
		return nil, badRequest("Name and phone number are required")
	}

	customer, err := s.stg.Customer().UpdateProfile(ctx, customerID, name, phone)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "update customer profile")
	}
	return customer, nil
}

func (s *customerService) ChangePassword(ctx context.Context, customerID int64, current, next string) error {
	if current == "" || next == "" {
		return badRequest("Current and new password are required")
	}
	customer, err := s.stg.Customer().GetByID(ctx, customerID)
	if err != nil {
		return notFoundOr(err, "User not found", "get customer")
	}

	ok, err := s.hasher.Compare(customer.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("compare customer password: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	hash, err := hashPassword(s.hasher, next)
	if err != nil {
		return err
	}
	if err := s.stg.Customer().UpdatePassword(ctx, customerID, hash); err != nil {
		return notFoundOr(err, "User not found", "update customer password")
	}
	s.log.Info("customer password changed", logger.Int64("customer_id", customerID))
	return nil
}

func (s *customerService) DashboardStats(ctx context.Context, customerID int64) (*models.CustomerStats, error) {
	active, err := s.stg.Order().GetCustomerActive(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get active orders: %w", err)
	}
	delivered, err := s.stg.Order().CountCustomerDelivered(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("count delivered orders: %w", err)
	}
	return &models.CustomerStats{
		ActiveOrders:         active,
		CompletedOrdersCount: delivered,
	}, nil
}
