package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"eazymove/pkg/errs"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/pkg/notify"
	"eazymove/pkg/security"
	"eazymove/storage"
)

type RegisterCustomerInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type RegisterDriverInput struct {
	FullName     string
	Email        string
	Phone        string
	License      string
	VehicleType  string
	Experience   string
	Password     string
	LicensePlate string
}

// Identity is the caller as shown to the client after login.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
	License     string `json:"license,omitempty"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  *Identity `json:"user"`
}

type AuthService interface {
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*models.Customer, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RegisterDriver(ctx context.Context, in RegisterDriverInput) (*models.Driver, error)
	DriverLogin(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, claims *security.Claims) (*Identity, error)
	EnsureAdmin(ctx context.Context, email, password string) error
	// Authenticate verifies the token and that the account behind it may
	// still act: suspended customers and unapproved drivers are refused.
	Authenticate(ctx context.Context, token string) (*security.Claims, error)
}

type authService struct {
	stg    storage.IStorage
	tokens *security.TokenManager
	hasher *security.PasswordHasher
	events *publisher
	log    logger.ILogger
}

func NewAuthService(stg storage.IStorage, tokens *security.TokenManager, hasher *security.PasswordHasher, events *publisher, log logger.ILogger) AuthService {
	return &authService{
		stg:    stg,
		tokens: tokens,
		hasher: hasher,
		events: events,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeVehicleType(vehicleType string) string {
	return strings.ToLower(strings.TrimSpace(vehicleType))
}

func (s *authService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Phone == "" {
		return nil, badRequest("All fields are required")
	}
	if _, err := s.stg.Admin().GetByEmail(ctx, in.Email); err == nil {
		return nil, errs.NewConflictError("Email already registered")
	}

	hash, err := hashPassword(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	customer, err := s.stg.Customer().Create(ctx, &models.Customer{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Status:       models.CustomerActive,
	})
	if err != nil {
		return nil, conflictOr(err, "Email already registered", "create customer")
	}

	s.log.Info("customer registered", logger.Int64("customer_id", customer.ID))
	return customer, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	admin, err := s.stg.Admin().GetByEmail(ctx, email)
	switch {
	case err == nil:
		ok, err := s.hasher.Compare(admin.PasswordHash, password)
		if err != nil {
			return nil, fmt.Errorf("compare admin password: %w", err)
		}
		if ok {
			return s.issue(&Identity{ID: security.AdminID, Email: admin.Email, Role: security.RoleAdmin})
		}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("get admin: %w", err)
	}

	customer, err := s.stg.Customer().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer.Status == models.CustomerSuspended {
		return nil, ErrSuspended
	}

	ok, err := s.hasher.Compare(customer.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare customer password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(customerIdentity(customer))
}

func (s *authService) RegisterDriver(ctx context.Context, in RegisterDriverInput) (*models.Driver, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.License = strings.TrimSpace(in.License)
	in.VehicleType = normalizeVehicleType(in.VehicleType)
	in.Experience = strings.TrimSpace(in.Experience)
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	if in.FullName == "" || in.Email == "" || in.Phone == "" || in.License == "" ||
		in.VehicleType == "" || in.Experience == "" || in.Password == "" {
		return nil, badRequest("All fields are required")
	}
	if in.LicensePlate == "" {
		in.LicensePlate = in.License
	}

	if _, err := s.stg.Tariff().GetByVehicleType(ctx, in.VehicleType); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, badRequest("Unsupported vehicle type")
		}
		return nil, fmt.Errorf("get tariff: %w", err)
	}

	hash, err := hashPassword(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	driver, err := s.stg.Driver().Create(ctx,
		&models.Driver{
			Username:     in.FullName,
			Email:        in.Email,
			PasswordHash: hash,
			Phone:        in.Phone,
			License:      in.License,
			Status:       models.DriverPending,
		},
		&models.Vehicle{
			VehicleType:  in.VehicleType,
			LicensePlate: in.LicensePlate,
			Experience:   in.Experience,
		},
	)
	if err != nil {
		return nil, conflictOr(err, "Email already registered", "create driver")
	}

	s.log.Info("driver application submitted", logger.Int64("driver_id", driver.ID))
	s.events.publish(ctx, notify.Event{
		Type:        notify.DriverRegistered,
		DriverID:    driver.ID,
		Name:        driver.Username,
		VehicleType: in.VehicleType,
	})
	return driver, nil
}

func (s *authService) DriverLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	driver, err := s.stg.Driver().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get driver: %w", err)
	}

	switch driver.Status {
	case models.DriverRejected:
		return nil, ErrDriverRejected
	case models.DriverApproved:
	default:
		return nil, ErrDriverPending
	}

	ok, err := s.hasher.Compare(driver.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare driver password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.stg.Driver().GetProfile(ctx, driver.ID)
	if err != nil {
		return nil, fmt.Errorf("get driver profile: %w", err)
	}
	return s.issue(driverIdentity(profile))
}

func (s *authService) Me(ctx context.Context, claims *security.Claims) (*Identity, error) {
	switch claims.Role {
	case security.RoleAdmin:
		return &Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
	case security.RoleCustomer:
		id, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			return nil, errs.NewUnauthorizedError("Invalid token")
		}
		customer, err := s.stg.Customer().GetByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "User not found", "get customer")
		}
		return customerIdentity(customer), nil
	case security.RoleDriver:
		id, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			return nil, errs.NewUnauthorizedError("Invalid token")
		}
		profile, err := s.stg.Driver().GetProfile(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "Driver not found", "get driver profile")
		}
		return driverIdentity(profile), nil
	}
	return nil, errs.NewUnauthorizedError("Invalid token")
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.stg.Admin().Upsert(ctx, email, hash); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	s.log.Info("admin account ready", logger.String("email", email))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Invalid token")
	}
	if claims.Role == security.RoleAdmin {
		return claims, nil
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Invalid token")
	}
	switch claims.Role {
	case security.RoleCustomer:
		customer, err := s.stg.Customer().GetByID(ctx, id)
		if err != nil {
			return nil, accountGone(err, "get customer")
		}
		if customer.Status == models.CustomerSuspended {
			return nil, ErrSuspended
		}
	case security.RoleDriver:
		driver, err := s.stg.Driver().GetByID(ctx, id)
		if err != nil {
			return nil, accountGone(err, "get driver")
		}
		switch driver.Status {
		case models.DriverApproved:
		case models.DriverRejected:
			return nil, ErrDriverRejected
		default:
			return nil, ErrDriverPending
		}
	default:
		return nil, errs.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}

// accountGone reports a deleted account as an invalid token.
func accountGone(err error, op string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NewUnauthorizedError("Invalid token")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *authService) issue(id *Identity) (*LoginResult, error) {
	token, err := s.tokens.Generate(id.ID, id.Email, id.Role, id.Status)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: id}, nil
}

func customerIdentity(c *models.Customer) *Identity {
	return &Identity{
		ID:     strconv.FormatInt(c.ID, 10),
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		Role:   security.RoleCustomer,
		Status: c.Status,
	}
}

func driverIdentity(p *models.DriverProfile) *Identity {
	id := &Identity{
		ID:      strconv.FormatInt(p.ID, 10),
		Name:    p.Username,
		Email:   p.Email,
		Phone:   p.Phone,
		Role:    security.RoleDriver,
		Status:  p.Status,
		License: p.License,
	}
	if p.VehicleType != nil {
		id.VehicleType = *p.VehicleType
	}
	return id
}
