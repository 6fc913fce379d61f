package service

import (
	"time"

	"eazymove/pkg/logger"
	"eazymove/pkg/notify"
	"eazymove/pkg/security"
	"eazymove/storage"
)

type IServiceManager interface {
	Auth() AuthService
	Customer() CustomerService
	Order() OrderService
	Driver() DriverService
	Admin() AdminService
	Catalog() CatalogService
	// Wait blocks until in-flight notifications have been handed off.
	Wait()
}

type service struct {
	authService     AuthService
	customerService CustomerService
	orderService    OrderService
	driverService   DriverService
	adminService    AdminService
	catalogService  CatalogService
	events          *publisher
}

func New(
	stg storage.IStorage,
	tokens *security.TokenManager,
	hasher *security.PasswordHasher,
	notifier notify.Notifier,
	log logger.ILogger,
) IServiceManager {
	events := newPublisher(notifier, log, time.Now)
	return &service{
		authService:     NewAuthService(stg, tokens, hasher, events, log),
		customerService: NewCustomerService(stg, hasher, log),
		orderService:    NewOrderService(stg, events, log),
		driverService:   NewDriverService(stg, hasher, events, log),
		adminService:    NewAdminService(stg, log),
		catalogService:  NewCatalogService(stg, log),
		events:          events,
	}
}

func (s *service) Auth() AuthService {
	return s.authService
}

func (s *service) Customer() CustomerService {
	return s.customerService
}

func (s *service) Order() OrderService {
	return s.orderService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Admin() AdminService {
	return s.adminService
}

func (s *service) Catalog() CatalogService {
	return s.catalogService
}

func (s *service) Wait() {
	s.events.wait()
}
