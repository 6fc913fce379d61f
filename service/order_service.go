package service

import (
	"context"
	"errors"
	"fmt"

	"eazymove/pkg/errs"
	"eazymove/pkg/geo"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/pkg/notify"
	"eazymove/storage"
)

type OrderService interface {
	Quote(ctx context.Context, pickupID, dropoffID int64, vehicleType string) (*models.Quote, error)
	Create(ctx context.Context, customerID, pickupID, dropoffID int64, vehicleType string) (*models.Order, error)
	List(ctx context.Context, customerID int64) ([]*models.OrderDetails, error)
	Completed(ctx context.Context, customerID int64) ([]*models.OrderDetails, error)
	Cancel(ctx context.Context, customerID, orderID int64) error
	Pay(ctx context.Context, customerID, orderID int64) (*models.Order, error)
}

type orderService struct {
	stg    storage.IStorage
	events *publisher
	log    logger.ILogger
}

func NewOrderService(stg storage.IStorage, events *publisher, log logger.ILogger) OrderService {
	return &orderService{
		stg:    stg,
		events: events,
		log:    log,
	}
}

func (s *orderService) Quote(ctx context.Context, pickupID, dropoffID int64, vehicleType string) (*models.Quote, error) {
	if pickupID == dropoffID {
		return nil, badRequest("Pickup and dropoff locations must be different")
	}
	vehicleType = normalizeVehicleType(vehicleType)

	pickup, err := s.location(ctx, pickupID, "Unknown pickup location")
	if err != nil {
		return nil, err
	}
	dropoff, err := s.location(ctx, dropoffID, "Unknown dropoff location")
	if err != nil {
		return nil, err
	}

	tariff, err := s.stg.Tariff().GetByVehicleType(ctx, vehicleType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, badRequest("Unsupported vehicle type")
		}
		return nil, fmt.Errorf("get tariff: %w", err)
	}
	if !tariff.IsActive {
		return nil, badRequest("Vehicle type is not available")
	}

	distance, price := geo.Quote(
		geo.Point{Lat: pickup.Latitude, Lng: pickup.Longitude},
		geo.Point{Lat: dropoff.Latitude, Lng: dropoff.Longitude},
		tariff.RatePerKM,
	)
	return &models.Quote{
		PickupLocationID:  pickupID,
		DropoffLocationID: dropoffID,
		VehicleType:       vehicleType,
		DistanceKM:        distance,
		Price:             price,
	}, nil
}

func (s *orderService) location(ctx context.Context, id int64, msg string) (*models.Location, error) {
	loc, err := s.stg.Location().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, badRequest(msg)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

func (s *orderService) Create(ctx context.Context, customerID, pickupID, dropoffID int64, vehicleType string) (*models.Order, error) {
	quote, err := s.Quote(ctx, pickupID, dropoffID, vehicleType)
	if err != nil {
		return nil, err
	}

	order, err := s.stg.Order().Create(ctx, &models.Order{
		CustomerID:        customerID,
		PickupLocationID:  quote.PickupLocationID,
		DropoffLocationID: quote.DropoffLocationID,
		VehicleType:       quote.VehicleType,
		Status:            models.OrderPending,
		Price:             quote.Price,
		Payment:           models.PaymentUnpaid,
		DistanceKM:        quote.DistanceKM,
	})
	if err != nil {
		return nil, conflictOr(err, "Order references unknown data", "create order")
	}

	s.log.Info("order created",
		logger.Int64("order_id", order.ID),
		logger.Int64("customer_id", customerID),
		logger.String("vehicle_type", order.VehicleType),
	)
	price := order.Price
	s.events.publish(ctx, notify.Event{
		Type:        notify.OrderCreated,
		OrderID:     order.ID,
		CustomerID:  customerID,
		Status:      order.Status,
		VehicleType: order.VehicleType,
		Price:       &price,
	})
	return order, nil
}

func (s *orderService) List(ctx context.Context, customerID int64) ([]*models.OrderDetails, error) {
	orders, err := s.stg.Order().GetCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Completed(ctx context.Context, customerID int64) ([]*models.OrderDetails, error) {
	orders, err := s.stg.Order().GetCustomerCompleted(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}
	return orders, nil
}

// owned loads an order and hides orders of other customers behind a 404.
func (s *orderService) owned(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := s.stg.Order().GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found", "get order")
	}
	if order.CustomerID != customerID {
		return nil, errs.NewNotFoundError("Order not found")
	}
	return order, nil
}

// Cancel deletes a pending order and marks an order on route as cancelled.
func (s *orderService) Cancel(ctx context.Context, customerID, orderID int64) error {
	order, err := s.owned(ctx, customerID, orderID)
	if err != nil {
		return err
	}

	switch order.Status {
	case models.OrderPending:
		err = s.stg.Order().DeletePending(ctx, orderID, customerID)
	case models.OrderOnRoute:
		err = s.stg.Order().Cancel(ctx, orderID, customerID, models.OrderOnRoute)
	default:
		return badRequest("Order cannot be cancelled in its current status")
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NewConflictError("Order status changed, please refresh")
		}
		return fmt.Errorf("cancel order: %w", err)
	}

	s.log.Info("order cancelled", logger.Int64("order_id", orderID), logger.String("from", order.Status))
	ev := notify.Event{
		Type:       notify.OrderCancelled,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     models.OrderCancelled,
	}
	if order.DriverID != nil {
		ev.DriverID = *order.DriverID
	}
	s.events.publish(ctx, ev)
	return nil
}

func (s *orderService) Pay(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := s.owned(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Payment == models.PaymentPaid {
		return nil, errs.NewConflictError("Order has already been paid")
	}
	if order.Status != models.OrderDelivered {
		return nil, errs.NewConflictError("Order has not been delivered yet")
	}

	paid, err := s.stg.Order().MarkPaid(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NewConflictError("Order can no longer be paid")
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	s.log.Info("order paid", logger.Int64("order_id", orderID), logger.String("price", paid.Price.StringFixed(2)))
	price := paid.Price
	ev := notify.Event{
		Type:       notify.OrderPaid,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     paid.Status,
		Price:      &price,
	}
	if paid.DriverID != nil {
		ev.DriverID = *paid.DriverID
	}
	s.events.publish(ctx, ev)
	return paid, nil
}
