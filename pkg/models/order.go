package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending   = "pending"
	OrderOnRoute   = "on route"
	OrderCollected = "package collected"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

type Order struct {
	ID                int64           `json:"order_id"`
	CustomerID        int64           `json:"customer_id"`
	DriverID          *int64          `json:"driver_id"`
	PickupLocationID  int64           `json:"pickup_location"`
	DropoffLocationID int64           `json:"dropoff_location"`
	VehicleType       string          `json:"vehicle_type"`
	Status            string          `json:"order_status"`
	Price             decimal.Decimal `json:"price"`
	Payment           string          `json:"payment"`
	DistanceKM        float64         `json:"distance_km"`
	OrderDate         time.Time       `json:"order_date"`
	PickupTime        *time.Time      `json:"pickup_time"`
	DropoffTime       *time.Time      `json:"dropoff_time"`
}

// OrderDetails is an order joined with location names and the people on it.
type OrderDetails struct {
	Order
	PickupAddress  *string `json:"pickup_address"`
	DropoffAddress *string `json:"dropoff_address"`
	DriverUsername *string `json:"driver_username"`
	DriverPhone    *string `json:"driver_phone"`
	CustomerName   *string `json:"customer_name"`
	CustomerPhone  *string `json:"customer_phone"`
}

// Quote is a price estimate that has not been stored.
type Quote struct {
	PickupLocationID  int64           `json:"pickup_location"`
	DropoffLocationID int64           `json:"dropoff_location"`
	VehicleType       string          `json:"vehicle_type"`
	DistanceKM        float64         `json:"distance_km"`
	Price             decimal.Decimal `json:"price"`
}

// IsActive reports whether the order still needs work from a driver.
func (o *Order) IsActive() bool {
	return o.Status != OrderDelivered && o.Status != OrderCancelled
}
