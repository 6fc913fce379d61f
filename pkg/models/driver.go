package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DriverPending  = "pending"
	DriverApproved = "approved"
	DriverRejected = "rejected"
)

type Driver struct {
	ID           int64           `json:"driver_id"`
	Username     string          `json:"driver_username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Phone        string          `json:"phone_number"`
	License      string          `json:"driver_license"`
	Status       string          `json:"status"`
	Earning      decimal.Decimal `json:"earning"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Vehicle struct {
	ID           int64  `json:"vehicle_id"`
	DriverID     int64  `json:"driver_id"`
	VehicleType  string `json:"vehicle_type"`
	LicensePlate string `json:"license_plate"`
	Experience   string `json:"experience"`
}

// DriverProfile is a driver joined with its vehicle. Vehicle fields are
// nil when the driver has no vehicle row.
type DriverProfile struct {
	Driver
	VehicleType  *string `json:"vehicle_type"`
	LicensePlate *string `json:"license_plate"`
	Experience   *string `json:"experience"`
}

// DriverUpdate carries optional personal and vehicle changes applied in one
// transaction.
type DriverUpdate struct {
	Username     *string
	Phone        *string
	License      *string
	VehicleType  *string
	LicensePlate *string
}
