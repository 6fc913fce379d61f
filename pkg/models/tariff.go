package models

import "github.com/shopspring/decimal"

const (
	VehicleVan        = "van"
	VehicleSUV        = "suv"
	VehicleMotorcycle = "motorcycle"
)

// Tariff is the per-kilometre rate for one vehicle type.
type Tariff struct {
	VehicleType string          `json:"vehicle_type"`
	Name        string          `json:"name"`
	RatePerKM   decimal.Decimal `json:"rate_per_km"`
	IsActive    bool            `json:"is_active"`
}
