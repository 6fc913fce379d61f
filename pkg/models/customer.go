package models

import "time"

const (
	CustomerActive    = "active"
	CustomerSuspended = "suspended"
)

type Customer struct {
	ID           int64     `json:"customer_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone_number"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type CustomerStats struct {
	ActiveOrders         []*OrderDetails `json:"activeOrders"`
	CompletedOrdersCount int             `json:"completedOrdersCount"`
}
