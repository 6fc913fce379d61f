package models

import "time"

type Admin struct {
	Email        string    `json:"admin_email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveDrivers int `json:"activeDrivers"`
	PendingOrders int `json:"pendingOrders"`
}
