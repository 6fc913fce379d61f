package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type userStatusRequest struct {
	UserID int64  `json:"userId" binding:"required,gt=0"`
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

type userIDRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

type driverIDRequest struct {
	DriverID int64 `json:"driverId" binding:"required,gt=0"`
}

type createLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type updateTariffRequest struct {
	RatePerKM *decimal.Decimal `json:"rate_per_km" binding:"required"`
	IsActive  *bool            `json:"is_active" binding:"required"`
}

func (h *Handler) AdminDashboardStats(c *gin.Context) {
	stats, err := h.svc.Admin().DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.svc.Admin().Customers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) AdminSuspendUser(c *gin.Context) {
	var req userStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Admin().SetCustomerStatus(c.Request.Context(), req.UserID, req.Status); err != nil {
		h.fail(c, err)
		return
	}

	verb := "suspended"
	if req.Status == "active" {
		verb = "activated"
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + verb + " successfully"})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	var req userIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Admin().DeleteCustomer(c.Request.Context(), req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) AdminDrivers(c *gin.Context) {
	drivers, err := h.svc.Admin().Drivers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (h *Handler) AdminApproveDriver(c *gin.Context) {
	var req driverIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Admin().ApproveDriver(c.Request.Context(), req.DriverID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver approved successfully"})
}

func (h *Handler) AdminRejectDriver(c *gin.Context) {
	var req driverIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Admin().RejectDriver(c.Request.Context(), req.DriverID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver application rejected successfully"})
}

func (h *Handler) AdminDeleteDriver(c *gin.Context) {
	var req driverIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Admin().DeleteDriver(c.Request.Context(), req.DriverID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted successfully"})
}

func (h *Handler) AdminOrders(c *gin.Context) {
	orders, err := h.svc.Admin().Orders(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	loc, err := h.svc.Catalog().CreateLocation(c.Request.Context(), req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) UpdateTariff(c *gin.Context) {
	var req updateTariffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tariff, err := h.svc.Catalog().UpdateTariff(c.Request.Context(), c.Param("vehicle_type"), *req.RatePerKM, *req.IsActive)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tariff)
}
