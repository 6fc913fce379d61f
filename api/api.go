// Package api is the HTTP transport: a gin router over the service layer.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eazymove/pkg/logger"
	"eazymove/pkg/security"
	"eazymove/service"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc service.IServiceManager
	db  pinger
	log logger.ILogger
}

func NewRouter(svc service.IServiceManager, db pinger, log logger.ILogger) *gin.Engine {
	registerValidatorTags()

	h := &Handler{svc: svc, db: db, log: log}

	r := gin.New()
	r.Use(requestID(), recovery(log), accessLog(log), observe())
	r.NoRoute(func(c *gin.Context) {
		h.fail(c, errNoRoute)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/locations", h.Locations)
	api.GET("/tariffs", h.Tariffs)
	api.GET("/quote", h.Quote)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/driver/register", h.DriverRegister)
		auth.POST("/driver/login", h.DriverLogin)
		auth.GET("/me", h.authRequired(), h.Me)
	}

	customer := api.Group("", h.authRequired(), requireRole(security.RoleCustomer))
	{
		customer.POST("/orders", h.CreateOrder)
		customer.GET("/orders", h.ListOrders)
		customer.GET("/orders/completed", h.CompletedOrders)
		customer.POST("/orders/cancel", h.CancelOrder)
		customer.POST("/orders/payment", h.PayOrder)

		customer.GET("/user/profile", h.CustomerProfile)
		customer.PUT("/user/profile", h.UpdateCustomerProfile)
		customer.GET("/user/dashboard-stats", h.CustomerDashboardStats)
	}

	driver := api.Group("/driver", h.authRequired(), requireRole(security.RoleDriver))
	{
		driver.GET("/available-orders", h.AvailableOrders)
		driver.POST("/accept-order", h.AcceptOrder)
		driver.POST("/update-order-status", h.UpdateOrderStatus)
		driver.GET("/current-order", h.CurrentOrder)
		driver.GET("/order-history", h.DriverOrderHistory)
		driver.GET("/earnings", h.Earnings)
		driver.GET("/profile", h.DriverProfile)
		driver.PUT("/profile", h.UpdateDriverProfile)
		driver.PUT("/profile/password", h.ChangeDriverPassword)
		driver.PUT("/vehicle", h.UpdateVehicle)
	}

	admin := api.Group("/admin", h.authRequired(), requireRole(security.RoleAdmin))
	{
		admin.GET("/dashboard-stats", h.AdminDashboardStats)
		admin.GET("/users", h.AdminUsers)
		admin.POST("/users/suspend", h.AdminSuspendUser)
		admin.POST("/users/delete", h.AdminDeleteUser)
		admin.GET("/drivers", h.AdminDrivers)
		admin.POST("/drivers/approve", h.AdminApproveDriver)
		admin.POST("/drivers/reject", h.AdminRejectDriver)
		admin.POST("/drivers/delete", h.AdminDeleteDriver)
		admin.GET("/orders", h.AdminOrders)
		admin.POST("/locations", h.CreateLocation)
		admin.GET("/tariffs", h.Tariffs)
		admin.PUT("/tariffs/:vehicle_type", h.UpdateTariff)
	}

	return r
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
