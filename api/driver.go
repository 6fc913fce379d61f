package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eazymove/service"
)

type updateOrderStatusRequest struct {
	OrderID int64  `json:"orderId" binding:"required,gt=0"`
	Status  string `json:"status" binding:"required"`
}

type personalInfoRequest struct {
	DriverUsername string `json:"driver_username" binding:"omitempty,max=255"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,max=20"`
	DriverLicense  string `json:"driver_license" binding:"omitempty,max=20"`
}

type vehicleInfoRequest struct {
	VehicleType  string `json:"vehicle_type"`
	LicensePlate string `json:"license_plate" binding:"omitempty,max=20"`
}

type driverProfileRequest struct {
	CurrentPassword string               `json:"currentPassword" binding:"omitempty,max=72"`
	NewPassword     string               `json:"newPassword" binding:"omitempty,max=72"`
	PersonalInfo    *personalInfoRequest `json:"personalInfo"`
	VehicleInfo     *vehicleInfoRequest  `json:"vehicleInfo"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=72"`
	NewPassword     string `json:"newPassword" binding:"required,max=72"`
}

type vehicleRequest struct {
	LicensePlate string `json:"license_plate" binding:"required,max=20"`
}

func (h *Handler) AvailableOrders(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	orders, err := h.svc.Driver().AvailableOrders(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AcceptOrder(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req orderIDRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.svc.Driver().Accept(c.Request.Context(), driverID, req.OrderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order accepted successfully",
		"order":   order,
	})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req updateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.svc.Driver().UpdateStatus(c.Request.Context(), driverID, req.OrderID, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

func (h *Handler) CurrentOrder(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	order, err := h.svc.Driver().CurrentOrder(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) DriverOrderHistory(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	orders, err := h.svc.Driver().OrderHistory(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) Earnings(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	earnings, err := h.svc.Driver().Earnings(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

func (h *Handler) DriverProfile(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	profile, err := h.svc.Driver().Profile(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateDriverProfile changes the password when both password fields are
// sent; otherwise it applies personalInfo and vehicleInfo together.
func (h *Handler) UpdateDriverProfile(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req driverProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if req.CurrentPassword != "" && req.NewPassword != "" {
		if err := h.svc.Driver().ChangePassword(ctx, driverID, req.CurrentPassword, req.NewPassword); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
		return
	}

	var upd service.DriverProfileUpdate
	if p := req.PersonalInfo; p != nil {
		upd.Personal = &service.PersonalInfo{
			Username: p.DriverUsername,
			Phone:    p.PhoneNumber,
			License:  p.DriverLicense,
		}
	}
	if v := req.VehicleInfo; v != nil {
		upd.Vehicle = &service.VehicleInfo{
			VehicleType:  v.VehicleType,
			LicensePlate: v.LicensePlate,
		}
	}

	profile, err := h.svc.Driver().UpdateProfile(ctx, driverID, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"driver":  profile,
	})
}

func (h *Handler) ChangeDriverPassword(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req passwordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.svc.Driver().ChangePassword(c.Request.Context(), driverID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	driverID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req vehicleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vehicle, err := h.svc.Driver().UpdateLicensePlate(c.Request.Context(), driverID, req.LicensePlate)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}
