package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eazymove/service"
)

type createOrderRequest struct {
	PickupLocation  int64  `json:"pickup_location" binding:"required,gt=0"`
	DropoffLocation int64  `json:"dropoff_location" binding:"required,gt=0"`
	VehicleType     string `json:"vehicle_type" binding:"required"`
}

type orderIDRequest struct {
	OrderID int64 `json:"orderId" binding:"required,gt=0"`
}

type customerProfileRequest struct {
	Name            string `json:"name" binding:"omitempty,max=255"`
	PhoneNumber     string `json:"phone_number" binding:"omitempty,max=20"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword" binding:"omitempty,max=72"`
	NewPassword     string `json:"newPassword" binding:"omitempty,max=72"`
}

func (h *Handler) CreateOrder(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req createOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.svc.Order().Create(c.Request.Context(), customerID, req.PickupLocation, req.DropoffLocation, req.VehicleType)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"orderId": order.ID,
		"order":   order,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	orders, err := h.svc.Order().List(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CompletedOrders(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	orders, err := h.svc.Order().Completed(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req orderIDRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.svc.Order().Cancel(c.Request.Context(), customerID, req.OrderID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully"})
}

func (h *Handler) PayOrder(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req orderIDRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.svc.Order().Pay(c.Request.Context(), customerID, req.OrderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment processed successfully",
		"order":   order,
	})
}

func (h *Handler) CustomerProfile(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	customer, err := h.svc.Customer().Profile(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomerProfile changes the password when either password field is
// sent and the name and phone number otherwise.
func (h *Handler) UpdateCustomerProfile(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req customerProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.CurrentPassword != "" || req.NewPassword != "":
		if err := h.svc.Customer().ChangePassword(ctx, customerID, req.CurrentPassword, req.NewPassword); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})

	case req.Name != "" || req.PhoneNumber != "" || req.Email != "":
		customer, err := h.svc.Customer().UpdateProfile(ctx, customerID, service.CustomerProfileUpdate{
			Name:  req.Name,
			Phone: req.PhoneNumber,
			Email: req.Email,
		})
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully",
			"user":    customer,
		})

	default:
		h.fail(c, errNothingToUpdate)
	}
}

func (h *Handler) CustomerDashboardStats(c *gin.Context) {
	customerID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.svc.Customer().DashboardStats(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
