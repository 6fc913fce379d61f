package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eazymove/service"
)

type registerRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,max=72"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type driverRegisterRequest struct {
	FullName      string `json:"fullName" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email,max=255"`
	PhoneNumber   string `json:"phoneNumber" binding:"required,max=20"`
	LicenseNumber string `json:"licenseNumber" binding:"required,max=20"`
	VehicleType   string `json:"vehicleType" binding:"required"`
	Experience    string `json:"experience" binding:"required,max=20"`
	Password      string `json:"password" binding:"required,max=72"`
	LicensePlate  string `json:"licensePlate" binding:"omitempty,max=20"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.svc.Auth().RegisterCustomer(c.Request.Context(), service.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.PhoneNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    customer,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.svc.Auth().Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *Handler) DriverRegister(c *gin.Context) {
	var req driverRegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	driver, err := h.svc.Auth().RegisterDriver(c.Request.Context(), service.RegisterDriverInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.PhoneNumber,
		License:      req.LicenseNumber,
		VehicleType:  req.VehicleType,
		Experience:   req.Experience,
		Password:     req.Password,
		LicensePlate: req.LicensePlate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Driver application submitted successfully",
		"driverId": driver.ID,
	})
}

func (h *Handler) DriverLogin(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.svc.Auth().DriverLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *Handler) Me(c *gin.Context) {
	claims, _ := claimsFrom(c)
	user, err := h.svc.Auth().Me(c.Request.Context(), claims)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
