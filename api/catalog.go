package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	Pickup      int64  `form:"pickup" binding:"required,gt=0"`
	Dropoff     int64  `form:"dropoff" binding:"required,gt=0"`
	VehicleType string `form:"vehicle_type" binding:"required"`
}

func (h *Handler) Locations(c *gin.Context) {
	locations, err := h.svc.Catalog().Locations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *Handler) Tariffs(c *gin.Context) {
	tariffs, err := h.svc.Catalog().Tariffs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tariffs)
}

func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if !h.bindQuery(c, &req) {
		return
	}
	quote, err := h.svc.Order().Quote(c.Request.Context(), req.Pickup, req.Dropoff, req.VehicleType)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
