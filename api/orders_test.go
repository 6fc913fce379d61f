package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type orderJSON struct {
	ID          int64           `json:"order_id"`
	Status      string          `json:"order_status"`
	Payment     string          `json:"payment"`
	Price       decimal.Decimal `json:"price"`
	DistanceKM  float64         `json:"distance_km"`
	VehicleType string          `json:"vehicle_type"`
}

// seedLocations creates two locations one degree of latitude apart.
func (s *testServer) seedLocations(admin string) (int64, int64) {
	s.t.Helper()
	var a, b struct {
		ID int64 `json:"location_id"`
	}
	s.expect(s.do(http.MethodPost, "/api/admin/locations", admin, gin.H{
		"name": "Depot", "latitude": 51.5, "longitude": -0.12,
	}), http.StatusCreated, &a)
	s.expect(s.do(http.MethodPost, "/api/admin/locations", admin, gin.H{
		"name": "North Yard", "latitude": 52.5, "longitude": -0.12,
	}), http.StatusCreated, &b)
	return a.ID, b.ID
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	pickup, dropoff := s.seedLocations(admin)
	customer := s.customerToken("ada@example.com")
	driver := s.driverToken("bo@example.com", "suv")

	var quote orderJSON
	s.expect(s.do(http.MethodGet, fmt.Sprintf("/api/quote?pickup=%d&dropoff=%d&vehicle_type=suv", pickup, dropoff), "", nil), http.StatusOK, &quote)
	if quote.DistanceKM != 111.19 || quote.Price.String() != "2779.75" {
		t.Fatalf("quote = %+v", quote)
	}

	var created struct {
		OrderID int64     `json:"orderId"`
		Order   orderJSON `json:"order"`
	}
	s.expect(s.do(http.MethodPost, "/api/orders", customer, gin.H{
		"pickup_location": pickup, "dropoff_location": dropoff, "vehicle_type": "suv",
	}), http.StatusCreated, &created)
	if created.Order.Status != "pending" || created.Order.Price.String() != "2779.75" {
		t.Fatalf("created order = %+v", created.Order)
	}
	orderID := created.OrderID

	var available []orderJSON
	s.expect(s.do(http.MethodGet, "/api/driver/available-orders", driver, nil), http.StatusOK, &available)
	if len(available) != 1 || available[0].ID != orderID {
		t.Fatalf("available = %+v", available)
	}

	// Paying before delivery is refused.
	s.expect(s.do(http.MethodPost, "/api/orders/payment", customer, gin.H{"orderId": orderID}), http.StatusConflict, nil)

	s.expect(s.do(http.MethodPost, "/api/driver/accept-order", driver, gin.H{"orderId": orderID}), http.StatusOK, nil)
	s.expect(s.do(http.MethodPost, "/api/driver/accept-order", driver, gin.H{"orderId": orderID}), http.StatusConflict, nil)

	// Skipping straight to delivered is not a valid transition.
	s.expect(s.do(http.MethodPost, "/api/driver/update-order-status", driver, gin.H{
		"orderId": orderID, "status": "delivered",
	}), http.StatusConflict, nil)

	var current struct {
		Order *orderJSON `json:"order"`
	}
	s.expect(s.do(http.MethodGet, "/api/driver/current-order", driver, nil), http.StatusOK, &current)
	if current.Order == nil || current.Order.ID != orderID {
		t.Fatalf("current order = %+v", current.Order)
	}

	for _, status := range []string{"package collected", "delivered"} {
		s.expect(s.do(http.MethodPost, "/api/driver/update-order-status", driver, gin.H{
			"orderId": orderID, "status": status,
		}), http.StatusOK, nil)
	}

	var paid struct {
		Order orderJSON `json:"order"`
	}
	s.expect(s.do(http.MethodPost, "/api/orders/payment", customer, gin.H{"orderId": orderID}), http.StatusOK, &paid)
	if paid.Order.Payment != "paid" {
		t.Errorf("payment = %q, want paid", paid.Order.Payment)
	}
	s.expect(s.do(http.MethodPost, "/api/orders/payment", customer, gin.H{"orderId": orderID}), http.StatusConflict, nil)

	var earnings struct {
		Earnings decimal.Decimal `json:"earnings"`
	}
	s.expect(s.do(http.MethodGet, "/api/driver/earnings", driver, nil), http.StatusOK, &earnings)
	if earnings.Earnings.String() != "2779.75" {
		t.Errorf("earnings = %s, want 2779.75", earnings.Earnings)
	}

	var completed []orderJSON
	s.expect(s.do(http.MethodGet, "/api/orders/completed", customer, nil), http.StatusOK, &completed)
	if len(completed) != 1 {
		t.Errorf("completed = %+v", completed)
	}

	s.expect(s.do(http.MethodGet, "/api/driver/current-order", driver, nil), http.StatusOK, &current)
	if current.Order != nil {
		t.Errorf("current order after delivery = %+v", current.Order)
	}
}

func TestCancelOrder(t *testing.T) {
	s := newTestServer(t)
	pickup, dropoff := s.seedLocations(s.adminToken())
	customer := s.customerToken("ada@example.com")
	other := s.customerToken("eve@example.com")

	var created struct {
		OrderID int64 `json:"orderId"`
	}
	s.expect(s.do(http.MethodPost, "/api/orders", customer, gin.H{
		"pickup_location": pickup, "dropoff_location": dropoff, "vehicle_type": "van",
	}), http.StatusCreated, &created)

	s.expect(s.do(http.MethodPost, "/api/orders/cancel", other, gin.H{"orderId": created.OrderID}), http.StatusNotFound, nil)
	s.expect(s.do(http.MethodPost, "/api/orders/cancel", customer, gin.H{"orderId": created.OrderID}), http.StatusOK, nil)

	var orders []orderJSON
	s.expect(s.do(http.MethodGet, "/api/orders", customer, nil), http.StatusOK, &orders)
	if len(orders) != 0 {
		t.Errorf("pending order should be removed on cancel, got %+v", orders)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t)
	pickup, _ := s.seedLocations(s.adminToken())
	customer := s.customerToken("ada@example.com")

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing dropoff", gin.H{"pickup_location": pickup, "vehicle_type": "van"}, http.StatusBadRequest},
		{"unknown vehicle", gin.H{"pickup_location": pickup, "dropoff_location": pickup + 1, "vehicle_type": "tank"}, http.StatusBadRequest},
		{"unknown location", gin.H{"pickup_location": pickup, "dropoff_location": 999, "vehicle_type": "van"}, http.StatusBadRequest},
		{"wrong type", gin.H{"pickup_location": "one", "dropoff_location": 2, "vehicle_type": "van"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(http.MethodPost, "/api/orders", customer, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
