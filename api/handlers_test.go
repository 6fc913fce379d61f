package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"eazymove/pkg/logger"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var body map[string]string
	s.expect(s.do(http.MethodGet, "/api/health", "", nil), http.StatusOK, &body)
	if body["database"] != "up" {
		t.Errorf("body = %v", body)
	}

	s.router = NewRouter(s.svc, downDB{}, logger.NewNop())
	s.expect(s.do(http.MethodGet, "/api/health", "", nil), http.StatusServiceUnavailable, &body)
	if body["database"] != "down" {
		t.Errorf("body with database down = %v", body)
	}
}

func TestMetricsAndRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/locations", "", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	w = s.do(http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "eazymove_http_requests_total") {
		t.Error("/metrics does not expose eazymove_http_requests_total")
	}
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	var body errorBody
	s.expect(s.do(http.MethodGet, "/api/nope", "", nil), http.StatusNotFound, &body)
	if body.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	var body errorBody
	s.expect(s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ada", "email": "not-an-email", "password": "pw",
	}), http.StatusBadRequest, &body)

	got := map[string]string{}
	for _, fe := range body.Errors {
		got[fe.Field] = fe.Error
	}
	if got["email"] != "must be a valid email" {
		t.Errorf("email error = %q", got["email"])
	}
	if got["phone_number"] != "is required" {
		t.Errorf("phone_number error = %q", got["phone_number"])
	}

	s.expect(s.do(http.MethodPost, "/api/auth/register", "", nil), http.StatusBadRequest, &body)
	if body.Message != "Request body is required" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken("ada@example.com")

	var dup errorBody
	s.expect(s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "x", "phone_number": "1",
	}), http.StatusConflict, &dup)
	if dup.Code != "CONFLICT" {
		t.Errorf("code = %q", dup.Code)
	}

	s.expect(s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ada@example.com", "password": "wrong",
	}), http.StatusUnauthorized, nil)

	var me struct {
		User struct {
			Role  string `json:"role"`
			Email string `json:"email"`
		} `json:"user"`
	}
	s.expect(s.do(http.MethodGet, "/api/auth/me", token, nil), http.StatusOK, &me)
	if me.User.Role != "customer" || me.User.Email != "ada@example.com" {
		t.Errorf("me = %+v", me.User)
	}

	s.expect(s.do(http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized, nil)
	s.expect(s.do(http.MethodGet, "/api/auth/me", "garbage", nil), http.StatusUnauthorized, nil)

	// A pending driver cannot log in yet.
	s.expect(s.do(http.MethodPost, "/api/auth/driver/register", "", gin.H{
		"fullName": "Cy", "email": "cy@example.com", "phoneNumber": "1", "licenseNumber": "L",
		"vehicleType": "van", "experience": "1", "password": "pw",
	}), http.StatusCreated, nil)
	var pending errorBody
	s.expect(s.do(http.MethodPost, "/api/auth/driver/login", "", gin.H{
		"email": "cy@example.com", "password": "pw",
	}), http.StatusForbidden, &pending)
	if !strings.Contains(pending.Message, "pending approval") {
		t.Errorf("message = %q", pending.Message)
	}
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	customer := s.customerToken("ada@example.com")
	driver := s.driverToken("bo@example.com", "van")
	admin := s.adminToken()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous admin", http.MethodGet, "/api/admin/users", "", http.StatusUnauthorized},
		{"customer on admin", http.MethodGet, "/api/admin/users", customer, http.StatusForbidden},
		{"driver on admin", http.MethodGet, "/api/admin/orders", driver, http.StatusForbidden},
		{"admin on admin", http.MethodGet, "/api/admin/users", admin, http.StatusOK},
		{"driver on orders", http.MethodGet, "/api/orders", driver, http.StatusForbidden},
		{"customer on orders", http.MethodGet, "/api/orders", customer, http.StatusOK},
		{"customer on driver", http.MethodGet, "/api/driver/earnings", customer, http.StatusForbidden},
		{"driver on driver", http.MethodGet, "/api/driver/earnings", driver, http.StatusOK},
		{"admin on me", http.MethodGet, "/api/auth/me", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(tt.method, tt.path, tt.token, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRegisterFieldLimits(t *testing.T) {
	s := newTestServer(t)
	long := strings.Repeat("p", 80)

	tests := []struct {
		name  string
		path  string
		body  gin.H
		field string
		want  string
	}{
		{
			name:  "customer password",
			path:  "/api/auth/register",
			body:  gin.H{"name": "Ada", "email": "ada@example.com", "password": long, "phone_number": "0700"},
			field: "password",
			want:  "must be at most 72 characters",
		},
		{
			name: "driver password",
			path: "/api/auth/driver/register",
			body: gin.H{
				"fullName": "Bo", "email": "bo@example.com", "phoneNumber": "0711", "licenseNumber": "L",
				"vehicleType": "van", "experience": "3 years", "password": long,
			},
			field: "password",
			want:  "must be at most 72 characters",
		},
		{
			name: "driver experience",
			path: "/api/auth/driver/register",
			body: gin.H{
				"fullName": "Bo", "email": "bo@example.com", "phoneNumber": "0711", "licenseNumber": "L",
				"vehicleType": "van", "experience": "5 years driving vans and trucks", "password": "pw",
			},
			field: "experience",
			want:  "must be at most 20 characters",
		},
		{
			name:  "customer phone",
			path:  "/api/auth/register",
			body:  gin.H{"name": "Ada", "email": "ada@example.com", "password": "pw", "phone_number": strings.Repeat("0", 21)},
			field: "phone_number",
			want:  "must be at most 20 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			s.expect(s.do(http.MethodPost, tt.path, "", tt.body), http.StatusBadRequest, &body)
			got := map[string]string{}
			for _, fe := range body.Errors {
				got[fe.Field] = fe.Error
			}
			if got[tt.field] != tt.want {
				t.Errorf("errors = %+v, want %s %q", body.Errors, tt.field, tt.want)
			}
		})
	}
}

func TestProfilePasswordLimit(t *testing.T) {
	s := newTestServer(t)
	customer := s.customerToken("ada@example.com")
	driver := s.driverToken("bo@example.com", "van")
	long := strings.Repeat("p", 80)

	s.expect(s.do(http.MethodPut, "/api/user/profile", customer, gin.H{
		"currentPassword": "pw-123456", "newPassword": long,
	}), http.StatusBadRequest, nil)
	s.expect(s.do(http.MethodPut, "/api/driver/profile/password", driver, gin.H{
		"currentPassword": "pw-123456", "newPassword": long,
	}), http.StatusBadRequest, nil)

	// Multi-byte input within the character limit still exceeds bcrypt's 72 bytes.
	s.expect(s.do(http.MethodPut, "/api/driver/profile/password", driver, gin.H{
		"currentPassword": "pw-123456", "newPassword": strings.Repeat("é", 40),
	}), http.StatusBadRequest, nil)
}

func TestSuspendedCustomerLosesAccess(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken("ada@example.com")

	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	s.expect(s.do(http.MethodGet, "/api/auth/me", token, nil), http.StatusOK, &me)
	id, err := strconv.ParseInt(me.User.ID, 10, 64)
	if err != nil {
		t.Fatalf("user id %q: %v", me.User.ID, err)
	}

	s.expect(s.do(http.MethodPost, "/api/admin/users/suspend", s.adminToken(), gin.H{
		"userId": id, "status": "suspended",
	}), http.StatusOK, nil)

	s.expect(s.do(http.MethodGet, "/api/orders", token, nil), http.StatusForbidden, nil)
}
