package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"

func TestNewTokenManager(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
	}{
		{name: "valid", secret: testSecret, ttl: time.Hour},
		{name: "empty secret", secret: "", ttl: time.Hour, wantErr: true},
		{name: "zero ttl", secret: testSecret, ttl: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenManager(tt.secret, tt.ttl)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTokenManager() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateAndParse(t *testing.T) {
	m, err := NewTokenManager(testSecret, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := m.Generate("42", "ann@example.com", RoleCustomer, "active")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != "42" || claims.Role != RoleCustomer || claims.Email != "ann@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Status != "active" {
		t.Errorf("Status = %q, want active", claims.Status)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Errorf("lifetime = %v, want 24h", got)
	}
}

func TestParseRejects(t *testing.T) {
	m, _ := NewTokenManager(testSecret, time.Hour)
	other, _ := NewTokenManager(strings.Repeat("x", 40), time.Hour)

	foreign, _ := other.Generate("1", "a@b.c", RoleDriver, "")

	expiredMgr, _ := NewTokenManager(testSecret, time.Hour)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Generate("1", "a@b.c", RoleDriver, "")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "1", Role: RoleAdmin})
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"expired":        expired,
		"none algorithm": noneToken,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
