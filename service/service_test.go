package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eazymove/pkg/errs"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/pkg/notify"
	"eazymove/pkg/security"
	"eazymove/storage/storagetest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc    IServiceManager
	stg    *storagetest.Store
	events *recorder
	tokens *security.TokenManager

	// London and a point one degree of latitude north of it.
	pickup, dropoff int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := security.NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	stg := storagetest.New()
	rec := &recorder{}
	f := &fixture{
		svc:    New(stg, tokens, security.NewPasswordHasher(bcrypt.MinCost), rec, logger.NewNop()),
		stg:    stg,
		events: rec,
		tokens: tokens,
	}

	ctx := context.Background()
	a, err := stg.Location().Create(ctx, &models.Location{Name: "Depot", Latitude: 51.5, Longitude: -0.12})
	if err != nil {
		t.Fatal(err)
	}
	b, err := stg.Location().Create(ctx, &models.Location{Name: "North Yard", Latitude: 52.5, Longitude: -0.12})
	if err != nil {
		t.Fatal(err)
	}
	f.pickup, f.dropoff = a.ID, b.ID
	return f
}

func (f *fixture) customer(t *testing.T, email string) *models.Customer {
	t.Helper()
	c, err := f.svc.Auth().RegisterCustomer(context.Background(), RegisterCustomerInput{
		Name: "Ada", Email: email, Password: "pw-123456", Phone: "0700",
	})
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}
	return c
}

func (f *fixture) driver(t *testing.T, email, vehicleType string) *models.Driver {
	t.Helper()
	ctx := context.Background()
	d, err := f.svc.Auth().RegisterDriver(ctx, RegisterDriverInput{
		FullName: "Bo", Email: email, Phone: "0711", License: "LIC-1",
		VehicleType: vehicleType, Experience: "3 years", Password: "pw-123456",
	})
	if err != nil {
		t.Fatalf("RegisterDriver() error = %v", err)
	}
	if err := f.svc.Admin().ApproveDriver(ctx, d.ID); err != nil {
		t.Fatalf("ApproveDriver() error = %v", err)
	}
	return d
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	res, err := f.svc.Auth().Login(context.Background(), email, "pw-123456")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return res.Token
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want HTTP %d", err, status)
	}
	if httpErr.Status != status {
		t.Fatalf("status = %d (%s), want %d", httpErr.Status, httpErr.Message, status)
	}
}
