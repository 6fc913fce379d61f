//go:build integration

package postgres

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"eazymove/config"
	"eazymove/pkg/logger"
	"eazymove/pkg/models"
	"eazymove/storage"
)

const postgresPort = "5432/tcp"

func skipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// newTestStore starts a throwaway Postgres and runs the real migrations on it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	skipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     "eazymove",
			"POSTGRES_PASSWORD": "p@ss/word",
			"POSTGRES_DB":       "eazymove",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	cfg := config.Config{
		PostgresHost:     host,
		PostgresPort:     port.Port(),
		PostgresUser:     "eazymove",
		PostgresPassword: "p@ss/word",
		PostgresDB:       "eazymove",
		PostgresSSLMode:  "disable",
		MigrationsPath:   "../../migrations",
	}
	store, err := New(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

type seed struct {
	customer *models.Customer
	drivers  []*models.Driver
	pickup   *models.Location
	dropoff  *models.Location
}

func seedAccounts(t *testing.T, ctx context.Context, s *Store, drivers int) seed {
	t.Helper()

	customer, err := s.Customer().Create(ctx, &models.Customer{
		Name: "Ann", Email: "ann@example.com", PasswordHash: "x", Phone: "0700", Status: models.CustomerActive,
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	out := seed{customer: customer}
	for i := 0; i < drivers; i++ {
		d, err := s.Driver().Create(ctx,
			&models.Driver{
				Username: "driver", Email: string(rune('a'+i)) + "@drivers.com", PasswordHash: "x",
				Phone: "0711", License: "LIC-1", Status: models.DriverApproved,
			},
			&models.Vehicle{VehicleType: models.VehicleVan, LicensePlate: "KAA 001", Experience: "3 years"},
		)
		if err != nil {
			t.Fatalf("create driver %d: %v", i, err)
		}
		out.drivers = append(out.drivers, d)
	}

	if out.pickup, err = s.Location().Create(ctx, &models.Location{Name: "Depot", Latitude: -1.28, Longitude: 36.82}); err != nil {
		t.Fatalf("create pickup: %v", err)
	}
	if out.dropoff, err = s.Location().Create(ctx, &models.Location{Name: "Market", Latitude: -1.30, Longitude: 36.78}); err != nil {
		t.Fatalf("create dropoff: %v", err)
	}
	return out
}

func createOrder(t *testing.T, ctx context.Context, s *Store, sd seed) *models.Order {
	t.Helper()
	o, err := s.Order().Create(ctx, &models.Order{
		CustomerID:        sd.customer.ID,
		PickupLocationID:  sd.pickup.ID,
		DropoffLocationID: sd.dropoff.ID,
		VehicleType:       models.VehicleVan,
		Status:            models.OrderPending,
		Price:             decimal.RequireFromString("150.50"),
		Payment:           models.PaymentUnpaid,
		DistanceKM:        5.02,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestOrderRepoLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sd := seedAccounts(t, ctx, s, 2)
	orders := s.Order()
	first, second := sd.drivers[0].ID, sd.drivers[1].ID

	o := createOrder(t, ctx, s, sd)
	other := createOrder(t, ctx, s, sd)

	if _, err := orders.MarkPaid(ctx, o.ID, sd.customer.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("MarkPaid(pending) error = %v, want ErrNotFound", err)
	}

	if err := orders.Accept(ctx, o.ID, first); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err := orders.Accept(ctx, o.ID, second); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Accept(taken order) error = %v, want ErrNotFound", err)
	}
	if err := orders.Accept(ctx, other.ID, first); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Accept(busy driver) error = %v, want ErrNotFound", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := orders.Transition(ctx, o.ID, first, models.OrderCollected, models.OrderDelivered, at); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Transition(wrong from) error = %v, want ErrNotFound", err)
	}
	if err := orders.Transition(ctx, o.ID, second, models.OrderOnRoute, models.OrderCollected, at); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Transition(other driver) error = %v, want ErrNotFound", err)
	}
	if err := orders.Transition(ctx, o.ID, first, models.OrderOnRoute, models.OrderCollected, at); err != nil {
		t.Fatalf("Transition(collected) error = %v", err)
	}
	delivered := at.Add(30 * time.Minute)
	if err := orders.Transition(ctx, o.ID, first, models.OrderCollected, models.OrderDelivered, delivered); err != nil {
		t.Fatalf("Transition(delivered) error = %v", err)
	}

	got, err := orders.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.OrderDelivered {
		t.Errorf("status = %q, want delivered", got.Status)
	}
	if got.PickupTime == nil || !got.PickupTime.Equal(at) {
		t.Errorf("pickup_time = %v, want %v", got.PickupTime, at)
	}
	if got.DropoffTime == nil || !got.DropoffTime.Equal(delivered) {
		t.Errorf("dropoff_time = %v, want %v", got.DropoffTime, delivered)
	}

	if _, err := orders.MarkPaid(ctx, o.ID, sd.customer.ID+1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkPaid(other customer) error = %v, want ErrNotFound", err)
	}
	paid, err := orders.MarkPaid(ctx, o.ID, sd.customer.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if paid.Payment != models.PaymentPaid {
		t.Errorf("payment = %q, want paid", paid.Payment)
	}
	if _, err := orders.MarkPaid(ctx, o.ID, sd.customer.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second MarkPaid() error = %v, want ErrNotFound", err)
	}

	d, err := s.Driver().GetByID(ctx, first)
	if err != nil {
		t.Fatalf("GetByID(driver) error = %v", err)
	}
	if !d.Earning.Equal(decimal.RequireFromString("150.50")) {
		t.Errorf("earning = %s, want 150.50", d.Earning)
	}

	// The driver is free again once the first order is delivered.
	if err := orders.Accept(ctx, other.ID, first); err != nil {
		t.Errorf("Accept(after delivery) error = %v", err)
	}
}

func TestRepoConstraintErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sd := seedAccounts(t, ctx, s, 1)
	createOrder(t, ctx, s, sd)

	if err := s.Customer().Delete(ctx, sd.customer.ID); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Delete(customer with orders) error = %v, want ErrConflict", err)
	}

	_, err := s.Customer().Create(ctx, &models.Customer{
		Name: "Dup", Email: sd.customer.Email, PasswordHash: "x", Phone: "0700", Status: models.CustomerActive,
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Create(duplicate email) error = %v, want ErrConflict", err)
	}

	_, err = s.Driver().Create(ctx,
		&models.Driver{
			Username: "long", Email: "long@drivers.com", PasswordHash: "x",
			Phone: "0711", License: "LIC-2", Status: models.DriverPending,
		},
		&models.Vehicle{VehicleType: models.VehicleSUV, LicensePlate: "KAB 002", Experience: strings.Repeat("y", 21)},
	)
	if !errors.Is(err, storage.ErrTooLong) {
		t.Errorf("Create(long experience) error = %v, want ErrTooLong", err)
	}
	if _, err := s.Driver().GetByEmail(ctx, "long@drivers.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("driver row survived failed vehicle insert: err = %v", err)
	}
}
