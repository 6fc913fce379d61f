package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"eazymove/pkg/models"
)

func TestAdminDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.customer(t, "ada@example.com")
	f.customer(t, "eve@example.com")
	f.driver(t, "bo@example.com", "van")
	if _, err := f.svc.Auth().RegisterDriver(ctx, RegisterDriverInput{
		FullName: "Cy", Email: "cy@example.com", Phone: "1", License: "L",
		VehicleType: "van", Experience: "1", Password: "pw",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Order().Create(ctx, c.ID, f.pickup, f.dropoff, "van"); err != nil {
		t.Fatal(err)
	}

	stats, err := f.svc.Admin().DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats() error = %v", err)
	}
	want := models.AdminStats{TotalUsers: 2, ActiveDrivers: 1, PendingOrders: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	drivers, _ := f.svc.Admin().Drivers(ctx)
	if len(drivers) != 2 || drivers[0].Status != models.DriverPending {
		t.Errorf("pending driver should be listed first: %+v", drivers)
	}

	orders, _ := f.svc.Admin().Orders(ctx)
	if len(orders) != 1 || *orders[0].CustomerName != "Ada" {
		t.Errorf("Orders() = %+v", orders)
	}
}

func TestAdminCustomerManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "ada@example.com")
	idle := f.customer(t, "idle@example.com")

	err := f.svc.Admin().SetCustomerStatus(ctx, c.ID, "banned")
	wantStatus(t, err, http.StatusBadRequest)
	err = f.svc.Admin().SetCustomerStatus(ctx, 999, models.CustomerSuspended)
	wantStatus(t, err, http.StatusNotFound)

	if _, err := f.svc.Order().Create(ctx, c.ID, f.pickup, f.dropoff, "van"); err != nil {
		t.Fatal(err)
	}
	err = f.svc.Admin().DeleteCustomer(ctx, c.ID)
	wantStatus(t, err, http.StatusConflict)

	if err := f.svc.Admin().DeleteCustomer(ctx, idle.ID); err != nil {
		t.Fatalf("DeleteCustomer() error = %v", err)
	}
	err = f.svc.Admin().DeleteCustomer(ctx, idle.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestAdminDriverManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.driver(t, "bo@example.com", "van")

	if err := f.svc.Admin().DeleteDriver(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDriver() error = %v", err)
	}
	if _, err := f.stg.Vehicle().GetByDriver(ctx, d.ID); err == nil {
		t.Error("vehicle survived driver deletion")
	}
	err := f.svc.Admin().ApproveDriver(ctx, d.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	locs, err := f.svc.Catalog().Locations(ctx)
	if err != nil || len(locs) != 2 || locs[0].Name != "Depot" {
		t.Fatalf("Locations() = %+v, %v", locs, err)
	}

	_, err = f.svc.Catalog().CreateLocation(ctx, "Nowhere", 95, 0)
	wantStatus(t, err, http.StatusBadRequest)
	_, err = f.svc.Catalog().CreateLocation(ctx, "  ", 1, 1)
	wantStatus(t, err, http.StatusBadRequest)

	loc, err := f.svc.Catalog().CreateLocation(ctx, "Airport", 51.47, -0.45)
	if err != nil || loc.ID == 0 {
		t.Fatalf("CreateLocation() = %+v, %v", loc, err)
	}

	_, err = f.svc.Catalog().UpdateTariff(ctx, "van", decimal.NewFromInt(-1), true)
	wantStatus(t, err, http.StatusBadRequest)
	_, err = f.svc.Catalog().UpdateTariff(ctx, "truck", decimal.NewFromInt(10), true)
	wantStatus(t, err, http.StatusNotFound)

	tariff, err := f.svc.Catalog().UpdateTariff(ctx, "VAN", decimal.RequireFromString("32.505"), true)
	if err != nil {
		t.Fatalf("UpdateTariff() error = %v", err)
	}
	if !tariff.RatePerKM.Equal(decimal.RequireFromString("32.51")) {
		t.Errorf("RatePerKM = %s, want 32.51", tariff.RatePerKM)
	}

	tariffs, _ := f.svc.Catalog().Tariffs(ctx)
	if len(tariffs) != 3 || tariffs[0].VehicleType != models.VehicleVan {
		t.Errorf("Tariffs() = %+v", tariffs)
	}
}
