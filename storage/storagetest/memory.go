// Package storagetest provides an in-memory storage.IStorage for tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"eazymove/pkg/models"
	"eazymove/storage"
)

// Store keeps every table in maps guarded by one mutex. It mirrors the
// guards and column limits of the Postgres repositories so service tests see
// the same ErrNotFound, ErrConflict and ErrTooLong outcomes.
type Store struct {
	mu sync.Mutex

	now func() time.Time

	admins    map[string]*models.Admin
	customers map[int64]*models.Customer
	drivers   map[int64]*models.Driver
	vehicles  map[int64]*models.Vehicle // by driver id
	locations map[int64]*models.Location
	tariffs   map[string]*models.Tariff
	orders    map[int64]*models.Order

	seq int64
}

func New() *Store {
	s := &Store{
		now:       time.Now,
		admins:    map[string]*models.Admin{},
		customers: map[int64]*models.Customer{},
		drivers:   map[int64]*models.Driver{},
		vehicles:  map[int64]*models.Vehicle{},
		locations: map[int64]*models.Location{},
		tariffs:   map[string]*models.Tariff{},
		orders:    map[int64]*models.Order{},
	}
	for _, t := range []models.Tariff{
		{VehicleType: models.VehicleVan, Name: "Van", RatePerKM: decimal.NewFromInt(30), IsActive: true},
		{VehicleType: models.VehicleSUV, Name: "SUV", RatePerKM: decimal.NewFromInt(25), IsActive: true},
		{VehicleType: models.VehicleMotorcycle, Name: "Motorcycle", RatePerKM: decimal.NewFromInt(20), IsActive: true},
	} {
		t := t
		s.tariffs[t.VehicleType] = &t
	}
	return s
}

// shortColumn is the VARCHAR length of phone, licence, plate and experience.
const shortColumn = 20

func fits(values ...string) bool {
	for _, v := range values {
		if utf8.RuneCountInString(v) > shortColumn {
			return false
		}
	}
	return true
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Customer() storage.ICustomerStorage { return customerStore{s} }
func (s *Store) Driver() storage.IDriverStorage     { return driverStore{s} }
func (s *Store) Vehicle() storage.IVehicleStorage   { return vehicleStore{s} }
func (s *Store) Location() storage.ILocationStorage { return locationStore{s} }
func (s *Store) Tariff() storage.ITariffStorage     { return tariffStore{s} }
func (s *Store) Order() storage.IOrderStorage       { return orderStore{s} }
func (s *Store) Admin() storage.IAdminStorage       { return adminStore{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

// ---- customers

type customerStore struct{ s *Store }

func (c customerStore) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if !fits(customer.Phone) {
		return nil, storage.ErrTooLong
	}
	for _, existing := range c.s.customers {
		if existing.Email == customer.Email {
			return nil, storage.ErrConflict
		}
	}
	cp := *customer
	cp.ID = c.s.nextID()
	cp.CreatedAt = c.s.now()
	c.s.customers[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (c customerStore) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cu, ok := c.s.customers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *cu
	return &out, nil
}

func (c customerStore) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, cu := range c.s.customers {
		if cu.Email == email {
			out := *cu
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (c customerStore) GetAll(context.Context) ([]*models.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := []*models.Customer{}
	for _, cu := range c.s.customers {
		cp := *cu
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (c customerStore) UpdateProfile(_ context.Context, id int64, name, phone string) (*models.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cu, ok := c.s.customers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !fits(phone) {
		return nil, storage.ErrTooLong
	}
	cu.Name, cu.Phone = name, phone
	out := *cu
	return &out, nil
}

func (c customerStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cu, ok := c.s.customers[id]
	if !ok {
		return storage.ErrNotFound
	}
	cu.PasswordHash = hash
	return nil
}

func (c customerStore) UpdateStatus(_ context.Context, id int64, status string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cu, ok := c.s.customers[id]
	if !ok {
		return storage.ErrNotFound
	}
	cu.Status = status
	return nil
}

func (c customerStore) Delete(_ context.Context, id int64) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.customers[id]; !ok {
		return storage.ErrNotFound
	}
	for _, o := range c.s.orders {
		if o.CustomerID == id {
			return storage.ErrConflict
		}
	}
	delete(c.s.customers, id)
	return nil
}

func (c customerStore) Count(context.Context) (int, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return len(c.s.customers), nil
}

// ---- drivers

type driverStore struct{ s *Store }

func (d driverStore) Create(_ context.Context, driver *models.Driver, vehicle *models.Vehicle) (*models.Driver, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for _, existing := range d.s.drivers {
		if existing.Email == driver.Email {
			return nil, storage.ErrConflict
		}
	}
	if _, ok := d.s.tariffs[vehicle.VehicleType]; !ok {
		return nil, storage.ErrConflict
	}
	if !fits(driver.Phone, driver.License, vehicle.LicensePlate, vehicle.Experience) {
		return nil, storage.ErrTooLong
	}
	cp := *driver
	cp.ID = d.s.nextID()
	cp.CreatedAt = d.s.now()
	d.s.drivers[cp.ID] = &cp

	v := *vehicle
	v.ID = d.s.nextID()
	v.DriverID = cp.ID
	d.s.vehicles[cp.ID] = &v

	out := cp
	return &out, nil
}

func (d driverStore) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	dr, ok := d.s.drivers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *dr
	return &out, nil
}

func (d driverStore) GetByEmail(_ context.Context, email string) (*models.Driver, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for _, dr := range d.s.drivers {
		if dr.Email == email {
			out := *dr
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (d driverStore) profile(dr *models.Driver) *models.DriverProfile {
	p := &models.DriverProfile{Driver: *dr}
	if v, ok := d.s.vehicles[dr.ID]; ok {
		vt, lp, ex := v.VehicleType, v.LicensePlate, v.Experience
		p.VehicleType, p.LicensePlate, p.Experience = &vt, &lp, &ex
	}
	return p
}

func (d driverStore) GetProfile(_ context.Context, id int64) (*models.DriverProfile, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	dr, ok := d.s.drivers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d.profile(dr), nil
}

func (d driverStore) GetAll(context.Context) ([]*models.DriverProfile, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	out := []*models.DriverProfile{}
	for _, dr := range d.s.drivers {
		out = append(out, d.profile(dr))
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Status == models.DriverPending, out[j].Status == models.DriverPending
		if pi != pj {
			return pi
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (d driverStore) Update(_ context.Context, id int64, upd models.DriverUpdate) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	dr, ok := d.s.drivers[id]
	if !ok {
		return storage.ErrNotFound
	}
	v, hasVehicle := d.s.vehicles[id]
	if (upd.VehicleType != nil || upd.LicensePlate != nil) && !hasVehicle {
		return storage.ErrNotFound
	}
	if upd.VehicleType != nil {
		if _, ok := d.s.tariffs[*upd.VehicleType]; !ok {
			return storage.ErrConflict
		}
	}
	for _, p := range []*string{upd.Phone, upd.License, upd.LicensePlate} {
		if p != nil && !fits(*p) {
			return storage.ErrTooLong
		}
	}

	if upd.Username != nil {
		dr.Username = *upd.Username
	}
	if upd.Phone != nil {
		dr.Phone = *upd.Phone
	}
	if upd.License != nil {
		dr.License = *upd.License
	}
	if upd.VehicleType != nil {
		v.VehicleType = *upd.VehicleType
	}
	if upd.LicensePlate != nil {
		v.LicensePlate = *upd.LicensePlate
	}
	return nil
}

func (d driverStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	dr, ok := d.s.drivers[id]
	if !ok {
		return storage.ErrNotFound
	}
	dr.PasswordHash = hash
	return nil
}

func (d driverStore) UpdateStatus(_ context.Context, id int64, status string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	dr, ok := d.s.drivers[id]
	if !ok {
		return storage.ErrNotFound
	}
	dr.Status = status
	return nil
}

func (d driverStore) Delete(_ context.Context, id int64) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	if _, ok := d.s.drivers[id]; !ok {
		return storage.ErrNotFound
	}
	for _, o := range d.s.orders {
		if o.DriverID != nil && *o.DriverID == id {
			return storage.ErrConflict
		}
	}
	delete(d.s.vehicles, id)
	delete(d.s.drivers, id)
	return nil
}

func (d driverStore) CountByStatus(_ context.Context, status string) (int, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	n := 0
	for _, dr := range d.s.drivers {
		if dr.Status == status {
			n++
		}
	}
	return n, nil
}

// ---- vehicles

type vehicleStore struct{ s *Store }

func (v vehicleStore) GetByDriver(_ context.Context, driverID int64) (*models.Vehicle, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	ve, ok := v.s.vehicles[driverID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *ve
	return &out, nil
}

func (v vehicleStore) UpdateLicensePlate(_ context.Context, driverID int64, plate string) (*models.Vehicle, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	ve, ok := v.s.vehicles[driverID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !fits(plate) {
		return nil, storage.ErrTooLong
	}
	ve.LicensePlate = plate
	out := *ve
	return &out, nil
}

// ---- locations

type locationStore struct{ s *Store }

func (l locationStore) GetAll(context.Context) ([]*models.Location, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	out := []*models.Location{}
	for _, loc := range l.s.locations {
		cp := *loc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l locationStore) GetByID(_ context.Context, id int64) (*models.Location, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	loc, ok := l.s.locations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *loc
	return &out, nil
}

func (l locationStore) Create(_ context.Context, loc *models.Location) (*models.Location, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	cp := *loc
	cp.ID = l.s.nextID()
	l.s.locations[cp.ID] = &cp
	out := cp
	return &out, nil
}

// ---- tariffs

type tariffStore struct{ s *Store }

func (t tariffStore) GetAll(context.Context) ([]*models.Tariff, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := []*models.Tariff{}
	for _, tr := range t.s.tariffs {
		cp := *tr
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RatePerKM.GreaterThan(out[j].RatePerKM) })
	return out, nil
}

func (t tariffStore) GetByVehicleType(_ context.Context, vehicleType string) (*models.Tariff, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.tariffs[vehicleType]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *tr
	return &out, nil
}

func (t tariffStore) Update(_ context.Context, vehicleType string, rate decimal.Decimal, active bool) (*models.Tariff, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.tariffs[vehicleType]
	if !ok {
		return nil, storage.ErrNotFound
	}
	tr.RatePerKM, tr.IsActive = rate, active
	out := *tr
	return &out, nil
}

// ---- admins

type adminStore struct{ s *Store }

func (a adminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	ad, ok := a.s.admins[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *ad
	return &out, nil
}

func (a adminStore) Upsert(_ context.Context, email, hash string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if ad, ok := a.s.admins[email]; ok {
		ad.PasswordHash = hash
		return nil
	}
	a.s.admins[email] = &models.Admin{Email: email, PasswordHash: hash, CreatedAt: a.s.now()}
	return nil
}
