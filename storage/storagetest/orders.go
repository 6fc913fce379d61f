package storagetest

import (
	"context"
	"sort"
	"time"

	"eazymove/pkg/models"
	"eazymove/storage"
)

type orderStore struct{ s *Store }

func (o orderStore) details(ord *models.Order) *models.OrderDetails {
	d := &models.OrderDetails{Order: *ord}
	if l, ok := o.s.locations[ord.PickupLocationID]; ok {
		name := l.Name
		d.PickupAddress = &name
	}
	if l, ok := o.s.locations[ord.DropoffLocationID]; ok {
		name := l.Name
		d.DropoffAddress = &name
	}
	if ord.DriverID != nil {
		if dr, ok := o.s.drivers[*ord.DriverID]; ok {
			u, p := dr.Username, dr.Phone
			d.DriverUsername, d.DriverPhone = &u, &p
		}
	}
	if c, ok := o.s.customers[ord.CustomerID]; ok {
		n, p := c.Name, c.Phone
		d.CustomerName, d.CustomerPhone = &n, &p
	}
	return d
}

// list returns matching orders newest first.
func (o orderStore) list(match func(*models.Order) bool) []*models.OrderDetails {
	out := []*models.OrderDetails{}
	for _, ord := range o.s.orders {
		if match(ord) {
			out = append(out, o.details(ord))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (o orderStore) count(match func(*models.Order) bool) int {
	n := 0
	for _, ord := range o.s.orders {
		if match(ord) {
			n++
		}
	}
	return n
}

func (o orderStore) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if _, ok := o.s.customers[order.CustomerID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := o.s.locations[order.PickupLocationID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := o.s.locations[order.DropoffLocationID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := o.s.tariffs[order.VehicleType]; !ok {
		return nil, storage.ErrConflict
	}
	cp := *order
	cp.ID = o.s.nextID()
	cp.OrderDate = o.s.now()
	o.s.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (o orderStore) GetByID(_ context.Context, id int64) (*models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *ord
	return &out, nil
}

func (o orderStore) GetDetails(_ context.Context, id int64) (*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return o.details(ord), nil
}

func (o orderStore) GetAll(context.Context) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.list(func(*models.Order) bool { return true }), nil
}

func (o orderStore) GetCustomerOrders(_ context.Context, customerID int64) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.list(func(ord *models.Order) bool { return ord.CustomerID == customerID }), nil
}

func (o orderStore) GetCustomerCompleted(_ context.Context, customerID int64) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.list(func(ord *models.Order) bool {
		return ord.CustomerID == customerID && ord.Status == models.OrderDelivered && ord.Payment == models.PaymentPaid
	}), nil
}

func (o orderStore) GetCustomerActive(_ context.Context, customerID int64) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.list(func(ord *models.Order) bool { return ord.CustomerID == customerID && ord.IsActive() }), nil
}

func (o orderStore) CountCustomerDelivered(_ context.Context, customerID int64) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.count(func(ord *models.Order) bool {
		return ord.CustomerID == customerID && ord.Status == models.OrderDelivered
	}), nil
}

func (o orderStore) GetAvailable(_ context.Context, vehicleType string) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	out := o.list(func(ord *models.Order) bool {
		return ord.Status == models.OrderPending && ord.DriverID == nil && ord.VehicleType == vehicleType
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func onTheRoad(ord *models.Order, driverID int64) bool {
	return ord.DriverID != nil && *ord.DriverID == driverID &&
		(ord.Status == models.OrderOnRoute || ord.Status == models.OrderCollected)
}

func (o orderStore) GetDriverCurrent(_ context.Context, driverID int64) (*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	out := o.list(func(ord *models.Order) bool { return onTheRoad(ord, driverID) })
	if len(out) == 0 {
		return nil, storage.ErrNotFound
	}
	return out[0], nil
}

func (o orderStore) GetDriverHistory(_ context.Context, driverID int64) ([]*models.OrderDetails, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.list(func(ord *models.Order) bool {
		return ord.DriverID != nil && *ord.DriverID == driverID && ord.Status == models.OrderDelivered
	}), nil
}

func (o orderStore) CountByStatus(_ context.Context, status string) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.count(func(ord *models.Order) bool { return ord.Status == status }), nil
}

func (o orderStore) CountByCustomer(_ context.Context, customerID int64) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.count(func(ord *models.Order) bool { return ord.CustomerID == customerID }), nil
}

func (o orderStore) CountByDriver(_ context.Context, driverID int64) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return o.count(func(ord *models.Order) bool { return ord.DriverID != nil && *ord.DriverID == driverID }), nil
}

func (o orderStore) Accept(_ context.Context, orderID, driverID int64) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[orderID]
	if !ok || ord.Status != models.OrderPending || ord.DriverID != nil {
		return storage.ErrNotFound
	}
	if o.count(func(other *models.Order) bool { return onTheRoad(other, driverID) }) > 0 {
		return storage.ErrNotFound
	}
	id := driverID
	ord.DriverID = &id
	ord.Status = models.OrderOnRoute
	return nil
}

func (o orderStore) Transition(_ context.Context, orderID, driverID int64, from, to string, at time.Time) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[orderID]
	if !ok || ord.DriverID == nil || *ord.DriverID != driverID || ord.Status != from {
		return storage.ErrNotFound
	}
	ord.Status = to
	switch to {
	case models.OrderCollected:
		ord.PickupTime = &at
	case models.OrderDelivered:
		ord.DropoffTime = &at
	}
	return nil
}

func (o orderStore) Cancel(_ context.Context, orderID, customerID int64, from string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[orderID]
	if !ok || ord.CustomerID != customerID || ord.Status != from {
		return storage.ErrNotFound
	}
	ord.Status = models.OrderCancelled
	return nil
}

func (o orderStore) DeletePending(_ context.Context, orderID, customerID int64) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[orderID]
	if !ok || ord.CustomerID != customerID || ord.Status != models.OrderPending {
		return storage.ErrNotFound
	}
	delete(o.s.orders, orderID)
	return nil
}

func (o orderStore) MarkPaid(_ context.Context, orderID, customerID int64) (*models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[orderID]
	if !ok || ord.CustomerID != customerID || ord.Status != models.OrderDelivered || ord.Payment != models.PaymentUnpaid {
		return nil, storage.ErrNotFound
	}
	ord.Payment = models.PaymentPaid
	if ord.DriverID != nil {
		if dr, ok := o.s.drivers[*ord.DriverID]; ok {
			dr.Earning = dr.Earning.Add(ord.Price)
		}
	}
	out := *ord
	return &out, nil
}
