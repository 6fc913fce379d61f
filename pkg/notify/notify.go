// Package notify delivers order and driver lifecycle events to the admin
// Telegram chat and to Kafka.
package notify

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DriverRegistered   = "driver.registered"
	OrderCreated       = "order.created"
	OrderAccepted      = "order.accepted"
	OrderStatusChanged = "order.status_changed"
	OrderCancelled     = "order.cancelled"
	OrderPaid          = "order.paid"
)

type Event struct {
	Type        string           `json:"type"`
	OrderID     int64            `json:"order_id,omitempty"`
	CustomerID  int64            `json:"customer_id,omitempty"`
	DriverID    int64            `json:"driver_id,omitempty"`
	Status      string           `json:"status,omitempty"`
	VehicleType string           `json:"vehicle_type,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Name        string           `json:"name,omitempty"`
	At          time.Time        `json:"at"`
}

// Key groups events of one order or one driver on the same partition.
func (e Event) Key() string {
	if e.OrderID != 0 {
		return "order-" + strconv.FormatInt(e.OrderID, 10)
	}
	return "driver-" + strconv.FormatInt(e.DriverID, 10)
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
	Close() error
}

type nop struct{}

func NewNop() Notifier { return nop{} }

func (nop) Notify(context.Context, Event) error { return nil }
func (nop) Close() error                        { return nil }

type multi []Notifier

// NewMulti fans every event out to all notifiers. Nil entries are skipped and
// a single notifier is returned as is.
func NewMulti(notifiers ...Notifier) Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	switch len(m) {
	case 0:
		return nop{}
	case 1:
		return m[0]
	}
	return m
}

func (m multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
