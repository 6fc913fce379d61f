package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Telegram struct {
	bot  sender
	chat tele.ChatID
}

// NewTelegram builds an offline bot that only sends; it never polls updates.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: b, chat: tele.ChatID(chatID)}, nil
}

func (t *Telegram) Notify(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(t.chat, FormatText(e)); err != nil {
		return fmt.Errorf("telegram send %s: %w", e.Type, err)
	}
	return nil
}

func (t *Telegram) Close() error { return nil }

// FormatText renders an event as a short admin chat message.
func FormatText(e Event) string {
	var b strings.Builder
	switch e.Type {
	case DriverRegistered:
		fmt.Fprintf(&b, "🚚 New driver application #%d", e.DriverID)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
		if e.VehicleType != "" {
			fmt.Fprintf(&b, "\nVehicle: %s", e.VehicleType)
		}
	case OrderCreated:
		fmt.Fprintf(&b, "📦 New order #%d", e.OrderID)
		if e.VehicleType != "" {
			fmt.Fprintf(&b, "\nVehicle: %s", e.VehicleType)
		}
	case OrderAccepted:
		fmt.Fprintf(&b, "✅ Order #%d accepted by driver #%d", e.OrderID, e.DriverID)
	case OrderStatusChanged:
		fmt.Fprintf(&b, "🔄 Order #%d is now %s", e.OrderID, e.Status)
	case OrderCancelled:
		fmt.Fprintf(&b, "❌ Order #%d cancelled", e.OrderID)
	case OrderPaid:
		fmt.Fprintf(&b, "💰 Order #%d paid", e.OrderID)
	default:
		b.WriteString(e.Type)
	}
	if e.Price != nil {
		fmt.Fprintf(&b, "\nPrice: %s", e.Price.StringFixed(2))
	}
	if !e.At.IsZero() {
		fmt.Fprintf(&b, "\n%s", e.At.Format(time.DateTime))
	}
	return b.String()
}
