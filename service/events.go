package service

import (
	"context"
	"sync"
	"time"

	"eazymove/pkg/logger"
	"eazymove/pkg/metrics"
	"eazymove/pkg/notify"
)

const notifyTimeout = 5 * time.Second

// publisher sends lifecycle events after the change is committed. Delivery
// runs in the background and failures are only logged.
type publisher struct {
	n   notify.Notifier
	log logger.ILogger
	now func() time.Time
	wg  sync.WaitGroup
}

func newPublisher(n notify.Notifier, log logger.ILogger, now func() time.Time) *publisher {
	if n == nil {
		n = notify.NewNop()
	}
	return &publisher{n: n, log: log, now: now}
}

func (p *publisher) publish(ctx context.Context, e notify.Event) {
	if e.At.IsZero() {
		e.At = p.now()
	}
	metrics.RecordOrderEvent(e.Type)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		if err := p.n.Notify(ctx, e); err != nil {
			p.log.Warning("failed to deliver event",
				logger.String("event", e.Type),
				logger.String("key", e.Key()),
				logger.Error(err),
			)
		}
	}()
}

func (p *publisher) wait() {
	p.wg.Wait()
}
