package notify

import (
	"context"

	corelogger "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/logger"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/internal/eventbus"
)

// Forward drains ops events from the bus into the publisher until the
// context is cancelled or the bus closes. Non-event bus traffic is ignored.
// Publish failures are logged and dropped; the event log remains the source
// of truth and external consumers reconcile from it.
func Forward(ctx context.Context, bus *eventbus.Bus[any], pub Publisher, log corelogger.Logger) {
	if log == nil {
		log = corelogger.NopLogger{}
	}
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			ev, ok := e.(opslog.Event)
			if !ok {
				continue
			}
			if err := pub.PublishEvent(ev); err != nil {
				log.Warnf("ops event %s for quote %s not delivered: %v", ev.Type, ev.QuoteID, err)
			}
		}
	}
}
