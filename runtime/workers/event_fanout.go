package workers

import (
	"context"
	"log/slog"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain/event"
)

// EventFanout broadcasts a copy of emitted domain events to the permanent
// in-process consumers (metrics, timeline).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
//
// It is intended for observability and side effects, not for routing
// between participants: addressed delivery happens in the engine.
type EventFanout struct {
	log    *slog.Logger
	sinks  []contract.EventSink
	events chan event.DomainEvent
}

func NewEventFanout(log *slog.Logger, sinks []contract.EventSink, events chan event.DomainEvent) *EventFanout {
	return &EventFanout{log: log, sinks: sinks, events: events}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Debug("permanent sink rejected event",
				"event", evt.EventName(), "error", err)
		}
	}
}
