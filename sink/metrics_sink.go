// Package sink holds permanent in-process event consumers fed by the
// fanout worker.
package sink

import (
	"context"

	"github.com/eBu1171/winona-chat/domain/event"
	"github.com/eBu1171/winona-chat/observability"
)

// MetricsSink counts relay activity into the Monitor.
type MetricsSink struct {
	monitoring *observability.Monitor
}

func NewMetricsSink(monitoring *observability.Monitor) *MetricsSink {
	return &MetricsSink{monitoring: monitoring}
}

func (s *MetricsSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch e.(type) {
	case event.Matched:
		// Matched is delivered once per member; the monitor halves this.
		s.monitoring.IncrMatches()
	case event.MessageReceived:
		s.monitoring.IncrMessages()
	case event.ChatEnded:
		s.monitoring.IncrChatsEnded()
	}
	return nil
}
