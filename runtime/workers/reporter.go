package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/eBu1171/winona-chat/observability"
)

// ReporterWorker periodically logs a metrics snapshot until context
// cancellation. It is purely observational; nothing reads its output.
type ReporterWorker struct {
	log        *slog.Logger
	monitoring *observability.Monitor
	interval   time.Duration
}

func NewReporterWorker(log *slog.Logger, monitoring *observability.Monitor, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			w.log.Info("Reporter stopped")
			return ctx.Err()
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	stats := w.monitoring.GetLatest()
	w.log.Info("engine snapshot",
		"online", stats.Online,
		"waiting", stats.Waiting,
		"active_sessions", stats.ActiveSessions,
		"matches_made", stats.MatchesMade,
		"messages_relayed", stats.MessagesRelayed,
		"chats_ended", stats.ChatsEnded,
		"rss_mb", stats.RSSBytes>>20,
		"cpu_percent", stats.CPUPercent,
	)
}
