// Package observability aggregates engine statistics with relay counters
// and process-level metrics for the /stats surface and periodic reporting.
package observability

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"

	"github.com/eBu1171/winona-chat/domain"
)

// Snapshot is one observation of the whole system: the engine's aggregate
// query plus process-lifetime relay counters and self metrics.
type Snapshot struct {
	domain.Stats
	MatchesMade     uint64  `json:"matchesMade"`
	MessagesRelayed uint64  `json:"messagesRelayed"`
	ChatsEnded      uint64  `json:"chatsEnded"`
	RSSBytes        uint64  `json:"rssBytes"`
	CPUPercent      float64 `json:"cpuPercent"`
}

// Monitor collects relay counters and resolves snapshots on demand.
// Counters are atomic; incrementing is safe from any goroutine.
type Monitor struct {
	log   *slog.Logger
	stats func() domain.Stats
	proc  *process.Process

	matchesMade     atomic.Uint64
	messagesRelayed atomic.Uint64
	chatsEnded      atomic.Uint64
}

// NewMonitor wires the monitor to the engine's stats query. Process metrics
// are optional: when self-inspection fails they stay zero in snapshots.
func NewMonitor(log *slog.Logger, stats func() domain.Stats) *Monitor {
	m := &Monitor{log: log, stats: stats}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("process self-inspection unavailable", "error", err)
		return m
	}
	m.proc = proc
	return m
}

func (m *Monitor) IncrMatches() { m.matchesMade.Add(1) }

func (m *Monitor) IncrMessages() { m.messagesRelayed.Add(1) }

func (m *Monitor) IncrChatsEnded() { m.chatsEnded.Add(1) }

// GetLatest resolves a fresh snapshot from the engine and the OS.
func (m *Monitor) GetLatest() Snapshot {
	snapshot := Snapshot{
		Stats: m.stats(),
		// Matched is delivered to both members of a pair.
		MatchesMade:     m.matchesMade.Load() / 2,
		MessagesRelayed: m.messagesRelayed.Load(),
		ChatsEnded:      m.chatsEnded.Load(),
	}
	if snapshot.Waiting == nil {
		snapshot.Waiting = map[domain.Attribute]int{}
	}

	if m.proc != nil {
		if memInfo, err := m.proc.MemoryInfo(); err == nil {
			snapshot.RSSBytes = memInfo.RSS
		}
		if cpuPercent, err := m.proc.CPUPercent(); err == nil {
			snapshot.CPUPercent = cpuPercent
		}
	}
	return snapshot
}
