// Package projection builds local views from observed events.
// Handles ordering and bounded retention.
// Does not emit events or interact with transport directly.
package projection

import (
	"context"
	"sync"
	"time"

	"github.com/eBu1171/winona-chat/domain/event"
)

const defaultCapacity = 50

// Entry is one observed activity item. Participant ids are opaque, so the
// timeline exposes nothing an operator could tie to a person.
type Entry struct {
	Kind   string    `json:"kind"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Timeline keeps a bounded ring of recent relay activity, newest first.
// State is process-lifetime only, like everything else in the system.
type Timeline struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

func NewTimeline() *Timeline {
	return &Timeline{capacity: defaultCapacity}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.Matched:
		t.append(Entry{Kind: "matched", At: time.Now().UTC()})
	case event.MessageReceived:
		t.append(Entry{Kind: "message", At: evt.At})
	case event.ChatEnded:
		t.append(Entry{Kind: "chatEnded", Detail: string(evt.Reason), At: time.Now().UTC()})
	}
	return nil
}

// Recent returns a copy of the retained entries, newest first.
func (t *Timeline) Recent() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Timeline) append(entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append([]Entry{entry}, t.entries...)
	if len(t.entries) > t.capacity {
		t.entries = t.entries[:t.capacity]
	}
}
