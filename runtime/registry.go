// Package runtime owns all mutable engine state: the connection registry,
// the wait queue, the session table, and the router that coordinates them.
// It contains no transport or UI logic.
package runtime

import (
	"sync"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain"
)

// Registry tracks all currently live connections, their outbound sink and
// their declared attribute. Identity and attribute storage is decoupled
// from the transport object's lifetime on purpose: the engine only ever
// sees opaque connection ids.
type Registry struct {
	mu         sync.RWMutex
	sinks      map[string]contract.EventSink
	attributes map[string]domain.Attribute
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:      make(map[string]contract.EventSink),
		attributes: make(map[string]domain.Attribute),
	}
}

// Register adds a new live connection with no attribute yet.
func (r *Registry) Register(id string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[id] = sink
}

// SetAttribute records the declared attribute for id. Re-declaring is
// allowed at any time; unknown ids are a silent no-op.
func (r *Registry) SetAttribute(id string, value domain.Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[id]; !ok {
		return
	}
	r.attributes[id] = value
}

// Attribute returns the declared attribute for id, if any.
func (r *Registry) Attribute(id string) (domain.Attribute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.attributes[id]
	return value, ok
}

// Sink resolves the outbound channel for id.
// The boolean is false for retired or never-registered ids.
func (r *Registry) Sink(id string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[id]
	return sink, ok
}

// Known reports whether id is a live connection.
func (r *Registry) Known(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sinks[id]
	return ok
}

// Unregister removes the connection. Disconnect-after-cleanup races make
// double unregistration normal, so an unknown id is a silent no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, id)
	delete(r.attributes, id)
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
