package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
)

type Sink struct {
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Register_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	sink := Sink{}

	// Given no connection is live
	req.Zero(registry.Count())

	// When a connection registers
	registry.Register(participantID, sink)

	// Then it is known with no attribute yet
	req.True(registry.Known(participantID))
	resolved, ok := registry.Sink(participantID)
	req.True(ok)
	req.Equal(sink, resolved)
	_, declared := registry.Attribute(participantID)
	req.False(declared)
	req.Equal(1, registry.Count())
}

func TestRegistry_SetAttribute_Can_Be_Redeclared(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	registry.Register(participantID, Sink{})

	// When the attribute is declared, then re-declared
	registry.SetAttribute(participantID, domain.AttributeMale)
	registry.SetAttribute(participantID, domain.AttributeFemale)

	// Then the latest declaration wins
	value, ok := registry.Attribute(participantID)
	req.True(ok)
	req.Equal(domain.AttributeFemale, value)
}

func TestRegistry_SetAttribute_Unknown_Id_Is_NoOp(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()

	// When an attribute arrives for a never-registered id
	registry.SetAttribute(participantID, domain.AttributeMale)

	// Then nothing is stored
	_, ok := registry.Attribute(participantID)
	req.False(ok)
}

func TestRegistry_Unregister_Retires_The_Id(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	registry.Register(participantID, Sink{})
	registry.SetAttribute(participantID, domain.AttributeMale)

	// When the connection unregisters
	registry.Unregister(participantID)

	// Then the id and its attribute are gone
	req.False(registry.Known(participantID))
	_, ok := registry.Attribute(participantID)
	req.False(ok)
	req.Zero(registry.Count())

	// And a second unregister is a silent no-op
	registry.Unregister(participantID)
}
