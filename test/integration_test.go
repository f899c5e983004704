package test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
	"github.com/eBu1171/winona-chat/mocks"
	"github.com/eBu1171/winona-chat/observability"
	"github.com/eBu1171/winona-chat/runtime"
	"github.com/eBu1171/winona-chat/runtime/workers"
	"github.com/eBu1171/winona-chat/services"
	"github.com/eBu1171/winona-chat/sink"
)

// chanSink is a per-connection sink backed by a buffered channel,
// standing in for a live transport.
type chanSink struct {
	ch chan event.DomainEvent
}

func newChanSink() chanSink {
	return chanSink{ch: make(chan event.DomainEvent, 16)}
}

func (s chanSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.ch <- e
	return nil
}

func await(t *testing.T, s chanSink) event.DomainEvent {
	t.Helper()
	select {
	case evt := <-s.ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered in time")
		return nil
	}
}

func Test_Scenario_Match_Relay_Disconnect(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Full wiring: supervisor, engine, observability, permanent sinks
	supervisor := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	engine := runtime.NewEngine(log, supervisor, registry, domain.DefaultComplement(), 64)
	monitoring := observability.NewMonitor(log, engine.Stats)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	permanentSink := mocks.NewMockEventSink(ctrl)
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	engine.AddSinks(sink.NewMetricsSink(monitoring), permanentSink)
	engine.Start(ctx)
	defer engine.Stop()

	chatService := services.NewChatService(engine)

	// 2. Two connections declare complementary attributes
	a := uuid.NewString()
	b := uuid.NewString()
	sinkA := newChanSink()
	sinkB := newChanSink()
	chatService.Connect(a, sinkA)
	chatService.Connect(b, sinkB)

	chatService.Dispatch(ctx, domain.SetAttributeCommand{Sender: a, Value: domain.AttributeMale})
	req.Equal(event.Waiting{}, await(t, sinkA))

	chatService.Dispatch(ctx, domain.SetAttributeCommand{Sender: b, Value: domain.AttributeFemale})
	req.Equal(event.Matched{PartnerID: b}, await(t, sinkA))
	req.Equal(event.Matched{PartnerID: a}, await(t, sinkB))

	stats := chatService.Stats()
	req.Equal(2, stats.Online)
	req.Equal(1, stats.ActiveSessions)

	// 3. Messages flow one way only, in order
	chatService.Dispatch(ctx, domain.SendMessageCommand{Sender: a, Content: "hello"})
	chatService.Dispatch(ctx, domain.SendMessageCommand{Sender: a, Content: "anyone there?"})

	first := await(t, sinkB).(event.MessageReceived)
	req.Equal(a, first.Sender)
	req.Equal("hello", first.Content)
	second := await(t, sinkB).(event.MessageReceived)
	req.Equal("anyone there?", second.Content)
	req.Empty(sinkA.ch)

	// 4. Typing reaches the partner
	chatService.Dispatch(ctx, domain.TypingCommand{Sender: b, IsTyping: true})
	req.Equal(event.TypingChanged{Sender: b, IsTyping: true}, await(t, sinkA))

	// 5. Transport drop retires b and tells a
	chatService.Dispatch(ctx, domain.DisconnectCommand{Sender: b})
	req.Equal(event.ChatEnded{Reason: event.ReasonPartnerDisconnected}, await(t, sinkA))

	stats = chatService.Stats()
	req.Equal(1, stats.Online)
	req.Zero(stats.ActiveSessions)
}

func Test_Scenario_FindNewChat_Rotates_Partners(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supervisor := workers.NewSupervisor(log)
	engine := runtime.NewEngine(log, supervisor, runtime.NewRegistry(),
		domain.DefaultComplement(), 64)
	engine.Start(ctx)
	defer engine.Stop()
	chatService := services.NewChatService(engine)

	// Given a and b chatting and c waiting as female
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	sinkA, sinkB, sinkC := newChanSink(), newChanSink(), newChanSink()
	chatService.Connect(a, sinkA)
	chatService.Connect(b, sinkB)
	chatService.Connect(c, sinkC)

	chatService.Dispatch(ctx, domain.SetAttributeCommand{Sender: a, Value: domain.AttributeMale})
	req.Equal(event.Waiting{}, await(t, sinkA))
	chatService.Dispatch(ctx, domain.SetAttributeCommand{Sender: b, Value: domain.AttributeFemale})
	req.Equal(event.Matched{PartnerID: b}, await(t, sinkA))
	req.Equal(event.Matched{PartnerID: a}, await(t, sinkB))
	chatService.Dispatch(ctx, domain.SetAttributeCommand{Sender: c, Value: domain.AttributeFemale})
	req.Equal(event.Waiting{}, await(t, sinkC))

	// When a rotates
	chatService.Dispatch(ctx, domain.FindNewChatCommand{Sender: a})

	// Then b is told the chat ended and a is paired with c
	req.Equal(event.ChatEnded{Reason: event.ReasonPartnerEnded}, await(t, sinkB))
	req.Equal(event.Matched{PartnerID: c}, await(t, sinkA))
	req.Equal(event.Matched{PartnerID: a}, await(t, sinkC))

	stats := chatService.Stats()
	req.Equal(1, stats.ActiveSessions)
	req.Zero(stats.Waiting[domain.AttributeFemale])
}
