package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
	"github.com/eBu1171/winona-chat/runtime/workers"
)

// Engine is the event router and the single owner of all shared state:
// registry, wait queue and session table. It is constructed once per
// process and passed by handle to the transport layer; there are no
// ambient globals, so tests can run independent instances side by side.
//
// Inbound commands go through Dispatch into a buffered channel drained by
// one supervised router worker, which preserves per-connection ordering.
// The mutex makes every compound mutation (queue pop + session install,
// dual-key session delete) a single critical section and lets Stats be
// read from transport goroutines. State is always mutated before any
// event is emitted, so a failed delivery never leaves the table torn.
type Engine struct {
	mu         sync.Mutex
	log        *slog.Logger
	registry   *Registry
	queue      *WaitQueue
	sessions   *SessionTable
	matcher    *Matcher
	supervisor contract.ISupervisor
	commands   chan domain.Command
	telemetry  chan event.DomainEvent
	sinks      []contract.EventSink
}

func NewEngine(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	complement domain.Complement, bufferSize int) *Engine {
	queue := NewWaitQueue()
	sessions := NewSessionTable()
	return &Engine{
		log:        log,
		registry:   registry,
		queue:      queue,
		sessions:   sessions,
		matcher:    NewMatcher(log, queue, sessions, complement),
		supervisor: supervisor,
		commands:   make(chan domain.Command, bufferSize),
		telemetry:  make(chan event.DomainEvent, bufferSize),
	}
}

// AddSinks registers permanent observers (metrics, timeline) that receive
// a best-effort copy of every emitted event via the fanout worker.
func (e *Engine) AddSinks(sinks ...contract.EventSink) {
	e.sinks = append(e.sinks, sinks...)
}

// Connect registers a new live connection and its outbound sink.
func (e *Engine) Connect(id string, sink contract.EventSink) {
	e.registry.Register(id, sink)
	e.log.Info("connection registered", "participant", id)
}

// Dispatch queues an inbound command for the router worker. It blocks when
// the buffer is full rather than dropping: commands from one connection
// are delivered exactly once, in order.
func (e *Engine) Dispatch(ctx context.Context, cmd domain.Command) {
	select {
	case e.commands <- cmd:
	case <-ctx.Done():
		e.log.Warn("command dropped, dispatch context canceled",
			"participant", cmd.SenderID())
	}
}

// Start registers the router and fanout workers with the supervisor and
// launches supervision. It returns immediately; Stop tears everything down.
func (e *Engine) Start(ctx context.Context) {
	e.supervisor.Add(
		workers.NewRouterWorker(e.log, e, e.commands),
		workers.NewEventFanout(e.log, e.sinks, e.telemetry),
	)
	go e.supervisor.Run(ctx)
}

// Stop cancels all supervised workers.
func (e *Engine) Stop() {
	e.log.Info("requesting engine shutdown")
	e.supervisor.Stop()
}

// Handle routes one inbound command. It is the contract.Router
// implementation consumed by the router worker; calling it directly from
// tests keeps scenarios synchronous.
func (e *Engine) Handle(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.SetAttributeCommand:
		e.handleSetAttribute(ctx, c)
	case domain.SendMessageCommand:
		e.handleSendMessage(ctx, c)
	case domain.TypingCommand:
		e.handleTyping(ctx, c)
	case domain.EndChatCommand:
		e.handleEndChat(ctx, c)
	case domain.FindNewChatCommand:
		e.handleFindNewChat(ctx, c)
	case domain.DisconnectCommand:
		e.handleDisconnect(ctx, c)
	default:
		e.log.Warn("unknown command variant ignored", "participant", cmd.SenderID())
	}
}

// Stats computes the read-only aggregate snapshot, no side effects.
func (e *Engine) Stats() domain.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Stats{
		Online:         e.registry.Count(),
		Waiting:        e.queue.Counts(),
		ActiveSessions: e.sessions.Count(),
	}
}

func (e *Engine) handleSetAttribute(ctx context.Context, c domain.SetAttributeCommand) {
	e.mu.Lock()
	if !e.registry.Known(c.Sender) {
		e.mu.Unlock()
		return
	}
	e.registry.SetAttribute(c.Sender, c.Value)

	// Tear down any current session before matching again, so no id is
	// ever observable in both the queue and the table.
	partner, hadSession := e.sessions.RemovePair(c.Sender)
	result := e.matcher.TryMatch(c.Sender, c.Value)
	e.mu.Unlock()

	if hadSession {
		e.emit(ctx, partner, event.ChatEnded{Reason: event.ReasonPartnerEnded})
	}
	e.emitMatchResult(ctx, c.Sender, result)
}

func (e *Engine) handleSendMessage(ctx context.Context, c domain.SendMessageCommand) {
	if strings.TrimSpace(c.Content) == "" {
		return
	}

	e.mu.Lock()
	session, ok := e.sessions.Lookup(c.Sender)
	e.mu.Unlock()
	if !ok {
		return
	}

	partner, _ := session.PartnerOf(c.Sender)
	e.emit(ctx, partner, event.MessageReceived{
		Sender:  c.Sender,
		Content: c.Content,
		At:      time.Now().UTC(),
	})
}

func (e *Engine) handleTyping(ctx context.Context, c domain.TypingCommand) {
	e.mu.Lock()
	session, ok := e.sessions.Lookup(c.Sender)
	e.mu.Unlock()
	if !ok {
		return
	}

	partner, _ := session.PartnerOf(c.Sender)
	e.emit(ctx, partner, event.TypingChanged{Sender: c.Sender, IsTyping: c.IsTyping})
}

func (e *Engine) handleEndChat(ctx context.Context, c domain.EndChatCommand) {
	e.mu.Lock()
	partner, ok := e.sessions.RemovePair(c.Sender)
	e.mu.Unlock()
	if !ok {
		return
	}
	// The triggering side transitions locally; only the partner is told.
	e.emit(ctx, partner, event.ChatEnded{Reason: event.ReasonPartnerEnded})
}

func (e *Engine) handleFindNewChat(ctx context.Context, c domain.FindNewChatCommand) {
	e.mu.Lock()
	partner, hadSession := e.sessions.RemovePair(c.Sender)
	value, declared := e.registry.Attribute(c.Sender)
	var result MatchResult
	if declared {
		result = e.matcher.TryMatch(c.Sender, value)
	}
	e.mu.Unlock()

	if hadSession {
		e.emit(ctx, partner, event.ChatEnded{Reason: event.ReasonPartnerEnded})
	}
	if declared {
		e.emitMatchResult(ctx, c.Sender, result)
	}
}

func (e *Engine) handleDisconnect(ctx context.Context, c domain.DisconnectCommand) {
	e.mu.Lock()
	e.queue.Remove(c.Sender)
	partner, hadSession := e.sessions.RemovePair(c.Sender)
	e.registry.Unregister(c.Sender)
	e.mu.Unlock()

	if hadSession {
		e.emit(ctx, partner, event.ChatEnded{Reason: event.ReasonPartnerDisconnected})
	}
	e.log.Info("connection retired", "participant", c.Sender)
}

func (e *Engine) emitMatchResult(ctx context.Context, id string, result MatchResult) {
	switch {
	case result.Session != nil:
		// Both members must be informed, order-independent.
		e.emit(ctx, id, event.Matched{PartnerID: result.PartnerID})
		e.emit(ctx, result.PartnerID, event.Matched{PartnerID: id})
	case result.Queued:
		e.emit(ctx, id, event.Waiting{})
	}
}

// emit delivers evt to the participant's sink, fire-and-forget, and
// publishes a best-effort copy for the permanent sinks. A delivery to a
// retired id is simply discarded.
func (e *Engine) emit(ctx context.Context, id string, evt event.DomainEvent) {
	if sink, ok := e.registry.Sink(id); ok {
		if err := sink.Consume(ctx, evt); err != nil {
			e.log.Debug("sink rejected event",
				"participant", id, "event", evt.EventName(), "error", err)
		}
	}

	select {
	case e.telemetry <- evt:
	default:
		e.log.Debug("telemetry event lost", "event", evt.EventName())
	}
}
