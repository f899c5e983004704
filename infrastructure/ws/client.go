package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client owns one WebSocket connection. The read pump decodes frames into
// commands and dispatches them; the write pump drains the sink channel back
// to the wire. It implements contract.EventSink so the engine can address
// this connection without knowing anything about WebSockets.
type Client struct {
	id      string
	log     *slog.Logger
	conn    *websocket.Conn
	service contract.IChatService
	events  chan event.DomainEvent

	disconnectOnce sync.Once
}

func NewClient(log *slog.Logger, id string, conn *websocket.Conn,
	service contract.IChatService, bufferSize int) *Client {
	return &Client{
		id:      id,
		log:     log,
		conn:    conn,
		service: service,
		events:  make(chan event.DomainEvent, bufferSize),
	}
}

func (c *Client) ID() string { return c.id }

// Consume is called by the engine. Delivery is fire-and-forget: when the
// buffer is full the event is discarded rather than blocking the router.
func (c *Client) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case c.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		c.log.Debug("connection buffer full, event discarded",
			"participant", c.id, "event", e.EventName())
		return nil
	}
}

// ReadPump blocks until the connection dies, then retires the id.
// Malformed frames are dropped silently; the protocol has no error events.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.retire(ctx)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("connection closed unexpectedly", "participant", c.id, "error", err)
			}
			return
		}

		cmd, err := DecodeCommand(c.id, data)
		if err != nil {
			c.log.Debug("frame dropped", "participant", c.id, "error", err)
			continue
		}
		c.service.Dispatch(ctx, cmd)
	}
}

// WritePump serializes outbound events and keeps the connection alive
// with pings. It exits when the sink is abandoned or the write side fails.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		case evt := <-c.events:
			data, err := EncodeEvent(evt)
			if err != nil {
				c.log.Error("event not encodable", "participant", c.id, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// retire dispatches the transport-triggered disconnect exactly once,
// however many pump paths unwind.
func (c *Client) retire(ctx context.Context) {
	c.disconnectOnce.Do(func() {
		c.service.Dispatch(ctx, domain.DisconnectCommand{Sender: c.id})
	})
}
