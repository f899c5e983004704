package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/observability"
	"github.com/eBu1171/winona-chat/projection"
)

// Server exposes the WebSocket endpoint and the polling surfaces.
type Server struct {
	log        *slog.Logger
	service    contract.IChatService
	monitoring *observability.Monitor
	timeline   *projection.Timeline
	upgrader   websocket.Upgrader
	bufferSize int
}

func NewServer(log *slog.Logger, service contract.IChatService,
	monitoring *observability.Monitor, timeline *projection.Timeline,
	connectionBufferSize int) *Server {
	return &Server{
		log:        log,
		service:    service,
		monitoring: monitoring,
		timeline:   timeline,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is deployment configuration, handled upstream.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		bufferSize: connectionBufferSize,
	}
}

// Routes builds the HTTP surface: the connection upgrade plus read-only
// polling endpoints.
func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ws", s.handleConnection)
	router.GET("/stats", s.handleStats)
	router.GET("/timeline", s.handleTimeline)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// handleConnection upgrades the request, assigns the opaque connection id,
// registers the sink, and runs the pumps. The id exists only for the
// lifetime of this connection and is never reused afterward.
func (s *Server) handleConnection(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", c.Request.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	client := NewClient(s.log, id, conn, s.service, s.bufferSize)
	s.service.Connect(id, client)

	ctx := c.Request.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitoring.GetLatest())
}

type timelineItem struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
	At     string `json:"at"`
}

func (s *Server) handleTimeline(c *gin.Context) {
	items := lo.Map(s.timeline.Recent(), func(item projection.Entry, _ int) timelineItem {
		return timelineItem{
			Kind:   item.Kind,
			Detail: item.Detail,
			At:     item.At.Format(time.RFC3339Nano),
		}
	})
	c.JSON(http.StatusOK, items)
}
