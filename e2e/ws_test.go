package e2e

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/infrastructure/ws"
	"github.com/eBu1171/winona-chat/observability"
	"github.com/eBu1171/winona-chat/projection"
	"github.com/eBu1171/winona-chat/runtime"
	"github.com/eBu1171/winona-chat/runtime/workers"
	"github.com/eBu1171/winona-chat/services"
	"github.com/eBu1171/winona-chat/sink"
)

type frame map[string]any

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.Default()

	supervisor := workers.NewSupervisor(log)
	engine := runtime.NewEngine(log, supervisor, runtime.NewRegistry(),
		domain.DefaultComplement(), 64)
	monitoring := observability.NewMonitor(log, engine.Stats)
	timeline := projection.NewTimeline()
	engine.AddSinks(sink.NewMetricsSink(monitoring), timeline)

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)

	server := ws.NewServer(log, services.NewChatService(engine), monitoring, timeline, 32)
	testServer := httptest.NewServer(server.Routes())

	t.Cleanup(func() {
		testServer.Close()
		cancel()
		engine.Stop()
	})
	return testServer
}

func dial(t *testing.T, testServer *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestEndToEnd_Match_Message_Disconnect(t *testing.T) {
	req := require.New(t)
	testServer := startServer(t)

	// Given a declares male and waits
	connA := dial(t, testServer)
	send(t, connA, `{"type":"setAttribute","value":"male"}`)
	req.Equal("waiting", read(t, connA)["type"])

	// When b declares female
	connB := dial(t, testServer)
	send(t, connB, `{"type":"setAttribute","value":"female"}`)

	// Then both sides get matched with the other's id
	matchedA := read(t, connA)
	matchedB := read(t, connB)
	req.Equal("matched", matchedA["type"])
	req.Equal("matched", matchedB["type"])
	req.NotEmpty(matchedA["partnerId"])
	req.NotEmpty(matchedB["partnerId"])
	req.NotEqual(matchedA["partnerId"], matchedB["partnerId"])

	// And a's message reaches b with sender and timestamp
	send(t, connA, `{"type":"sendMessage","text":"hi"}`)
	message := read(t, connB)
	req.Equal("message", message["type"])
	req.Equal("hi", message["text"])
	req.Equal(matchedB["partnerId"], message["sender"])
	_, err := time.Parse(time.RFC3339Nano, message["timestamp"].(string))
	req.NoError(err)

	// And typing state is forwarded
	send(t, connB, `{"type":"typing","isTyping":true}`)
	typing := read(t, connA)
	req.Equal("typing", typing["type"])
	req.Equal(true, typing["isTyping"])

	// When b drops the transport
	req.NoError(connB.Close())

	// Then a is told the partner disconnected
	ended := read(t, connA)
	req.Equal("chatEnded", ended["type"])
	req.Equal("partner-disconnected", ended["reason"])
}

func TestEndToEnd_Stats_Reflect_State(t *testing.T) {
	req := require.New(t)
	testServer := startServer(t)

	connA := dial(t, testServer)
	send(t, connA, `{"type":"setAttribute","value":"male"}`)
	req.Equal("waiting", read(t, connA)["type"])

	// Stats show one online connection waiting as male
	req.Eventually(func() bool {
		resp, err := http.Get(testServer.URL + "/stats")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var snapshot struct {
			Online  int            `json:"online"`
			Waiting map[string]int `json:"waiting"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			return false
		}
		return snapshot.Online == 1 && snapshot.Waiting["male"] == 1
	}, 2*time.Second, 50*time.Millisecond)

	// After the waiting connection drops, the bucket empties
	req.NoError(connA.Close())
	req.Eventually(func() bool {
		resp, err := http.Get(testServer.URL + "/stats")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var snapshot struct {
			Online  int            `json:"online"`
			Waiting map[string]int `json:"waiting"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			return false
		}
		return snapshot.Online == 0 && snapshot.Waiting["male"] == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestEndToEnd_FindNewChat_Requeues(t *testing.T) {
	req := require.New(t)
	testServer := startServer(t)

	connA := dial(t, testServer)
	send(t, connA, `{"type":"setAttribute","value":"male"}`)
	req.Equal("waiting", read(t, connA)["type"])

	connB := dial(t, testServer)
	send(t, connB, `{"type":"setAttribute","value":"female"}`)
	req.Equal("matched", read(t, connA)["type"])
	req.Equal("matched", read(t, connB)["type"])

	// When a rotates with nobody else around
	send(t, connA, `{"type":"findNewChat"}`)

	// Then b learns the chat ended and a waits again
	ended := read(t, connB)
	req.Equal("chatEnded", ended["type"])
	req.Equal("partner-ended", ended["reason"])
	req.Equal("waiting", read(t, connA)["type"])
}
