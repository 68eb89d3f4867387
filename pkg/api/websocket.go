// pkg/api/websocket.go
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/net/netutil"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/engine"
	"github.com/Parhamfakhar1/natiq/internal/monitoring"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketServer - گفت‌وگوی زنده: هر پیام متنی یک پرسش است
type WebSocketServer struct {
	config   Config
	engine   *engine.Engine
	metrics  *monitoring.Metrics
	upgrader websocket.Upgrader
	server   *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWebSocketServer(config Config, deps Dependencies) (*WebSocketServer, error) {
	if deps.Engine == nil {
		return nil, errors.New("api: engine is required")
	}

	ws := &WebSocketServer{
		config:  config,
		engine:  deps.Engine,
		metrics: deps.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	ws.server = &http.Server{
		Handler:           ws.Handler(),
		ReadHeaderTimeout: config.ReadTimeout,
	}
	return ws, nil
}

func (ws *WebSocketServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.handleWS)
	return mux
}

// Start listens on addr with at most MaxWebSocketConns open connections.
func (ws *WebSocketServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ws.config.MaxWebSocketConns > 0 {
		ln = netutil.LimitListener(ln, ws.config.MaxWebSocketConns)
	}
	log.Info().Str("addr", addr).Int("max_conns", ws.config.MaxWebSocketConns).Msg("🔌 WebSocket server listening")

	if err := ws.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting upgrades and closes live connections.
func (ws *WebSocketServer) Shutdown(ctx context.Context) error {
	err := ws.server.Shutdown(ctx)

	ws.mu.Lock()
	for conn := range ws.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
	}
	ws.mu.Unlock()

	return err
}

// Connections returns the number of open connections.
func (ws *WebSocketServer) Connections() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.conns)
}

func (ws *WebSocketServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket upgrade failed")
		return
	}

	ws.track(conn)
	defer ws.untrack(conn)

	if ws.config.MaxMessageBytes > 0 {
		conn.SetReadLimit(ws.config.MaxMessageBytes)
	}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go ws.keepAlive(conn, done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		question, c := parseMessage(data)
		if ws.config.MaxQuestionRunes > 0 {
			question = utils.Truncate(question, ws.config.MaxQuestionRunes)
		}
		answer := ws.engine.Answer(r.Context(), question, c)

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(answer); err != nil {
			log.Debug().Err(err).Msg("WebSocket write failed")
			return
		}
	}
}

func (ws *WebSocketServer) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// WriteControl با نوشتن هم‌زمان امن است
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (ws *WebSocketServer) track(conn *websocket.Conn) {
	ws.mu.Lock()
	ws.conns[conn] = struct{}{}
	ws.mu.Unlock()
	if ws.metrics != nil {
		ws.metrics.ConnectionOpened()
	}
}

func (ws *WebSocketServer) untrack(conn *websocket.Conn) {
	ws.mu.Lock()
	delete(ws.conns, conn)
	ws.mu.Unlock()
	conn.Close()
	if ws.metrics != nil {
		ws.metrics.ConnectionClosed()
	}
}

// parseMessage accepts either the /api/ask JSON body or plain text.
func parseMessage(data []byte) (string, core.Context) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		return gjson.Get(trimmed, "question").String(), core.Context{
			Style:  gjson.Get(trimmed, "context.style").String(),
			UserID: gjson.Get(trimmed, "context.user_id").String(),
		}
	}
	return string(data), core.Context{}
}
