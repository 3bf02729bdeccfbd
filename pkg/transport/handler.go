package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/dmitrymomot/wavesync/pkg/fanout"
	"github.com/dmitrymomot/wavesync/pkg/logger"
)

// Server is the synchronization server as seen by the transport.
type Server interface {
	Connect(conn fanout.Conn) error
	HandleMessage(ctx context.Context, connID string, payload []byte) error
	Disconnect(ctx context.Context, connID string) error
}

// Handler upgrades HTTP requests to websocket connections of a Server.
type Handler struct {
	srv      Server
	upgrader websocket.Upgrader
	log      *slog.Logger
	newID    func() string

	sendBuffer     int
	idleTimeout    time.Duration
	writeTimeout   time.Duration
	readLimit      int64
	allowedOrigins []string
}

// New creates a websocket handler for srv.
func New(srv Server, opts ...Option) *Handler {
	h := &Handler{
		srv:          srv,
		log:          logger.Discard(),
		newID:        func() string { return ulid.Make().String() },
		sendBuffer:   64,
		writeTimeout: 10 * time.Second,
		readLimit:    1 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ServeHTTP runs one connection until the peer goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.DebugContext(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer ws.Close()

	c := newConn(h.newID(), ws, h.sendBuffer)
	ctx := logger.WithConnectionID(context.WithoutCancel(r.Context()), c.id)

	if err := h.srv.Connect(c); err != nil {
		h.log.WarnContext(ctx, "connection rejected", logger.Error(err))
		c.close()
		_ = c.writeLoop(h.writeTimeout, 0)
		return
	}
	h.log.DebugContext(ctx, "connection opened", slog.String("remote_addr", r.RemoteAddr))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := c.writeLoop(h.writeTimeout, h.pingInterval()); err != nil {
			h.log.DebugContext(ctx, "write failed", logger.Error(err))
			// Unblock the reader.
			_ = ws.Close()
		}
	}()

	h.readLoop(ctx, c)

	c.close()
	if err := h.srv.Disconnect(ctx, c.id); err != nil {
		h.log.DebugContext(ctx, "disconnect cleanup failed", logger.Error(err))
	}
	<-writerDone
	h.log.DebugContext(ctx, "connection closed")
}

func (h *Handler) pingInterval() time.Duration {
	if h.idleTimeout <= 0 {
		return 0
	}
	return h.idleTimeout * 9 / 10
}

func (h *Handler) readLoop(ctx context.Context, c *conn) {
	c.ws.SetReadLimit(h.readLimit)
	if h.idleTimeout > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(h.idleTimeout))
		c.ws.SetPongHandler(func(string) error {
			return c.ws.SetReadDeadline(time.Now().Add(h.idleTimeout))
		})
	}

	for {
		kind, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, websocket.ErrCloseSent) {
				h.log.DebugContext(ctx, "read failed", logger.Error(err))
			}
			return
		}
		if h.idleTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(h.idleTimeout))
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		// Errors are logged by the server; a bad message never closes the connection.
		_ = h.srv.HandleMessage(ctx, c.id, payload)
	}
}
