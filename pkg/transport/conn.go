package transport

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn adapts a websocket to the fan-out connection contract.
type conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(id string, ws *websocket.Conn, buffer int) *conn {
	return &conn{
		id:   id,
		ws:   ws,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (c *conn) ID() string { return c.id }

// Send queues payload without blocking.
func (c *conn) Send(ctx context.Context, payload []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendQueueFull
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writeLoop drains the send queue and pings the peer until the connection closes.
func (c *conn) writeLoop(writeTimeout, pingEvery time.Duration) error {
	var ping <-chan time.Time
	if pingEvery > 0 {
		t := time.NewTicker(pingEvery)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case payload := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return err
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return err
			}
		case <-ping:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			return nil
		}
	}
}
