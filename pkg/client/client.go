package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/wavesync/pkg/logger"
	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
)

// Client is a registered connection to a session group.
type Client struct {
	ws            *websocket.Conn
	mirror        *Mirror
	viewer        protocol.Participant
	sharedDataKey string

	engine patch.Engine
	dialer *websocket.Dialer
	header http.Header
	log    *slog.Logger

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial connects to url, registers viewer in sharedDataKey and starts mirroring.
func Dial(ctx context.Context, url, sharedDataKey string, viewer protocol.Participant, opts ...Option) (*Client, error) {
	c := &Client{
		viewer:        viewer,
		sharedDataKey: sharedDataKey,
		engine:        patch.NewDMP(),
		dialer:        websocket.DefaultDialer,
		log:           logger.Discard(),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mirror = NewMirror(c.engine)

	reg, err := protocol.EncodeRegistration(sharedDataKey, viewer)
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}

	ws, resp, err := c.dialer.DialContext(ctx, url, c.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}
	c.ws = ws

	go c.readLoop()

	if err := c.write(reg); err != nil {
		_ = c.Close()
		return nil, errors.Join(ErrDialFailed, err)
	}
	return c, nil
}

// Mirror returns the local replica.
func (c *Client) Mirror() *Mirror { return c.mirror }

// Viewer returns the registered participant.
func (c *Client) Viewer() protocol.Participant { return c.viewer }

// SharedDataKey returns the joined session group.
func (c *Client) SharedDataKey() string { return c.sharedDataKey }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended, nil after a local Close.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// SubmitDelta sends new values; a nil value deletes the key. The mirror
// changes only when the server broadcasts the resulting patches.
func (c *Client) SubmitDelta(ctx context.Context, delta map[string]*string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := protocol.EncodeDelta(delta)
	if err != nil {
		return err
	}
	return c.write(payload)
}

// SubmitValue sets one key.
func (c *Client) SubmitValue(ctx context.Context, key, value string) error {
	return c.SubmitDelta(ctx, map[string]*string{key: &value})
}

// Delete removes one key.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.SubmitDelta(ctx, map[string]*string{key: nil})
}

// Reset deletes every key currently in the mirror.
func (c *Client) Reset(ctx context.Context) error {
	keys := c.mirror.Keys()
	if len(keys) == 0 {
		return nil
	}
	delta := make(map[string]*string, len(keys))
	for _, k := range keys {
		delta[k] = nil
	}
	return c.SubmitDelta(ctx, delta)
}

// Close ends the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.writeMu.Unlock()

	c.finish(nil)
	return c.ws.Close()
}

func (c *Client) write(payload []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) finish(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *Client) readLoop() {
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
			c.finish(err)
			return
		}

		msg, err := protocol.DecodeOutbound(payload)
		if err != nil {
			c.log.Warn("dropping malformed server message", logger.Error(err))
			continue
		}

		switch m := msg.(type) {
		case protocol.StateUpdate:
			if err := c.mirror.ApplyState(m.Data); err != nil {
				c.log.Warn("state patches partially applied", logger.Error(err))
			}
		case protocol.ParticipantsUpdate:
			c.mirror.SetParticipants(m.Data)
		}
	}
}
