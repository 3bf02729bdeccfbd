package client

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/wavesync/pkg/patch"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEngine sets the patch engine used to replay state messages.
func WithEngine(e patch.Engine) Option {
	return func(c *Client) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithHeader adds headers to the upgrade request.
func WithHeader(h http.Header) Option {
	return func(c *Client) {
		c.header = h
	}
}
