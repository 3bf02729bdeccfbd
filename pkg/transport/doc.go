// Package transport serves the synchronization protocol over websockets.
//
// Each accepted connection gets a ULID identity, one reader goroutine that
// hands inbound payloads to the server in arrival order, and one writer
// goroutine draining a bounded send queue. A full queue drops the message;
// delivery is at most once. When keepalive is enabled the writer pings the
// peer and the reader closes connections that stay silent past the idle
// timeout.
//
//	r := chi.NewRouter()
//	r.Handle("/ws", transport.New(srv,
//		transport.WithLogger(log),
//		transport.WithIdleTimeout(time.Minute),
//	))
package transport
