package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/wavesync/pkg/logger"
)

// Server wraps http.Server with graceful shutdown and lifecycle hooks.
type Server struct {
	opts options

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
	once sync.Once
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	o := options{
		addr:              ":8080",
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   10 * time.Second,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Addr returns the bound listener address, nil before Run binds it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Addr:              s.opts.addr,
		Handler:           handler,
		ReadHeaderTimeout: s.opts.readHeaderTimeout,
		IdleTimeout:       s.opts.idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.opts.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	for _, h := range s.opts.startHooks {
		if err := h(ctx); err != nil {
			_ = ln.Close()
			return errors.Join(ErrStart, err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.opts.logger.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.Shutdown(context.WithoutCancel(ctx))
		if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			runErr = errors.Join(runErr, serveErr)
		}
	case serveErr := <-errCh:
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			runErr = errors.Join(ErrStart, serveErr)
		}
		runErr = errors.Join(runErr, s.Shutdown(context.WithoutCancel(ctx)))
	}
	return runErr
}

// Shutdown drains the server and runs stop hooks. Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.opts.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, errors.Join(ErrShutdown, err))
		}
		for _, h := range s.opts.stopHooks {
			if err := h(ctx); err != nil {
				errs = append(errs, errors.Join(ErrShutdown, err))
			}
		}
		s.opts.logger.InfoContext(ctx, "http server stopped")
	})
	return errors.Join(errs...)
}
