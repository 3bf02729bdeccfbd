package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/wavesync/pkg/logger"
)

// DefaultHeaders lists the proxy headers consulted by Resolve, highest priority first.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolve returns the client address of r using DefaultHeaders.
func Resolve(r *http.Request) string {
	return ResolveWith(r, DefaultHeaders)
}

// ResolveWith returns the client address of r trusting only headers.
// X-Forwarded-For style lists yield their first valid entry.
func ResolveWith(r *http.Request, headers []string) string {
	for _, h := range headers {
		for candidate := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

// WithContext stores ip in ctx.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored in ctx or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware resolves the client address of every request into its context.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ResolveWith(r, headers)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), ip)))
		})
	}
}

// LoggerExtractor adds client_ip to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
