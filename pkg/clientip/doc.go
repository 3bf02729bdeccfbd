// Package clientip resolves the address of the peer behind an HTTP request.
//
// Proxy headers are consulted in order (CF-Connecting-IP, DO-Connecting-IP,
// X-Forwarded-For, X-Real-IP by default) before falling back to RemoteAddr.
// Only values that parse as IP addresses are accepted. Middleware stores the
// result in the request context, where LoggerExtractor picks it up, so every
// websocket connection log line carries the client address.
package clientip
