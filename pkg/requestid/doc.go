// Package requestid tags every HTTP request with an id.
//
// The id comes from the X-Request-ID header when it is well formed and is a
// fresh UUID otherwise. It is echoed in the response header and stored in the
// request context. Websocket connections inherit it, so every log line of a
// connection carries the id of the request that opened it once
// LoggerExtractor is installed on the logger.
package requestid
