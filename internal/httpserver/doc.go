// Package httpserver provides a Gin HTTP server that takes part in the
// application lifecycle, plus the middleware and response helpers the
// chat-api routes share.
package httpserver
