// Package transport composes the parlor request pipeline: an ordered,
// short-circuiting chain of HTTP middleware plus the uniform error-to-status
// mapping and the security headers applied to every response.
//
// Each stage is a func(http.Handler) http.Handler. A stage short-circuits
// by writing a terminal response and not calling the next handler. The
// security-header stage wraps the ResponseWriter itself, so headers are
// injected no matter where in the chain the response is produced, error
// responses included.
package transport
