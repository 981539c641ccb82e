// Package middleware holds the echo middleware shared by all routes:
// request ids, request-scoped loggers, Clerk authentication, tracing,
// Prometheus metrics, rate limiting and the global error handler.
package middleware
