// Package handler adapts HTTP requests to service calls. Each endpoint
// binds and validates a request model, calls one service method and
// writes the result; errors are left to the global error handler.
package handler
