// Package httpserver runs the service's HTTP listener with sensible timeout
// defaults, graceful shutdown on SIGINT/SIGTERM or context cancellation, and
// a probe handler for health endpoints.
package httpserver
