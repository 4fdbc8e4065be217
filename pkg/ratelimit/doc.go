// Package ratelimit provides a keyed fixed-window counter used to throttle
// sensitive operations such as password-reset requests. Window state lives
// in the shared document store so the limit holds across concurrent,
// stateless handler invocations.
package ratelimit
