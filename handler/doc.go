// Package handler exposes the service over HTTP: subscription evaluation,
// referral signup, usage quotas, password resets, client error reports, and
// the payment provider webhook endpoint. Authentication uses Firebase ID
// tokens in the Authorization header; errors always come back as a
// {kind, message} pair with the matching status code.
package handler
