package billing

import (
	"context"
	"net/http"
)

// Provider authenticates an inbound webhook request and normalizes its
// payload into the uniform Event tuple. Each payment processor gets one
// implementation; everything after normalization is shared.
//
// VerifyAndParse must not touch any document: authentication and schema
// failures reject the request before writes.
type Provider interface {
	// Name identifies the provider in routes, records, and logs.
	Name() string

	// VerifyAndParse authenticates the request headers against the
	// provider's shared secret or signature scheme and extracts the event.
	// Returns ErrUnauthorized on credential mismatch and
	// ErrMalformedPayload when the body cannot be interpreted.
	VerifyAndParse(ctx context.Context, header http.Header, payload []byte) (*Event, error)
}
