package billing

import "errors"

var (
	ErrUnauthorized     = errors.New("webhook authentication failed")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrMissingAccountID = errors.New("webhook event missing account identifier")
	ErrInvalidStatus    = errors.New("webhook event status is not successful")
	ErrUnknownProduct   = errors.New("unknown product id")
	ErrUnknownProvider  = errors.New("unknown payment provider")
	ErrPaymentNotFound  = errors.New("payment record not found")
)
