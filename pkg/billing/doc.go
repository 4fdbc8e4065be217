// Package billing turns payment provider webhooks into account entitlements.
//
// A Provider verifies a delivery's credentials and normalizes its payload
// into an Event. The Processor validates the event against the product
// Catalog and settles it through a Store, which writes the payment ledger
// record and the account update atomically. The ledger is keyed by the
// provider's transaction id, so redelivered webhooks are acknowledged
// without applying the purchase a second time.
//
// Providers for Flutterwave, Paddle, Stripe, and a generic shared-secret
// endpoint are included. A provider configured without its secret logs a
// warning and processes deliveries unverified rather than rejecting them.
package billing
