// Package account holds the durable user representation and the pure state
// transitions that every other component applies through the document store:
// entitlement expiry, referral trials, the referral reward ladder, and
// payment-driven entitlement updates.
//
// The subscription state is a three-way tagged value (never subscribed,
// expires at an instant, lifetime) rather than a nullable expiry, so
// "lifetime" and "no subscription" can never be confused.
package account
