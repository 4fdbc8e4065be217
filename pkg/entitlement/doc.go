// Package entitlement decides whether an account currently has Pro access.
//
// Two writers converge on the same answer: the Evaluator self-heals a single
// account when it is queried after its expiry, and the Sweeper reconciles the
// whole collection once per day. Both revoke through conditional writes in
// the document store, so concurrent invocations and retries cannot revoke
// twice or revoke early.
package entitlement
