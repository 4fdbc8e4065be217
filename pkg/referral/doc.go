// Package referral implements atomic referred signups and the reward ladder.
//
// Signup is the only compensating-transaction path in the system: the
// identity provider cannot participate in a document-store transaction, so a
// failed profile transaction deletes the just-created identity instead of
// rolling it back.
package referral
