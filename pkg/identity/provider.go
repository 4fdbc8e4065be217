package identity

import "context"

// User is the provider-side identity record.
type User struct {
	UID         string
	Email       string
	DisplayName string
}

// Provider abstracts the external identity service holding credentials.
// It has no multi-document transaction primitive, so account creation is an
// irreversible side effect that callers compensate for explicitly (see the
// referral signup engine).
type Provider interface {
	// CreateUser registers a new identity and returns its record.
	CreateUser(ctx context.Context, email, password, displayName string) (*User, error)

	// DeleteUser removes an identity. Used as the compensating action when
	// profile creation fails after the identity already exists.
	DeleteUser(ctx context.Context, uid string) error

	// VerifyIDToken validates a bearer ID token and returns the subject.
	VerifyIDToken(ctx context.Context, idToken string) (string, error)

	// PasswordResetLink returns a single-use reset link for the email.
	PasswordResetLink(ctx context.Context, email string) (string, error)
}
