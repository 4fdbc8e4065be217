package identity

import "errors"

var (
	ErrProviderInit       = errors.New("failed to initialize identity provider")
	ErrCreateUser         = errors.New("failed to create identity user")
	ErrDeleteUser         = errors.New("failed to delete identity user")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("identity user not found")
	ErrInvalidToken       = errors.New("invalid identity token")
	ErrPasswordResetLink  = errors.New("failed to generate password reset link")
)
