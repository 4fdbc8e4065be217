package referral

import "errors"

var (
	ErrMissingFields           = errors.New("email, password, and display name are required")
	ErrSignUpFailed            = errors.New("sign up failed")
	ErrCodeGenerationExhausted = errors.New("failed to generate unique referral code")
)
