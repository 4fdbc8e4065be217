package handler

import (
	"errors"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/apierror"
	"github.com/sumquiz/entitlements/pkg/billing"
	"github.com/sumquiz/entitlements/pkg/clientlog"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/passwordreset"
	"github.com/sumquiz/entitlements/pkg/referral"
)

// toAPIError translates domain sentinels into the error taxonomy. Unmatched
// errors fall through to apierror.From, which reports them as internal.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, referral.ErrMissingFields):
		return apierror.InvalidArgument("email, password, and display name are required")
	case errors.Is(err, identity.ErrEmailAlreadyExists):
		return apierror.InvalidArgument("email is already in use")
	case errors.Is(err, account.ErrNotFound):
		return apierror.NotFound("account not found")
	case errors.Is(err, passwordreset.ErrEmailRequired):
		return apierror.InvalidArgument("email is required")
	case errors.Is(err, passwordreset.ErrTooManyRequests):
		return apierror.ResourceExhausted("too many password reset requests, please try again later")
	case errors.Is(err, clientlog.ErrMissingError):
		return apierror.InvalidArgument("error description is required")
	case errors.Is(err, billing.ErrUnauthorized):
		return apierror.Unauthorized("webhook authentication failed")
	case errors.Is(err, billing.ErrMalformedPayload):
		return apierror.InvalidArgument("malformed webhook payload")
	case errors.Is(err, billing.ErrMissingAccountID):
		return apierror.InvalidArgument("webhook event missing account identifier")
	case errors.Is(err, billing.ErrInvalidStatus):
		return apierror.InvalidArgument("webhook event status is not successful")
	case errors.Is(err, billing.ErrUnknownProduct):
		return apierror.InvalidArgument("unknown product id")
	case errors.Is(err, billing.ErrUnknownProvider):
		return apierror.InvalidArgument("unknown payment provider")
	default:
		return err
	}
}
