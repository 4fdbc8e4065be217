package account

import "time"

// EntitlementStatus distinguishes the three subscription states that the
// legacy schema collapsed into a single nullable expiry field.
type EntitlementStatus string

const (
	// EntitlementNone means the account never had a paid subscription or trial.
	EntitlementNone EntitlementStatus = "none"
	// EntitlementExpiresAt means access lasts until the ExpiresAt instant.
	EntitlementExpiresAt EntitlementStatus = "expires_at"
	// EntitlementLifetime means access never lapses.
	EntitlementLifetime EntitlementStatus = "lifetime"
)

// Entitlement is the tagged representation of "until when does this account
// have Pro access". ExpiresAt is set if and only if Status is
// EntitlementExpiresAt.
type Entitlement struct {
	Status    EntitlementStatus `bson:"status" json:"status"`
	ExpiresAt *time.Time        `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// NeverSubscribed returns the zero entitlement.
func NeverSubscribed() Entitlement {
	return Entitlement{Status: EntitlementNone}
}

// Lifetime returns an entitlement that never lapses.
func Lifetime() Entitlement {
	return Entitlement{Status: EntitlementLifetime}
}

// ExpiresAt returns an entitlement lasting until t.
func ExpiresAt(t time.Time) Entitlement {
	t = t.UTC()
	return Entitlement{Status: EntitlementExpiresAt, ExpiresAt: &t}
}

// Active reports whether the entitlement grants access at the given instant.
func (e Entitlement) Active(now time.Time) bool {
	switch e.Status {
	case EntitlementLifetime:
		return true
	case EntitlementExpiresAt:
		return e.ExpiresAt != nil && e.ExpiresAt.After(now)
	default:
		return false
	}
}

// Extend returns the entitlement advanced by d. A timed entitlement extends
// from its current expiry; a never-subscribed one starts counting from now.
// Lifetime access is already unbounded and is returned unchanged.
func (e Entitlement) Extend(d time.Duration, now time.Time) Entitlement {
	switch e.Status {
	case EntitlementLifetime:
		return e
	case EntitlementExpiresAt:
		return ExpiresAt(e.ExpiresAt.Add(d))
	default:
		return ExpiresAt(now.Add(d))
	}
}
