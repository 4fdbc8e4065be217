package account

import "time"

const (
	// ReferralsPerReward is how many applied referrals convert into one reward.
	ReferralsPerReward = 3
	// ReferralRewardDuration is the subscription extension per reward.
	ReferralRewardDuration = 7 * 24 * time.Hour
	// ReferralTrialDuration is the Pro trial granted to a referred signup.
	ReferralTrialDuration = 3 * 24 * time.Hour
	// MaxReferralRewards caps the number of rewards a referrer can earn.
	MaxReferralRewards = 12
)

// Account is the durable representation of a user. The document id is the
// identity provider's subject for the user.
type Account struct {
	ID          string `bson:"_id" json:"uid"`
	Email       string `bson:"email" json:"email"`
	DisplayName string `bson:"displayName" json:"displayName"`

	// IsPro is the denormalized access flag. Invariant: true requires the
	// entitlement to be lifetime or to expire in the future. The evaluator
	// and the sweep are the only writers that derive it from expiry; the
	// webhook and referral paths set it together with the entitlement in
	// one atomic write.
	IsPro       bool        `bson:"isPro" json:"isPro"`
	Entitlement Entitlement `bson:"entitlement" json:"entitlement"`

	ReferralCode        string     `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	ReferredBy          string     `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	AppliedReferralCode string     `bson:"appliedReferralCode,omitempty" json:"appliedReferralCode,omitempty"`
	ReferralAppliedAt   *time.Time `bson:"referralAppliedAt,omitempty" json:"referralAppliedAt,omitempty"`
	Referrals           int        `bson:"referrals" json:"referrals"`
	TotalReferrals      int        `bson:"totalReferrals" json:"totalReferrals"`
	ReferralRewards     int        `bson:"referralRewards" json:"referralRewards"`

	CurrentProduct   string     `bson:"currentProduct,omitempty" json:"currentProduct,omitempty"`
	LastVerified     *time.Time `bson:"lastVerified,omitempty" json:"lastVerified,omitempty"`
	LastWebhookEvent string     `bson:"lastWebhookEvent,omitempty" json:"lastWebhookEvent,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiredAt *time.Time `bson:"expiredAt,omitempty" json:"expiredAt,omitempty"`
}

// New returns a base profile for a fresh signup.
func New(id, email, displayName string, now time.Time) *Account {
	return &Account{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		IsPro:       false,
		Entitlement: NeverSubscribed(),
		CreatedAt:   now.UTC(),
	}
}

// Expire revokes Pro access after the entitlement lapsed.
func (a *Account) Expire(now time.Time) {
	now = now.UTC()
	a.IsPro = false
	a.ExpiredAt = &now
}

// GrantReferralTrial gives a newly referred account its Pro trial and stamps
// the referral provenance fields.
func (a *Account) GrantReferralTrial(code, referrerID string, now time.Time) {
	now = now.UTC()
	a.IsPro = true
	a.Entitlement = ExpiresAt(now.Add(ReferralTrialDuration))
	a.AppliedReferralCode = code
	a.ReferredBy = referrerID
	a.ReferralAppliedAt = &now
}

// RecordReferral registers one successful referral against the referrer and
// applies the reward ladder: every ReferralsPerReward referrals extend the
// subscription by ReferralRewardDuration until MaxReferralRewards is hit.
// Past the cap the counter still resets, so the ladder ratchets without
// granting more time. Reports whether a reward was granted.
func (a *Account) RecordReferral(now time.Time) bool {
	a.Referrals++
	a.TotalReferrals++

	if a.Referrals < ReferralsPerReward {
		return false
	}

	a.Referrals = 0
	if a.ReferralRewards >= MaxReferralRewards {
		return false
	}

	a.Entitlement = a.Entitlement.Extend(ReferralRewardDuration, now)
	a.ReferralRewards++
	return true
}

// PurchaseUpdate carries the account-side effect of a verified payment. It is
// applied as a merge so a webhook can land before the profile document exists.
type PurchaseUpdate struct {
	AccountID        string
	IsPro            bool
	Entitlement      Entitlement
	CurrentProduct   string
	LastWebhookEvent string
	VerifiedAt       time.Time
}
