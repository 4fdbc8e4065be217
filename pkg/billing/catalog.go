package billing

import (
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
)

// Effect is the entitlement granted by a purchased product: either a
// calendar-aware extension or lifetime access.
type Effect struct {
	Lifetime bool
	Years    int
	Months   int
	Days     int
	Hours    int
}

// Apply converts the effect into an entitlement starting at now.
func (e Effect) Apply(now time.Time) account.Entitlement {
	if e.Lifetime {
		return account.Lifetime()
	}
	expiry := now.AddDate(e.Years, e.Months, e.Days).Add(time.Duration(e.Hours) * time.Hour)
	return account.ExpiresAt(expiry)
}

// Catalog maps known product ids to their entitlement effects. Products not
// in the catalog are rejected before any write happens.
type Catalog map[string]Effect

// Effect looks up the entitlement effect for a product id.
func (c Catalog) Effect(productID string) (Effect, bool) {
	e, ok := c[productID]
	return e, ok
}

// DefaultCatalog is the fixed product catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		"sumquiz_pro_monthly":  {Months: 1},
		"sumquiz_pro_yearly":   {Years: 1},
		"sumquiz_pro_lifetime": {Lifetime: true},
		"sumquiz_exam_24h":     {Hours: 24},
		"sumquiz_week_pass":    {Days: 7},
	}
}
