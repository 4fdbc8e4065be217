package billing

// Kind classifies a provider event for processing purposes. Providers send
// many event types; only charges carry an entitlement effect.
type Kind string

const (
	KindCharge Kind = "charge"
	KindOther  Kind = "other"
)

// Event is the provider-agnostic tuple every webhook payload normalizes to.
type Event struct {
	Provider      string
	Kind          Kind
	Type          string // original provider event name
	AccountID     string
	TransactionID string
	Status        string
	ProductID     string
	Amount        float64
	Currency      string
	Payload       []byte // raw provider payload, kept for audit
}

// successStatuses is the set of provider statuses that confirm payment.
var successStatuses = map[string]struct{}{
	"successful": {},
	"completed":  {},
	"succeeded":  {},
	"paid":       {},
}

// Successful reports whether the event status confirms payment.
func (e *Event) Successful() bool {
	_, ok := successStatuses[e.Status]
	return ok
}
