package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/logger"
)

// Outcome tells the webhook handler how an event was handled. Every outcome
// is acknowledged with 200 so the provider stops redelivering.
type Outcome string

const (
	// OutcomeProcessed means the payment was recorded and the account updated.
	OutcomeProcessed Outcome = "processed"
	// OutcomeDuplicate means a settled ledger record already existed and
	// nothing was written.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored means the event is not a charge and carries no effect.
	OutcomeIgnored Outcome = "ignored"
)

// Processor turns verified webhook events into entitlement updates. Each
// successful charge settles exactly once regardless of how many times the
// provider delivers it.
type Processor struct {
	store     Store
	catalog   Catalog
	providers map[string]Provider
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the time source used to stamp ledger records and
// compute entitlement expirations.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor creates a webhook processor. Panics if store, catalog, or
// logger is nil since the processor cannot operate without them.
func NewProcessor(store Store, catalog Catalog, log *slog.Logger, opts ...Option) *Processor {
	if store == nil {
		panic("billing: store is required")
	}
	if catalog == nil {
		panic("billing: catalog is required")
	}
	if log == nil {
		panic("billing: logger is required")
	}
	p := &Processor{
		store:     store,
		catalog:   catalog,
		providers: make(map[string]Provider),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds a provider under its Name. Registering a second provider
// with the same name replaces the first.
func (p *Processor) Register(prov Provider) {
	p.providers[prov.Name()] = prov
}

// Process handles one webhook delivery addressed to the named provider.
//
// Verification and validation happen before any write. A charge whose
// transaction id already has a settled ledger record is acknowledged without
// touching the account, which makes redelivery harmless.
func (p *Processor) Process(ctx context.Context, providerName string, header http.Header, payload []byte) (Outcome, error) {
	prov, ok := p.providers[providerName]
	if !ok {
		return "", errors.Join(ErrUnknownProvider, fmt.Errorf("provider %q", providerName))
	}

	event, err := prov.VerifyAndParse(ctx, header, payload)
	if err != nil {
		return "", err
	}

	if event.Kind != KindCharge {
		p.log.InfoContext(ctx, "ignoring non-charge webhook event",
			logger.Provider(event.Provider),
			slog.String("event_type", event.Type))
		return OutcomeIgnored, nil
	}

	if event.AccountID == "" {
		return "", ErrMissingAccountID
	}
	if event.TransactionID == "" {
		return "", errors.Join(ErrMalformedPayload, errors.New("missing transaction id"))
	}
	if !event.Successful() {
		return "", errors.Join(ErrInvalidStatus, fmt.Errorf("status %q", event.Status))
	}

	effect, ok := p.catalog.Effect(event.ProductID)
	if !ok {
		return "", errors.Join(ErrUnknownProduct, fmt.Errorf("product %q", event.ProductID))
	}

	existing, err := p.store.GetPayment(ctx, event.TransactionID)
	if err != nil && !errors.Is(err, ErrPaymentNotFound) {
		return "", err
	}
	if existing.Settled() {
		p.log.InfoContext(ctx, "duplicate webhook delivery, payment already settled",
			logger.Provider(event.Provider),
			slog.String("transaction_id", event.TransactionID))
		return OutcomeDuplicate, nil
	}

	now := p.now().UTC()
	rec := PaymentRecord{
		TransactionID: event.TransactionID,
		AccountID:     event.AccountID,
		Provider:      event.Provider,
		EventType:     event.Type,
		Status:        PaymentStatusSuccessful,
		ProductID:     event.ProductID,
		Amount:        event.Amount,
		Currency:      event.Currency,
		Payload:       event.Payload,
		CreatedAt:     now,
	}
	update := account.PurchaseUpdate{
		AccountID:        event.AccountID,
		IsPro:            true,
		Entitlement:      effect.Apply(now),
		CurrentProduct:   event.ProductID,
		LastWebhookEvent: event.Type,
		VerifiedAt:       now,
	}

	if err := p.store.FinalizePayment(ctx, rec, update); err != nil {
		return "", err
	}

	p.log.InfoContext(ctx, "payment settled",
		logger.Provider(event.Provider),
		slog.String("transaction_id", event.TransactionID),
		logger.AccountID(event.AccountID),
		slog.String("product_id", event.ProductID))
	return OutcomeProcessed, nil
}
