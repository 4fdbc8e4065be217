package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig configures the Stripe webhook endpoint.
type StripeConfig struct {
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

// StripeProvider handles Stripe checkout webhooks. Deliveries are verified
// against the endpoint signing secret via the official webhook package.
type StripeProvider struct {
	secret string
	log    *slog.Logger
}

func NewStripeProvider(cfg StripeConfig, log *slog.Logger) *StripeProvider {
	if log == nil {
		panic("billing: logger is required")
	}
	return &StripeProvider{secret: cfg.WebhookSecret, log: log}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) VerifyAndParse(ctx context.Context, header http.Header, payload []byte) (*Event, error) {
	var event stripe.Event
	if p.secret == "" {
		p.log.WarnContext(ctx, "stripe webhook secret not configured, webhook is not secured")
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Join(ErrMalformedPayload, err)
		}
	} else {
		var err error
		event, err = webhook.ConstructEvent(payload, header.Get("Stripe-Signature"), p.secret)
		if err != nil {
			if errors.Is(err, webhook.ErrNotSigned) || errors.Is(err, webhook.ErrNoValidSignature) || errors.Is(err, webhook.ErrTooOld) {
				return nil, ErrUnauthorized
			}
			return nil, errors.Join(ErrMalformedPayload, err)
		}
	}

	kind := KindOther
	if event.Type == "checkout.session.completed" {
		kind = KindCharge
	}

	out := &Event{
		Provider: p.Name(),
		Kind:     kind,
		Type:     string(event.Type),
		Payload:  payload,
	}
	if kind != KindCharge {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	out.AccountID = session.Metadata["user_id"]
	out.ProductID = session.Metadata["product_id"]
	out.TransactionID = session.ID
	out.Status = string(session.PaymentStatus)
	out.Amount = float64(session.AmountTotal) / 100
	out.Currency = strings.ToUpper(string(session.Currency))
	return out, nil
}
