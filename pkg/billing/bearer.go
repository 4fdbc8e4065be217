package billing

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// BearerConfig configures the shared-secret webhook endpoint.
type BearerConfig struct {
	WebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
}

// BearerProvider authenticates webhooks with a pre-shared bearer token and
// accepts the loosely-shaped payloads some processors emit: field names vary
// per processor, so extraction probes the known aliases.
type BearerProvider struct {
	secret string
	log    *slog.Logger
}

// NewBearerProvider creates the generic shared-secret provider. An empty
// secret degrades to unauthenticated processing with a logged warning, so a
// misconfigured deployment keeps accepting payments instead of dropping them.
func NewBearerProvider(cfg BearerConfig, log *slog.Logger) *BearerProvider {
	if log == nil {
		panic("billing: logger is required")
	}
	return &BearerProvider{secret: cfg.WebhookSecret, log: log}
}

func (p *BearerProvider) Name() string { return "payment" }

func (p *BearerProvider) VerifyAndParse(ctx context.Context, header http.Header, payload []byte) (*Event, error) {
	if p.secret == "" {
		p.log.WarnContext(ctx, "payment webhook secret not configured, webhook is not secured")
	} else {
		auth := header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(auth), []byte("Bearer "+p.secret)) != 1 {
			return nil, ErrUnauthorized
		}
	}

	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	eventType := firstString(m, "event_type", "type")

	accountID := firstString(m, "user_id")
	if customer, ok := m["customer"].(map[string]any); ok {
		if id := stringify(customer["id"]); id != "" {
			accountID = id
		}
	}

	transactionID := firstString(m, "transaction_id")
	if transactionID == "" {
		transactionID = stringify(m["id"])
	}

	productID := firstString(m, "product_id")
	if productID == "" {
		if meta, ok := m["metadata"].(map[string]any); ok {
			productID = stringify(meta["product_id"])
		}
	}

	amount, _ := m["amount"].(float64)

	return &Event{
		Provider:      p.Name(),
		Kind:          bearerKind(eventType),
		Type:          eventType,
		AccountID:     accountID,
		TransactionID: transactionID,
		Status:        firstString(m, "status", "transaction_status"),
		ProductID:     productID,
		Amount:        amount,
		Currency:      firstString(m, "currency"),
		Payload:       payload,
	}, nil
}

// bearerKind treats untyped payloads as charges: the status and product
// checks downstream reject anything that is not a confirmed purchase.
func bearerKind(eventType string) Kind {
	if eventType == "" ||
		strings.HasPrefix(eventType, "charge") ||
		strings.HasPrefix(eventType, "transaction") ||
		strings.HasPrefix(eventType, "payment") {
		return KindCharge
	}
	return KindOther
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringify(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
