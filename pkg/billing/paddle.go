package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig configures the Paddle webhook endpoint.
type PaddleConfig struct {
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET"`
}

// PaddleProvider handles Paddle Billing webhooks. Signatures are checked with
// the official SDK verifier against the notification secret.
type PaddleProvider struct {
	verifier *paddle.WebhookVerifier
	log      *slog.Logger
}

func NewPaddleProvider(cfg PaddleConfig, log *slog.Logger) *PaddleProvider {
	if log == nil {
		panic("billing: logger is required")
	}
	p := &PaddleProvider{log: log}
	if cfg.WebhookSecret != "" {
		p.verifier = paddle.NewWebhookVerifier(cfg.WebhookSecret)
	}
	return p
}

func (p *PaddleProvider) Name() string { return "paddle" }

type paddlePayload struct {
	EventType string `json:"event_type"`
	Data      struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		CustomData struct {
			UserID    string `json:"user_id"`
			ProductID string `json:"product_id"`
		} `json:"custom_data"`
		Details struct {
			Totals struct {
				Total        string `json:"total"`
				CurrencyCode string `json:"currency_code"`
			} `json:"totals"`
		} `json:"details"`
	} `json:"data"`
}

func (p *PaddleProvider) VerifyAndParse(ctx context.Context, header http.Header, payload []byte) (*Event, error) {
	if p.verifier == nil {
		p.log.WarnContext(ctx, "paddle webhook secret not configured, webhook is not secured")
	} else {
		// The SDK verifier consumes an http.Request, so rebuild one from the
		// already-read body and the forwarded signature header.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
		if err != nil {
			return nil, errors.Join(ErrMalformedPayload, err)
		}
		req.Header.Set("Paddle-Signature", header.Get("Paddle-Signature"))

		valid, err := p.verifier.Verify(req)
		if err != nil || !valid {
			return nil, ErrUnauthorized
		}
	}

	var body paddlePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	kind := KindOther
	if strings.HasPrefix(body.EventType, "transaction.") {
		kind = KindCharge
	}

	// Paddle reports totals in the currency's lowest denomination.
	var amount float64
	if cents, err := strconv.ParseFloat(body.Data.Details.Totals.Total, 64); err == nil {
		amount = cents / 100
	}

	return &Event{
		Provider:      p.Name(),
		Kind:          kind,
		Type:          body.EventType,
		AccountID:     body.Data.CustomData.UserID,
		TransactionID: body.Data.ID,
		Status:        body.Data.Status,
		ProductID:     body.Data.CustomData.ProductID,
		Amount:        amount,
		Currency:      body.Data.Details.Totals.CurrencyCode,
		Payload:       payload,
	}, nil
}
