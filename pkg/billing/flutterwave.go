package billing

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// FlutterwaveConfig configures the Flutterwave webhook endpoint.
type FlutterwaveConfig struct {
	VerifHash string `env:"FLUTTERWAVE_VERIF_HASH"`
}

// FlutterwaveProvider handles Flutterwave webhooks. Flutterwave signs
// deliveries by echoing a pre-shared value in the verif-hash header.
type FlutterwaveProvider struct {
	verifHash string
	log       *slog.Logger
}

func NewFlutterwaveProvider(cfg FlutterwaveConfig, log *slog.Logger) *FlutterwaveProvider {
	if log == nil {
		panic("billing: logger is required")
	}
	return &FlutterwaveProvider{verifHash: cfg.VerifHash, log: log}
}

func (p *FlutterwaveProvider) Name() string { return "flutterwave" }

type flutterwavePayload struct {
	Event string `json:"event"`
	Data  struct {
		ID       json.Number `json:"id"`
		TxRef    string      `json:"tx_ref"`
		Amount   float64     `json:"amount"`
		Currency string      `json:"currency"`
		Status   string      `json:"status"`
		Meta     struct {
			UserID    string `json:"user_id"`
			ProductID string `json:"product_id"`
		} `json:"meta"`
	} `json:"data"`
}

func (p *FlutterwaveProvider) VerifyAndParse(ctx context.Context, header http.Header, payload []byte) (*Event, error) {
	if p.verifHash == "" {
		p.log.WarnContext(ctx, "flutterwave verif hash not configured, webhook is not secured")
	} else {
		got := header.Get("verif-hash")
		if subtle.ConstantTimeCompare([]byte(got), []byte(p.verifHash)) != 1 {
			return nil, ErrUnauthorized
		}
	}

	var body flutterwavePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	kind := KindOther
	if body.Event == "charge.completed" {
		kind = KindCharge
	}

	transactionID := body.Data.TxRef
	if transactionID == "" && body.Data.ID.String() != "0" {
		transactionID = body.Data.ID.String()
	}

	return &Event{
		Provider:      p.Name(),
		Kind:          kind,
		Type:          body.Event,
		AccountID:     body.Data.Meta.UserID,
		TransactionID: transactionID,
		Status:        body.Data.Status,
		ProductID:     body.Data.Meta.ProductID,
		Amount:        body.Data.Amount,
		Currency:      body.Data.Currency,
		Payload:       payload,
	}, nil
}
