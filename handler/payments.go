package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sumquiz/entitlements/pkg/apierror"
)

type paymentKeysResponse struct {
	FlutterwaveKey string `json:"flutterwaveKey"`
}

// paymentKeys hands clients the public processor key for checkout
// initialization. Secret keys never travel through this endpoint.
func (h *handlers) paymentKeys(w http.ResponseWriter, r *http.Request) {
	if h.deps.FlutterwaveKey == "" {
		writeError(r.Context(), w, h.deps.Log,
			apierror.Internal("payment processor key not configured"))
		return
	}
	writeJSON(w, http.StatusOK, paymentKeysResponse{FlutterwaveKey: h.deps.FlutterwaveKey})
}

// maxWebhookBody caps webhook payloads; provider events are small.
const maxWebhookBody = 1 << 20

type webhookResponse struct {
	Status string `json:"status"`
}

func (h *handlers) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(r.Context(), w, h.deps.Log,
			apierror.InvalidArgument("failed to read request body"))
		return
	}

	outcome, err := h.deps.Payments.Process(r.Context(), provider, r.Header, payload)
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, webhookResponse{Status: string(outcome)})
}
