package handler

import (
	"net/http"

	"github.com/sumquiz/entitlements/pkg/apierror"
)

// subscription evaluates the caller's entitlement. An explicit uid query
// parameter overrides the token identity, matching clients that check
// another profile's status during restore flows.
func (h *handlers) subscription(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		uid = UIDFromContext(r.Context())
	}
	if uid == "" {
		writeError(r.Context(), w, h.deps.Log,
			apierror.Unauthenticated("caller identity or uid is required"))
		return
	}

	eval, err := h.deps.Evaluator.Evaluate(r.Context(), uid)
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, eval)
}
