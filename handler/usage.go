package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sumquiz/entitlements/pkg/usage"
)

func (h *handlers) canPerformAction(w http.ResponseWriter, r *http.Request) {
	uid := UIDFromContext(r.Context())
	action := usage.Action(chi.URLParam(r, "action"))

	check, err := h.deps.Usage.CanPerform(r.Context(), uid, action)
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, check)
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *handlers) recordAction(w http.ResponseWriter, r *http.Request) {
	uid := UIDFromContext(r.Context())
	action := usage.Action(chi.URLParam(r, "action"))

	if err := h.deps.Usage.RecordAction(r.Context(), uid, action); err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
