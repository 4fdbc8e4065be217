package handler

import (
	"net/http"
	"time"

	"github.com/sumquiz/entitlements/pkg/clientip"
	"github.com/sumquiz/entitlements/pkg/clientlog"
)

type clientErrorRequest struct {
	Error      string     `json:"error"`
	StackTrace string     `json:"stackTrace,omitempty"`
	Context    string     `json:"context,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// logClientError accepts crash reports from clients, authenticated or not.
// The user agent and client IP are captured server-side.
func (h *handlers) logClientError(w http.ResponseWriter, r *http.Request) {
	var req clientErrorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, h.deps.Log, err)
		return
	}

	err := h.deps.ClientErrors.Record(r.Context(), clientlog.Report{
		AccountID:  UIDFromContext(r.Context()),
		Error:      req.Error,
		StackTrace: req.StackTrace,
		Context:    req.Context,
		UserAgent:  r.UserAgent(),
		ClientIP:   clientip.GetIP(r),
		ReportedAt: req.Timestamp,
	})
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
