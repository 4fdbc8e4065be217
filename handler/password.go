package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sumquiz/entitlements/pkg/passwordreset"
)

type passwordResetRequest struct {
	Email string `json:"email"`
}

func (h *handlers) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, h.deps.Log, err)
		return
	}

	if err := h.deps.PasswordReset.Request(r.Context(), req.Email); err != nil {
		var limited *passwordreset.RateLimitedError
		if errors.As(err, &limited) && limited.RetryAfter > 0 {
			secs := int64((limited.RetryAfter + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		}
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
