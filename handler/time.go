package handler

import (
	"net/http"
	"time"
)

type serverTimeResponse struct {
	ServerTime  string `json:"serverTime"`
	TimestampMs int64  `json:"timestampMs"`
}

// serverTime reports authoritative time so clients never trust local clocks
// for entitlement math.
func (h *handlers) serverTime(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, serverTimeResponse{
		ServerTime:  now.Format(time.RFC3339Nano),
		TimestampMs: now.UnixMilli(),
	})
}
