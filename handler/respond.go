package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sumquiz/entitlements/pkg/apierror"
	"github.com/sumquiz/entitlements/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps any error onto the {kind, message} wire shape. Internal
// errors get logged with the original cause; the client sees only the
// generic message.
func writeError(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	apiErr := apierror.From(err)
	if apiErr.Kind == apierror.KindInternal {
		log.ErrorContext(ctx, "request failed", logger.Error(err))
	}
	writeJSON(w, apiErr.HTTPStatus(), apiErr)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierror.InvalidArgument("malformed request body")
	}
	return nil
}
