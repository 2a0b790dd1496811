package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/logging"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError maps err onto its HTTP status. Causes of internal errors are
// logged and never sent to the client.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	status := appErr.HTTPStatus()

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "error", err)
	default:
		logger.Warn("request returned client error", "status", status, "message", appErr.Message)
	}

	respondJSON(ctx, w, status, messageResponse{Message: appErr.Message})
}
