package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"reviewlens-gateway/pkg/logging/logging"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeUpstreamError reports a collaborator failure as 502 with the
// error text as detail.
func writeUpstreamError(ctx context.Context, w http.ResponseWriter, stage string, err error) {
	logging.L(ctx).Error("upstream_error",
		zap.String("stage", stage),
		zap.Error(err),
	)
	writeJSON(w, http.StatusBadGateway, errorResponse{
		Error:  "upstream_error",
		Detail: err.Error(),
	})
}
