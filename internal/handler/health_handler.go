package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/smarttime/internal/middleware"
	"github.com/hitoshi/smarttime/internal/model"
)

// HealthChecker は依存先への疎通確認を行う。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler はセッションストアの疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				middleware.WriteError(w, r, http.StatusServiceUnavailable,
					model.NewSessionStoreUnavailableError(err.Error()))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
