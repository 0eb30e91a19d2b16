package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPStatusRecorder はレスポンスステータスを記録するメトリクスのインターフェース。
type HTTPStatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// NewLoggingMiddleware は1リクエストごとに "http_request" レコードを出力する。
// フィールドは request_id, method, path, status, bytes, duration_ms。
// リダイレクトでは遷移先を location として加える。
// 5xxはError、4xxはWarn、それ以外はInfoで出力する。
func NewLoggingMiddleware(logger *slog.Logger, recorder HTTPStatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// 何も書かずに戻ったハンドラーはnet/httpが200を返す
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
			}
			if loc := ww.Header().Get("Location"); loc != "" {
				attrs = append(attrs, slog.String("location", loc))
			}

			logger.LogAttrs(r.Context(), levelForStatus(status), "http_request", attrs...)

			if recorder != nil {
				recorder.RecordHTTPStatus(status)
			}
		})
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
