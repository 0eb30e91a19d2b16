package middleware

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/smarttime/internal/model"
)

// ErrorEnvelope はJSONのエラー応答。{"error": {...}} の形で返す。
type ErrorEnvelope struct {
	Error *model.APIError `json:"error"`
}

// WriteError はエラー応答を書き込む。
// ブラウザのページ遷移（AcceptにHTMLを含む）にはメッセージと対処方法を平文で返し、
// それ以外にはErrorEnvelopeのJSONを返す。
func WriteError(w http.ResponseWriter, r *http.Request, status int, apiErr *model.APIError) {
	if r != nil && acceptsHTML(r) {
		http.Error(w, apiErr.Message+"\n"+apiErr.Action, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Error: apiErr})
}

// WriteInternalServerError は500を返す。
func WriteInternalServerError(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusInternalServerError, model.NewInternalError())
}

// WriteRateLimited はRetry-After付きの429を返す。
func WriteRateLimited(w http.ResponseWriter, r *http.Request, retryAfterSec int) {
	w.Header().Set("Retry-After", strconv.Itoa(max(retryAfterSec, 1)))
	WriteError(w, r, http.StatusTooManyRequests, model.NewRateLimitedError())
}

func acceptsHTML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mt == "text/html" || mt == "application/xhtml+xml") {
			return true
		}
	}
	return false
}
