package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/smarttime/internal/model"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) *model.APIError {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	var env ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if env.Error == nil {
		t.Fatal(`response has no "error" object`)
	}
	return env.Error
}

func TestWriteError_JSONEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	WriteError(w, r, http.StatusServiceUnavailable, model.NewSessionStoreUnavailableError("dial tcp: refused"))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	got := decodeEnvelope(t, w)
	if got.Code != model.ErrCodeSessionStoreDown || got.Category != "system" {
		t.Errorf("error = %+v", got)
	}
	if !strings.Contains(got.Message, "dial tcp: refused") || got.Action == "" {
		t.Errorf("message/action = %q / %q", got.Message, got.Action)
	}
}

func TestWriteError_PlainTextForBrowsers(t *testing.T) {
	tests := []struct {
		accept   string
		wantHTML bool
	}{
		{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"*/*", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/login", nil)
			r.Header.Set("Accept", tt.accept)

			WriteError(w, r, http.StatusTooManyRequests, model.NewRateLimitedError())

			if w.Code != http.StatusTooManyRequests {
				t.Errorf("status = %d, want 429", w.Code)
			}
			isText := strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain")
			if isText != tt.wantHTML {
				t.Errorf("Content-Type = %q, plain text expected: %v", w.Header().Get("Content-Type"), tt.wantHTML)
			}
			if isText && !strings.Contains(w.Body.String(), model.NewRateLimitedError().Action) {
				t.Errorf("body = %q, want action included", w.Body.String())
			}
		})
	}
}

func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalServerError(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if got := decodeEnvelope(t, w); got.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodeInternal)
	}
}

func TestWriteRateLimited_RetryAfter(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "1"},
		{-3, "1"},
		{6, "6"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		WriteRateLimited(w, httptest.NewRequest(http.MethodPost, "/login", nil), tt.in)

		if got := w.Header().Get("Retry-After"); got != tt.want {
			t.Errorf("WriteRateLimited(%d) Retry-After = %q, want %q", tt.in, got, tt.want)
		}
		if got := decodeEnvelope(t, w); got.Code != model.ErrCodeRateLimited {
			t.Errorf("code = %q", got.Code)
		}
	}
}
