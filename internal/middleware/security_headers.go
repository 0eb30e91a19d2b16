package middleware

import "net/http"

// SecurityHeadersConfig はNewSecurityHeadersMiddlewareの設定。
type SecurityHeadersConfig struct {
	// HSTS はStrict-Transport-Securityを付与するか。BASE_URLがhttpsのときに有効にする。
	HSTS bool
}

// ページは同一オリジンのスタイルシートとフォーム送信だけを使う。
var pageSecurityHeaders = [][2]string{
	{"Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'; form-action 'self'; base-uri 'none'"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "same-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	// トークンを含む応答を共有キャッシュに残さない
	{"Cache-Control", "no-store"},
}

// NewSecurityHeadersMiddleware はページ向けのセキュリティヘッダーを付与する。
// ハンドラー側で設定したCache-Controlは上書きしない。
func NewSecurityHeadersMiddleware(cfg SecurityHeadersConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range pageSecurityHeaders {
				h.Set(kv[0], kv[1])
			}
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
