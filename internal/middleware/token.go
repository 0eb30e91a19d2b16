package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/smarttime/internal/token"
)

// SessionBinder はリクエストに紐付いたセッションスコープの保存先を返す。
type SessionBinder interface {
	Bind(w http.ResponseWriter, r *http.Request) token.Store
}

// SessionBinderFunc は関数をSessionBinderとして扱うアダプタ。
type SessionBinderFunc func(w http.ResponseWriter, r *http.Request) token.Store

// Bind はf(w, r)を呼ぶ。
func (f SessionBinderFunc) Bind(w http.ResponseWriter, r *http.Request) token.Store {
	return f(w, r)
}

type tieredContextKey struct{}

// NewTokenMiddleware はリクエストごとにtoken.Tieredを組み立ててコンテキストに紐付ける。
// 永続スコープはMax-Age付きの "token" Cookie、セッションスコープはサーバー側セッション。
// 後続のガードとAPIクライアントはtoken.ContextReader経由でこれを参照する。
func NewTokenMiddleware(sessions SessionBinder, cookie token.CookieOptions) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tiered := token.Tiered{
				Persistent: token.NewCookieStore(w, r, cookie),
			}
			if sessions != nil {
				tiered.Session = sessions.Bind(w, r)
			}

			ctx := token.WithReader(r.Context(), tiered)
			ctx = context.WithValue(ctx, tieredContextKey{}, tiered)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TieredFromContext はNewTokenMiddlewareが紐付けたtoken.Tieredを返す。
// ログイン時の保存とログアウト時の削除に使う。
func TieredFromContext(ctx context.Context) (token.Tiered, bool) {
	t, ok := ctx.Value(tieredContextKey{}).(token.Tiered)
	return t, ok
}
