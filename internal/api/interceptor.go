package api

import (
	"net/http"

	"github.com/hitoshi/smarttime/internal/token"
)

// RequestInterceptor は送信前のリクエストを加工するフック。
// エラーを返すとリクエストは送信されず、そのエラーが呼び出し元に返る。
type RequestInterceptor func(req *http.Request) error

// BearerInterceptor はトークンがあればAuthorizationヘッダーに "Bearer <token>" を設定する。
// トークンがなければリクエストを変更しない。トークンの有無で失敗することはない。
func BearerInterceptor(reader token.Reader) RequestInterceptor {
	return func(req *http.Request) error {
		if tok := reader.Token(req.Context()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		return nil
	}
}
