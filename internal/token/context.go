package token

import "context"

type contextKey struct{}

// WithReader はリクエストごとのReaderをコンテキストに紐付ける。
func WithReader(ctx context.Context, r Reader) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// ReaderFromContext はコンテキストに紐付いたReaderを返す。
func ReaderFromContext(ctx context.Context) (Reader, bool) {
	r, ok := ctx.Value(contextKey{}).(Reader)
	return r, ok && r != nil
}

// ContextReader はコンテキストに紐付いたReaderへ委譲するReader。
// サーバーのように利用者ごとにトークンが異なる場面で、共有クライアントに渡す。
type ContextReader struct{}

// Token はコンテキストのReaderからトークンを取得する。紐付けがなければ空文字を返す。
func (ContextReader) Token(ctx context.Context) string {
	r, ok := ReaderFromContext(ctx)
	if !ok {
		return ""
	}
	return r.Token(ctx)
}
