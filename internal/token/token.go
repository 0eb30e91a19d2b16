// Package token は認証トークンの保存先と、その2段階の読み出しを提供する。
//
// トークンは永続スコープとセッションスコープのどちらかに "token" キーで保存される。
// 読み出し時は永続スコープを優先し、空であればセッションスコープを参照する。
package token

import "context"

// Key はトークンを保存するキー。両スコープで共通。
const Key = "token"

// Store はキーと値を保持するトークン保存先のインターフェース。
// 存在しないキーのGetは空文字とnilを返す。
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Reader は現在有効なトークンを返すインターフェース。
// トークンがない場合は空文字を返す。失敗しない。
type Reader interface {
	Token(ctx context.Context) string
}

// Tiered は永続スコープとセッションスコープの2段階でトークンを読み出す。
// どちらかがnilの場合、そのスコープは空として扱う。
type Tiered struct {
	Persistent Store
	Session    Store
}

// Token は永続スコープ、セッションスコープの順に参照し、最初の空でない値を返す。
// 読み出しエラーはトークンなしと同じ扱いにする。
func (t Tiered) Token(ctx context.Context) string {
	for _, s := range []Store{t.Persistent, t.Session} {
		if s == nil {
			continue
		}
		v, err := s.Get(ctx, Key)
		if err == nil && v != "" {
			return v
		}
	}
	return ""
}

// Save はトークンを保存する。rememberがtrueなら永続スコープ、falseならセッションスコープに書き込む。
// 書き込まなかった側のスコープに残っている古い値は削除する。
func (t Tiered) Save(ctx context.Context, value string, remember bool) error {
	dst, other := t.Session, t.Persistent
	if remember {
		dst, other = t.Persistent, t.Session
	}
	if dst == nil {
		return ErrNoStore
	}
	if err := dst.Set(ctx, Key, value); err != nil {
		return err
	}
	if other != nil {
		return other.Delete(ctx, Key)
	}
	return nil
}

// Clear は両スコープからトークンを削除する。
func (t Tiered) Clear(ctx context.Context) error {
	var firstErr error
	for _, s := range []Store{t.Persistent, t.Session} {
		if s == nil {
			continue
		}
		if err := s.Delete(ctx, Key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Reader = Tiered{}

// Static は固定のトークンを返すReader。
type Static string

// Token は固定値を返す。
func (s Static) Token(context.Context) string { return string(s) }
