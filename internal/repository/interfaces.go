// Package repository はサーバー側セッションの永続化を提供する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/smarttime/internal/model"
)

// ErrSessionNotFound はSetValueの対象セッションが存在しないか期限切れのときに返る。
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository はブラウザセッション単位の値を保持するリポジトリ。
// 期限切れのセッションは存在しないものとして扱う。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDの有効なセッションを返す。存在しないか期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// SetValue はセッションにキーと値を保存する。
	// セッションがないか期限切れの場合はErrSessionNotFoundを返し、何も作らない。
	SetValue(ctx context.Context, id, key, value string) error
	// DeleteValue はセッションからキーを削除する。
	DeleteValue(ctx context.Context, id, key string) error
	// DeleteByID はセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
	// Ping は保存先への疎通を確認する。
	Ping(ctx context.Context) error
}
