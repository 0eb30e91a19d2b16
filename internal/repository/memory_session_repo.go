package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/smarttime/internal/model"
)

// MemorySessionRepo はプロセス内メモリを使用したセッションリポジトリ。
// 単一インスタンスでの運用とテストで使う。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	now      func() time.Time
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

// Create はセッションを作成する。
func (r *MemorySessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make(map[string]string, len(session.Values))
	for k, v := range session.Values {
		values[k] = v
	}
	r.sessions[session.ID] = &model.Session{
		ID:        session.ID,
		Values:    values,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	return nil
}

// FindByID は指定IDのセッションのコピーを返す。期限切れの場合はnilを返す。
func (r *MemorySessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(r.now()) {
		return nil, nil
	}
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	return &model.Session{ID: s.ID, Values: values, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt}, nil
}

// SetValue はセッションにキーと値を保存する。
func (r *MemorySessionRepo) SetValue(_ context.Context, id, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(r.now()) {
		return ErrSessionNotFound
	}
	s.Values[key] = value
	return nil
}

// DeleteValue はセッションからキーを削除する。
func (r *MemorySessionRepo) DeleteValue(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		delete(s.Values, key)
	}
	return nil
}

// DeleteByID はセッションを削除する。
func (r *MemorySessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired は期限切れのセッションを削除する。
func (r *MemorySessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Ping は常に成功する。
func (r *MemorySessionRepo) Ping(context.Context) error { return nil }

// compile-time interface check
var _ SessionRepository = (*MemorySessionRepo)(nil)
