// Package session はブラウザセッションに紐付くサーバー側の値保存を提供する。
//
// セッションIDはMax-Ageなしの "session_id" Cookieで運ぶため、ブラウザを閉じると失われる。
// 値そのものはrepository.SessionRepositoryに保存する。
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/repository"
	"github.com/hitoshi/smarttime/internal/token"
)

// CookieName はセッションIDを保持するCookie名。
const CookieName = "session_id"

// Config はManagerの設定。
type Config struct {
	MaxAge       time.Duration // サーバー側でセッションを保持する上限
	CookieDomain string
	CookieSecure bool
}

// Manager はセッションの作成と破棄を行う。
type Manager struct {
	repo  repository.SessionRepository
	cfg   Config
	now   func() time.Time
	newID func() string
}

// NewManager はManagerを生成する。
func NewManager(repo repository.SessionRepository, cfg Config) *Manager {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	return &Manager{
		repo:  repo,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Bind はリクエストに紐付いたtoken.Storeを返す。
// セッションは最初のSetで作成するため、読み出しだけのリクエストではCookieを発行しない。
func (m *Manager) Bind(w http.ResponseWriter, r *http.Request) *Store {
	s := &Store{m: m, w: w}
	if c, err := r.Cookie(CookieName); err == nil {
		s.id = c.Value
	}
	return s
}

// Destroy はリクエストのセッションを削除し、セッションCookieを失効させる。
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, m.cookie("", -1))
	if err := m.repo.DeleteByID(ctx, c.Value); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Store は1リクエスト分のセッションに束縛されたtoken.Store。
type Store struct {
	m     *Manager
	w     http.ResponseWriter
	id    string
	valid bool // idが存在するセッションを指していることを確認済み
}

// ID は束縛中のセッションIDを返す。未作成なら空文字。
func (s *Store) ID() string { return s.id }

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.id == "" {
		return "", nil
	}
	sess, err := s.m.repo.FindByID(ctx, s.id)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	s.valid = true
	return sess.Values[key], nil
}

// Set は値を保存する。確認後にセッションが失効していた場合は作り直して1度だけ再試行する。
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	err := s.m.repo.SetValue(ctx, s.id, key, value)
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}

	s.valid = false
	if err := s.ensure(ctx); err != nil {
		return err
	}
	return s.m.repo.SetValue(ctx, s.id, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.id == "" {
		return nil
	}
	return s.m.repo.DeleteValue(ctx, s.id, key)
}

// ensure は有効なセッションを用意する。Cookieのセッションが失効していれば新しく作る。
func (s *Store) ensure(ctx context.Context) error {
	if s.id != "" && !s.valid {
		sess, err := s.m.repo.FindByID(ctx, s.id)
		if err != nil {
			return err
		}
		s.valid = sess != nil
	}
	if s.valid {
		return nil
	}

	now := s.m.now()
	sess := &model.Session{
		ID:        s.m.newID(),
		Values:    map[string]string{},
		ExpiresAt: now.Add(s.m.cfg.MaxAge),
		CreatedAt: now,
	}
	if err := s.m.repo.Create(ctx, sess); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	// Max-Ageを付けないのでブラウザ終了で消える
	http.SetCookie(s.w, s.m.cookie(sess.ID, 0))
	s.id = sess.ID
	s.valid = true
	return nil
}

var _ token.Store = (*Store)(nil)
