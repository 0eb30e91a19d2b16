package token

import (
	"context"
	"net/http"
)

// CookieOptions はCookieStoreが発行するCookieの属性。
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int // 秒。0の場合はブラウザ終了で消えるセッションCookieになる
	Secure   bool
	HTTPOnly bool
}

// CookieStore は1リクエスト分のCookieを保存先とするStore。
// キーをCookie名として扱う。Setで書いた値は同じリクエスト内のGetに反映する。
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    CookieOptions
	pending map[string]*string
}

// NewCookieStore はリクエストとレスポンスに束縛されたCookieStoreを生成する。
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &CookieStore{w: w, r: r, opts: opts, pending: make(map[string]*string)}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", nil
		}
		return *v, nil
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", nil
	}
	return c.Value, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	http.SetCookie(s.w, s.cookie(key, value, s.opts.MaxAge))
	s.pending[key] = &value
	return nil
}

func (s *CookieStore) Delete(_ context.Context, key string) error {
	http.SetCookie(s.w, s.cookie(key, "", -1))
	s.pending[key] = nil
	return nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.opts.Path,
		Domain:   s.opts.Domain,
		MaxAge:   maxAge,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

var _ Store = (*CookieStore)(nil)
