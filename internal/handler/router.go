package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/smarttime/internal/middleware"
	"github.com/hitoshi/smarttime/internal/route"
	"github.com/hitoshi/smarttime/internal/token"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	Guard          *route.Guard
	Sessions       middleware.SessionBinder
	TokenCookie    token.CookieOptions
	RateLimiter    *middleware.RateLimiter
	StatusRecorder middleware.HTTPStatusRecorder
	HSTS           bool // BASE_URLがhttpsのとき

	// ページ
	Pages *PageHandler
	Theme *ThemeHandler

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
}

// NewRouter はページと運用エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Logging → SecurityHeaders → RedirectSlashes
//	  ページ: TokenMiddleware → Guard → (RateLimit: POST /login, /register)
//
// /health, /metrics, /theme.css はガードの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusRecorder))
	r.Use(middleware.NewSecurityHeadersMiddleware(middleware.SecurityHeadersConfig{HSTS: deps.HSTS}))
	r.Use(chimw.RedirectSlashes)

	// --- ガード対象外 ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	theme := deps.Theme
	if theme == nil {
		theme = NewThemeHandler("")
	}
	r.Method(http.MethodGet, "/theme.css", theme)

	// --- ページ ---
	// ミドルウェアスタック: Token → Guard
	h := deps.Pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.Sessions, deps.TokenCookie))
		r.Use(deps.Guard.Middleware())

		limited := func(next http.HandlerFunc) http.Handler {
			if deps.RateLimiter == nil {
				return next
			}
			return deps.RateLimiter.Middleware()(next)
		}

		// "/" はガードが常に/loginへリダイレクトする
		r.Get(route.PathRoot, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, route.PathLogin, http.StatusFound)
		})

		r.Get(route.PathLogin, h.LoginPage)
		r.Method(http.MethodPost, route.PathLogin, limited(h.Login))
		r.Get(route.PathRegister, h.RegisterPage)
		r.Method(http.MethodPost, route.PathRegister, limited(h.Register))
		r.Post("/logout", h.Logout)

		r.Get(route.PathDashboard, h.Dashboard)

		r.Route(route.PathTasks, func(r chi.Router) {
			r.Get("/", h.Tasks)
			r.Post("/", h.CreateTask)
			r.Post("/{id}", h.UpdateTask)
			r.Post("/{id}/delete", h.DeleteTask)
		})

		r.Route(route.PathMeetings, func(r chi.Router) {
			r.Get("/", h.Meetings)
			r.Post("/", h.CreateMeeting)
			r.Post("/{id}", h.UpdateMeeting)
			r.Post("/{id}/delete", h.DeleteMeeting)
		})

		r.Get(route.PathChat, h.ChatPage)
		r.Post(route.PathChat, h.SendChat)
	})

	return r
}
