package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/smarttime/internal/api"
	"github.com/hitoshi/smarttime/internal/middleware"
	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/route"
	"github.com/hitoshi/smarttime/internal/web"
)

type loginForm struct {
	Username string
	Remember bool
}

type registerForm struct {
	Email    string
	FullName string
}

// LoginPage はログインページを表示する。
// GET /login
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	p := web.Page{Title: "ログイン", Data: loginForm{}}
	if r.URL.Query().Get("registered") != "" {
		p.Flash = "登録が完了しました。ログインしてください。"
	}
	h.render(w, r, http.StatusOK, "login", p)
}

// Login は資格情報をバックエンドに送り、得たトークンを保存してダッシュボードへ遷移する。
// "remember"がチェックされていれば永続スコープ、そうでなければセッションスコープに保存する。
// POST /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Username: r.PostForm.Get("username"),
		Remember: r.PostForm.Get("remember") != "",
	}

	resp, err := h.auth.Login(r.Context(), model.Credentials{
		Login:    form.Username,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		msg, status := h.apiFailure(r, "login", err)
		if api.IsStatus(err, http.StatusUnauthorized) {
			msg = "ユーザー名またはパスワードが正しくありません。"
		}
		h.render(w, r, status, "login", web.Page{Title: "ログイン", Error: msg, Data: form})
		return
	}

	tiered, ok := middleware.TieredFromContext(r.Context())
	if !ok {
		h.logger.Error("token stores are not bound to the request")
		middleware.WriteInternalServerError(w, r)
		return
	}
	if err := tiered.Save(r.Context(), resp.AccessToken, form.Remember); err != nil {
		h.logger.Error("failed to save token",
			slog.Bool("remember", form.Remember),
			slog.String("error", err.Error()),
		)
		apiErr := model.NewSessionStoreUnavailableError(err.Error())
		h.render(w, r, http.StatusServiceUnavailable, "login", web.Page{Title: "ログイン", Error: apiErr.Message, Data: form})
		return
	}

	h.logger.Info("user logged in", slog.Bool("remember", form.Remember))
	seeOther(w, r, route.PathDashboard)
}

// RegisterPage は登録ページを表示する。
// GET /register
func (h *PageHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", web.Page{Title: "アカウント登録", Data: registerForm{}})
}

// Register はアカウントを登録し、成功したらログインページへ遷移する。
// POST /register
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := registerForm{
		Email:    r.PostForm.Get("email"),
		FullName: r.PostForm.Get("full_name"),
	}

	_, err := h.auth.Register(r.Context(), model.RegisterRequest{
		Email:    form.Email,
		FullName: form.FullName,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		msg, status := h.apiFailure(r, "register", err)
		h.render(w, r, status, "register", web.Page{Title: "アカウント登録", Error: msg, Data: form})
		return
	}

	seeOther(w, r, route.PathLogin+"?registered=1")
}

// Logout は両スコープからトークンを削除し、サーバー側セッションを破棄する。
// POST /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if tiered, ok := middleware.TieredFromContext(r.Context()); ok {
		if err := tiered.Clear(r.Context()); err != nil {
			h.logger.Warn("failed to clear token", slog.String("error", err.Error()))
		}
	}
	if h.sessions != nil {
		if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
			h.logger.Warn("failed to destroy session", slog.String("error", err.Error()))
		}
	}
	seeOther(w, r, route.PathLogin)
}
