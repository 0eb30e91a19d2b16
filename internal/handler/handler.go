// Package handler はページのHTTPハンドラーとルーターを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/smarttime/internal/api"
	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/security"
	"github.com/hitoshi/smarttime/internal/token"
	"github.com/hitoshi/smarttime/internal/web"
)

// AuthAPI は認証ページが使うバックエンドAPI。api.AuthServiceが満たす。
type AuthAPI interface {
	Login(ctx context.Context, cred model.Credentials) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error)
	GetProfile(ctx context.Context) (*model.Profile, error)
}

// TaskAPI はタスクページが使うバックエンドAPI。api.TaskServiceが満たす。
type TaskAPI interface {
	GetTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, task model.TaskCreate) (*model.Task, error)
	UpdateTask(ctx context.Context, id int, task model.TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// MeetingAPI はミーティングページが使うバックエンドAPI。api.MeetingServiceが満たす。
type MeetingAPI interface {
	GetMeetings(ctx context.Context) ([]model.Meeting, error)
	CreateMeeting(ctx context.Context, meeting model.MeetingCreate) (*model.Meeting, error)
	UpdateMeeting(ctx context.Context, id int, meeting model.MeetingUpdate) (*model.Meeting, error)
	DeleteMeeting(ctx context.Context, id int) error
}

// ChatAPI はチャットページが使うバックエンドAPI。api.ChatServiceが満たす。
type ChatAPI interface {
	SendMessage(ctx context.Context, message string) (*model.ChatReply, error)
}

// SessionDestroyer はログアウト時にサーバー側セッションを破棄する。
type SessionDestroyer interface {
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

var (
	_ AuthAPI    = (*api.AuthService)(nil)
	_ TaskAPI    = (*api.TaskService)(nil)
	_ MeetingAPI = (*api.MeetingService)(nil)
	_ ChatAPI    = (*api.ChatService)(nil)
)

// PageHandler は全ページのハンドラーをまとめる。
type PageHandler struct {
	auth      AuthAPI
	tasks     TaskAPI
	meetings  MeetingAPI
	chat      ChatAPI
	sessions  SessionDestroyer
	renderer  *web.Renderer
	sanitizer security.ReplySanitizer
	logger    *slog.Logger
}

// PageDeps はNewPageHandlerの依存関係。
type PageDeps struct {
	Auth      AuthAPI
	Tasks     TaskAPI
	Meetings  MeetingAPI
	Chat      ChatAPI
	Sessions  SessionDestroyer
	Renderer  *web.Renderer
	Sanitizer security.ReplySanitizer
	Logger    *slog.Logger
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(deps PageDeps) *PageHandler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = security.NewReplySanitizer()
	}
	return &PageHandler{
		auth:      deps.Auth,
		tasks:     deps.Tasks,
		meetings:  deps.Meetings,
		chat:      deps.Chat,
		sessions:  deps.Sessions,
		renderer:  deps.Renderer,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// render はページを描画する。描画に失敗した場合は500を返す。
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, p web.Page) {
	p.Authenticated = token.ContextReader{}.Token(r.Context()) != ""
	if err := h.renderer.Render(w, status, name, p); err != nil {
		h.logger.Error("failed to render page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// apiFailure はバックエンド呼び出しのエラーをログに記録し、
// ページに表示するメッセージと応答ステータスを返す。
func (h *PageHandler) apiFailure(r *http.Request, op string, err error) (string, int) {
	var se *api.StatusError
	if errors.As(err, &se) {
		h.logger.Warn("backend returned error",
			slog.String("op", op),
			slog.Int("status", se.StatusCode),
			slog.String("path", se.Path),
		)
		msg := se.Detail
		if msg == "" {
			msg = http.StatusText(se.StatusCode)
		}
		status := se.StatusCode
		if status >= 500 {
			status = http.StatusBadGateway
		}
		return msg, status
	}

	if errors.Is(err, context.Canceled) {
		return "リクエストが取り消されました。", http.StatusServiceUnavailable
	}

	h.logger.Error("backend request failed",
		slog.String("op", op),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	apiErr := model.NewBackendUnavailableError(err.Error())
	return apiErr.Message + " " + apiErr.Action, http.StatusBadGateway
}

// seeOther はフォーム送信後の遷移に使う303リダイレクトを返す。
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
