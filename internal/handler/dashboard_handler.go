package handler

import (
	"net/http"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/web"
)

type dashboardData struct {
	Profile  *model.Profile
	Tasks    []model.Task
	Meetings []model.Meeting
}

// Dashboard はプロフィールと直近のタスク、ミーティングを表示する。
// 一部の取得に失敗しても取得できたものは表示する。
// GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		data   dashboardData
		errMsg string
		status = http.StatusOK
	)

	fail := func(op string, err error) {
		if errMsg != "" {
			return
		}
		errMsg, status = h.apiFailure(r, op, err)
	}

	if p, err := h.auth.GetProfile(ctx); err != nil {
		fail("get_profile", err)
	} else {
		data.Profile = p
	}
	if tasks, err := h.tasks.GetTasks(ctx); err != nil {
		fail("get_tasks", err)
	} else {
		data.Tasks = tasks
	}
	if meetings, err := h.meetings.GetMeetings(ctx); err != nil {
		fail("get_meetings", err)
	} else {
		data.Meetings = meetings
	}

	h.render(w, r, status, "dashboard", web.Page{Title: "ダッシュボード", Error: errMsg, Data: data})
}
