package handler

import (
	"net/http"
	"time"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/route"
	"github.com/hitoshi/smarttime/internal/web"
)

type meetingsData struct {
	Meetings []model.Meeting
}

// Meetings はミーティング一覧を表示する。
// GET /meetings
func (h *PageHandler) Meetings(w http.ResponseWriter, r *http.Request) {
	h.renderMeetings(w, r, http.StatusOK, "")
}

// CreateMeeting はミーティングを作成する。
// POST /meetings
func (h *PageHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.MeetingCreate{
		Title:       r.PostForm.Get("title"),
		Description: optionalString(r.PostForm, "description"),
		Location:    optionalString(r.PostForm, "location"),
		StartTime:   valueOrZero(optionalTime(r.PostForm, "start_time")),
		EndTime:     valueOrZero(optionalTime(r.PostForm, "end_time")),
	}

	if _, err := h.meetings.CreateMeeting(r.Context(), in); err != nil {
		msg, status := h.apiFailure(r, "create_meeting", err)
		h.renderMeetings(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathMeetings)
}

// UpdateMeeting はフォームで入力されたフィールドだけを部分更新する。
// POST /meetings/{id}
func (h *PageHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.MeetingUpdate{
		Title:       optionalString(r.PostForm, "title"),
		Description: optionalString(r.PostForm, "description"),
		Location:    optionalString(r.PostForm, "location"),
		StartTime:   optionalTime(r.PostForm, "start_time"),
		EndTime:     optionalTime(r.PostForm, "end_time"),
	}

	if _, err := h.meetings.UpdateMeeting(r.Context(), id, in); err != nil {
		msg, status := h.apiFailure(r, "update_meeting", err)
		h.renderMeetings(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathMeetings)
}

// DeleteMeeting はミーティングを削除する。
// POST /meetings/{id}/delete
func (h *PageHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.meetings.DeleteMeeting(r.Context(), id); err != nil {
		msg, status := h.apiFailure(r, "delete_meeting", err)
		h.renderMeetings(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathMeetings)
}

func (h *PageHandler) renderMeetings(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	var data meetingsData

	meetings, err := h.meetings.GetMeetings(r.Context())
	if err != nil {
		msg, st := h.apiFailure(r, "get_meetings", err)
		if errMsg == "" {
			errMsg, status = msg, st
		}
	} else {
		data.Meetings = meetings
	}

	h.render(w, r, status, "meetings", web.Page{Title: "ミーティング", Error: errMsg, Data: data})
}

func valueOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
