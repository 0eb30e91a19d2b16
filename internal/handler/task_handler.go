package handler

import (
	"net/http"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/route"
	"github.com/hitoshi/smarttime/internal/web"
)

type tasksData struct {
	Tasks      []model.Task
	Priorities []model.TaskPriority
	Statuses   []model.TaskStatus
}

var (
	taskPriorities = []model.TaskPriority{model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh}
	taskStatuses   = []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusCompleted}
)

// Tasks はタスク一覧を表示する。
// GET /tasks
func (h *PageHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	h.renderTasks(w, r, http.StatusOK, "")
}

// CreateTask はタスクを作成する。
// POST /tasks
func (h *PageHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.TaskCreate{
		Title:       r.PostForm.Get("title"),
		Description: optionalString(r.PostForm, "description"),
		StartTime:   optionalTime(r.PostForm, "start_time"),
		EndTime:     optionalTime(r.PostForm, "end_time"),
	}
	if p := optionalString(r.PostForm, "priority"); p != nil {
		in.Priority = model.TaskPriority(*p)
	}

	if _, err := h.tasks.CreateTask(r.Context(), in); err != nil {
		msg, status := h.apiFailure(r, "create_task", err)
		h.renderTasks(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathTasks)
}

// UpdateTask はフォームで入力されたフィールドだけを部分更新する。
// POST /tasks/{id}
func (h *PageHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.TaskUpdate{
		Title:       optionalString(r.PostForm, "title"),
		Description: optionalString(r.PostForm, "description"),
		StartTime:   optionalTime(r.PostForm, "start_time"),
		EndTime:     optionalTime(r.PostForm, "end_time"),
	}
	if p := optionalString(r.PostForm, "priority"); p != nil {
		v := model.TaskPriority(*p)
		in.Priority = &v
	}
	if s := optionalString(r.PostForm, "status"); s != nil {
		v := model.TaskStatus(*s)
		in.Status = &v
	}

	if _, err := h.tasks.UpdateTask(r.Context(), id, in); err != nil {
		msg, status := h.apiFailure(r, "update_task", err)
		h.renderTasks(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathTasks)
}

// DeleteTask はタスクを削除する。
// POST /tasks/{id}/delete
func (h *PageHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		msg, status := h.apiFailure(r, "delete_task", err)
		h.renderTasks(w, r, status, msg)
		return
	}
	seeOther(w, r, route.PathTasks)
}

// renderTasks は一覧を取得し直して描画する。errMsgが空でなければ先に起きたエラーを優先して表示する。
func (h *PageHandler) renderTasks(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := tasksData{Priorities: taskPriorities, Statuses: taskStatuses}

	tasks, err := h.tasks.GetTasks(r.Context())
	if err != nil {
		msg, st := h.apiFailure(r, "get_tasks", err)
		if errMsg == "" {
			errMsg, status = msg, st
		}
	} else {
		data.Tasks = tasks
	}

	h.render(w, r, status, "tasks", web.Page{Title: "タスク", Error: errMsg, Data: data})
}
