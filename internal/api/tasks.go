package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/smarttime/internal/model"
)

// TaskService はタスクのAPIグループ。
type TaskService struct {
	client *Client
}

func taskPath(id int) string { return "/tasks/" + strconv.Itoa(id) }

// GetTasks はGET /tasks でタスク一覧を取得する。
func (s *TaskService) GetTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	ep := endpoint{method: http.MethodGet, pattern: "/tasks", path: "/tasks"}
	if err := s.client.doJSON(ctx, ep, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask はPOST /tasks でタスクを作成する。
func (s *TaskService) CreateTask(ctx context.Context, task model.TaskCreate) (*model.Task, error) {
	var out model.Task
	ep := endpoint{method: http.MethodPost, pattern: "/tasks", path: "/tasks"}
	if err := s.client.doJSON(ctx, ep, task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask はPUT /tasks/{id} でタスクを更新する。
func (s *TaskService) UpdateTask(ctx context.Context, id int, task model.TaskUpdate) (*model.Task, error) {
	var out model.Task
	ep := endpoint{method: http.MethodPut, pattern: "/tasks/{id}", path: taskPath(id)}
	if err := s.client.doJSON(ctx, ep, task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask はDELETE /tasks/{id} でタスクを削除する。
func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	ep := endpoint{method: http.MethodDelete, pattern: "/tasks/{id}", path: taskPath(id)}
	return s.client.doJSON(ctx, ep, nil, nil)
}
