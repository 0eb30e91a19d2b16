package handler

import (
	"context"

	"github.com/hitoshi/smarttime/internal/model"
)

// --- モック定義 ---

type mockAuthAPI struct {
	loginFn      func(ctx context.Context, cred model.Credentials) (*model.LoginResponse, error)
	registerFn   func(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error)
	getProfileFn func(ctx context.Context) (*model.Profile, error)
}

func (m *mockAuthAPI) Login(ctx context.Context, cred model.Credentials) (*model.LoginResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, cred)
	}
	return &model.LoginResponse{AccessToken: "tok", TokenType: "bearer"}, nil
}

func (m *mockAuthAPI) Register(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return &model.MessageResponse{Message: "ok"}, nil
}

func (m *mockAuthAPI) GetProfile(ctx context.Context) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx)
	}
	return &model.Profile{ID: 1, Username: "taro", FullName: "Taro", Email: "taro@example.com"}, nil
}

type mockTaskAPI struct {
	getTasksFn   func(ctx context.Context) ([]model.Task, error)
	createTaskFn func(ctx context.Context, task model.TaskCreate) (*model.Task, error)
	updateTaskFn func(ctx context.Context, id int, task model.TaskUpdate) (*model.Task, error)
	deleteTaskFn func(ctx context.Context, id int) error
}

func (m *mockTaskAPI) GetTasks(ctx context.Context) ([]model.Task, error) {
	if m.getTasksFn != nil {
		return m.getTasksFn(ctx)
	}
	return nil, nil
}

func (m *mockTaskAPI) CreateTask(ctx context.Context, task model.TaskCreate) (*model.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, task)
	}
	return &model.Task{ID: 1, Title: task.Title}, nil
}

func (m *mockTaskAPI) UpdateTask(ctx context.Context, id int, task model.TaskUpdate) (*model.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, id, task)
	}
	return &model.Task{ID: id}, nil
}

func (m *mockTaskAPI) DeleteTask(ctx context.Context, id int) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, id)
	}
	return nil
}

type mockMeetingAPI struct {
	getMeetingsFn   func(ctx context.Context) ([]model.Meeting, error)
	createMeetingFn func(ctx context.Context, meeting model.MeetingCreate) (*model.Meeting, error)
	updateMeetingFn func(ctx context.Context, id int, meeting model.MeetingUpdate) (*model.Meeting, error)
	deleteMeetingFn func(ctx context.Context, id int) error
}

func (m *mockMeetingAPI) GetMeetings(ctx context.Context) ([]model.Meeting, error) {
	if m.getMeetingsFn != nil {
		return m.getMeetingsFn(ctx)
	}
	return nil, nil
}

func (m *mockMeetingAPI) CreateMeeting(ctx context.Context, meeting model.MeetingCreate) (*model.Meeting, error) {
	if m.createMeetingFn != nil {
		return m.createMeetingFn(ctx, meeting)
	}
	return &model.Meeting{ID: 1, Title: meeting.Title}, nil
}

func (m *mockMeetingAPI) UpdateMeeting(ctx context.Context, id int, meeting model.MeetingUpdate) (*model.Meeting, error) {
	if m.updateMeetingFn != nil {
		return m.updateMeetingFn(ctx, id, meeting)
	}
	return &model.Meeting{ID: id}, nil
}

func (m *mockMeetingAPI) DeleteMeeting(ctx context.Context, id int) error {
	if m.deleteMeetingFn != nil {
		return m.deleteMeetingFn(ctx, id)
	}
	return nil
}

type mockChatAPI struct {
	sendMessageFn func(ctx context.Context, message string) (*model.ChatReply, error)
}

func (m *mockChatAPI) SendMessage(ctx context.Context, message string) (*model.ChatReply, error) {
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, message)
	}
	return &model.ChatReply{Reply: "ok"}, nil
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error { return m.err }
