package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/token"
)

// capturedRequest はテストサーバーが受け取ったリクエストの記録。
type capturedRequest struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	Body          string
}

// newTestServer はリクエストを記録し、指定ステータスとボディで応答するサーバーを返す。
func newTestServer(t *testing.T, status int, respBody string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		captured []capturedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		captured = append(captured, capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			Body:          string(b),
		})
		mu.Unlock()
		if respBody != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func newTestClient(server *httptest.Server, opts ...Option) *Client {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	opts = append([]Option{WithHTTPClient(server.Client()), WithLogger(logger)}, opts...)
	return NewClient(server.URL, opts...)
}

func lastRequest(t *testing.T, captured *[]capturedRequest) capturedRequest {
	t.Helper()
	if len(*captured) == 0 {
		t.Fatal("server received no request")
	}
	return (*captured)[len(*captured)-1]
}

type recorderMock struct {
	calls []string
}

func (m *recorderMock) RecordAPIRequest(method, path string, status int, _ time.Duration) {
	m.calls = append(m.calls, method+" "+path+" "+http.StatusText(status))
}

func TestNewClient_DefaultHTTPClientHasCookieJar(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if c.httpClient == nil || c.httpClient.Jar == nil {
		t.Fatal("default http client should carry a cookie jar")
	}
	if c.httpClient.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", c.httpClient.Timeout)
	}
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestBearerInterceptor_SetsHeaderOnlyWhenTokenPresent(t *testing.T) {
	tests := []struct {
		name       string
		persistent string
		session    string
		want       string
	}{
		{name: "トークンなし", want: ""},
		{name: "永続スコープ", persistent: "p", want: "Bearer p"},
		{name: "セッションスコープ", session: "s", want: "Bearer s"},
		{name: "永続を優先", persistent: "p", session: "s", want: "Bearer p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p, s := token.NewMemoryStore(), token.NewMemoryStore()
			if tt.persistent != "" {
				_ = p.Set(ctx, token.Key, tt.persistent)
			}
			if tt.session != "" {
				_ = s.Set(ctx, token.Key, tt.session)
			}

			server, captured := newTestServer(t, http.StatusOK, `[]`)
			c := newTestClient(server, WithInterceptor(BearerInterceptor(token.Tiered{Persistent: p, Session: s})))

			if _, err := c.Tasks.GetTasks(ctx); err != nil {
				t.Fatalf("GetTasks: %v", err)
			}
			if got := lastRequest(t, captured).Authorization; got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBearerInterceptor_ReadsAtCallTime(t *testing.T) {
	ctx := context.Background()
	store := token.NewMemoryStore()
	server, captured := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(server, WithInterceptor(BearerInterceptor(token.Tiered{Persistent: store})))

	if _, err := c.Auth.GetProfile(ctx); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	_ = store.Set(ctx, token.Key, "later")
	if _, err := c.Auth.GetProfile(ctx); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	if (*captured)[0].Authorization != "" {
		t.Errorf("first call Authorization = %q, want empty", (*captured)[0].Authorization)
	}
	if (*captured)[1].Authorization != "Bearer later" {
		t.Errorf("second call Authorization = %q, want %q", (*captured)[1].Authorization, "Bearer later")
	}
}

func TestBearerInterceptor_ContextReader(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"reply":"ok"}`)
	c := newTestClient(server, WithInterceptor(BearerInterceptor(token.ContextReader{})))

	ctx := token.WithReader(context.Background(), token.Static("req-token"))
	if _, err := c.Chat.SendMessage(ctx, "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got := lastRequest(t, captured).Authorization; got != "Bearer req-token" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer req-token")
	}
}

func TestInterceptorError_ReturnedUnchanged(t *testing.T) {
	sentinel := errors.New("interceptor failed")
	server, captured := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(server, WithInterceptor(func(*http.Request) error { return sentinel }))

	_, err := c.Tasks.GetTasks(context.Background())
	if err != sentinel {
		t.Errorf("err = %v, want the interceptor error itself", err)
	}
	if len(*captured) != 0 {
		t.Error("request must not be sent when an interceptor fails")
	}
}

func TestInterceptors_RunInOrder(t *testing.T) {
	var order []string
	server, captured := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(server,
		WithInterceptor(func(r *http.Request) error {
			order = append(order, "first")
			r.Header.Set("X-Trace", "1")
			return nil
		}),
		WithInterceptor(func(r *http.Request) error {
			order = append(order, "second")
			return nil
		}),
	)

	if _, err := c.Meetings.GetMeetings(context.Background()); err != nil {
		t.Fatalf("GetMeetings: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
	if len(*captured) != 1 {
		t.Fatalf("captured = %d, want 1", len(*captured))
	}
}

func TestAuth_Login_FormEncoded(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"access_token":"jwt","token_type":"bearer"}`)
	c := newTestClient(server)

	resp, err := c.Auth.Login(context.Background(), model.Credentials{Login: "a", Password: "b"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "jwt" || resp.TokenType != "bearer" {
		t.Errorf("resp = %+v", resp)
	}

	req := lastRequest(t, captured)
	if req.Method != http.MethodPost || req.Path != "/auth/login" {
		t.Errorf("request = %s %s, want POST /auth/login", req.Method, req.Path)
	}
	if req.Body != "username=a&password=b" {
		t.Errorf("body = %q, want %q", req.Body, "username=a&password=b")
	}
	if req.ContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", req.ContentType)
	}
}

func TestAuth_Login_EscapesValues(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(server)

	_, err := c.Auth.Login(context.Background(), model.Credentials{Login: "a@b.c", Password: "p&q r"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := lastRequest(t, captured).Body; got != "username=a%40b.c&password=p%26q+r" {
		t.Errorf("body = %q", got)
	}
}

func TestAuth_RegisterAndProfile_JSON(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"message":"User created successfully"}`)
	c := newTestClient(server)

	resp, err := c.Auth.Register(context.Background(), model.RegisterRequest{
		Email: "u@example.com", FullName: "U", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("Message = %q", resp.Message)
	}

	req := lastRequest(t, captured)
	if req.Path != "/auth/register" || req.ContentType != "application/json" {
		t.Errorf("request = %s %s (%s)", req.Method, req.Path, req.ContentType)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["email"] != "u@example.com" || body["full_name"] != "U" || body["password"] != "pw" {
		t.Errorf("body = %v", body)
	}
}

func TestAuth_GetProfile(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"id":1,"username":"user_ab","fulll_name":"Full","email":"e@x"}`)
	c := newTestClient(server)

	p, err := c.Auth.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.ID != 1 || p.FullName != "Full" || p.Username != "user_ab" {
		t.Errorf("profile = %+v", p)
	}
	if req := lastRequest(t, captured); req.Method != http.MethodGet || req.Path != "/users/me" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}

func TestTasks_UpdateTask(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"id":5,"title":"x","priority":"medium","status":"pending"}`)
	c := newTestClient(server)

	title := "x"
	task, err := c.Tasks.UpdateTask(context.Background(), 5, model.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if task.ID != 5 || task.Status != model.TaskStatusPending {
		t.Errorf("task = %+v", task)
	}

	req := lastRequest(t, captured)
	if req.Method != http.MethodPut || req.Path != "/tasks/5" {
		t.Errorf("request = %s %s, want PUT /tasks/5", req.Method, req.Path)
	}
	if req.Body != `{"title":"x"}` {
		t.Errorf("body = %q, want %q", req.Body, `{"title":"x"}`)
	}
	if req.ContentType != "application/json" {
		t.Errorf("Content-Type = %q", req.ContentType)
	}
}

func TestTasks_CRUDAddressing(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(server)
	ctx := context.Background()

	_, _ = c.Tasks.GetTasks(ctx)
	_, _ = c.Tasks.CreateTask(ctx, model.TaskCreate{Title: "t"})
	_ = c.Tasks.DeleteTask(ctx, 9)

	want := []string{"GET /tasks", "POST /tasks", "DELETE /tasks/9"}
	if len(*captured) != len(want) {
		t.Fatalf("captured %d requests, want %d", len(*captured), len(want))
	}
	for i, w := range want {
		got := (*captured)[i].Method + " " + (*captured)[i].Path
		if got != w {
			t.Errorf("request[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestMeetings_CRUDAddressing(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(server)
	ctx := context.Background()

	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	loc := "Room 1"
	_, _ = c.Meetings.CreateMeeting(ctx, model.MeetingCreate{Title: "sync", StartTime: start, EndTime: start.Add(time.Hour)})
	_, _ = c.Meetings.UpdateMeeting(ctx, 3, model.MeetingUpdate{Location: &loc})
	_ = c.Meetings.DeleteMeeting(ctx, 3)

	want := []string{"POST /meetings", "PUT /meetings/3", "DELETE /meetings/3"}
	for i, w := range want {
		got := (*captured)[i].Method + " " + (*captured)[i].Path
		if got != w {
			t.Errorf("request[%d] = %q, want %q", i, got, w)
		}
	}
	if body := (*captured)[1].Body; body != `{"location":"Room 1"}` {
		t.Errorf("update body = %q", body)
	}
}

func TestTasks_DeleteTask_NoContent(t *testing.T) {
	server, _ := newTestServer(t, http.StatusNoContent, "")
	c := newTestClient(server)

	if err := c.Tasks.DeleteTask(context.Background(), 1); err != nil {
		t.Errorf("DeleteTask on 204 = %v, want nil", err)
	}
}

func TestChat_SendMessage(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"reply":"hello"}`)
	c := newTestClient(server)

	reply, err := c.Chat.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Reply != "hello" {
		t.Errorf("Reply = %q", reply.Reply)
	}

	req := lastRequest(t, captured)
	if req.Method != http.MethodPost || req.Path != "/agent/chat" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if req.Body != `{"message":"hi"}` {
		t.Errorf("body = %q, want %q", req.Body, `{"message":"hi"}`)
	}
}

func TestStatusError_Propagated(t *testing.T) {
	server, _ := newTestServer(t, http.StatusUnauthorized, `{"detail":"Invalid token"}`)
	c := newTestClient(server)

	_, err := c.Auth.GetProfile(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T %v, want *StatusError", err, err)
	}
	if se.StatusCode != http.StatusUnauthorized || se.Detail != "Invalid token" {
		t.Errorf("StatusError = %+v", se)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(401) should be true")
	}
	if !bytes.Contains(se.Body, []byte("Invalid token")) {
		t.Errorf("Body = %q", se.Body)
	}
}

func TestStatusError_ValidationDetail(t *testing.T) {
	server, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","title"],"msg":"field required"}]}`)
	c := newTestClient(server)

	_, err := c.Tasks.CreateTask(context.Background(), model.TaskCreate{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Detail == "" {
		t.Error("Detail should carry the serialized validation errors")
	}
}

func TestTransportError_NotStatusError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(server)
	server.Close()

	_, err := c.Tasks.GetTasks(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport error should not be a StatusError: %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `not-json`)
	c := newTestClient(server)

	if _, err := c.Tasks.GetTasks(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRecorder_RecordsPatternAndStatus(t *testing.T) {
	rec := &recorderMock{}
	server, _ := newTestServer(t, http.StatusNotFound, `{"detail":"Task not found"}`)
	c := newTestClient(server, WithRecorder(rec))

	_ = c.Tasks.DeleteTask(context.Background(), 42)

	if len(rec.calls) != 1 || rec.calls[0] != "DELETE /tasks/{id} Not Found" {
		t.Errorf("calls = %v", rec.calls)
	}
}
