package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	for _, name := range []string{"login", "register", "dashboard", "tasks", "meetings", "chat"} {
		if !r.Has(name) {
			t.Errorf("page %q not registered", name)
		}
	}
	if r.Has("layout") {
		t.Error("layout must not be a page")
	}
}

func TestRender_WritesLayoutAndContent(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	w := httptest.NewRecorder()
	err = r.Render(w, http.StatusUnauthorized, "login", Page{
		Title: "ログイン",
		Error: "<b>失敗</b>",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{`href="/theme.css"`, `action="/login"`, "&lt;b&gt;失敗&lt;/b&gt;"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, `action="/logout"`) {
		t.Error("logout form must not appear when unauthenticated")
	}
}

func TestRender_AuthenticatedShowsNav(t *testing.T) {
	r, _ := NewRenderer()
	w := httptest.NewRecorder()

	type chatData struct {
		Message string
		Reply   string
	}
	if err := r.Render(w, http.StatusOK, "chat", Page{
		Title:         "チャット",
		Authenticated: true,
		Data:          chatData{Message: "<i>hi</i>", Reply: "<strong>ok</strong>"},
	}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, `action="/logout"`) {
		t.Error("expected logout form")
	}
	if !strings.Contains(body, "<strong>ok</strong>") {
		t.Error("reply should be rendered as HTML")
	}
	if !strings.Contains(body, "&lt;i&gt;hi&lt;/i&gt;") {
		t.Error("user message should be escaped")
	}
}

func TestRender_UnknownPage(t *testing.T) {
	r, _ := NewRenderer()
	w := httptest.NewRecorder()
	if err := r.Render(w, http.StatusOK, "nope", Page{}); err == nil {
		t.Fatal("expected error")
	}
	if w.Body.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"value", ts, "2024-03-01 09:30"},
		{"pointer", &ts, "2024-03-01 09:30"},
		{"nil pointer", (*time.Time)(nil), "-"},
		{"zero", time.Time{}, "-"},
		{"other", "x", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.in); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
