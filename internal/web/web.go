// Package web はページのHTMLテンプレートを埋め込み、描画する。
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// 日時の表示形式とフォーム入力（datetime-local）の形式
const (
	DisplayTimeFormat = "2006-01-02 15:04"
	InputTimeFormat   = "2006-01-02T15:04"
)

// Page はテンプレートに渡す共通データ。
type Page struct {
	Title         string
	Authenticated bool
	Error         string
	Flash         string
	Data          any
}

// Renderer はページ名ごとにレイアウトと合成済みのテンプレートを保持する。
// 起動時に1度だけ構築し、以後は読み取りのみ。
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer は埋め込みテンプレートをすべて解析してRendererを生成する。
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Has はページ名のテンプレートが存在するかを返す。
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render はページを描画してステータスコードとともに書き込む。
// 描画に失敗した場合はレスポンスに何も書かずにエラーを返す。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"datetime": formatTime,
	"inputtime": func(v any) string {
		t, ok := asTime(v)
		if !ok {
			return ""
		}
		return t.Local().Format(InputTimeFormat)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s) // 呼び出し側でサニタイズ済みの値だけを渡す
	},
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

func formatTime(v any) string {
	t, ok := asTime(v)
	if !ok {
		return "-"
	}
	return t.Local().Format(DisplayTimeFormat)
}
