package handler

import (
	"net/http"
	"strings"

	"github.com/hitoshi/smarttime/internal/theme"
)

// baseStyles はテーマ変数を参照する最小限のスタイル。
const baseStyles = `body { margin: 0; font-family: system-ui, sans-serif; background: var(--color-background); color: var(--color-text); }
nav { display: flex; gap: 1rem; align-items: center; padding: .75rem 1rem; background: var(--color-surface); border-bottom: 1px solid var(--color-border); }
nav a { color: var(--color-primary); text-decoration: none; }
main { max-width: 56rem; margin: 0 auto; padding: 1rem; }
label { display: block; margin: .5rem 0; }
input, select, textarea { width: 100%; padding: .4rem; border: 1px solid var(--color-border); background: var(--color-surface); color: var(--color-text); }
input[type=checkbox] { width: auto; }
button { padding: .4rem .9rem; border: 0; background: var(--color-primary); color: #fff; cursor: pointer; }
button.danger { background: var(--color-danger); }
form.inline { display: inline; margin-left: auto; }
.card { background: var(--color-surface); border: 1px solid var(--color-border); padding: 1rem; margin: 1rem 0; }
.error { color: var(--color-danger); }
.flash { color: var(--color-success); }
.status-completed { color: var(--color-success); }
.status-in_progress { color: var(--color-warning); }
.message { white-space: pre-wrap; padding: .5rem; margin: .5rem 0; border-left: 3px solid var(--color-secondary); }
.message.assistant { border-color: var(--color-primary); }
`

// ThemeHandler は選択中のテーマのCSS変数とベーススタイルを返す。
type ThemeHandler struct {
	defaultVariant string
}

// NewThemeHandler はThemeHandlerを生成する。variantが不明な場合はlightを使う。
func NewThemeHandler(variant string) *ThemeHandler {
	if _, ok := theme.ByName(variant); !ok {
		variant = theme.VariantLight
	}
	return &ThemeHandler{defaultVariant: variant}
}

// ServeHTTP は ?variant=dark|light でテーマを切り替えられる。
// GET /theme.css
func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	palette, ok := theme.ByName(r.URL.Query().Get("variant"))
	if !ok {
		palette, _ = theme.ByName(h.defaultVariant)
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	b.WriteString(palette.CSSVars())
	b.WriteString("}\n")
	b.WriteString(baseStyles)

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write([]byte(b.String()))
}
