package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/smarttime/internal/web"
)

// optionalString は空でない値だけをポインタで返す。
func optionalString(form url.Values, key string) *string {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// optionalTime はdatetime-local形式の値をローカル時刻として解釈する。
// 空や解釈できない値はnilを返し、検証はバックエンドに任せる。
func optionalTime(form url.Values, key string) *time.Time {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	t, err := time.ParseInLocation(web.InputTimeFormat, v, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// pathID はURLパラメータ{id}を整数として取り出す。
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
