package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusError はバックエンドが2xx以外を返した場合のエラー。
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Detail     string // FastAPI形式の {"detail": "..."} から取り出した説明
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	e := &StatusError{Method: method, Path: path, StatusCode: status, Body: body}
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch d := payload.Detail.(type) {
		case string:
			e.Detail = d
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				e.Detail = string(b)
			}
		}
	}
	return e
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsStatus はerrが指定ステータスのStatusErrorであればtrueを返す。
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == status
}
