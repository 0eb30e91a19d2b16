// Package logger はJSON構造化ログの初期化を提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// redactedKeys はログに値を出さない属性名（小文字）。
var redactedKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"password":      true,
	"authorization": true,
	"cookie":        true,
}

const redacted = "[REDACTED]"

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// トークンやパスワードを表す属性は値を伏せて出力する。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	})
	return slog.New(handler)
}

func redact(groups []string, a slog.Attr) slog.Attr {
	if redactedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// ParseLevel はdebug, info, warn, errorのいずれかをslog.Levelに変換する。
// 不明な値はInfoとして扱う。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// 設定読み込み前に呼ばれるため、ログレベルは環境変数LOG_LEVELから直接読む。
// wがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	l := Setup(w, ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(l)
	return l
}
