package model

import "time"

// Session はブラウザセッション単位のサーバー側ストレージを表す。
// セッションCookieの寿命と同じスコープで値を保持する。
type Session struct {
	ID        string
	Values    map[string]string
	ExpiresAt time.Time
	CreatedAt time.Time
}
