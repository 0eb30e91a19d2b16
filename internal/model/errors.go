package model

import "fmt"

// APIError はページ以外の応答とページ内のエラー表示で共有するエラー情報。
// Categoryは backend（バックエンドAPI）か system（このサーバー自身）。
type APIError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeSessionStoreDown   = "SESSION_STORE_UNAVAILABLE"
)

// NewInternalError は内部エラーを生成する。詳細はログにだけ残す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewBackendUnavailableError はバックエンドAPIに到達できない場合のエラーを生成する。
func NewBackendUnavailableError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnavailable,
		Message:  fmt.Sprintf("バックエンドAPIに接続できません: %s", reason),
		Category: "backend",
		Action:   "API_BASE_URL の設定とバックエンドの稼働状況を確認してください。",
	}
}

// NewSessionStoreUnavailableError はセッションストアに到達できない場合のエラーを生成する。
func NewSessionStoreUnavailableError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionStoreDown,
		Message:  fmt.Sprintf("セッションストアに接続できません: %s", reason),
		Category: "system",
		Action:   "SESSION_STORE の設定と接続先を確認してください。",
	}
}
