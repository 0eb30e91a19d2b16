// Package model はドメインモデルを定義する。
package model

// Credentials はログインフォームの入力値を表す。
// Loginにはメールアドレスまたはユーザー名を指定する。
type Credentials struct {
	Login    string
	Password string
}

// LoginResponse はPOST /auth/login の応答ボディを表す。
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest はPOST /auth/register のリクエストボディを表す。
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Profile はGET /users/me の応答ボディを表す。
// バックエンドは氏名を "fulll_name" キーで返すため、そのまま受ける。
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fulll_name"`
	Email    string `json:"email"`
}

// MessageResponse は {"message": "..."} 形式の応答ボディを表す。
type MessageResponse struct {
	Message string `json:"message"`
}
