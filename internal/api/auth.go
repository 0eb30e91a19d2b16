package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/smarttime/internal/model"
)

// AuthService は認証とユーザー情報のAPIグループ。
type AuthService struct {
	client *Client
}

// Login はPOST /auth/login でトークンを取得する。
// ボディは username=<login>&password=<password> の順でフォームエンコードする。
func (s *AuthService) Login(ctx context.Context, cred model.Credentials) (*model.LoginResponse, error) {
	body := "username=" + url.QueryEscape(cred.Login) + "&password=" + url.QueryEscape(cred.Password)

	var out model.LoginResponse
	ep := endpoint{method: http.MethodPost, pattern: "/auth/login", path: "/auth/login"}
	if err := s.client.do(ctx, ep, strings.NewReader(body), contentTypeForm, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register はPOST /auth/register でユーザーを登録する。
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error) {
	var out model.MessageResponse
	ep := endpoint{method: http.MethodPost, pattern: "/auth/register", path: "/auth/register"}
	if err := s.client.doJSON(ctx, ep, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile はGET /users/me でログイン中のユーザー情報を取得する。
func (s *AuthService) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	ep := endpoint{method: http.MethodGet, pattern: "/users/me", path: "/users/me"}
	if err := s.client.doJSON(ctx, ep, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
