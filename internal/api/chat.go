package api

import (
	"context"
	"net/http"

	"github.com/hitoshi/smarttime/internal/model"
)

// ChatService はAIアシスタントとのチャットのAPIグループ。
type ChatService struct {
	client *Client
}

// SendMessage はPOST /agent/chat に {"message": ...} を送信し、アシスタントの応答を返す。
func (s *ChatService) SendMessage(ctx context.Context, message string) (*model.ChatReply, error) {
	var out model.ChatReply
	ep := endpoint{method: http.MethodPost, pattern: "/agent/chat", path: "/agent/chat"}
	if err := s.client.doJSON(ctx, ep, model.ChatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
