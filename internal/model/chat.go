package model

// ChatRequest はPOST /agent/chat のリクエストボディを表す。
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply はアシスタントの応答を表す。
type ChatReply struct {
	Reply string `json:"reply"`
}
