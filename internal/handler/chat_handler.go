package handler

import (
	"net/http"
	"strings"

	"github.com/hitoshi/smarttime/internal/web"
)

type chatData struct {
	Message string
	Reply   string // サニタイズ済みHTML
}

// ChatPage はチャットページを表示する。
// GET /chat
func (h *PageHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "chat", web.Page{Title: "チャット", Data: chatData{}})
}

// SendChat はメッセージをエージェントに送り、返信をサニタイズして表示する。
// POST /chat
func (h *PageHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	data := chatData{Message: strings.TrimSpace(r.PostForm.Get("message"))}

	reply, err := h.chat.SendMessage(r.Context(), data.Message)
	if err != nil {
		msg, status := h.apiFailure(r, "send_chat", err)
		h.render(w, r, status, "chat", web.Page{Title: "チャット", Error: msg, Data: data})
		return
	}

	data.Reply = h.sanitizer.Sanitize(reply.Reply)
	h.render(w, r, http.StatusOK, "chat", web.Page{Title: "チャット", Data: data})
}
