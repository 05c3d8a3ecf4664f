package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
	"github.com/glimmerchat/glimmer/internal/identity"
)

type messageJSON struct {
	ID        int64     `json:"id"`
	ChatID    uuid.UUID `json:"chatId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMessageJSON(m *domain.Message) messageJSON {
	return messageJSON{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	actor := identity.FromContext(r.Context())
	messages, err := h.messages.History(r.Context(), actor, chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]messageJSON, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageJSON(&messages[i]))
	}
	JSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (h *Handler) submitMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}

	actor := identity.FromContext(r.Context())
	reply, err := h.responder.Respond(r.Context(), actor, chatID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]messageJSON{"message": toMessageJSON(reply)})
}
