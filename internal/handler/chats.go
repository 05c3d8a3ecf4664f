package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
	"github.com/glimmerchat/glimmer/internal/identity"
)

type chatJSON struct {
	ID          uuid.UUID `json:"id"`
	CharacterID uuid.UUID `json:"characterId"`
	Title       string    `json:"title"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toChatJSON(c *domain.Chat) chatJSON {
	return chatJSON{
		ID:          c.ID,
		CharacterID: c.CharacterID,
		Title:       c.Title,
		Pinned:      c.Pinned,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// chatIDParam parses the chat id from the URL. An unparsable id gets the
// same response as a missing chat.
func chatIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		return uuid.Nil, domain.ErrChatNotFound
	}
	return id, nil
}

func (h *Handler) getOrCreateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID string `json:"characterId"`
	}
	if err := decode(r, &req); err != nil || req.CharacterID == "" {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "characterId is required")
		return
	}
	characterID, err := uuid.Parse(req.CharacterID)
	if err != nil {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "characterId is not a valid id")
		return
	}

	actor := identity.FromContext(r.Context())
	chat, err := h.chats.GetOrCreate(r.Context(), actor, characterID)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, toChatJSON(chat))
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	actor := identity.FromContext(r.Context())
	chats, err := h.chats.List(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]chatJSON, 0, len(chats))
	for i := range chats {
		out = append(out, toChatJSON(&chats[i]))
	}
	JSON(w, http.StatusOK, map[string]any{"chats": out})
}

func (h *Handler) updateChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title  *string `json:"title"`
		Pinned *bool   `json:"pinned"`
	}
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}

	ctx := r.Context()
	actor := identity.FromContext(ctx)

	if req.Title != nil {
		if err := h.chats.Rename(ctx, actor, chatID, *req.Title); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Pinned != nil {
		if err := h.chats.SetPinned(ctx, actor, chatID, *req.Pinned); err != nil {
			writeError(w, err)
			return
		}
	}

	chat, err := h.chats.Get(ctx, actor, chatID)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, toChatJSON(chat))
}

func (h *Handler) deleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	actor := identity.FromContext(r.Context())
	if err := h.chats.Delete(r.Context(), actor, chatID); err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	actor := identity.FromContext(r.Context())
	if err := h.messages.Clear(r.Context(), actor, chatID); err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
