// Package handler exposes the chat pipeline over HTTP. Everything above
// it (rendering, routing to pages, the auth provider) lives in the web
// frontend and is not this service's concern.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glimmerchat/glimmer/internal/domain"
	"github.com/glimmerchat/glimmer/internal/service"
)

// Handler holds the services the HTTP surface delegates to.
type Handler struct {
	chats      *service.ChatService
	messages   *service.MessageService
	characters *service.CharacterService
	responder  *service.Responder
}

// Deps contains everything required to construct a Handler.
type Deps struct {
	Chats      *service.ChatService
	Messages   *service.MessageService
	Characters *service.CharacterService
	Responder  *service.Responder
}

func New(deps Deps) *Handler {
	return &Handler{
		chats:      deps.Chats,
		messages:   deps.Messages,
		characters: deps.Characters,
		responder:  deps.Responder,
	}
}

// Routes mounts the API onto the router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/chats", func(r chi.Router) {
			r.Post("/", h.getOrCreateChat)
			r.Get("/", h.listChats)
			r.Patch("/{chatID}", h.updateChat)
			r.Delete("/{chatID}", h.deleteChat)
			r.Get("/{chatID}/messages", h.listMessages)
			r.Post("/{chatID}/messages", h.submitMessage)
			r.Delete("/{chatID}/messages", h.clearHistory)
		})
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", h.listCharacters)
			r.Post("/", h.createCharacter)
			r.Get("/{characterID}", h.getCharacter)
			r.Patch("/{characterID}", h.updateCharacter)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes the {"error":{"code","message"}} envelope.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// writeError maps pipeline errors onto the wire taxonomy. Missing and
// foreign chats produce byte-identical responses.
func writeError(w http.ResponseWriter, err error) {
	var denied *domain.QuotaDeniedError
	switch {
	case errors.As(err, &denied):
		status := http.StatusPaymentRequired
		message := "Plan limit reached. Upgrade to continue."
		if denied.Reason == domain.DenialLoginRequired {
			status = http.StatusUnauthorized
			message = "Log in to continue."
		}
		Error(w, status, string(denied.Reason), message)
	case errors.Is(err, domain.ErrChatNotFound):
		Error(w, http.StatusNotFound, "NOT_FOUND", "chat not found")
	case errors.Is(err, domain.ErrCharacterNotFound):
		Error(w, http.StatusNotFound, "NOT_FOUND", "character not found")
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrNameRequired):
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, domain.ErrNotCharacterOwner):
		Error(w, http.StatusForbidden, "FORBIDDEN", "only the creator can modify this character")
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrEmptyCompletion):
		Error(w, http.StatusBadGateway, "GENERATION_FAILED", "the character could not reply, try again")
	default:
		slog.Error("request failed", "error", err)
		Error(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
