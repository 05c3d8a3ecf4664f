package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
	"github.com/glimmerchat/glimmer/internal/identity"
	"github.com/glimmerchat/glimmer/internal/service"
)

// characterJSON is the public character shape. The prompt template is the
// creator's own material and is never exposed.
type characterJSON struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Personality string    `json:"personality"`
	VoiceStyle  string    `json:"voiceStyle"`
	Official    bool      `json:"official"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCharacterJSON(c *domain.Character) characterJSON {
	return characterJSON{
		ID:          c.ID,
		Name:        c.Name,
		Tagline:     c.Tagline,
		Personality: c.Personality,
		VoiceStyle:  c.VoiceStyle,
		Official:    c.IsOfficial(),
		CreatedAt:   c.CreatedAt,
	}
}

type characterRequest struct {
	Name           string `json:"name"`
	Tagline        string `json:"tagline"`
	PromptTemplate string `json:"promptTemplate"`
	Personality    string `json:"personality"`
	VoiceStyle     string `json:"voiceStyle"`
}

func (req characterRequest) input() service.CharacterInput {
	return service.CharacterInput{
		Name:           req.Name,
		Tagline:        req.Tagline,
		PromptTemplate: req.PromptTemplate,
		Personality:    req.Personality,
		VoiceStyle:     req.VoiceStyle,
	}
}

func characterIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "characterID"))
	if err != nil {
		return uuid.Nil, domain.ErrCharacterNotFound
	}
	return id, nil
}

func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characters.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]characterJSON, 0, len(characters))
	for i := range characters {
		out = append(out, toCharacterJSON(&characters[i]))
	}
	JSON(w, http.StatusOK, map[string]any{"characters": out})
}

func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := characterIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.characters.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCharacterJSON(c))
}

func (h *Handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	actor := identity.FromContext(r.Context())
	if actor.Kind != domain.IdentityUser {
		Error(w, http.StatusUnauthorized, string(domain.DenialLoginRequired), "Log in to create characters.")
		return
	}

	var req characterRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}

	c, err := h.characters.Create(r.Context(), actor.UserID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toCharacterJSON(c))
}

func (h *Handler) updateCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := characterIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req characterRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}

	actor := identity.FromContext(r.Context())
	c, err := h.characters.Update(r.Context(), actor, id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCharacterJSON(c))
}
