package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
)

// CharacterService is the read path the chat pipeline depends on, plus
// the creator-facing mutations.
type CharacterService struct {
	characters CharacterStore
}

func NewCharacterService(characters CharacterStore) *CharacterService {
	return &CharacterService{characters: characters}
}

func (s *CharacterService) Get(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	return s.characters.GetByID(ctx, id)
}

func (s *CharacterService) List(ctx context.Context) ([]domain.Character, error) {
	return s.characters.List(ctx)
}

// CharacterInput is the creator-supplied character definition.
type CharacterInput struct {
	Name           string
	Tagline        string
	PromptTemplate string
	Personality    string
	VoiceStyle     string
}

func (in *CharacterInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ErrNameRequired
	}
	return nil
}

// Create registers a new character owned by the given user.
func (s *CharacterService) Create(ctx context.Context, creatorUserID string, in CharacterInput) (*domain.Character, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &domain.Character{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(in.Name),
		Tagline:        in.Tagline,
		PromptTemplate: in.PromptTemplate,
		Personality:    in.Personality,
		VoiceStyle:     in.VoiceStyle,
		CreatorUserID:  &creatorUserID,
	}
	if err := s.characters.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update rewrites a character's definition. Only its creator may do so.
func (s *CharacterService) Update(ctx context.Context, actor domain.Identity, id uuid.UUID, in CharacterInput) (*domain.Character, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.CreatedBy(actor) {
		return nil, domain.ErrNotCharacterOwner
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Tagline = in.Tagline
	c.PromptTemplate = in.PromptTemplate
	c.Personality = in.Personality
	c.VoiceStyle = in.VoiceStyle
	if err := s.characters.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
