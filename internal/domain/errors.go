package domain

import "errors"

var (
	// ErrChatNotFound covers both a missing chat and a chat owned by a
	// different identity, so callers cannot probe for foreign chats.
	ErrChatNotFound      = errors.New("chat not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrChatExists        = errors.New("chat already exists")
	ErrNotCharacterOwner = errors.New("not the character's creator")
	ErrEmptyMessage      = errors.New("message text is empty")
	ErrNameRequired      = errors.New("character name is required")
	ErrEmptyCompletion   = errors.New("model returned empty completion")
	ErrGenerationFailed  = errors.New("generation failed")
)
