package llm

import "errors"

// Sentinel errors for model connection operations.
var (
	// ErrMissingAPIKey is returned when no OpenAI API key is configured.
	ErrMissingAPIKey = errors.New("llm: OPENAI_API_KEY is required")

	// ErrEmptyCompletion is returned when the API answers with no choices.
	ErrEmptyCompletion = errors.New("llm: completion returned no choices")
)
