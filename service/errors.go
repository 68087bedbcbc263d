package service

import "errors"

var (
	ErrEmptyQuery           = errors.New("retrieval query is empty")
	ErrMissingAPIKey        = errors.New("provider API key not set")
	ErrMalformedVerdict     = errors.New("model output does not match the verdict schema")
	ErrInvalidDecision      = errors.New("model returned an unknown decision")
	ErrUnknownProvider      = errors.New("unknown provider")
	ErrEmbeddingFailed      = errors.New("failed to generate embedding")
	ErrGenerationFailed     = errors.New("failed to generate content")
	ErrVerificationNotFound = errors.New("verification not found")
)
