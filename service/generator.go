package service

import (
	"context"

	"juscash-verifier/models"
)

// VerdictSchema describes the structured output every generator must produce
type VerdictSchema struct {
	Name      string
	Decisions []models.Decision
}

// DefaultVerdictSchema is the schema used for eligibility analysis
var DefaultVerdictSchema = VerdictSchema{
	Name:      "analise_juridica",
	Decisions: models.Decisions,
}

// decisionLiterals returns the accepted decisions as plain strings
func (s VerdictSchema) decisionLiterals() []string {
	out := make([]string, len(s.Decisions))
	for i, d := range s.Decisions {
		out[i] = string(d)
	}
	return out
}

// GenerationRequest is a single structured-output call to a hosted model
type GenerationRequest struct {
	System      string
	User        string
	Schema      VerdictSchema
	Temperature float32
}

// Generator is a hosted LLM able to answer in the verdict schema
type Generator interface {
	Provider() string
	Model() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Close() error
}
