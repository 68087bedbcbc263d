package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"juscash-verifier/models"
)

// DecisionEngine turns a process record into a verdict: it retrieves the
// relevant policies, prompts the model and validates the structured answer.
type DecisionEngine struct {
	retriever *Retriever
	generator Generator
}

// NewDecisionEngine creates a new decision engine
func NewDecisionEngine(retriever *Retriever, generator Generator) *DecisionEngine {
	return &DecisionEngine{retriever: retriever, generator: generator}
}

// Provider returns the configured LLM provider name
func (e *DecisionEngine) Provider() string { return e.generator.Provider() }

// Model returns the configured LLM model name
func (e *DecisionEngine) Model() string { return e.generator.Model() }

// Decide runs the full retrieval and generation pipeline for one record
func (e *DecisionEngine) Decide(ctx context.Context, record *models.ProcessRecord) (*models.Verdict, error) {
	query, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize process record: %w", err)
	}

	policyContext, err := e.retriever.Context(ctx, string(query))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve policy context: %w", err)
	}

	userPrompt, err := BuildUserPrompt(record)
	if err != nil {
		return nil, err
	}

	raw, err := e.generator.Generate(ctx, GenerationRequest{
		System:      BuildSystemPrompt(policyContext),
		User:        userPrompt,
		Schema:      DefaultVerdictSchema,
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}

	return ParseVerdict(raw)
}

// ParseVerdict validates raw model output against the verdict schema. Output
// wrapped in a markdown code fence is accepted.
func ParseVerdict(raw string) (*models.Verdict, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedVerdict)
	}

	var out struct {
		Decision  *string   `json:"decision"`
		Rationale *string   `json:"rationale"`
		Citations *[]string `json:"citacoes"`
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after verdict", ErrMalformedVerdict)
	}

	switch {
	case out.Decision == nil:
		return nil, fmt.Errorf("%w: missing decision", ErrMalformedVerdict)
	case out.Rationale == nil || strings.TrimSpace(*out.Rationale) == "":
		return nil, fmt.Errorf("%w: missing rationale", ErrMalformedVerdict)
	case out.Citations == nil || *out.Citations == nil:
		return nil, fmt.Errorf("%w: missing citacoes", ErrMalformedVerdict)
	}

	decision := models.Decision(*out.Decision)
	if !decision.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, *out.Decision)
	}

	return &models.Verdict{
		Decision:  decision,
		Rationale: *out.Rationale,
		Citations: *out.Citations,
	}, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
