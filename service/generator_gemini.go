package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"juscash-verifier/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator calls Gemini through the genai client with a JSON response schema
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini generator. Without an API key the
// generator is still returned, and every call fails with ErrMissingAPIKey.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	g := &GeminiGenerator{model: model}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Provider implements Generator
func (g *GeminiGenerator) Provider() string { return config.ProviderGoogle }

// Model implements Generator
func (g *GeminiGenerator) Model() string { return g.model }

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingAPIKey)
	}

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(req.Temperature)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = geminiVerdictSchema(req.Schema)

	resp, err := m.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked: %s", ErrGenerationFailed, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrGenerationFailed)
	}

	var text strings.Builder
	cand := resp.Candidates[0]
	if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
		slog.Warn("gemini candidate finished early", "reason", cand.FinishReason.String())
	}
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty content", ErrGenerationFailed)
	}
	return text.String(), nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func geminiVerdictSchema(s VerdictSchema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"decision": {
				Type:        genai.TypeString,
				Format:      "enum",
				Enum:        s.decisionLiterals(),
				Description: "Decisão final sobre o processo",
			},
			"rationale": {
				Type:        genai.TypeString,
				Description: "Justificativa detalhada baseada nas regras",
			},
			"citacoes": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Lista de IDs das políticas citadas (ex: POL-1)",
			},
		},
		Required: []string{"decision", "rationale", "citacoes"},
	}
}
