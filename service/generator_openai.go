package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"juscash-verifier/config"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint with a
// strict json_schema response format
type OpenAIGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIGenerator creates a new OpenAI generator
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
}

// Provider implements Generator
func (g *OpenAIGenerator) Provider() string { return config.ProviderOpenAI }

// Model implements Generator
func (g *OpenAIGenerator) Model() string { return g.model }

// Close implements Generator
func (g *OpenAIGenerator) Close() error { return nil }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type openAIResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema openAIJSONSchema `json:"json_schema"`
}

type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float32              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate implements Generator
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingAPIKey)
	}

	body := openAIRequest{
		Model: g.model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		ResponseFormat: openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: openAIJSONSchema{
				Name:   req.Schema.Name,
				Strict: true,
				Schema: openAIVerdictSchema(req.Schema),
			},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai api error (status %d): %s", ErrGenerationFailed, resp.StatusCode, string(respBody))
	}

	var apiResp openAIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrGenerationFailed)
	}

	msg := apiResp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("%w: model refused: %s", ErrGenerationFailed, msg.Refusal)
	}
	if msg.Content == "" {
		return "", fmt.Errorf("%w: empty content", ErrGenerationFailed)
	}
	return msg.Content, nil
}

// openAIVerdictSchema renders the verdict schema as strict-mode JSON Schema.
// Strict mode requires every property listed as required and no extras.
func openAIVerdictSchema(s VerdictSchema) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"decision": map[string]any{
				"type":        "string",
				"enum":        s.decisionLiterals(),
				"description": "Decisão final sobre o processo",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "Justificativa detalhada baseada nas regras",
			},
			"citacoes": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Lista de IDs das políticas citadas (ex: POL-1)",
			},
		},
		"required":             []string{"decision", "rationale", "citacoes"},
		"additionalProperties": false,
	}
}
