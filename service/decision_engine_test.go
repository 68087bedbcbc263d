package service

import (
	"context"
	"errors"
	"testing"

	"juscash-verifier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *models.Verdict
		wantErr error
	}{
		{
			name: "plain json",
			raw:  `{"decision":"rejected","rationale":"Esfera trabalhista.","citacoes":["POL-4"]}`,
			want: &models.Verdict{Decision: models.DecisionRejected, Rationale: "Esfera trabalhista.", Citations: []string{"POL-4"}},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"decision\":\"incomplete\",\"rationale\":\"Falta certidão.\",\"citacoes\":[]}\n```",
			want: &models.Verdict{Decision: models.DecisionIncomplete, Rationale: "Falta certidão.", Citations: []string{}},
		},
		{name: "unknown decision", raw: `{"decision":"maybe","rationale":"x","citacoes":[]}`, wantErr: ErrInvalidDecision},
		{name: "decision case matters", raw: `{"decision":"Approved","rationale":"x","citacoes":[]}`, wantErr: ErrInvalidDecision},
		{name: "missing decision", raw: `{"rationale":"x","citacoes":[]}`, wantErr: ErrMalformedVerdict},
		{name: "missing rationale", raw: `{"decision":"approved","citacoes":[]}`, wantErr: ErrMalformedVerdict},
		{name: "null citations", raw: `{"decision":"approved","rationale":"x","citacoes":null}`, wantErr: ErrMalformedVerdict},
		{name: "unknown field", raw: `{"decision":"approved","rationale":"x","citacoes":[],"score":1}`, wantErr: ErrMalformedVerdict},
		{name: "not json", raw: "Aprovado.", wantErr: ErrMalformedVerdict},
		{name: "trailing data", raw: `{"decision":"approved","rationale":"x","citacoes":[]} {}`, wantErr: ErrMalformedVerdict},
		{name: "empty", raw: "  ", wantErr: ErrMalformedVerdict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideLaborCase(t *testing.T) {
	embedder := NewHashEmbedder(384)
	idx := populatedIndex(t, embedder)
	gen := &fakeGenerator{response: `{"decision":"rejected","rationale":"Condenação na esfera trabalhista (TRT).","citacoes":["POL-4"]}`}

	engine := NewDecisionEngine(NewRetriever(embedder, idx, 8), gen)
	verdict, err := engine.Decide(context.Background(), laborRecord())
	require.NoError(t, err)

	assert.Equal(t, models.DecisionRejected, verdict.Decision)
	assert.Equal(t, []string{"POL-4"}, verdict.Citations)
	assert.NotEmpty(t, verdict.Rationale)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.Zero(t, req.Temperature)
	assert.Equal(t, DefaultVerdictSchema.Name, req.Schema.Name)
	assert.Contains(t, req.System, "POL-4: Condenações na esfera trabalhista")
	assert.Contains(t, req.System, "POL-7")
	assert.Contains(t, req.User, `"numeroProcesso": "TESTE-001"`)
	assert.Contains(t, req.User, `"esfera": "Trabalhista"`)
}

func TestDecideWithEmptyIndex(t *testing.T) {
	embedder := NewHashEmbedder(384)
	gen := &fakeGenerator{response: `{"decision":"incomplete","rationale":"Sem políticas aplicáveis.","citacoes":[]}`}

	engine := NewDecisionEngine(NewRetriever(embedder, tempIndex(t), 8), gen)
	verdict, err := engine.Decide(context.Background(), laborRecord())
	require.NoError(t, err)

	assert.Equal(t, models.DecisionIncomplete, verdict.Decision)
	assert.Empty(t, verdict.Citations)
	require.Len(t, gen.requests, 1)
	assert.Contains(t, gen.requests[0].System, "POLÍTICAS:\n\n\n")
}

func TestDecideFailures(t *testing.T) {
	embedder := NewHashEmbedder(384)
	idx := populatedIndex(t, embedder)

	t.Run("generator error", func(t *testing.T) {
		gen := &fakeGenerator{err: ErrMissingAPIKey}
		_, err := NewDecisionEngine(NewRetriever(embedder, idx, 8), gen).Decide(context.Background(), laborRecord())
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("malformed output", func(t *testing.T) {
		gen := &fakeGenerator{response: "não sei"}
		_, err := NewDecisionEngine(NewRetriever(embedder, idx, 8), gen).Decide(context.Background(), laborRecord())
		assert.ErrorIs(t, err, ErrMalformedVerdict)
	})

	t.Run("embedding error", func(t *testing.T) {
		gen := &fakeGenerator{response: "{}"}
		broken := &failingEmbedder{err: errors.New("offline")}
		_, err := NewDecisionEngine(NewRetriever(broken, idx, 8), gen).Decide(context.Background(), laborRecord())
		require.Error(t, err)
		assert.Empty(t, gen.requests)
	})
}

type failingEmbedder struct {
	err error
}

func (e *failingEmbedder) Name() string { return "failing" }

func (e *failingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, e.err
}

func (e *failingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, e.err
}
