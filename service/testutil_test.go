package service

import (
	"context"
	"strings"
	"testing"

	"juscash-verifier/models"
	"juscash-verifier/repository"
	"juscash-verifier/storage"

	"github.com/stretchr/testify/require"
)

const testCorpus = `POL-1: Só compramos crédito de processos transitados em julgado e em fase de execução.
POL-2: Processos com valor de condenação inferior a R$ 1.000,00 não são elegíveis.

POL-4: Condenações na esfera trabalhista (TRT ou TST) não são compradas.
POL-7: É obrigatória a certidão de trânsito em julgado entre os documentos do processo.
`

type fakeGenerator struct {
	response string
	err      error
	requests []GenerationRequest
}

func (g *fakeGenerator) Provider() string { return "fake" }
func (g *fakeGenerator) Model() string    { return "fake-1" }
func (g *fakeGenerator) Close() error     { return nil }

func (g *fakeGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func boolPtr(b bool) *bool { return &b }

func laborRecord() *models.ProcessRecord {
	award := 67592.0
	return &models.ProcessRecord{
		CaseNumber:   "TESTE-001",
		Class:        "Cumprimento de Sentença",
		DecidingBody: "1ª Vara do Trabalho",
		Secrecy:      boolPtr(false),
		FreeLegalAid: boolPtr(true),
		CourtAcronym: "TRT",
		Sphere:       "Trabalhista",
		ClaimValue:   100000,
		AwardValue:   &award,
		Documents: []models.Document{
			{ID: "DOC-1", Name: "Sentença de Mérito", Text: "Condeno a reclamada ao pagamento."},
		},
	}
}

func tempIndex(t *testing.T) *repository.SQLitePolicyIndex {
	t.Helper()
	idx, err := repository.NewSQLitePolicyIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func tempStorage(t *testing.T, corpus string) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	if corpus != "" {
		require.NoError(t, store.Upload(context.Background(), "policies.txt", strings.NewReader(corpus)))
	}
	return store
}

// populatedIndex returns an index built from testCorpus with the hash embedder
func populatedIndex(t *testing.T, embedder Embedder) *repository.SQLitePolicyIndex {
	t.Helper()
	idx := tempIndex(t)
	n, err := NewIndexer(tempStorage(t, testCorpus), "policies.txt", embedder, idx).Rebuild(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return idx
}
