package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder maps text to fixed-dimension, L2-normalized vectors. Documents and
// queries must be embedded by the same Embedder for distances to be meaningful.
type Embedder interface {
	Name() string
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// normalize scales v to unit length in place. Zero vectors are left untouched.
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(1 / math.Sqrt(sumSq))
	for i := range v {
		v[i] *= norm
	}
	return v
}

// HashEmbedder is a local bag-of-words hashing embedder. It needs no model
// download or network access, which makes it the default for development and tests.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hashing embedder producing dim-sized vectors
func NewHashEmbedder(dim int) *HashEmbedder {
	return &HashEmbedder{dim: dim}
}

// Name implements Embedder
func (e *HashEmbedder) Name() string { return fmt.Sprintf("hash-%d", e.dim) }

// EmbedDocuments implements Embedder
func (e *HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

// EmbedQuery implements Embedder
func (e *HashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%uint32(e.dim)] += 1
	}
	return normalize(vec)
}

// tokenize lowercases text and splits it on anything that is not a letter or digit
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Portuguese function words plus the JSON keys of a serialized process record,
// which appear in every query and would otherwise dominate the vectors.
var stopWords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true, "em": true, "na": true, "no": true,
	"nas": true, "nos": true, "um": true, "uma": true, "os": true, "as": true, "ao": true, "aos": true,
	"por": true, "para": true, "com": true, "que": true, "se": true, "ou": true, "e": true, "o": true,
	"a": true, "the": true, "of": true, "and": true, "null": true, "true": true, "false": true,
	"numeroprocesso": true, "classe": true, "orgaojulgador": true, "ultimadistribuicao": true,
	"assunto": true, "segredojustica": true, "justicagratuita": true, "siglatribunal": true,
	"esfera": true, "valorcausa": true, "valorcondenacao": true, "documentos": true,
	"movimentos": true, "honorarios": true, "id": true, "datahorajuntada": true, "nome": true,
	"texto": true, "datahora": true, "descricao": true, "contratuais": true, "periciais": true,
	"sucumbenciais": true,
}
