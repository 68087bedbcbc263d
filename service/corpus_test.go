package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicyCorpus(t *testing.T) {
	input := "POL-1: primeira regra\r\n\n   \nregra sem id\nPOL-12: cita também POL-3\n"

	chunks, err := ParsePolicyCorpus(strings.NewReader(input), "policies.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "POL-1: primeira regra", chunks[0].Text)
	assert.Equal(t, "POL-1", chunks[0].RuleID)
	assert.Equal(t, 0, chunks[0].Position)

	assert.Equal(t, "regra sem id", chunks[1].Text)
	assert.Empty(t, chunks[1].RuleID)
	assert.Equal(t, 1, chunks[1].Position)

	assert.Equal(t, "POL-12", chunks[2].RuleID)
	assert.Equal(t, 2, chunks[2].Position)

	for _, c := range chunks {
		assert.Equal(t, "policies.txt", c.Source)
		assert.NotEqual(t, uuid.Nil, c.ID)
	}
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
}

func TestParsePolicyCorpusEmpty(t *testing.T) {
	chunks, err := ParsePolicyCorpus(strings.NewReader("\n\n  \n"), "policies.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
