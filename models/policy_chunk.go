package models

import (
	"github.com/google/uuid"
)

// PolicyChunk represents one eligibility rule line from the policy corpus
type PolicyChunk struct {
	ID        uuid.UUID `json:"id"`
	RuleID    string    `json:"rule_id,omitempty"` // e.g. "POL-4", empty when the line carries no identifier
	Source    string    `json:"source"`
	Position  int       `json:"position"` // ordinal among the non-blank corpus lines
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
	Distance  float64   `json:"distance,omitempty"` // Vector similarity distance
}
