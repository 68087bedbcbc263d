package models

// Decision represents the eligibility outcome for a process
type Decision string

const (
	DecisionApproved   Decision = "approved"
	DecisionRejected   Decision = "rejected"
	DecisionIncomplete Decision = "incomplete"
)

// Decisions lists every accepted decision literal, in the order they are
// presented to the model.
var Decisions = []Decision{DecisionApproved, DecisionRejected, DecisionIncomplete}

// Valid reports whether d is one of the accepted literals
func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionIncomplete:
		return true
	}
	return false
}

// Verdict is the structured answer returned by the decision engine
type Verdict struct {
	Decision  Decision `json:"decision"`
	Rationale string   `json:"rationale"`
	Citations []string `json:"citacoes"`
}
