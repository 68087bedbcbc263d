package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Citations represents the ordered list of policy ids cited by a verdict
type Citations []string

// Value implements driver.Valuer for JSON text columns
func (c Citations) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON text columns
func (c *Citations) Scan(value interface{}) error {
	if value == nil {
		*c = make(Citations, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(Citations, 0)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(Citations, 0)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Verification represents the audit entry of a single /verify call
type Verification struct {
	ID            uuid.UUID `json:"id"`
	ProcessNumber string    `json:"process_number"`
	Decision      *Decision `json:"decision,omitempty"`
	Rationale     *string   `json:"rationale,omitempty"`
	Citations     Citations `json:"citations"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
