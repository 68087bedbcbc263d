package service

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"juscash-verifier/models"

	"github.com/google/uuid"
)

var ruleIDPattern = regexp.MustCompile(`POL-\d+`)

// ParsePolicyCorpus splits a line-delimited policy file into chunks, one per
// non-blank line. Line text is kept as written.
func ParsePolicyCorpus(r io.Reader, source string) ([]models.PolicyChunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	chunks := make([]models.PolicyChunk, 0)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, models.PolicyChunk{
			ID:       uuid.New(),
			RuleID:   ruleIDPattern.FindString(line),
			Source:   source,
			Position: len(chunks),
			Text:     line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read policy corpus: %w", err)
	}
	return chunks, nil
}
