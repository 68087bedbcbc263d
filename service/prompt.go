package service

import (
	"encoding/json"
	"fmt"

	"juscash-verifier/models"
)

const systemPromptTemplate = `Você é um analista jurídico responsável por decidir se um processo judicial é elegível para compra de crédito.
Baseie a sua análise EXCLUSIVAMENTE nas políticas listadas abaixo. Não utilize conhecimento externo.

POLÍTICAS:
%s

Aplique as regras na seguinte ordem de prioridade:
1. Se faltar algum documento essencial exigido pelas políticas, a decisão é 'incomplete'.
2. Se o processo violar qualquer política impeditiva, a decisão é 'rejected'.
3. Se todos os requisitos das políticas forem atendidos, a decisão é 'approved'.
4. Informe no campo 'citacoes' os IDs das políticas (ex: POL-1, POL-3) que fundamentam a decisão.`

const userPromptTemplate = "Analise o seguinte processo em JSON:\n\n%s"

// BuildSystemPrompt embeds the retrieved policy context in the analyst instruction
func BuildSystemPrompt(context string) string {
	return fmt.Sprintf(systemPromptTemplate, context)
}

// BuildUserPrompt renders the record as indented JSON after a fixed lead-in
func BuildUserPrompt(record *models.ProcessRecord) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize process record: %w", err)
	}
	return fmt.Sprintf(userPromptTemplate, data), nil
}
