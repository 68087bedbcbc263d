package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"juscash-verifier/models"

	"github.com/spf13/cobra"
)

var decisionLabels = map[models.Decision]string{
	models.DecisionApproved:   "✅ APROVADO",
	models.DecisionRejected:   "❌ REJEITADO",
	models.DecisionIncomplete: "⚠️  INCOMPLETO",
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <record.json>",
		Short: "Submit a process record and print the verdict",
		Long: `Submit a judicial process record (JSON) to /verify and print the verdict.

Use "-" to read the record from standard input.

Examples:
  verifyctl check processo.json
  cat processo.json | verifyctl check -`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().Bool("json", false, "print the raw verdict JSON")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	record, err := readRecord(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	resp, err := newClientFromConfig().Verify(cmd.Context(), record)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Verdict)
	}

	printVerdict(out, &resp.Verdict)
	if resp.VerificationID != "" {
		fmt.Fprintf(out, "\nVerificação: %s\n", resp.VerificationID)
	}
	return nil
}

func readRecord(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return data, nil
}

func printVerdict(w io.Writer, v *models.Verdict) {
	label, ok := decisionLabels[v.Decision]
	if !ok {
		label = strings.ToUpper(string(v.Decision))
	}
	fmt.Fprintf(w, "Decisão: %s\n\n", label)
	fmt.Fprintf(w, "Justificativa:\n%s\n", v.Rationale)

	if len(v.Citations) == 0 {
		fmt.Fprintln(w, "\nPolíticas citadas: nenhuma")
		return
	}
	fmt.Fprintf(w, "\nPolíticas citadas: %s\n", strings.Join(v.Citations, ", "))
}
