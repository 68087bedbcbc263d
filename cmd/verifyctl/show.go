package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <verification-id>",
		Short: "Show a recorded verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClientFromConfig().GetVerification(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processo:   %s\n", v.ProcessNumber)
			fmt.Fprintf(out, "Data:       %s\n", v.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Modelo:     %s/%s (%dms)\n", v.Provider, v.Model, v.DurationMS)
			if v.ErrorMessage != nil {
				fmt.Fprintf(out, "Erro:       %s\n", *v.ErrorMessage)
				return nil
			}
			if v.Decision != nil {
				label, ok := decisionLabels[*v.Decision]
				if !ok {
					label = string(*v.Decision)
				}
				fmt.Fprintf(out, "Decisão:    %s\n", label)
			}
			if v.Rationale != nil {
				fmt.Fprintf(out, "\n%s\n", *v.Rationale)
			}
			return nil
		},
	}
}
