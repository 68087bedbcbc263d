package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the verifier status and configured backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := newClientFromConfig().Health(cmd.Context())
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(status))
			for k := range status {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", k+":", status[k])
			}
			return nil
		},
	}
}
