package main

import (
	"context"
	"fmt"

	"juscash-verifier/config"
	"juscash-verifier/storage"

	"github.com/spf13/cobra"
)

func removePoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-policies",
		Short: "Delete the policy corpus from the configured storage",
		Long: `Delete the policy corpus from the storage backend the server reads from.
The next index rebuild then leaves the index empty and every verdict
comes back INCOMPLETO until a corpus is pushed again.`,
		Args: cobra.NoArgs,
		RunE: runRemovePolicies,
	}

	cmd.Flags().String("key", "", "storage key (default: POLICY_KEY)")

	return cmd
}

func runRemovePolicies(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = cfg.PolicyKey
	}

	store, err := storage.NewStorageFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := removePolicies(cmd.Context(), store, key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s:%s\n", cfg.StorageType, key)
	return nil
}

// removePolicies deletes key, failing with storage.ErrNotFound when it is absent
func removePolicies(ctx context.Context, store storage.Storage, key string) error {
	rc, err := store.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	rc.Close()

	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
