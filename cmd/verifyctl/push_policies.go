package main

import (
	"fmt"
	"os"
	"path/filepath"

	"juscash-verifier/config"
	"juscash-verifier/service"
	"juscash-verifier/storage"

	"github.com/spf13/cobra"
)

func pushPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push-policies <file>",
		Short: "Upload a policy corpus to the configured storage",
		Long: `Upload a policy corpus (one policy per line) to the storage backend the
server reads from (STORAGE_TYPE, AWS_S3_BUCKET, POLICY_KEY from the
environment or .env). The server picks it up on its next index rebuild.`,
		Args: cobra.ExactArgs(1),
		RunE: runPushPolicies,
	}

	cmd.Flags().String("key", "", "storage key (default: POLICY_KEY)")

	return cmd
}

func runPushPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = cfg.PolicyKey
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	chunks, err := service.ParsePolicyCorpus(f, filepath.Base(key))
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%s contains no policies", args[0])
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind corpus: %w", err)
	}

	store, err := storage.NewStorageFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := store.Upload(cmd.Context(), key, f); err != nil {
		return err
	}

	withID := 0
	for _, c := range chunks {
		if c.RuleID != "" {
			withID++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Uploaded %d policies (%d with POL ids) to %s:%s\n", len(chunks), withID, cfg.StorageType, key)
	return nil
}
