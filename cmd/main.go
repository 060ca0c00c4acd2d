package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"payment-reconciler/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// never expose debug output because of a missing setting
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "payment-reconciler",
		Short:         "Payment intent lifecycle and webhook reconciliation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSweepCmd(),
		newTokenCmd(),
	)
	return root
}

// Variables already set in the process environment win over the file.
// A missing default file is fine; a missing explicit one is not.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		attrs := []any{"error", err}
		if hint := errs.Hints(err); hint != "" {
			attrs = append(attrs, "hint", hint)
		}
		slog.Error("command failed", attrs...)
		os.Exit(1)
	}
}
