package main

import (
	"fmt"

	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Tokens are minted by the account service in production; this is for local runs.
func newTokenCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a caller access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			token, err := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration, clock.NewRealClock()).GenerateToken(id)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid) to embed in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
