package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"eventcore/internal/adapters/httpapi"
	"eventcore/internal/domain/entities"
)

func newTokenCmd() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Sign a bearer token with JWT_SECRET (local testing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tok, err := httpapi.IssueToken([]byte(cfg.JWTSecret), entities.Identity{UserID: args[0], Role: role}, ttl, time.Now())
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", entities.RoleUser, "USER or ADMIN")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
