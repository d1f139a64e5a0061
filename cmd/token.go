package main

import (
	"fmt"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/auth"
	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAdminTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Print a signed admin token for the status and delete endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}

			token, err := auth.NewIssuer(cfg.AdminTokenSecret).GenerateToken(auth.TokenTypeAdmin, ttl)
			if err != nil {
				return errors.Wrap(err, "failed to generate admin token (is ADMIN_TOKEN_SECRET set?)")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
