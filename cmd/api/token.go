package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/homecare-api/pkg/auth"
)

// tokenCmd prints a bearer token for a user id, signed with the configured
// secret. Useful for calling the API from scripts.
func tokenCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			jwtSvc, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
			if err != nil {
				return err
			}

			token, err := jwtSvc.GenerateToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
