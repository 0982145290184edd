package main

import (
	"coder_edu_catalog/internal/config"
	"coder_edu_catalog/internal/util"
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(dir)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			role, _ := cmd.Flags().GetString("role")

			token, err := util.GenerateJWT(subject, role, cfg.JWT.Secret, cfg.JWT.ExpireTime)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().String("config", "configs", "Directory containing config.yaml")
	cmd.Flags().String("subject", "catalogctl", "Token subject")
	cmd.Flags().String("role", util.RoleAdmin, "Token role")
	return cmd
}
