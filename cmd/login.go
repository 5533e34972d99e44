package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print or store an API token",
		Long: `Log in against the API and print the token.

Examples:
  export ISSUEBOARD_TOKEN=$(issueboard login --email ada@example.com --password secret)
  issueboard login --email ada@example.com --password secret --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := opts.apiClient()
			user, token, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}

			opts.cfg.Client.Token = token
			if err := opts.cfg.Save(); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s, token saved\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token in the config file")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
