package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/issueboard/internal/render"
)

func newIssueCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Inspect issues",
	}
	cmd.AddCommand(newIssueShowCmd(opts))
	return cmd
}

func newIssueShowCmd(opts *rootOptions) *cobra.Command {
	var width int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <issue-id>",
		Short: "Show an issue with its description and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := opts.apiClient()

			issue, err := c.GetIssue(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := sonic.ConfigStd.MarshalIndent(issue, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			var userName func(string) string
			if users, err := c.FetchUsers(ctx); err != nil {
				log.WithError(err).Debug("user lookup unavailable")
			} else {
				names := make(map[string]string, len(users))
				for _, u := range users {
					names[u.ID] = u.Name
				}
				userName = func(id string) string { return names[id] }
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Issue(issue, width, userName))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", render.DefaultIssueWidth, "Wrap width in cells")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the issue as JSON")
	return cmd
}
