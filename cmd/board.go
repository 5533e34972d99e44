package cmd

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/render"
	"github.com/thenoetrevino/issueboard/internal/tui"
)

func newBoardCmd(opts *rootOptions) *cobra.Command {
	var filter board.Filter
	var status, issueType string
	var width int
	var jsonOutput, interactive bool

	cmd := &cobra.Command{
		Use:   "board <project-id>",
		Short: "Show a project's issues in To Do, In Progress and Done lanes",
		Long: `Fetch a project's issues and users from the API and show them as a board.

Examples:
  issueboard board 3f2a...
  issueboard board 3f2a... --search login --status "In Progress"
  issueboard board 3f2a... --assignee <user-id> --json
  issueboard board 3f2a... -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = models.Status(status)
			filter.Type = models.IssueType(issueType)
			if filter.Status != "" && !filter.Status.Valid() {
				return fmt.Errorf("invalid --status %q", status)
			}
			if filter.Type != "" && !filter.Type.Valid() {
				return fmt.Errorf("invalid --type %q", issueType)
			}
			if interactive && jsonOutput {
				return errors.New("--interactive and --json cannot be combined")
			}

			ctx := cmd.Context()
			c := opts.apiClient()
			projectID := args[0]

			project, err := c.GetProject(ctx, projectID)
			if err != nil {
				return err
			}

			if interactive {
				model := tui.New(ctx, c, projectID, project.Name).WithFilter(filter)
				_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
				return err
			}

			view := board.NewView(c, projectID)
			if err := view.Refresh(ctx); err != nil {
				// whatever part did load is still shown
				log.WithError(err).Warn("board refresh incomplete")
			}
			view.SetFilter(filter)
			lanes := view.Lanes()

			if jsonOutput {
				data, err := sonic.ConfigStd.MarshalIndent(lanes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Board(lanes, render.BoardOptions{
				Title:     project.Name,
				LaneWidth: width,
				UserName:  view.UserName,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "Only issues whose title, description or code contains this text")
	cmd.Flags().StringVar(&filter.AssigneeID, "assignee", "", "Only issues assigned to this user id")
	cmd.Flags().StringVar(&filter.ReporterID, "reporter", "", "Only issues reported by this user id")
	cmd.Flags().StringVar(&status, "status", "", `Only issues with this status ("To Do", "In Progress", "Done")`)
	cmd.Flags().StringVar(&issueType, "type", "", "Only issues of this type (Bug, Task, Story)")
	cmd.Flags().IntVar(&width, "width", render.DefaultLaneWidth, "Lane width in cells")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the lanes as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the board interactively, filtering as you type")
	return cmd
}
