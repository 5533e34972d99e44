// Package cmd wires the issueboard command line
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/issueboard/internal/client"
	"github.com/thenoetrevino/issueboard/internal/config"
	"github.com/thenoetrevino/issueboard/internal/logging"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=..."
var Version = "dev"

// rootOptions carries the loaded config and persistent flag values to
// subcommands
type rootOptions struct {
	cfg *config.Config

	apiURL   string
	token    string
	logLevel string
}

// NewRootCmd builds the issueboard command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "issueboard",
		Short: "Issueboard - a project issue tracker with a kanban board",
		Long: `Issueboard tracks issues across projects and shows them on a three lane board.

Run "issueboard serve" to start the API, then use "issueboard board" and
"issueboard issue show" against it from any terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "API base URL (overrides API_URL and the config file)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token (overrides ISSUEBOARD_TOKEN and the config file)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newLoginCmd(opts),
		newBoardCmd(opts),
		newIssueCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.Client.APIURL = o.apiURL
	}
	if o.token != "" {
		cfg.Client.Token = o.token
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := logging.Init(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}

// apiClient returns a client for the configured API
func (o *rootOptions) apiClient() *client.Client {
	return client.New(o.cfg.Client.APIURL, client.WithToken(o.cfg.Client.Token))
}
