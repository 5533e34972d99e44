package testutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// ExecuteCommand runs a cobra command with args and returns what it wrote
// to its output and error streams.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), err
}
