package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the issuesync CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuesync",
		Short: "Replicate Jira projects and issues into Postgres",
		Long: `Run a Jira sync once, in the foreground.

Configuration is read from the environment (and .env.sync or .env in
development), the same variables the worker uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewIssuesCommand())
	cmd.AddCommand(NewProjectsCommand())
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}
