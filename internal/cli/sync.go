package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/core/config"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
)

const defaultLookbackDays = 90

func NewIssuesCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Sync issues updated in the last N days",
		Long: `Fetch every issue in the tracked projects updated within the lookback
window and upsert it page by page.

Without --days the window comes from SYNC_LOOKBACK_DAYS.

Example:
  issuesync issues
  issuesync issues --days 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}

			ctx := cmd.Context()
			rt, err := openRuntime(ctx, config.ServiceTypeSync)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if !cmd.Flags().Changed("days") {
				days = rt.cfg.Sync.LookbackDays
			}
			since := time.Now().UTC().AddDate(0, 0, -days)

			count, err := rt.services.SyncRunner().Run(ctx, service.SyncRequest{
				RunID:   id.New(),
				Kind:    model.SyncKindIssues,
				Since:   &since,
				Attempt: 1,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d issues updated since %s\n", count, since.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", defaultLookbackDays, "lookback window in days")

	return cmd
}

func NewProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Refresh every Jira project and its name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, config.ServiceTypeSync)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			count, err := rt.services.SyncRunner().Run(ctx, service.SyncRequest{
				RunID:   id.New(),
				Kind:    model.SyncKindProjects,
				Attempt: 1,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d projects\n", count)
			return nil
		},
	}
}

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, config.ServiceTypeMigrate)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.db.Migrate(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
