package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/domain"
)

func newAuditCmd() *cobra.Command {
	var (
		workspace  string
		principal  string
		action     string
		status     string
		start, max int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List vault events, newest first",
		Example: `  # Everything dave was denied
  docvault audit --principal dave --status DENIED

  # Recent check-ins in a workspace
  docvault audit --workspace acme --action CHECKIN`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.AuditFilter{
				Page: domain.PageRequest{Start: start, MaxResults: max},
			}
			if workspace != "" {
				filter.WorkspaceID = &workspace
			}
			if principal != "" {
				filter.Principal = &principal
			}
			if action != "" {
				filter.Action = &action
			}
			if status != "" {
				filter.Status = &status
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, total, err := a.Services.Audit.List(ctx, filter)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"entries": entries, "total": total,
					})
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					version := ""
					if e.VersionLabel != nil {
						version = *e.VersionLabel
					}
					rows = append(rows, []string{
						e.CreatedAt.Format(time.RFC3339),
						e.WorkspaceID + "/" + e.ArtifactNumber,
						e.Principal,
						e.Action,
						e.Status,
						version,
					})
				}
				header := []string{"TIME", "ARTIFACT", "PRINCIPAL", "ACTION", "STATUS", "VERSION"}
				if err := printTable(cmd.OutOrStdout(), header, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d events\n", len(entries), total)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "filter by workspace id")
	cmd.Flags().StringVar(&principal, "principal", "", "filter by acting principal")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (CREATE, CHECKOUT, CHECKIN, UNDO_CHECKOUT, SET_ACL, REMOVE_ACL)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (ALLOWED, DENIED, ERROR)")
	cmd.Flags().IntVar(&start, "start", 0, "index of the first event to return")
	cmd.Flags().IntVar(&max, "max", domain.DefaultMaxResults, "maximum events to return")
	return cmd
}
