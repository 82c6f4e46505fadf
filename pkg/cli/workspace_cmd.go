package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/domain"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces and memberships",
	}

	cmd.AddCommand(
		newWorkspaceCreateCmd(),
		newWorkspaceAddUserCmd(),
		newWorkspaceRemoveUserCmd(),
		newWorkspaceUsersCmd(),
	)
	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var defaultPermission string

	cmd := &cobra.Command{
		Use:   "create <workspace-id>",
		Short: "Create a workspace",
		Example: `  # Workspace whose members may read artifacts by default
  docvault workspace create acme

  # Workspace whose members may also edit by default
  docvault workspace create acme --default-permission WRITE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				// The configured workspace policy applies unless the flag
				// overrides it.
				if !cmd.Flags().Changed("default-permission") {
					defaultPermission = a.Cfg.DefaultPolicy
				}
				p, err := domain.ParsePermission(strings.ToUpper(defaultPermission))
				if err != nil {
					return err
				}
				w, err := a.Services.Workspace.Create(ctx, domain.CreateWorkspaceRequest{
					ID:                      args[0],
					DefaultMemberPermission: p,
				})
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), w)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %s (default member permission %s)\n",
					w.ID, w.DefaultMemberPermission)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&defaultPermission, "default-permission", "READ",
		"permission members get on artifacts without an ACL (FORBIDDEN, READ, WRITE)")
	return cmd
}

func newWorkspaceAddUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-user <workspace-id> <login>",
		Short: "Enroll a user in a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Workspace.AddUser(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to workspace %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newWorkspaceRemoveUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-user <workspace-id> <login>",
		Short: "Revoke a user's workspace membership",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Workspace.RemoveUser(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from workspace %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newWorkspaceUsersCmd() *cobra.Command {
	var start, max int

	cmd := &cobra.Command{
		Use:   "users <workspace-id>",
		Short: "List workspace members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				logins, total, err := a.Services.Workspace.ListUsers(ctx, args[0], domain.PageRequest{
					Start: start, MaxResults: max,
				})
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"logins": logins, "total": total,
					})
				}
				rows := make([][]string, 0, len(logins))
				for _, l := range logins {
					rows = append(rows, []string{l})
				}
				if err := printTable(cmd.OutOrStdout(), []string{"LOGIN"}, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s of %s members\n", strconv.Itoa(len(logins)), strconv.FormatInt(total, 10))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "index of the first member to return")
	cmd.Flags().IntVar(&max, "max", domain.DefaultMaxResults, "maximum members to return")
	return cmd
}
