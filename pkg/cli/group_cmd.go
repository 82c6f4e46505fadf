package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/domain"
)

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage workspace groups",
	}

	cmd.AddCommand(
		newGroupCreateCmd(),
		newGroupDeleteCmd(),
		newGroupAddMemberCmd(),
		newGroupRemoveMemberCmd(),
		newGroupMembersCmd(),
	)
	return cmd
}

func newGroupCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <workspace-id> <name>",
		Short: "Create an empty group in a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				g, err := a.Services.Group.Create(ctx, domain.CreateGroupRequest{
					WorkspaceID: args[0],
					Name:        args[1],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %s in workspace %s\n", g.Name, g.WorkspaceID)
				return nil
			})
		},
	}
}

func newGroupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workspace-id> <name>",
		Short: "Delete a group and its memberships",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Group.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s from workspace %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newGroupAddMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <workspace-id> <name> <login>",
		Short: "Put a workspace member into a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				err := a.Services.Group.AddMember(ctx, domain.GroupMemberRequest{
					WorkspaceID: args[0], GroupName: args[1], Login: args[2],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to group %s\n", args[2], args[1])
				return nil
			})
		},
	}
}

func newGroupRemoveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <workspace-id> <name> <login>",
		Short: "Take a user out of a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				err := a.Services.Group.RemoveMember(ctx, domain.GroupMemberRequest{
					WorkspaceID: args[0], GroupName: args[1], Login: args[2],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from group %s\n", args[2], args[1])
				return nil
			})
		},
	}
}

func newGroupMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <workspace-id> <name>",
		Short: "List a group's members",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				logins, err := a.Services.Group.ListMembers(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), logins)
				}
				rows := make([][]string, 0, len(logins))
				for _, l := range logins {
					rows = append(rows, []string{l})
				}
				return printTable(cmd.OutOrStdout(), []string{"LOGIN"}, rows)
			})
		},
	}
}
