package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/domain"
)

func newACLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acl",
		Short: "Manage per-artifact access control lists",
	}

	cmd.AddCommand(
		newACLShowCmd(),
		newACLSetCmd(),
		newACLRemoveCmd(),
	)
	return cmd
}

// parseEntries turns repeated "principal=PERMISSION" flags into a map.
func parseEntries(pairs []string) (map[string]domain.Permission, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]domain.Permission, len(pairs))
	for _, pair := range pairs {
		principal, perm, ok := strings.Cut(pair, "=")
		if !ok || principal == "" {
			return nil, fmt.Errorf("invalid ACL entry %q: want principal=PERMISSION", pair)
		}
		p, err := domain.ParsePermission(strings.ToUpper(perm))
		if err != nil {
			return nil, fmt.Errorf("invalid ACL entry %q: %w", pair, err)
		}
		out[principal] = p
	}
	return out, nil
}

func newACLShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workspace/number>",
		Short: "Show an artifact's ACL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			login, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				acl, err := a.Services.ACL.GetACL(ctx, login, ref)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if acl == nil {
					if getOutputFormat(cmd) == "json" {
						return printJSON(out, map[string]any{"acl": nil})
					}
					fmt.Fprintln(out, "No ACL: the workspace default policy applies")
					return nil
				}
				users := acl.UserEntries()
				groups := acl.GroupEntries()
				if getOutputFormat(cmd) == "json" {
					return printJSON(out, map[string]any{
						"users": users, "groups": groups,
					})
				}
				var rows [][]string
				for principal, p := range users {
					rows = append(rows, []string{"user", principal, p.String()})
				}
				for principal, p := range groups {
					rows = append(rows, []string{"group", principal, p.String()})
				}
				return printTable(out, []string{"TYPE", "PRINCIPAL", "PERMISSION"}, rows)
			})
		},
	}
}

func newACLSetCmd() *cobra.Command {
	var (
		users  []string
		groups []string
	)

	cmd := &cobra.Command{
		Use:   "set <workspace/number>",
		Short: "Replace an artifact's ACL",
		Long:  "Replace the artifact's ACL wholesale. Once an ACL exists, the workspace default policy no longer applies and unlisted principals are forbidden.",
		Example: `  docvault --login bob acl set acme/DOC-001 --user alice=READ --user bob=WRITE --group engineers=WRITE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			login, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			userEntries, err := parseEntries(users)
			if err != nil {
				return err
			}
			groupEntries, err := parseEntries(groups)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				acl := domain.NewACL(userEntries, groupEntries)
				if err := a.Services.ACL.SetACL(ctx, login, ref, acl); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set ACL on %s\n", ref)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&users, "user", nil, "user entry login=PERMISSION (repeatable)")
	cmd.Flags().StringArrayVar(&groups, "group", nil, "group entry name=PERMISSION (repeatable)")
	return cmd
}

func newACLRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <workspace/number>",
		Short: "Remove an artifact's ACL so the workspace default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			login, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.ACL.RemoveACL(ctx, login, ref); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed ACL from %s\n", ref)
				return nil
			})
		},
	}
}
