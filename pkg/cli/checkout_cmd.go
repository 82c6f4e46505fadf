package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docvault/internal/app"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <workspace/number>",
		Short: "Acquire the exclusive edit lock and print the working copy",
		Example: `  docvault --login alice checkout acme/DOC-001 > working.txt`,
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
				snap, err := a.Services.Vault.Checkout(ctx, login, ref)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), snap)
				}
				fmt.Fprint(cmd.OutOrStdout(), snap.Content)
				return nil
			})
		},
	}
}

func newCheckinCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "checkin <workspace/number>",
		Short: "Commit content as the next revision and release the lock",
		Example: `  docvault --login alice checkin acme/DOC-001 --file working.txt`,
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
			content, err := readContent(cmd, file)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rev, err := a.Services.Vault.CheckIn(ctx, login, ref, content)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), rev)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked in %s as version %s\n", ref, rev.Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "content file ('-' or empty for stdin)")
	return cmd
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <workspace/number>",
		Short: "Discard the working copy and release the lock",
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
				if err := a.Services.Vault.UndoCheckout(ctx, login, ref); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Undid checkout of %s\n", ref)
				return nil
			})
		},
	}
}
