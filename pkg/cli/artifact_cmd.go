package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/domain"
)

func newArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage versioned artifacts",
	}

	cmd.AddCommand(
		newArtifactCreateCmd(),
		newArtifactShowCmd(),
		newArtifactReadCmd(),
		newArtifactHistoryCmd(),
		newArtifactListCmd(),
		newArtifactSaveCmd(),
	)
	return cmd
}

// readContent reads artifact content from --file, or stdin when the flag
// is "-" or empty.
func readContent(cmd *cobra.Command, file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file) //nolint:gosec // path is caller-controlled
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func newArtifactCreateCmd() *cobra.Command {
	var (
		kind string
		name string
		file string
	)

	cmd := &cobra.Command{
		Use:   "create <workspace/number>",
		Short: "Create an artifact with its first revision",
		Example: `  # Seed revision A from a file
  docvault --login bob artifact create acme/DOC-001 --name "assembly notes" --file notes.txt

  # Seed revision A from stdin
  echo "initial draft" | docvault --login bob artifact create acme/DOC-001 --name draft`,
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
			content, err := readContent(cmd, file)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				artifact, err := a.Services.Vault.Create(ctx, login, domain.CreateArtifactRequest{
					WorkspaceID: ref.WorkspaceID,
					Number:      ref.Number,
					Kind:        domain.ArtifactKind(strings.ToLower(kind)),
					Name:        name,
					Content:     content,
				})
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), artifact)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s at version %s\n", ref, artifact.VersionLabel)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(domain.KindDocument), "artifact kind: document or part")
	cmd.Flags().StringVar(&name, "name", "", "human readable artifact name")
	cmd.Flags().StringVarP(&file, "file", "f", "", "content file ('-' or empty for stdin)")
	return cmd
}

func newArtifactShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workspace/number>",
		Short: "Show an artifact's master record and lock state",
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
				artifact, err := a.Services.Vault.Status(ctx, login, ref)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), artifact)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Artifact:  %s\n", ref)
				fmt.Fprintf(out, "Kind:      %s\n", artifact.Kind)
				fmt.Fprintf(out, "Name:      %s\n", artifact.Name)
				fmt.Fprintf(out, "Version:   %s\n", artifact.VersionLabel)
				if artifact.Lock != nil {
					fmt.Fprintf(out, "Locked by: %s since %s\n",
						artifact.Lock.Holder, artifact.Lock.Since.Format(time.RFC3339))
				} else {
					fmt.Fprintln(out, "Locked by: (not checked out)")
				}
				return nil
			})
		},
	}
}

func newArtifactReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <workspace/number>",
		Short: "Print the latest committed revision's content",
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
				rev, err := a.Services.Vault.Read(ctx, login, ref)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), rev)
				}
				fmt.Fprint(cmd.OutOrStdout(), rev.Content)
				return nil
			})
		},
	}
}

func newArtifactHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <workspace/number>",
		Short: "List an artifact's revision chain",
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
				revs, err := a.Services.Vault.History(ctx, login, ref)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), revs)
				}
				rows := make([][]string, 0, len(revs))
				for _, r := range revs {
					rows = append(rows, []string{
						r.Label, r.Author, r.CreatedAt.Format(time.RFC3339),
					})
				}
				return printTable(cmd.OutOrStdout(), []string{"VERSION", "AUTHOR", "COMMITTED"}, rows)
			})
		},
	}
}

func newArtifactListCmd() *cobra.Command {
	var start, max int

	cmd := &cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List readable artifacts in a workspace",
		Long:  "List the latest revision of every artifact in the workspace the acting principal may read. Unreadable artifacts are omitted without error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				revs, err := a.Services.Vault.ListReadable(ctx, login, args[0], domain.PageRequest{
					Start: start, MaxResults: max,
				})
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), revs)
				}
				rows := make([][]string, 0, len(revs))
				for _, r := range revs {
					rows = append(rows, []string{
						r.Number, r.Label, r.Author, r.CreatedAt.Format(time.RFC3339),
					})
				}
				return printTable(cmd.OutOrStdout(), []string{"NUMBER", "VERSION", "AUTHOR", "COMMITTED"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "index of the first artifact to return")
	cmd.Flags().IntVar(&max, "max", domain.DefaultMaxResults, "maximum artifacts to return")
	return cmd
}

func newArtifactSaveCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save <workspace/number>",
		Short: "Replace the checked-out working copy without committing",
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
				if err := a.Services.Vault.SaveWorking(ctx, login, ref, content); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved working copy of %s\n", ref)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "content file ('-' or empty for stdin)")
	return cmd
}
