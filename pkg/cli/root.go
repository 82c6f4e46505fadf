// Package cli implements the docvault command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]any{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		dbPath string
		login  string
		output string
	)

	rootCmd := &cobra.Command{
		Use:           "docvault",
		Short:         "Versioned artifact vault CLI",
		Long:          "Command-line interface for the docvault versioned artifact vault.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Precedence: flag > env
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("DOCVAULT_DB_PATH"); v != "" {
					dbPath = v
				}
			}
			if !cmd.Flags().Changed("login") {
				if v := os.Getenv("DOCVAULT_LOGIN"); v != "" {
					login = v
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("DOCVAULT_OUTPUT"); v != "" {
					output = v
				}
			}
			return validateOutputFormat(output)
		},
	}

	// Accept underscore spellings like --default_permission.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the vault SQLite file (env: DOCVAULT_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&login, "login", "", "acting principal login (env: DOCVAULT_LOGIN)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table or json (env: DOCVAULT_OUTPUT)")

	rootCmd.AddCommand(
		newWorkspaceCmd(),
		newGroupCmd(),
		newArtifactCmd(),
		newCheckoutCmd(),
		newCheckinCmd(),
		newUndoCmd(),
		newACLCmd(),
		newAuditCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "docvault %s (%s)\n", version, commit)
			return nil
		},
	}
}
