package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docvault/internal/app"
	"docvault/internal/config"
	internaldb "docvault/internal/db"
	"docvault/internal/domain"
)

// withApp loads configuration, opens the vault database, runs pending
// migrations, wires the application, and runs fn against it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if v, _ := cmd.Root().PersistentFlags().GetString("db"); v != "" {
		cfg.DBPath = v
	}

	logger := cfg.NewLogger()
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, cfg.ReadPoolSize)
	if err != nil {
		return fmt.Errorf("open vault database: %w", err)
	}
	defer func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	}()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrate vault database: %w", err)
	}

	a := app.New(app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})

	return fn(cmd.Context(), a)
}

// requireLogin returns the acting principal from --login or DOCVAULT_LOGIN.
func requireLogin(cmd *cobra.Command) (string, error) {
	login, _ := cmd.Root().PersistentFlags().GetString("login")
	if login == "" {
		return "", fmt.Errorf("no acting principal: set --login or DOCVAULT_LOGIN")
	}
	return login, nil
}

// parseRef parses a "workspace/number" artifact reference.
func parseRef(s string) (domain.ArtifactRef, error) {
	ws, number, ok := strings.Cut(s, "/")
	if !ok || ws == "" || number == "" {
		return domain.ArtifactRef{}, fmt.Errorf("invalid artifact reference %q: want workspace/number", s)
	}
	return domain.ArtifactRef{WorkspaceID: ws, Number: number}, nil
}
