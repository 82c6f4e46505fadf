// Package app provides application-level wiring and dependency injection
// for the docvault application following hexagonal architecture.
package app

import (
	"database/sql"
	"log/slog"

	"docvault/internal/config"
	"docvault/internal/db/repository"
	"docvault/internal/service"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles and config.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers the CLI commands need.
type Services struct {
	Authorization *service.AuthorizationService
	Vault         *service.VaultService
	ACL           *service.ACLService
	Workspace     *service.WorkspaceService
	Group         *service.GroupService
	Audit         *service.AuditService
}

// App holds the fully-wired application.
type App struct {
	Cfg      *config.Config
	Services Services
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	workspaceRepo := repository.NewWorkspaceRepo(deps.WriteDB)
	groupRepo := repository.NewGroupRepo(deps.WriteDB)
	aclRepo := repository.NewACLRepo(deps.WriteDB)
	artifactRepo := repository.NewArtifactRepo(deps.WriteDB, deps.ReadDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB, deps.ReadDB)

	authSvc := service.NewAuthorizationService(workspaceRepo, groupRepo, aclRepo)
	vaultSvc := service.NewVaultService(authSvc, artifactRepo, workspaceRepo, aclRepo, auditRepo, deps.Logger).
		WithConflictRetries(deps.Cfg.ConflictRetries)

	return &App{
		Cfg: deps.Cfg,
		Services: Services{
			Authorization: authSvc,
			Vault:         vaultSvc,
			ACL:           service.NewACLService(authSvc, aclRepo, auditRepo, deps.Logger),
			Workspace:     service.NewWorkspaceService(workspaceRepo, deps.Logger),
			Group:         service.NewGroupService(groupRepo, workspaceRepo, deps.Logger),
			Audit:         service.NewAuditService(auditRepo),
		},
	}
}
