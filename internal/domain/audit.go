package domain

import "time"

// Audit actions recorded by the vault.
const (
	ActionCreate       = "CREATE"
	ActionCheckout     = "CHECKOUT"
	ActionCheckin      = "CHECKIN"
	ActionUndoCheckout = "UNDO_CHECKOUT"
	ActionSetACL       = "SET_ACL"
	ActionRemoveACL    = "REMOVE_ACL"
)

// Audit statuses.
const (
	StatusAllowed = "ALLOWED"
	StatusDenied  = "DENIED"
	StatusError   = "ERROR"
)

// AuditEntry is a single vault event record.
type AuditEntry struct {
	ID             string
	WorkspaceID    string
	ArtifactNumber string
	Principal      string
	Action         string
	Status         string // "ALLOWED", "DENIED", "ERROR"
	VersionLabel   *string
	Detail         *string
	CreatedAt      time.Time
}

// AuditFilter narrows an audit listing. Nil fields mean "no filter".
type AuditFilter struct {
	WorkspaceID *string
	Principal   *string
	Action      *string
	Status      *string
	Page        PageRequest
}
