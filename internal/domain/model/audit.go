package model

import "time"

// AuditAction identifies the kind of change an audit event describes.
type AuditAction string

const (
	AuditActionInit         AuditAction = "init"
	AuditActionAdd          AuditAction = "add"
	AuditActionEdit         AuditAction = "edit"
	AuditActionRemove       AuditAction = "remove"
	AuditActionImport       AuditAction = "import"
	AuditActionExport       AuditAction = "export"
	AuditActionRotateKey    AuditAction = "rotate_key"
	AuditActionChangeSecret AuditAction = "change_secret"
)

// AuditEvent is one journal entry. It never carries field values; RecordID
// is nil for events that are not about a single record.
type AuditEvent struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"session_id"`
	Action    AuditAction `json:"action"`
	RecordID  *int        `json:"record_id,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
