// Package queue defines audit payloads exchanged over the message broker and
// the background consumer that records them.
package queue

// Audit action names published by the handlers.
const (
	ActionSignIn      = "auth.signin"
	ActionLogout      = "auth.logout"
	ActionUserCreated = "user.created"
	ActionUserDeleted = "user.deleted"
)

// AuditEvent is published whenever a security-relevant operation completes.
// It carries the trace id of the originating request so broker-side records
// can be correlated with HTTP logs.
type AuditEvent struct {
	Action     string `json:"action"`
	Username   string `json:"username"`
	Detail     string `json:"detail,omitempty"`
	TraceID    string `json:"trace_id"`
	OccurredAt string `json:"occurred_at"`
}
