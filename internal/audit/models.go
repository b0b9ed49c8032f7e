package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	ActorID   string
	Action    string
	Entity    string
	EntityID  string
	Detail    string
	RequestID string
}

type Action string

const (
	ActionAttemptCreated     Action = "verification_attempt_created"
	ActionDraftSaved         Action = "verification_draft_saved"
	ActionDocumentReviewed   Action = "verification_document_reviewed"
	ActionDecisionSubmitted  Action = "verification_decision_submitted"
	ActionStatusRead         Action = "verification_status_read"
	ActionCertificateRead    Action = "certificate_read"
	ActionCertificateIssued  Action = "certificate_issued"
	ActionCertificateRevoked Action = "certificate_revoked"
)
