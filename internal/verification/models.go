package verification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is a checklist category in the verification wizard. It is a closed
// enum so category handling stays exhaustive at compile time.
type Category string

const (
	CategoryIdentity Category = "identity"
	CategoryAddress  Category = "address"
	CategoryBusiness Category = "business"
)

// Categories returns all checklist categories in wizard order.
func Categories() []Category {
	return []Category{CategoryIdentity, CategoryAddress, CategoryBusiness}
}

// Section extends Category with the overall section used for statuses and notes.
type Section string

const (
	SectionIdentity Section = "identity"
	SectionAddress  Section = "address"
	SectionBusiness Section = "business"
	SectionOverall  Section = "overall"
)

// SectionStatus is the reviewer's verdict for one section of the wizard.
type SectionStatus string

const (
	SectionPending     SectionStatus = "PENDING"
	SectionVerified    SectionStatus = "VERIFIED"
	SectionRejected    SectionStatus = "REJECTED"
	SectionNeedsReview SectionStatus = "NEEDS_REVIEW"
)

// DocumentStatus is the review outcome for a single uploaded document.
type DocumentStatus string

const (
	DocPending          DocumentStatus = "PENDING"
	DocVerified         DocumentStatus = "VERIFIED"
	DocUnreadable       DocumentStatus = "UNREADABLE"
	DocExpired          DocumentStatus = "EXPIRED"
	DocInconsistentData DocumentStatus = "INCONSISTENT_DATA"
	DocSuspectedFraud   DocumentStatus = "SUSPECTED_FRAUD"
	DocOtherIssue       DocumentStatus = "OTHER_ISSUE"
	DocNotApplicable    DocumentStatus = "NOT_APPLICABLE"
)

// Decision is the terminal result of a verification attempt.
type Decision string

const (
	DecisionVerified  Decision = "VERIFIED"
	DecisionRejected  Decision = "REJECTED"
	DecisionNeedsInfo Decision = "NEEDS_INFO"
)

// OwnerField names an editable identity/contact attribute of the owner record.
type OwnerField string

const (
	FieldFirstName  OwnerField = "firstName"
	FieldLastName   OwnerField = "lastName"
	FieldEmail      OwnerField = "email"
	FieldPhone      OwnerField = "phone"
	FieldTaxID      OwnerField = "taxId"
	FieldIDNumber   OwnerField = "idNumber"
	FieldIDType     OwnerField = "idType"
	FieldStreet     OwnerField = "street"
	FieldCity       OwnerField = "city"
	FieldState      OwnerField = "state"
	FieldPostalCode OwnerField = "postalCode"
)

// ChecklistItem is an atomic verification criterion within a category.
// Checked and NotApplicable are mutually exclusive; NAReason must be set when
// NotApplicable is.
type ChecklistItem struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Checked       bool   `json:"checked"`
	NotApplicable bool   `json:"isNotApplicable"`
	NAReason      string `json:"naReason,omitempty"`
}

// Resolved reports whether the item no longer blocks its category: either
// checked or marked not applicable.
func (i ChecklistItem) Resolved() bool {
	return i.Checked || i.NotApplicable
}

// DocumentStatusEntry is a document review result inside a draft.
type DocumentStatusEntry struct {
	DocumentID string         `json:"documentId"`
	Status     DocumentStatus `json:"status"`
	Note       string         `json:"note,omitempty"`
}

// FinalDecision is the decision portion of a draft, populated on step 5.
type FinalDecision struct {
	Status                  Decision `json:"status,omitempty"`
	Reason                  string   `json:"reason,omitempty"`
	AdditionalInfoRequested string   `json:"additionalInfoRequested,omitempty"`
}

// DraftPayload is the full wizard state checkpointed between sessions. The
// server validates its structure on save rather than treating it as opaque.
type DraftPayload struct {
	OwnerFields      map[OwnerField]string        `json:"ownerFields,omitempty"`
	Checklists       map[Category][]ChecklistItem `json:"checklists"`
	SectionStatuses  map[Section]SectionStatus    `json:"sectionStatuses,omitempty"`
	Notes            map[Section]string           `json:"notes,omitempty"`
	DocumentStatuses []DocumentStatusEntry        `json:"documentStatuses,omitempty"`
	FinalDecision    FinalDecision                `json:"finalDecision"`
	CurrentStep      int                          `json:"currentStep,omitempty"`
	AffiliationRole  string                       `json:"affiliationRole,omitempty"`
	// SavedAt is stamped by the server on save so clients can detect stale
	// copies; there is no version token, last write wins.
	SavedAt *time.Time `json:"savedAt,omitempty"`
}

// AttemptStatus tracks an attempt through its state machine:
// in_progress -> verified | rejected | needs_info. Terminal states accept no
// further writes.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptVerified   AttemptStatus = "verified"
	AttemptRejected   AttemptStatus = "rejected"
	AttemptNeedsInfo  AttemptStatus = "needs_info"
)

// Terminal reports whether the status accepts no further writes.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptVerified || s == AttemptRejected || s == AttemptNeedsInfo
}

// Attempt is one complete pass through the verification wizard for an owner.
type Attempt struct {
	ID                      uuid.UUID
	OwnerID                 uuid.UUID
	ActorID                 uuid.UUID
	Status                  AttemptStatus
	Draft                   *DraftPayload
	Decision                Decision
	DecisionReason          string
	AdditionalInfoRequested string
	Sections                map[Section]SectionStatus
	StartedAt               time.Time
	FinalizedAt             *time.Time
}

// HistoryEventType enumerates the append-only trail entries for an attempt.
type HistoryEventType string

const (
	EventStarted           HistoryEventType = "STARTED"
	EventDraftSaved        HistoryEventType = "DRAFT_SAVED"
	EventDocumentReviewed  HistoryEventType = "DOCUMENT_REVIEWED"
	EventDecisionSubmitted HistoryEventType = "DECISION_SUBMITTED"
)

// HistoryEvent is an immutable audit record of a state-changing action taken
// against an attempt.
type HistoryEvent struct {
	ID         uuid.UUID
	AttemptID  uuid.UUID
	Type       HistoryEventType
	ActorID    uuid.UUID
	Payload    json.RawMessage
	OccurredAt time.Time
}

// DocumentRecord is the server-side review state of one document within an
// attempt. One row per (attempt, document); the last review wins.
type DocumentRecord struct {
	ID         uuid.UUID
	AttemptID  uuid.UUID
	DocumentID string
	Status     DocumentStatus
	Notes      string
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
}

// SectionDecisions carries the per-section verdicts of a submitted decision.
type SectionDecisions struct {
	Identity            SectionStatus `json:"identity"`
	Address             SectionStatus `json:"address"`
	BusinessAffiliation SectionStatus `json:"businessAffiliation"`
}

// DecisionRequest is the final submission payload for an attempt.
type DecisionRequest struct {
	AttemptID               uuid.UUID             `json:"verificationId"`
	Decision                Decision              `json:"decision"`
	DecisionReason          string                `json:"decisionReason,omitempty"`
	AdditionalInfoRequested string                `json:"additionalInfoRequested,omitempty"`
	Sections                SectionDecisions      `json:"sections"`
	DocumentVerifications   []DocumentStatusEntry `json:"documentVerifications,omitempty"`
}

// DocumentReviewRequest updates the review state of a single document.
type DocumentReviewRequest struct {
	AttemptID  uuid.UUID      `json:"verificationId"`
	DocumentID string         `json:"documentId"`
	Status     DocumentStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
}

// Status is the read-only projection returned to callers. Documents and
// History are populated only when requested.
type Status struct {
	Attempt   Attempt
	Documents []DocumentRecord
	History   []HistoryEvent
}
