package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	dErrors "permitdesk/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across in-memory and postgres
// implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

// FinalizeParams carries everything persisted when an attempt is finalized.
type FinalizeParams struct {
	Decision                Decision
	DecisionReason          string
	AdditionalInfoRequested string
	Sections                map[Section]SectionStatus
	FinalizedAt             time.Time
}

// AttemptStore is the persistence interface for verification attempts.
// Error Contract: all Find methods return ErrNotFound when no row matches.
type AttemptStore interface {
	Create(ctx context.Context, a Attempt) error
	FindByID(ctx context.Context, id uuid.UUID) (Attempt, error)
	// FindLatestByOwner returns the most recently started attempt regardless
	// of status.
	FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (Attempt, error)
	FindLatestInProgress(ctx context.Context, ownerID uuid.UUID) (Attempt, error)
	FindLatestVerified(ctx context.Context, ownerID uuid.UUID) (Attempt, error)
	// SaveDraft overwrites the draft snapshot on the attempt; last write wins.
	SaveDraft(ctx context.Context, attemptID uuid.UUID, draft DraftPayload) error
	// Finalize conditionally moves an in_progress attempt to its terminal
	// status. Returns false without error when the attempt exists but is
	// already finalized, so callers can distinguish conflict from not-found.
	Finalize(ctx context.Context, attemptID uuid.UUID, p FinalizeParams) (bool, error)
	// Reopen conditionally moves a needs_info attempt back to in_progress.
	Reopen(ctx context.Context, attemptID uuid.UUID) (bool, error)
}

// HistoryStore is the append-only trail for attempts.
type HistoryStore interface {
	Append(ctx context.Context, event HistoryEvent) error
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]HistoryEvent, error)
}

// DocumentStore tracks per-document review state within an attempt.
type DocumentStore interface {
	// Upsert writes the review for (attempt, document); the last review wins.
	Upsert(ctx context.Context, rec DocumentRecord) error
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]DocumentRecord, error)
}

// DraftCache is the hot-path mirror of the latest draft snapshot per owner.
// Best-effort: cache failures never fail a save.
type DraftCache interface {
	Put(ctx context.Context, ownerID uuid.UUID, draft DraftPayload) error
	Get(ctx context.Context, ownerID uuid.UUID) (DraftPayload, error)
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}
