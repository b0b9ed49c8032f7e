package owner

import (
	"context"

	"github.com/google/uuid"

	dErrors "permitdesk/pkg/domain-errors"
)

// ErrNotFound keeps owner lookups consistent across implementations. Callers
// surface it as not_found whether the owner is missing or not managed by the
// actor, so existence never leaks.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "owner not found")

// Store defines the persistence interface for owner data.
// Error Contract: FindManagedBy returns ErrNotFound when the owner doesn't
// exist or is managed by a different actor.
type Store interface {
	Save(ctx context.Context, o Owner) error
	FindManagedBy(ctx context.Context, ownerID, actorID uuid.UUID) (Owner, error)
}
