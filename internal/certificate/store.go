package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"

	dErrors "permitdesk/pkg/domain-errors"
)

// ErrNotFound keeps certificate lookups consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "certificate not found")

// Store is the persistence interface for certificates.
// Error Contract: Find methods return ErrNotFound when no row matches.
type Store interface {
	// CreateOrFind inserts the certificate keyed on its attempt id, or
	// returns the existing row when one is already there. Two racing callers
	// must converge on the same certificate.
	CreateOrFind(ctx context.Context, cert Certificate) (Certificate, error)
	FindByID(ctx context.Context, id uuid.UUID) (Certificate, error)
	FindByAttempt(ctx context.Context, attemptID uuid.UUID) (Certificate, error)
	// Revoke conditionally stamps revocation on a non-revoked certificate.
	// Returns false without error when the certificate exists but is already
	// revoked, leaving the original revocation untouched.
	Revoke(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
}
