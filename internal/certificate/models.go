package certificate

import (
	"time"

	"github.com/google/uuid"
)

// Certificate asserts that one specific verification attempt reached a
// VERIFIED decision. At most one certificate exists per attempt; revocation
// is terminal, and re-certification requires a new attempt.
type Certificate struct {
	ID               uuid.UUID
	AttemptID        uuid.UUID
	OwnerID          uuid.UUID
	Serial           string
	IssuedAt         time.Time
	RevokedAt        *time.Time
	RevocationReason string
}

// Revoked reports whether the certificate has been permanently revoked.
func (c Certificate) Revoked() bool {
	return c.RevokedAt != nil
}
