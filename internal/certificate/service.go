package certificate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"permitdesk/internal/audit"
	"permitdesk/internal/owner"
	"permitdesk/internal/verification"
	dErrors "permitdesk/pkg/domain-errors"
	"permitdesk/pkg/secrets"
)

// AuditPublisher mirrors certificate actions into the audit trail.
// Best-effort: a logging failure never rolls back the primary operation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns certificate issuance and revocation. Certificates derive from
// exactly one verified attempt and are issued lazily on first request.
type Service struct {
	owners   owner.Store
	attempts verification.AttemptStore
	certs    Store
	logger   *slog.Logger
	auditor  AuditPublisher
	now      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

// WithClock overrides the time source; tests only.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(owners owner.Store, attempts verification.AttemptStore, certs Store, opts ...Option) *Service {
	svc := &Service{
		owners:   owners,
		attempts: attempts,
		certs:    certs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// GetOrGenerate returns the certificate for the owner's most recent verified
// attempt, issuing one lazily if none exists yet. Idempotent: repeated and
// concurrent calls converge on the same certificate.
func (s *Service) GetOrGenerate(ctx context.Context, ownerID, actorID uuid.UUID) (Certificate, error) {
	if _, err := s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return Certificate{}, err
	}

	attempt, err := s.attempts.FindLatestVerified(ctx, ownerID)
	if err != nil {
		if errors.Is(err, verification.ErrNotFound) {
			return Certificate{}, dErrors.New(dErrors.CodeNotFound, "no verified attempt for owner")
		}
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load verified attempt")
	}

	return s.issueFor(ctx, attempt, actorID)
}

// Generate issues (or returns) the certificate for an explicit attempt.
func (s *Service) Generate(ctx context.Context, attemptID, actorID uuid.UUID) (Certificate, error) {
	attempt, err := s.attempts.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, verification.ErrNotFound) {
			return Certificate{}, dErrors.New(dErrors.CodeNotFound, "verification attempt not found")
		}
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load attempt")
	}
	if _, err := s.owners.FindManagedBy(ctx, attempt.OwnerID, actorID); err != nil {
		// Same shape as a missing attempt so existence never leaks.
		return Certificate{}, dErrors.New(dErrors.CodeNotFound, "verification attempt not found")
	}
	if attempt.Status != verification.AttemptVerified {
		return Certificate{}, dErrors.New(dErrors.CodeConflict, "attempt did not reach a verified decision")
	}

	return s.issueFor(ctx, attempt, actorID)
}

func (s *Service) issueFor(ctx context.Context, attempt verification.Attempt, actorID uuid.UUID) (Certificate, error) {
	existing, err := s.certs.FindByAttempt(ctx, attempt.ID)
	switch {
	case err == nil:
		if existing.Revoked() {
			// Revocation is terminal for the attempt too; a new certificate
			// requires a new verified attempt.
			return Certificate{}, dErrors.New(dErrors.CodeConflict, "certificate for this attempt was revoked")
		}
		s.emitAudit(ctx, actorID, audit.ActionCertificateRead, existing.ID.String(), "")
		return existing, nil
	case errors.Is(err, ErrNotFound):
		// fall through to issuance
	default:
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load certificate")
	}

	serial, err := secrets.Generate()
	if err != nil {
		return Certificate{}, err
	}
	cert, err := s.certs.CreateOrFind(ctx, Certificate{
		ID:        uuid.New(),
		AttemptID: attempt.ID,
		OwnerID:   attempt.OwnerID,
		Serial:    serial,
		IssuedAt:  s.now(),
	})
	if err != nil {
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not issue certificate")
	}

	s.emitAudit(ctx, actorID, audit.ActionCertificateIssued, cert.ID.String(), "")
	return cert, nil
}

// Revoke permanently revokes a certificate with a reason. One-way: a second
// revocation conflicts and the original revocation timestamp stands.
func (s *Service) Revoke(ctx context.Context, certificateID, actorID uuid.UUID, reason string) (Certificate, error) {
	if reason == "" {
		return Certificate{}, dErrors.New(dErrors.CodeValidation, "revocation reason required")
	}

	cert, err := s.certs.FindByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Certificate{}, err
		}
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load certificate")
	}
	if _, err := s.owners.FindManagedBy(ctx, cert.OwnerID, actorID); err != nil {
		return Certificate{}, ErrNotFound
	}

	revoked, err := s.certs.Revoke(ctx, certificateID, reason, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Certificate{}, err
		}
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not revoke certificate")
	}
	if !revoked {
		return Certificate{}, dErrors.New(dErrors.CodeConflict, "certificate already revoked")
	}

	s.emitAudit(ctx, actorID, audit.ActionCertificateRevoked, certificateID.String(), reason)

	final, err := s.certs.FindByID(ctx, certificateID)
	if err != nil {
		return Certificate{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not reload certificate")
	}
	return final, nil
}

func (s *Service) emitAudit(ctx context.Context, actorID uuid.UUID, action audit.Action, entityID, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		ActorID:  actorID.String(),
		Action:   string(action),
		Entity:   "certificate",
		EntityID: entityID,
		Detail:   detail,
	})
}
