package verification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"permitdesk/internal/audit"
	"permitdesk/internal/owner"
	"permitdesk/internal/verification/metrics"
	dErrors "permitdesk/pkg/domain-errors"
)

// AuditPublisher mirrors workflow actions into the audit trail. Best-effort:
// failures are logged by the publisher, never surfaced here.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the server-side verification workflow: attempt lifecycle,
// draft persistence, document review, decision submission, and the status
// projection.
type Service struct {
	owners    owner.Store
	attempts  AttemptStore
	history   HistoryStore
	documents DocumentStore
	drafts    DraftCache

	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
	tracer  Tracer
	now     func() time.Time

	// reopenOnNeedsInfo revives the latest needs_info attempt on resume
	// instead of starting a fresh one.
	reopenOnNeedsInfo bool
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithDraftCache mirrors saved drafts into a hot cache. Optional.
func WithDraftCache(c DraftCache) Option {
	return func(s *Service) { s.drafts = c }
}

func WithReopenOnNeedsInfo(reopen bool) Option {
	return func(s *Service) { s.reopenOnNeedsInfo = reopen }
}

// WithClock overrides the time source; tests only.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(owners owner.Store, attempts AttemptStore, history HistoryStore, documents DocumentStore, opts ...Option) *Service {
	svc := &Service{
		owners:    owners,
		attempts:  attempts,
		history:   history,
		documents: documents,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = NewNoopTracer()
	}
	return svc
}

// CreateAttempt starts a new verification pass for the owner. Not idempotent:
// each call creates a new attempt (callers resume in-progress attempts
// themselves), except when reopen-on-needs-info is enabled and the latest
// attempt is waiting on additional information.
func (s *Service) CreateAttempt(ctx context.Context, ownerID, actorID uuid.UUID) (a Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.CreateAttempt",
		attribute.String("owner_id", ownerID.String()))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return Attempt{}, err
	}

	if s.reopenOnNeedsInfo {
		if revived, ok := s.tryReopen(ctx, ownerID, actorID); ok {
			return revived, nil
		}
	}

	a = Attempt{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ActorID:   actorID,
		Status:    AttemptInProgress,
		StartedAt: s.now(),
	}
	if err = s.attempts.Create(ctx, a); err != nil {
		return Attempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not create verification attempt")
	}

	s.appendHistory(ctx, a.ID, EventStarted, actorID, nil)
	s.emitAudit(ctx, actorID, audit.ActionAttemptCreated, a.ID.String(), "")
	if s.metrics != nil {
		s.metrics.AttemptsCreated.Inc()
	}
	return a, nil
}

// tryReopen revives the most recent needs_info attempt. Returns false when
// there is nothing to revive, so the caller falls through to a fresh attempt.
func (s *Service) tryReopen(ctx context.Context, ownerID, actorID uuid.UUID) (Attempt, bool) {
	latest, err := s.attempts.FindLatestByOwner(ctx, ownerID)
	if err != nil || latest.Status != AttemptNeedsInfo {
		return Attempt{}, false
	}
	reopened, err := s.attempts.Reopen(ctx, latest.ID)
	if err != nil || !reopened {
		return Attempt{}, false
	}
	payload, _ := json.Marshal(map[string]bool{"reopened": true})
	s.appendHistory(ctx, latest.ID, EventStarted, actorID, payload)
	s.emitAudit(ctx, actorID, audit.ActionAttemptCreated, latest.ID.String(), "reopened")

	refreshed, err := s.attempts.FindByID(ctx, latest.ID)
	if err != nil {
		return Attempt{}, false
	}
	return refreshed, true
}

// SaveDraft overwrites the draft snapshot on the owner's in-progress attempt.
// Last write wins; concurrent editors overwrite each other silently. The
// returned payload carries the server-stamped SavedAt.
func (s *Service) SaveDraft(ctx context.Context, ownerID, actorID uuid.UUID, draft DraftPayload) (saved DraftPayload, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.SaveDraft",
		attribute.String("owner_id", ownerID.String()))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return DraftPayload{}, err
	}
	if err = ValidateDraft(draft); err != nil {
		return DraftPayload{}, err
	}

	attempt, err := s.attempts.FindLatestInProgress(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DraftPayload{}, dErrors.New(dErrors.CodeNotFound, "no verification in progress for owner")
		}
		return DraftPayload{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load attempt")
	}

	start := s.now()
	savedAt := start
	draft.SavedAt = &savedAt
	if err = s.attempts.SaveDraft(ctx, attempt.ID, draft); err != nil {
		return DraftPayload{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist draft")
	}
	if s.metrics != nil {
		s.metrics.ObserveDraftSave(s.now().Sub(start))
	}

	if s.drafts != nil {
		if cacheErr := s.drafts.Put(ctx, ownerID, draft); cacheErr != nil {
			s.logger.Warn("draft cache write failed", "error", cacheErr, "owner_id", ownerID)
		}
	}

	payload, _ := json.Marshal(map[string]int{"currentStep": draft.CurrentStep})
	s.appendHistory(ctx, attempt.ID, EventDraftSaved, actorID, payload)
	s.emitAudit(ctx, actorID, audit.ActionDraftSaved, attempt.ID.String(), "")
	return draft, nil
}

// UpdateDocument records the review outcome for one document of an attempt.
func (s *Service) UpdateDocument(ctx context.Context, ownerID, actorID uuid.UUID, req DocumentReviewRequest) (rec DocumentRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.UpdateDocument",
		attribute.String("owner_id", ownerID.String()),
		attribute.String("document_id", req.DocumentID))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return DocumentRecord{}, err
	}
	if err = ValidateDocumentReview(req); err != nil {
		return DocumentRecord{}, err
	}

	attempt, err := s.loadOwnedAttempt(ctx, req.AttemptID, ownerID)
	if err != nil {
		return DocumentRecord{}, err
	}
	if attempt.Status.Terminal() {
		return DocumentRecord{}, dErrors.New(dErrors.CodeConflict, "attempt already finalized")
	}

	rec = DocumentRecord{
		ID:         uuid.New(),
		AttemptID:  attempt.ID,
		DocumentID: req.DocumentID,
		Status:     req.Status,
		Notes:      req.Notes,
		ReviewedBy: actorID,
		ReviewedAt: s.now(),
	}
	if err = s.documents.Upsert(ctx, rec); err != nil {
		return DocumentRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist document review")
	}

	payload, _ := json.Marshal(map[string]string{
		"documentId": req.DocumentID,
		"status":     string(req.Status),
	})
	s.appendHistory(ctx, attempt.ID, EventDocumentReviewed, actorID, payload)
	s.emitAudit(ctx, actorID, audit.ActionDocumentReviewed, attempt.ID.String(), req.DocumentID)
	if s.metrics != nil {
		s.metrics.DocumentsReviewed.WithLabelValues(string(req.Status)).Inc()
	}
	return rec, nil
}

// SubmitDecision finalizes the attempt with a terminal decision. Decisions
// are not resubmittable: a second submit on the same attempt conflicts, and
// re-verification requires a new attempt.
func (s *Service) SubmitDecision(ctx context.Context, ownerID, actorID uuid.UUID, req DecisionRequest) (a Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.SubmitDecision",
		attribute.String("owner_id", ownerID.String()),
		attribute.String("decision", string(req.Decision)))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return Attempt{}, err
	}
	if err = ValidateDecision(req); err != nil {
		return Attempt{}, err
	}

	attempt, err := s.loadOwnedAttempt(ctx, req.AttemptID, ownerID)
	if err != nil {
		return Attempt{}, err
	}

	// Record any document verdicts submitted alongside the decision before
	// the attempt goes terminal.
	for _, entry := range req.DocumentVerifications {
		doc := DocumentRecord{
			ID:         uuid.New(),
			AttemptID:  attempt.ID,
			DocumentID: entry.DocumentID,
			Status:     entry.Status,
			Notes:      entry.Note,
			ReviewedBy: actorID,
			ReviewedAt: s.now(),
		}
		if err = s.documents.Upsert(ctx, doc); err != nil {
			return Attempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist document review")
		}
	}

	finalized, err := s.attempts.Finalize(ctx, attempt.ID, FinalizeParams{
		Decision:                req.Decision,
		DecisionReason:          req.DecisionReason,
		AdditionalInfoRequested: req.AdditionalInfoRequested,
		Sections: map[Section]SectionStatus{
			SectionIdentity: req.Sections.Identity,
			SectionAddress:  req.Sections.Address,
			SectionBusiness: req.Sections.BusinessAffiliation,
		},
		FinalizedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Attempt{}, err
		}
		return Attempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not finalize attempt")
	}
	if !finalized {
		if s.metrics != nil {
			s.metrics.SubmitConflicts.Inc()
		}
		return Attempt{}, dErrors.New(dErrors.CodeConflict, "decision already submitted for this attempt")
	}

	// The full payload goes on the trail for audit; this is the one event
	// that must reconstruct exactly what was decided.
	payload, _ := json.Marshal(req)
	s.appendHistory(ctx, attempt.ID, EventDecisionSubmitted, actorID, payload)
	s.emitAudit(ctx, actorID, audit.ActionDecisionSubmitted, attempt.ID.String(), string(req.Decision))
	if s.metrics != nil {
		s.metrics.DecisionsSubmitted.WithLabelValues(string(req.Decision)).Inc()
	}

	if s.drafts != nil {
		if cacheErr := s.drafts.Invalidate(ctx, ownerID); cacheErr != nil {
			s.logger.Warn("draft cache invalidation failed", "error", cacheErr, "owner_id", ownerID)
		}
	}

	final, err := s.attempts.FindByID(ctx, attempt.ID)
	if err != nil {
		return Attempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not reload finalized attempt")
	}
	return final, nil
}

// GetStatus returns the current verification projection for the owner.
// Documents and history load in parallel when requested.
func (s *Service) GetStatus(ctx context.Context, ownerID, actorID uuid.UUID, includeDocuments, includeHistory bool) (st Status, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.GetStatus",
		attribute.String("owner_id", ownerID.String()))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return Status{}, err
	}

	attempt, err := s.attempts.FindLatestByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Status{}, dErrors.New(dErrors.CodeNotFound, "no verification attempt for owner")
		}
		return Status{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load attempt")
	}
	st.Attempt = attempt

	// While the attempt is in progress the hot cache carries the same draft
	// the last save wrote; prefer it and fall back to the attempt row on a
	// miss so an expired cache entry costs nothing.
	if s.drafts != nil && attempt.Status == AttemptInProgress {
		if cached, cacheErr := s.drafts.Get(ctx, ownerID); cacheErr == nil {
			st.Attempt.Draft = &cached
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if includeDocuments {
		g.Go(func() error {
			docs, err := s.documents.ListByAttempt(gctx, attempt.ID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "could not load document reviews")
			}
			st.Documents = docs
			return nil
		})
	}
	if includeHistory {
		g.Go(func() error {
			events, err := s.history.ListByAttempt(gctx, attempt.ID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "could not load history")
			}
			st.History = events
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return Status{}, err
	}

	s.emitAudit(ctx, actorID, audit.ActionStatusRead, attempt.ID.String(), "")
	return st, nil
}

// ListDocuments returns the document reviews for an attempt the owner holds.
func (s *Service) ListDocuments(ctx context.Context, ownerID, actorID, attemptID uuid.UUID) (docs []DocumentRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "verification.ListDocuments",
		attribute.String("owner_id", ownerID.String()))
	defer func() { span.End(err) }()

	if _, err = s.owners.FindManagedBy(ctx, ownerID, actorID); err != nil {
		return nil, err
	}
	if _, err = s.loadOwnedAttempt(ctx, attemptID, ownerID); err != nil {
		return nil, err
	}
	docs, err = s.documents.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not load document reviews")
	}
	return docs, nil
}

// loadOwnedAttempt fetches an attempt and enforces owner scope. A mismatch is
// reported as not_found so attempt existence never leaks across owners.
func (s *Service) loadOwnedAttempt(ctx context.Context, attemptID, ownerID uuid.UUID) (Attempt, error) {
	attempt, err := s.attempts.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Attempt{}, dErrors.New(dErrors.CodeNotFound, "verification attempt not found")
		}
		return Attempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load attempt")
	}
	if attempt.OwnerID != ownerID {
		return Attempt{}, dErrors.New(dErrors.CodeNotFound, "verification attempt not found")
	}
	return attempt, nil
}

func (s *Service) appendHistory(ctx context.Context, attemptID uuid.UUID, eventType HistoryEventType, actorID uuid.UUID, payload json.RawMessage) {
	event := HistoryEvent{
		ID:         uuid.New(),
		AttemptID:  attemptID,
		Type:       eventType,
		ActorID:    actorID,
		Payload:    payload,
		OccurredAt: s.now(),
	}
	if err := s.history.Append(ctx, event); err != nil {
		s.logger.Error("failed to append history event",
			"error", err,
			"attempt_id", attemptID,
			"event_type", eventType,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, actorID uuid.UUID, action audit.Action, entityID, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		ActorID:  actorID.String(),
		Action:   string(action),
		Entity:   "verification_attempt",
		EntityID: entityID,
		Detail:   detail,
	})
}
