package verification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"permitdesk/internal/audit"
	"permitdesk/internal/owner"
	"permitdesk/internal/verification"
	vstore "permitdesk/internal/verification/store"
	dErrors "permitdesk/pkg/domain-errors"
)

// WorkflowSuite exercises the server-side verification workflow against
// in-memory stores.
type WorkflowSuite struct {
	suite.Suite
	service    *verification.Service
	owners     *owner.InMemoryStore
	attempts   *vstore.InMemoryAttemptStore
	history    *vstore.InMemoryHistoryStore
	documents  *vstore.InMemoryDocumentStore
	drafts     *vstore.InMemoryDraftCache
	auditStore *audit.InMemoryStore
	ownerID    uuid.UUID
	actorID    uuid.UUID
	ctx        context.Context
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.ctx = context.Background()
	s.owners = owner.NewInMemoryStore()
	s.attempts = vstore.NewInMemoryAttemptStore()
	s.history = vstore.NewInMemoryHistoryStore()
	s.documents = vstore.NewInMemoryDocumentStore()
	s.drafts = vstore.NewInMemoryDraftCache()
	s.auditStore = audit.NewInMemoryStore()

	s.ownerID = uuid.New()
	s.actorID = uuid.New()
	s.Require().NoError(s.owners.Save(s.ctx, owner.Owner{
		ID:        s.ownerID,
		ManagerID: s.actorID,
		FirstName: "Dana",
		LastName:  "Okafor",
		Email:     "dana@example.com",
	}))

	s.service = verification.NewService(s.owners, s.attempts, s.history, s.documents,
		verification.WithDraftCache(s.drafts),
		verification.WithAuditPublisher(audit.NewPublisher(s.auditStore)),
	)
}

func (s *WorkflowSuite) startAttempt() verification.Attempt {
	a, err := s.service.CreateAttempt(s.ctx, s.ownerID, s.actorID)
	s.Require().NoError(err)
	return a
}

func validDraft() verification.DraftPayload {
	return verification.DraftPayload{
		OwnerFields: map[verification.OwnerField]string{verification.FieldFirstName: "Dana"},
		Checklists: map[verification.Category][]verification.ChecklistItem{
			verification.CategoryIdentity: {
				{ID: "id-photo", Text: "Photo matches ID", Checked: true},
				{ID: "id-expiry", Text: "ID not expired", NotApplicable: true, NAReason: "foreign passport"},
			},
		},
		Notes:       map[verification.Section]string{verification.SectionIdentity: "looks fine"},
		CurrentStep: 2,
	}
}

func (s *WorkflowSuite) TestCreateAttempt() {
	s.Run("creates attempt with started event", func() {
		a := s.startAttempt()
		s.Equal(verification.AttemptInProgress, a.Status)
		s.Equal(s.ownerID, a.OwnerID)

		events, err := s.history.ListByAttempt(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(verification.EventStarted, events[0].Type)
		s.Equal(s.actorID, events[0].ActorID)
	})

	s.Run("not idempotent - second call creates a second attempt", func() {
		first := s.startAttempt()
		second := s.startAttempt()
		s.NotEqual(first.ID, second.ID)
	})

	s.Run("unknown owner", func() {
		_, err := s.service.CreateAttempt(s.ctx, uuid.New(), s.actorID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("owner managed by someone else", func() {
		_, err := s.service.CreateAttempt(s.ctx, s.ownerID, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "must not leak existence")
	})
}

func (s *WorkflowSuite) TestSaveDraft() {
	s.Run("round-trips through status projection", func() {
		s.startAttempt()
		draft := validDraft()

		saved, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, draft)
		s.Require().NoError(err)
		s.Require().NotNil(saved.SavedAt)

		st, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
		s.Require().NoError(err)
		s.Require().NotNil(st.Attempt.Draft)
		s.Equal(draft.Checklists, st.Attempt.Draft.Checklists)
		s.Equal(draft.Notes, st.Attempt.Draft.Notes)
		s.Equal(draft.CurrentStep, st.Attempt.Draft.CurrentStep)
	})

	s.Run("last write wins", func() {
		s.startAttempt()
		first := validDraft()
		first.CurrentStep = 2
		second := validDraft()
		second.CurrentStep = 3

		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, first)
		s.Require().NoError(err)
		_, err = s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, second)
		s.Require().NoError(err)

		st, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
		s.Require().NoError(err)
		s.Equal(3, st.Attempt.Draft.CurrentStep)
	})

	s.Run("mirrors into the draft cache", func() {
		s.startAttempt()
		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, validDraft())
		s.Require().NoError(err)

		cached, err := s.drafts.Get(s.ctx, s.ownerID)
		s.Require().NoError(err)
		s.Equal(2, cached.CurrentStep)
	})

	s.Run("rejects item both checked and not applicable", func() {
		s.startAttempt()
		draft := validDraft()
		draft.Checklists[verification.CategoryIdentity][0].NotApplicable = true
		draft.Checklists[verification.CategoryIdentity][0].NAReason = "x"

		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, draft)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects not applicable without reason", func() {
		s.startAttempt()
		draft := validDraft()
		draft.Checklists[verification.CategoryIdentity][1].NAReason = ""

		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, draft)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects unknown category", func() {
		s.startAttempt()
		draft := validDraft()
		draft.Checklists["passport"] = []verification.ChecklistItem{{ID: "x", Text: "y"}}

		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, draft)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// Runs as its own test method so no earlier subtest has started an attempt
// for the owner.
func (s *WorkflowSuite) TestSaveDraftWithoutAttempt() {
	_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, validDraft())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *WorkflowSuite) TestUpdateDocument() {
	s.Run("records review and history", func() {
		a := s.startAttempt()
		rec, err := s.service.UpdateDocument(s.ctx, s.ownerID, s.actorID, verification.DocumentReviewRequest{
			AttemptID:  a.ID,
			DocumentID: "doc-1",
			Status:     verification.DocVerified,
		})
		s.Require().NoError(err)
		s.Equal(s.actorID, rec.ReviewedBy)

		events, err := s.history.ListByAttempt(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(verification.EventDocumentReviewed, events[len(events)-1].Type)
	})

	s.Run("problem statuses require notes", func() {
		a := s.startAttempt()
		statuses := []verification.DocumentStatus{
			verification.DocOtherIssue,
			verification.DocSuspectedFraud,
			verification.DocNotApplicable,
		}
		for _, status := range statuses {
			_, err := s.service.UpdateDocument(s.ctx, s.ownerID, s.actorID, verification.DocumentReviewRequest{
				AttemptID:  a.ID,
				DocumentID: "doc-1",
				Status:     status,
			})
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "status %s must require notes", status)

			_, err = s.service.UpdateDocument(s.ctx, s.ownerID, s.actorID, verification.DocumentReviewRequest{
				AttemptID:  a.ID,
				DocumentID: "doc-1",
				Status:     status,
				Notes:      "explained",
			})
			s.NoError(err)
		}
	})

	s.Run("last review wins per document", func() {
		a := s.startAttempt()
		for _, status := range []verification.DocumentStatus{verification.DocUnreadable, verification.DocVerified} {
			_, err := s.service.UpdateDocument(s.ctx, s.ownerID, s.actorID, verification.DocumentReviewRequest{
				AttemptID: a.ID, DocumentID: "doc-1", Status: status,
			})
			s.Require().NoError(err)
		}
		docs, err := s.documents.ListByAttempt(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(verification.DocVerified, docs[0].Status)
	})

	s.Run("attempt of another owner looks missing", func() {
		a := s.startAttempt()
		otherOwner := uuid.New()
		otherActor := uuid.New()
		s.Require().NoError(s.owners.Save(s.ctx, owner.Owner{ID: otherOwner, ManagerID: otherActor}))

		_, err := s.service.UpdateDocument(s.ctx, otherOwner, otherActor, verification.DocumentReviewRequest{
			AttemptID: a.ID, DocumentID: "doc-1", Status: verification.DocVerified,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func decisionFor(a verification.Attempt, d verification.Decision) verification.DecisionRequest {
	return verification.DecisionRequest{
		AttemptID: a.ID,
		Decision:  d,
		Sections: verification.SectionDecisions{
			Identity:            verification.SectionVerified,
			Address:             verification.SectionVerified,
			BusinessAffiliation: verification.SectionVerified,
		},
	}
}

func (s *WorkflowSuite) TestSubmitDecision() {
	s.Run("finalizes attempt and records full payload", func() {
		a := s.startAttempt()
		req := decisionFor(a, verification.DecisionVerified)
		req.DecisionReason = "all checks passed"

		final, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, req)
		s.Require().NoError(err)
		s.Equal(verification.AttemptVerified, final.Status)
		s.Require().NotNil(final.FinalizedAt)
		s.Equal(verification.SectionVerified, final.Sections[verification.SectionBusiness])

		events, err := s.history.ListByAttempt(s.ctx, a.ID)
		s.Require().NoError(err)
		last := events[len(events)-1]
		s.Equal(verification.EventDecisionSubmitted, last.Type)

		var replay verification.DecisionRequest
		s.Require().NoError(json.Unmarshal(last.Payload, &replay))
		s.Equal(req.Decision, replay.Decision)
		s.Equal(req.DecisionReason, replay.DecisionReason)
	})

	s.Run("second submit conflicts", func() {
		a := s.startAttempt()
		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionVerified))
		s.Require().NoError(err)

		_, err = s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionRejected))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		got, err := s.attempts.FindByID(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(verification.AttemptVerified, got.Status, "first decision must stand")
	})

	s.Run("missing section status rejected", func() {
		a := s.startAttempt()
		req := decisionFor(a, verification.DecisionVerified)
		req.Sections.Address = ""

		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown decision rejected", func() {
		a := s.startAttempt()
		req := decisionFor(a, verification.Decision("MAYBE"))
		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("inline document verdicts are persisted", func() {
		a := s.startAttempt()
		req := decisionFor(a, verification.DecisionRejected)
		req.DocumentVerifications = []verification.DocumentStatusEntry{
			{DocumentID: "doc-1", Status: verification.DocSuspectedFraud, Note: "signature mismatch"},
		}
		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, req)
		s.Require().NoError(err)

		docs, err := s.documents.ListByAttempt(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(verification.DocSuspectedFraud, docs[0].Status)
	})

	s.Run("submit clears the draft cache", func() {
		a := s.startAttempt()
		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, validDraft())
		s.Require().NoError(err)

		_, err = s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionVerified))
		s.Require().NoError(err)

		_, err = s.drafts.Get(s.ctx, s.ownerID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown attempt", func() {
		req := decisionFor(verification.Attempt{ID: uuid.New()}, verification.DecisionVerified)
		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, req)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *WorkflowSuite) TestNeedsInfoPolicy() {
	s.Run("default policy starts a new attempt after needs_info", func() {
		a := s.startAttempt()
		_, err := s.service.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionNeedsInfo))
		s.Require().NoError(err)

		next := s.startAttempt()
		s.NotEqual(a.ID, next.ID)
	})

	s.Run("reopen policy revives the needs_info attempt", func() {
		svc := verification.NewService(s.owners, s.attempts, s.history, s.documents,
			verification.WithReopenOnNeedsInfo(true))

		a, err := svc.CreateAttempt(s.ctx, s.ownerID, s.actorID)
		s.Require().NoError(err)
		_, err = svc.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionNeedsInfo))
		s.Require().NoError(err)

		revived, err := svc.CreateAttempt(s.ctx, s.ownerID, s.actorID)
		s.Require().NoError(err)
		s.Equal(a.ID, revived.ID)
		s.Equal(verification.AttemptInProgress, revived.Status)
	})

	s.Run("reopen policy ignores terminal verified attempts", func() {
		svc := verification.NewService(s.owners, s.attempts, s.history, s.documents,
			verification.WithReopenOnNeedsInfo(true))

		a, err := svc.CreateAttempt(s.ctx, s.ownerID, s.actorID)
		s.Require().NoError(err)
		_, err = svc.SubmitDecision(s.ctx, s.ownerID, s.actorID, decisionFor(a, verification.DecisionVerified))
		s.Require().NoError(err)

		next, err := svc.CreateAttempt(s.ctx, s.ownerID, s.actorID)
		s.Require().NoError(err)
		s.NotEqual(a.ID, next.ID)
	})
}

func (s *WorkflowSuite) TestGetStatus() {
	s.Run("includes documents and history on request", func() {
		a := s.startAttempt()
		_, err := s.service.UpdateDocument(s.ctx, s.ownerID, s.actorID, verification.DocumentReviewRequest{
			AttemptID: a.ID, DocumentID: "doc-1", Status: verification.DocVerified,
		})
		s.Require().NoError(err)

		st, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, true, true)
		s.Require().NoError(err)
		s.Len(st.Documents, 1)
		s.Len(st.History, 2)

		bare, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
		s.Require().NoError(err)
		s.Nil(bare.Documents)
		s.Nil(bare.History)
	})

	s.Run("serves the draft from the hot cache while in progress", func() {
		s.startAttempt()
		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, validDraft())
		s.Require().NoError(err)

		hot := validDraft()
		hot.CurrentStep = 5
		s.Require().NoError(s.drafts.Put(s.ctx, s.ownerID, hot))

		st, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
		s.Require().NoError(err)
		s.Require().NotNil(st.Attempt.Draft)
		s.Equal(5, st.Attempt.Draft.CurrentStep)
	})

	s.Run("falls back to the attempt row on a cache miss", func() {
		s.startAttempt()
		_, err := s.service.SaveDraft(s.ctx, s.ownerID, s.actorID, validDraft())
		s.Require().NoError(err)
		s.Require().NoError(s.drafts.Invalidate(s.ctx, s.ownerID))

		st, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
		s.Require().NoError(err)
		s.Require().NotNil(st.Attempt.Draft)
		s.Equal(2, st.Attempt.Draft.CurrentStep)
	})
}

// Runs as its own test method so no earlier subtest has started an attempt
// for the owner.
func (s *WorkflowSuite) TestGetStatusWithoutAttempts() {
	_, err := s.service.GetStatus(s.ctx, s.ownerID, s.actorID, false, false)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *WorkflowSuite) TestClockInjection() {
	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := verification.NewService(s.owners, s.attempts, s.history, s.documents,
		verification.WithClock(func() time.Time { return fixed }))

	a, err := svc.CreateAttempt(s.ctx, s.ownerID, s.actorID)
	s.Require().NoError(err)
	s.True(a.StartedAt.Equal(fixed))
}
