package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"permitdesk/internal/platform/middleware"
	"permitdesk/internal/transport/http/shared"
	"permitdesk/internal/verification"
	dErrors "permitdesk/pkg/domain-errors"
)

// VerificationService defines the verification operations the transport
// needs. Returns domain objects, not HTTP response DTOs.
type VerificationService interface {
	CreateAttempt(ctx context.Context, ownerID, actorID uuid.UUID) (verification.Attempt, error)
	SaveDraft(ctx context.Context, ownerID, actorID uuid.UUID, draft verification.DraftPayload) (verification.DraftPayload, error)
	UpdateDocument(ctx context.Context, ownerID, actorID uuid.UUID, req verification.DocumentReviewRequest) (verification.DocumentRecord, error)
	SubmitDecision(ctx context.Context, ownerID, actorID uuid.UUID, req verification.DecisionRequest) (verification.Attempt, error)
	GetStatus(ctx context.Context, ownerID, actorID uuid.UUID, includeDocuments, includeHistory bool) (verification.Status, error)
	ListDocuments(ctx context.Context, ownerID, actorID, attemptID uuid.UUID) ([]verification.DocumentRecord, error)
}

type VerificationHandler struct {
	service VerificationService
	logger  *slog.Logger
}

func NewVerificationHandler(service VerificationService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{service: service, logger: logger}
}

func (h *VerificationHandler) Register(r chi.Router) {
	r.Post("/owners/{id}/verification", h.HandlePost)
	r.Put("/owners/{id}/verification", h.HandleSubmitDecision)
	r.Get("/owners/{id}/verification", h.HandleGetStatus)
	r.Post("/owners/{id}/verification/documents", h.HandleUpdateDocument)
	r.Get("/owners/{id}/verification/documents", h.HandleListDocuments)
}

// HandlePost starts a verification attempt, or checkpoints the wizard draft
// when the body carries isDraft.
func (h *VerificationHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	req, ok := shared.Decode[VerificationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if req.IsDraft {
		saved, err := h.service.SaveDraft(ctx, ownerID, actorID, req.DraftData)
		if err != nil {
			h.logger.ErrorContext(ctx, "save draft failed", "error", err, "request_id", requestID, "owner_id", ownerID)
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, DraftSavedResponse{DraftData: saved})
		return
	}

	attempt, err := h.service.CreateAttempt(ctx, ownerID, actorID)
	if err != nil {
		h.logger.ErrorContext(ctx, "create attempt failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toAttemptResponse(attempt))
}

// HandleSubmitDecision finalizes an attempt.
func (h *VerificationHandler) HandleSubmitDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	req, ok := shared.Decode[verification.DecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	attempt, err := h.service.SubmitDecision(ctx, ownerID, actorID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "submit decision failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAttemptResponse(attempt))
}

// HandleGetStatus returns the latest attempt with optional documents/history.
func (h *VerificationHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	includeDocuments := queryFlag(r, "includeDocuments")
	includeHistory := queryFlag(r, "includeHistory")

	status, err := h.service.GetStatus(ctx, ownerID, actorID, includeDocuments, includeHistory)
	if err != nil {
		h.logger.ErrorContext(ctx, "get status failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}

	res := StatusResponse{Verification: toAttemptResponse(status.Attempt)}
	if includeDocuments {
		res.Documents = toDocumentResponses(status.Documents)
	}
	if includeHistory {
		res.History = toHistoryResponses(status.History)
	}
	shared.WriteJSON(w, http.StatusOK, res)
}

// HandleUpdateDocument records a reviewer's verdict for one document.
func (h *VerificationHandler) HandleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	req, ok := shared.Decode[verification.DocumentReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.UpdateDocument(ctx, ownerID, actorID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update document failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(rec))
}

// HandleListDocuments lists the document records of one attempt.
func (h *VerificationHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(r.URL.Query().Get("verificationId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid verificationId"))
		return
	}

	docs, err := h.service.ListDocuments(ctx, ownerID, actorID, attemptID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list documents failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, DocumentListResponse{Documents: toDocumentResponses(docs)})
}

// ownerAndActor pulls the owner id from the path and the actor from the
// authenticated context. Writes the error response itself on failure.
func ownerAndActor(w http.ResponseWriter, r *http.Request) (ownerID, actorID uuid.UUID, ok bool) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid owner id"))
		return uuid.Nil, uuid.Nil, false
	}

	actor, authed := middleware.GetActor(r.Context())
	if !authed {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "unauthorized"))
		return uuid.Nil, uuid.Nil, false
	}
	actorID, err = uuid.Parse(actor.ID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "unauthorized"))
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, actorID, true
}

// queryFlag treats presence without a value as true, matching common client
// usage of ?includeDocuments&includeHistory.
func queryFlag(r *http.Request, name string) bool {
	if !r.URL.Query().Has(name) {
		return false
	}
	v := r.URL.Query().Get(name)
	return v == "" || v == "true" || v == "1"
}
