package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"permitdesk/internal/certificate"
	"permitdesk/internal/platform/middleware"
	"permitdesk/internal/transport/http/shared"
	dErrors "permitdesk/pkg/domain-errors"
)

// CertificateService defines the certificate operations the transport needs.
type CertificateService interface {
	GetOrGenerate(ctx context.Context, ownerID, actorID uuid.UUID) (certificate.Certificate, error)
	Generate(ctx context.Context, attemptID, actorID uuid.UUID) (certificate.Certificate, error)
	Revoke(ctx context.Context, certificateID, actorID uuid.UUID, reason string) (certificate.Certificate, error)
}

type CertificateHandler struct {
	service CertificateService
	logger  *slog.Logger
}

func NewCertificateHandler(service CertificateService, logger *slog.Logger) *CertificateHandler {
	return &CertificateHandler{service: service, logger: logger}
}

func (h *CertificateHandler) Register(r chi.Router) {
	r.Get("/owners/{id}/verification/certificate", h.HandleGet)
	r.Delete("/owners/{id}/verification/certificate", h.HandleRevoke)
}

// HandleGet returns the owner's certificate, issuing one on first request.
// With ?verificationId= the certificate is pinned to that attempt instead of
// the latest verified one.
func (h *CertificateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ownerID, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	var cert certificate.Certificate
	var err error
	if raw := r.URL.Query().Get("verificationId"); raw != "" {
		attemptID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid verificationId"))
			return
		}
		cert, err = h.service.Generate(ctx, attemptID, actorID)
	} else {
		cert, err = h.service.GetOrGenerate(ctx, ownerID, actorID)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "get certificate failed", "error", err, "request_id", requestID, "owner_id", ownerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCertificateResponse(cert))
}

// HandleRevoke permanently revokes a certificate.
func (h *CertificateHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	_, actorID, ok := ownerAndActor(w, r)
	if !ok {
		return
	}

	certID, err := uuid.Parse(r.URL.Query().Get("certificateId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid certificateId"))
		return
	}
	reason := r.URL.Query().Get("reason")

	cert, err := h.service.Revoke(ctx, certID, actorID, reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "revoke certificate failed", "error", err, "request_id", requestID, "certificate_id", certID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCertificateResponse(cert))
}
