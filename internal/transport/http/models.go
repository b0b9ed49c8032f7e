package httptransport

import (
	"encoding/json"
	"time"

	"permitdesk/internal/certificate"
	"permitdesk/internal/verification"
)

// VerificationRequest is the POST body. With IsDraft set the call checkpoints
// the wizard state; without it a new attempt starts.
type VerificationRequest struct {
	IsDraft   bool                      `json:"isDraft,omitempty"`
	DraftData verification.DraftPayload `json:"draftData"`
}

type AttemptResponse struct {
	VerificationID          string                     `json:"verificationId"`
	OwnerID                 string                     `json:"ownerId"`
	Status                  string                     `json:"status"`
	Decision                string                     `json:"decision,omitempty"`
	DecisionReason          string                     `json:"decisionReason,omitempty"`
	AdditionalInfoRequested string                     `json:"additionalInfoRequested,omitempty"`
	Sections                map[string]string          `json:"sections,omitempty"`
	DraftData               *verification.DraftPayload `json:"draftData,omitempty"`
	StartedAt               time.Time                  `json:"startedAt"`
	FinalizedAt             *time.Time                 `json:"finalizedAt,omitempty"`
}

type DraftSavedResponse struct {
	DraftData verification.DraftPayload `json:"draftData"`
}

type DocumentResponse struct {
	VerificationID string    `json:"verificationId"`
	DocumentID     string    `json:"documentId"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	ReviewedBy     string    `json:"reviewedBy"`
	ReviewedAt     time.Time `json:"reviewedAt"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type HistoryEventResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ActorID    string         `json:"actorId"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type StatusResponse struct {
	Verification AttemptResponse        `json:"verification"`
	Documents    []DocumentResponse     `json:"documents,omitempty"`
	History      []HistoryEventResponse `json:"history,omitempty"`
}

type CertificateResponse struct {
	CertificateID    string     `json:"certificateId"`
	VerificationID   string     `json:"verificationId"`
	OwnerID          string     `json:"ownerId"`
	Serial           string     `json:"serial"`
	IssuedAt         time.Time  `json:"issuedAt"`
	RevokedAt        *time.Time `json:"revokedAt,omitempty"`
	RevocationReason string     `json:"revocationReason,omitempty"`
}

func toAttemptResponse(a verification.Attempt) AttemptResponse {
	res := AttemptResponse{
		VerificationID:          a.ID.String(),
		OwnerID:                 a.OwnerID.String(),
		Status:                  string(a.Status),
		Decision:                string(a.Decision),
		DecisionReason:          a.DecisionReason,
		AdditionalInfoRequested: a.AdditionalInfoRequested,
		DraftData:               a.Draft,
		StartedAt:               a.StartedAt,
		FinalizedAt:             a.FinalizedAt,
	}
	if len(a.Sections) > 0 {
		res.Sections = make(map[string]string, len(a.Sections))
		for section, status := range a.Sections {
			res.Sections[string(section)] = string(status)
		}
	}
	return res
}

func toDocumentResponse(d verification.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		VerificationID: d.AttemptID.String(),
		DocumentID:     d.DocumentID,
		Status:         string(d.Status),
		Notes:          d.Notes,
		ReviewedBy:     d.ReviewedBy.String(),
		ReviewedAt:     d.ReviewedAt,
	}
}

func toDocumentResponses(docs []verification.DocumentRecord) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = toDocumentResponse(d)
	}
	return out
}

func toHistoryResponses(events []verification.HistoryEvent) []HistoryEventResponse {
	out := make([]HistoryEventResponse, len(events))
	for i, e := range events {
		out[i] = HistoryEventResponse{
			ID:         e.ID.String(),
			Type:       string(e.Type),
			ActorID:    e.ActorID.String(),
			Payload:    decodePayload(e.Payload),
			OccurredAt: e.OccurredAt,
		}
	}
	return out
}

func decodePayload(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func toCertificateResponse(c certificate.Certificate) CertificateResponse {
	return CertificateResponse{
		CertificateID:    c.ID.String(),
		VerificationID:   c.AttemptID.String(),
		OwnerID:          c.OwnerID.String(),
		Serial:           c.Serial,
		IssuedAt:         c.IssuedAt,
		RevokedAt:        c.RevokedAt,
		RevocationReason: c.RevocationReason,
	}
}
