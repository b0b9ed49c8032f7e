package verification

import (
	"fmt"

	dErrors "permitdesk/pkg/domain-errors"
)

var validSectionStatuses = map[SectionStatus]bool{
	SectionPending:     true,
	SectionVerified:    true,
	SectionRejected:    true,
	SectionNeedsReview: true,
}

var validDocumentStatuses = map[DocumentStatus]bool{
	DocPending:          true,
	DocVerified:         true,
	DocUnreadable:       true,
	DocExpired:          true,
	DocInconsistentData: true,
	DocSuspectedFraud:   true,
	DocOtherIssue:       true,
	DocNotApplicable:    true,
}

// notesRequired lists document statuses that must carry an explanation.
var notesRequired = map[DocumentStatus]bool{
	DocOtherIssue:     true,
	DocSuspectedFraud: true,
	DocNotApplicable:  true,
}

var validCategories = map[Category]bool{
	CategoryIdentity: true,
	CategoryAddress:  true,
	CategoryBusiness: true,
}

var validSections = map[Section]bool{
	SectionIdentity: true,
	SectionAddress:  true,
	SectionBusiness: true,
	SectionOverall:  true,
}

var validDecisions = map[Decision]bool{
	DecisionVerified:  true,
	DecisionRejected:  true,
	DecisionNeedsInfo: true,
}

// ValidateDraft checks that a draft payload deserialized to the expected
// shape: known enum values, per-item checklist invariants, a step in range.
// The original system stored drafts unvalidated; that gap is closed here.
func ValidateDraft(d DraftPayload) error {
	for cat, items := range d.Checklists {
		if !validCategories[cat] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown checklist category %q", cat))
		}
		for _, item := range items {
			if item.ID == "" {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("checklist item in %q missing id", cat))
			}
			if item.Checked && item.NotApplicable {
				return dErrors.New(dErrors.CodeValidation,
					fmt.Sprintf("checklist item %q is both checked and not applicable", item.ID))
			}
			if item.NotApplicable && item.NAReason == "" {
				return dErrors.New(dErrors.CodeValidation,
					fmt.Sprintf("checklist item %q marked not applicable without a reason", item.ID))
			}
		}
	}
	for section, status := range d.SectionStatuses {
		if !validSections[section] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown section %q", section))
		}
		if !validSectionStatuses[status] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown section status %q", status))
		}
	}
	for section := range d.Notes {
		if !validSections[section] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown note section %q", section))
		}
	}
	for _, entry := range d.DocumentStatuses {
		if entry.DocumentID == "" {
			return dErrors.New(dErrors.CodeValidation, "document status entry missing document id")
		}
		if !validDocumentStatuses[entry.Status] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown document status %q", entry.Status))
		}
	}
	if d.FinalDecision.Status != "" && !validDecisions[d.FinalDecision.Status] {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown decision %q", d.FinalDecision.Status))
	}
	if d.CurrentStep < 0 || d.CurrentStep > 6 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("current step %d out of range", d.CurrentStep))
	}
	return nil
}

// ValidateDecision checks the final submission payload: a known decision and
// a status for each of the three sections.
func ValidateDecision(req DecisionRequest) error {
	if !validDecisions[req.Decision] {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown decision %q", req.Decision))
	}
	sections := map[string]SectionStatus{
		"identity":            req.Sections.Identity,
		"address":             req.Sections.Address,
		"businessAffiliation": req.Sections.BusinessAffiliation,
	}
	for name, status := range sections {
		if status == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("section %q missing status", name))
		}
		if !validSectionStatuses[status] {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("section %q has unknown status %q", name, status))
		}
	}
	for _, entry := range req.DocumentVerifications {
		if err := ValidateDocumentReview(DocumentReviewRequest{
			AttemptID:  req.AttemptID,
			DocumentID: entry.DocumentID,
			Status:     entry.Status,
			Notes:      entry.Note,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDocumentReview checks a single document review. Statuses that flag
// a problem without a standard category require explanatory notes.
func ValidateDocumentReview(req DocumentReviewRequest) error {
	if req.DocumentID == "" {
		return dErrors.New(dErrors.CodeValidation, "document id required")
	}
	if !validDocumentStatuses[req.Status] {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown document status %q", req.Status))
	}
	if notesRequired[req.Status] && req.Notes == "" {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("document status %q requires notes", req.Status))
	}
	return nil
}
