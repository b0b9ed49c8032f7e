// Package draft holds the wizard's working copy of a verification payload as
// an immutable value. Update operations return a new Draft, so hosts can keep
// snapshots for undo or diffing without defensive copies.
package draft

import (
	"permitdesk/internal/verification"
)

// Draft wraps a verification payload. The zero value is usable; operations on
// it allocate the maps they need.
type Draft struct {
	payload verification.DraftPayload
}

// New builds a draft seeded with the checklist templates for each category.
func New(checklists map[verification.Category][]verification.ChecklistItem) Draft {
	return FromPayload(verification.DraftPayload{Checklists: checklists})
}

// FromPayload builds a draft from a previously saved payload, e.g. when
// resuming an interrupted session. The payload is deep-copied.
func FromPayload(p verification.DraftPayload) Draft {
	return Draft{payload: clonePayload(p)}
}

// Snapshot returns a deep copy of the current payload, safe to hand to a
// persister or encoder while the draft keeps evolving.
func (d Draft) Snapshot() verification.DraftPayload {
	return clonePayload(d.payload)
}

// CurrentStep returns the wizard step recorded in the draft.
func (d Draft) CurrentStep() int {
	return d.payload.CurrentStep
}

// FinalDecision returns the decision portion of the draft.
func (d Draft) FinalDecision() verification.FinalDecision {
	return d.payload.FinalDecision
}

// AffiliationRole returns the selected business affiliation role.
func (d Draft) AffiliationRole() string {
	return d.payload.AffiliationRole
}

// Checklist returns the items for one category.
func (d Draft) Checklist(category verification.Category) []verification.ChecklistItem {
	items := d.payload.Checklists[category]
	out := make([]verification.ChecklistItem, len(items))
	copy(out, items)
	return out
}

// AllResolved reports whether every checklist item in the category is either
// checked or marked not applicable. An absent or empty checklist resolves
// trivially.
func (d Draft) AllResolved(category verification.Category) bool {
	for _, item := range d.payload.Checklists[category] {
		if !item.Resolved() {
			return false
		}
	}
	return true
}

// ToggleChecklistItem flips the checked flag of an item. Checking an item
// clears its not-applicable marking and reason; the two are exclusive.
func (d Draft) ToggleChecklistItem(category verification.Category, itemID string) Draft {
	return d.updateItem(category, itemID, func(item *verification.ChecklistItem) {
		item.Checked = !item.Checked
		item.NotApplicable = false
		item.NAReason = ""
	})
}

// ToggleNotApplicable flips the not-applicable flag of an item, clearing the
// checked flag. Turning the flag off also drops the recorded reason.
func (d Draft) ToggleNotApplicable(category verification.Category, itemID string) Draft {
	return d.updateItem(category, itemID, func(item *verification.ChecklistItem) {
		item.NotApplicable = !item.NotApplicable
		item.Checked = false
		if !item.NotApplicable {
			item.NAReason = ""
		}
	})
}

// SetNAReason records why an item does not apply.
func (d Draft) SetNAReason(category verification.Category, itemID, reason string) Draft {
	return d.updateItem(category, itemID, func(item *verification.ChecklistItem) {
		item.NAReason = reason
	})
}

// SetSectionStatus records the reviewer's verdict for a section.
func (d Draft) SetSectionStatus(section verification.Section, status verification.SectionStatus) Draft {
	next := d.clone()
	if next.payload.SectionStatuses == nil {
		next.payload.SectionStatuses = make(map[verification.Section]verification.SectionStatus)
	}
	next.payload.SectionStatuses[section] = status
	return next
}

// SetNotes replaces the free-form notes for a section.
func (d Draft) SetNotes(section verification.Section, text string) Draft {
	next := d.clone()
	if next.payload.Notes == nil {
		next.payload.Notes = make(map[verification.Section]string)
	}
	next.payload.Notes[section] = text
	return next
}

// SetDocumentStatus upserts the review status of a document.
func (d Draft) SetDocumentStatus(documentID string, status verification.DocumentStatus) Draft {
	return d.updateDocument(documentID, func(e *verification.DocumentStatusEntry) {
		e.Status = status
	})
}

// SetDocumentNote upserts the review note of a document.
func (d Draft) SetDocumentNote(documentID, note string) Draft {
	return d.updateDocument(documentID, func(e *verification.DocumentStatusEntry) {
		e.Note = note
	})
}

// SetOwnerField records a corrected owner attribute.
func (d Draft) SetOwnerField(field verification.OwnerField, value string) Draft {
	next := d.clone()
	if next.payload.OwnerFields == nil {
		next.payload.OwnerFields = make(map[verification.OwnerField]string)
	}
	next.payload.OwnerFields[field] = value
	return next
}

// SetFinalDecision replaces the decision portion of the draft.
func (d Draft) SetFinalDecision(decision verification.FinalDecision) Draft {
	next := d.clone()
	next.payload.FinalDecision = decision
	return next
}

// SetAffiliationRole records the owner's role within the business.
func (d Draft) SetAffiliationRole(role string) Draft {
	next := d.clone()
	next.payload.AffiliationRole = role
	return next
}

// SetCurrentStep records where in the wizard the session stands.
func (d Draft) SetCurrentStep(step int) Draft {
	next := d.clone()
	next.payload.CurrentStep = step
	return next
}

func (d Draft) updateItem(category verification.Category, itemID string, apply func(*verification.ChecklistItem)) Draft {
	next := d.clone()
	items := next.payload.Checklists[category]
	for i := range items {
		if items[i].ID == itemID {
			apply(&items[i])
			return next
		}
	}
	// Unknown item: no-op, callers render from the same checklist they edit.
	return next
}

func (d Draft) updateDocument(documentID string, apply func(*verification.DocumentStatusEntry)) Draft {
	next := d.clone()
	for i := range next.payload.DocumentStatuses {
		if next.payload.DocumentStatuses[i].DocumentID == documentID {
			apply(&next.payload.DocumentStatuses[i])
			return next
		}
	}
	entry := verification.DocumentStatusEntry{DocumentID: documentID}
	apply(&entry)
	next.payload.DocumentStatuses = append(next.payload.DocumentStatuses, entry)
	return next
}

func (d Draft) clone() Draft {
	return Draft{payload: clonePayload(d.payload)}
}

func clonePayload(p verification.DraftPayload) verification.DraftPayload {
	out := p

	if p.OwnerFields != nil {
		out.OwnerFields = make(map[verification.OwnerField]string, len(p.OwnerFields))
		for k, v := range p.OwnerFields {
			out.OwnerFields[k] = v
		}
	}
	if p.Checklists != nil {
		out.Checklists = make(map[verification.Category][]verification.ChecklistItem, len(p.Checklists))
		for cat, items := range p.Checklists {
			copied := make([]verification.ChecklistItem, len(items))
			copy(copied, items)
			out.Checklists[cat] = copied
		}
	}
	if p.SectionStatuses != nil {
		out.SectionStatuses = make(map[verification.Section]verification.SectionStatus, len(p.SectionStatuses))
		for k, v := range p.SectionStatuses {
			out.SectionStatuses[k] = v
		}
	}
	if p.Notes != nil {
		out.Notes = make(map[verification.Section]string, len(p.Notes))
		for k, v := range p.Notes {
			out.Notes[k] = v
		}
	}
	if p.DocumentStatuses != nil {
		out.DocumentStatuses = make([]verification.DocumentStatusEntry, len(p.DocumentStatuses))
		copy(out.DocumentStatuses, p.DocumentStatuses)
	}
	if p.SavedAt != nil {
		savedAt := *p.SavedAt
		out.SavedAt = &savedAt
	}
	return out
}
