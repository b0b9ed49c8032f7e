package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitdesk/internal/verification"
)

func seedDraft() Draft {
	return New(map[verification.Category][]verification.ChecklistItem{
		verification.CategoryIdentity: {
			{ID: "id-photo", Text: "Photo matches ID"},
			{ID: "id-expiry", Text: "ID not expired"},
		},
		verification.CategoryAddress: {
			{ID: "addr-proof", Text: "Proof of address on file"},
		},
	})
}

func TestToggleChecklistItem(t *testing.T) {
	d := seedDraft()

	d = d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	assert.True(t, d.Checklist(verification.CategoryIdentity)[0].Checked)

	d = d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	assert.False(t, d.Checklist(verification.CategoryIdentity)[0].Checked)
}

func TestCheckedAndNotApplicableAreExclusive(t *testing.T) {
	d := seedDraft().
		ToggleNotApplicable(verification.CategoryIdentity, "id-expiry").
		SetNAReason(verification.CategoryIdentity, "id-expiry", "foreign passport")

	item := d.Checklist(verification.CategoryIdentity)[1]
	require.True(t, item.NotApplicable)
	require.Equal(t, "foreign passport", item.NAReason)

	// Checking the item wipes the N/A marking and its reason.
	d = d.ToggleChecklistItem(verification.CategoryIdentity, "id-expiry")
	item = d.Checklist(verification.CategoryIdentity)[1]
	assert.True(t, item.Checked)
	assert.False(t, item.NotApplicable)
	assert.Empty(t, item.NAReason)

	// And marking it N/A again wipes the check.
	d = d.ToggleNotApplicable(verification.CategoryIdentity, "id-expiry")
	item = d.Checklist(verification.CategoryIdentity)[1]
	assert.False(t, item.Checked)
	assert.True(t, item.NotApplicable)
}

func TestToggleNotApplicableOffClearsReason(t *testing.T) {
	d := seedDraft().
		ToggleNotApplicable(verification.CategoryIdentity, "id-expiry").
		SetNAReason(verification.CategoryIdentity, "id-expiry", "foreign passport").
		ToggleNotApplicable(verification.CategoryIdentity, "id-expiry")

	item := d.Checklist(verification.CategoryIdentity)[1]
	assert.False(t, item.NotApplicable)
	assert.Empty(t, item.NAReason)
}

func TestAllResolved(t *testing.T) {
	d := seedDraft()
	assert.False(t, d.AllResolved(verification.CategoryIdentity))

	d = d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	assert.False(t, d.AllResolved(verification.CategoryIdentity))

	d = d.ToggleNotApplicable(verification.CategoryIdentity, "id-expiry")
	assert.True(t, d.AllResolved(verification.CategoryIdentity))

	// A category with no checklist resolves trivially.
	assert.True(t, d.AllResolved(verification.CategoryBusiness))
}

func TestUpdatesDoNotMutateTheReceiver(t *testing.T) {
	before := seedDraft()
	after := before.
		ToggleChecklistItem(verification.CategoryIdentity, "id-photo").
		SetNotes(verification.SectionIdentity, "scribble").
		SetOwnerField(verification.FieldEmail, "dana@example.com").
		SetCurrentStep(3)

	assert.False(t, before.Checklist(verification.CategoryIdentity)[0].Checked)
	assert.Empty(t, before.Snapshot().Notes)
	assert.Zero(t, before.CurrentStep())

	assert.True(t, after.Checklist(verification.CategoryIdentity)[0].Checked)
	assert.Equal(t, 3, after.CurrentStep())
}

func TestSnapshotIsDetached(t *testing.T) {
	d := seedDraft()
	snap := d.Snapshot()
	snap.Checklists[verification.CategoryIdentity][0].Checked = true

	assert.False(t, d.Checklist(verification.CategoryIdentity)[0].Checked)
}

func TestDocumentStatusUpsert(t *testing.T) {
	d := seedDraft().
		SetDocumentStatus("doc-1", verification.DocUnreadable).
		SetDocumentNote("doc-1", "rescan needed").
		SetDocumentStatus("doc-2", verification.DocVerified)

	snap := d.Snapshot()
	require.Len(t, snap.DocumentStatuses, 2)
	assert.Equal(t, verification.DocUnreadable, snap.DocumentStatuses[0].Status)
	assert.Equal(t, "rescan needed", snap.DocumentStatuses[0].Note)

	// A second status write for the same document replaces, not appends.
	snap = d.SetDocumentStatus("doc-1", verification.DocVerified).Snapshot()
	require.Len(t, snap.DocumentStatuses, 2)
	assert.Equal(t, verification.DocVerified, snap.DocumentStatuses[0].Status)
}

func TestFinalDecisionAndAffiliation(t *testing.T) {
	d := seedDraft().
		SetAffiliationRole("managing partner").
		SetFinalDecision(verification.FinalDecision{
			Status:                  verification.DecisionNeedsInfo,
			AdditionalInfoRequested: "current utility bill",
		})

	assert.Equal(t, "managing partner", d.AffiliationRole())
	assert.Equal(t, verification.DecisionNeedsInfo, d.FinalDecision().Status)
}

func TestStoreRevisionAndSubscribers(t *testing.T) {
	store := NewStore(seedDraft())
	require.Zero(t, store.Revision())

	var fired int
	cancel := store.Subscribe(func() { fired++ })

	store.Apply(func(d Draft) Draft {
		return d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	})
	store.Apply(func(d Draft) Draft {
		return d.SetNotes(verification.SectionIdentity, "ok")
	})

	assert.Equal(t, uint64(2), store.Revision())
	assert.Equal(t, 2, fired)
	assert.True(t, store.Current().Checklist(verification.CategoryIdentity)[0].Checked)

	cancel()
	store.Apply(func(d Draft) Draft { return d.SetCurrentStep(4) })
	assert.Equal(t, 2, fired)
	assert.Equal(t, uint64(3), store.Revision())
}
