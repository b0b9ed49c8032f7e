package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitdesk/internal/verification"
	"permitdesk/internal/wizard/draft"
)

type countingFlusher struct {
	flushes int
}

func (f *countingFlusher) Flush(context.Context) error {
	f.flushes++
	return nil
}

func newWizardStore() *draft.Store {
	return draft.NewStore(draft.New(map[verification.Category][]verification.ChecklistItem{
		verification.CategoryIdentity: {
			{ID: "id-photo", Text: "Photo matches ID"},
		},
		verification.CategoryAddress: {
			{ID: "addr-proof", Text: "Proof of address on file"},
		},
		verification.CategoryBusiness: {
			{ID: "biz-reg", Text: "Registration current"},
		},
	}))
}

func TestNextGatedOnChecklists(t *testing.T) {
	ctx := context.Background()
	store := newWizardStore()
	flusher := &countingFlusher{}
	c := NewController(store, flusher)

	// Step 1 has no gate.
	require.True(t, c.Next(ctx))
	require.Equal(t, 2, c.Current())

	// Step 2 blocks until the identity checklist resolves.
	assert.False(t, c.Next(ctx))
	assert.Equal(t, 2, c.Current())

	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	})
	require.True(t, c.Next(ctx))
	require.Equal(t, 3, c.Current())

	// Step 3: address. N/A with a reason counts as resolved.
	assert.False(t, c.Next(ctx))
	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleNotApplicable(verification.CategoryAddress, "addr-proof").
			SetNAReason(verification.CategoryAddress, "addr-proof", "recent move, docs pending")
	})
	require.True(t, c.Next(ctx))
	require.Equal(t, 4, c.Current())
}

func TestStepFourNeedsChecklistAndAffiliation(t *testing.T) {
	ctx := context.Background()
	store := newWizardStore()
	c := NewController(store, nil)
	advanceThroughChecklists(t, c, store)
	require.Equal(t, 4, c.Current())

	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleChecklistItem(verification.CategoryBusiness, "biz-reg")
	})
	assert.False(t, c.Next(ctx), "affiliation role still missing")

	store.Apply(func(d draft.Draft) draft.Draft {
		return d.SetAffiliationRole("owner-operator")
	})
	require.True(t, c.Next(ctx))
	assert.Equal(t, 5, c.Current())
}

func TestStepFiveNeedsDecision(t *testing.T) {
	ctx := context.Background()
	store := newWizardStore()
	c := NewController(store, nil)
	advanceToDecision(t, c, store)

	assert.False(t, c.Next(ctx))

	store.Apply(func(d draft.Draft) draft.Draft {
		return d.SetFinalDecision(verification.FinalDecision{Status: verification.DecisionVerified})
	})
	require.True(t, c.Next(ctx))
	assert.Equal(t, 6, c.Current())

	// Nothing beyond the summary.
	assert.False(t, c.Next(ctx))
	assert.Equal(t, 6, c.Current())
}

func TestNextFlushesDraft(t *testing.T) {
	store := newWizardStore()
	flusher := &countingFlusher{}
	c := NewController(store, flusher)

	require.True(t, c.Next(context.Background()))
	assert.Equal(t, 1, flusher.flushes)

	// A refused transition does not flush.
	assert.False(t, c.Next(context.Background()))
	assert.Equal(t, 1, flusher.flushes)
}

func TestPrevAndGoTo(t *testing.T) {
	store := newWizardStore()
	c := NewController(store, nil)
	advanceToDecision(t, c, store)
	require.Equal(t, 5, c.Current())

	assert.True(t, c.Prev())
	assert.Equal(t, 4, c.Current())

	// Revisit an earlier step directly, but never skip ahead.
	assert.True(t, c.GoTo(2))
	assert.Equal(t, 2, c.Current())
	assert.False(t, c.GoTo(5))
	assert.Equal(t, 2, c.Current())
	assert.False(t, c.GoTo(0))

	c.GoTo(1)
	assert.False(t, c.Prev())
}

func TestStatesMirrorProgress(t *testing.T) {
	store := newWizardStore()
	c := NewController(store, nil)
	require.True(t, c.Next(context.Background()))

	states := c.States()
	require.Len(t, states, StepCount)
	assert.True(t, states[0].Completed)
	assert.False(t, states[0].Active)
	assert.True(t, states[1].Active)
	assert.False(t, states[1].Completed)
	for _, s := range states[2:] {
		assert.False(t, s.Completed)
		assert.False(t, s.Active)
	}
}

func TestStepMirroredIntoDraft(t *testing.T) {
	store := newWizardStore()
	c := NewController(store, nil)
	require.True(t, c.Next(context.Background()))

	assert.Equal(t, 2, store.Current().CurrentStep())

	// A fresh controller over the saved draft resumes in place.
	resumed := NewController(store, nil)
	assert.Equal(t, 2, resumed.Current())
}

func advanceThroughChecklists(t *testing.T, c *Controller, store *draft.Store) {
	t.Helper()
	ctx := context.Background()
	require.True(t, c.Next(ctx))
	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleChecklistItem(verification.CategoryIdentity, "id-photo")
	})
	require.True(t, c.Next(ctx))
	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleChecklistItem(verification.CategoryAddress, "addr-proof")
	})
	require.True(t, c.Next(ctx))
}

func advanceToDecision(t *testing.T, c *Controller, store *draft.Store) {
	t.Helper()
	advanceThroughChecklists(t, c, store)
	store.Apply(func(d draft.Draft) draft.Draft {
		return d.ToggleChecklistItem(verification.CategoryBusiness, "biz-reg").
			SetAffiliationRole("owner-operator")
	})
	require.True(t, c.Next(context.Background()))
}
