// Package steps sequences the six-step verification wizard. Forward movement
// is gated on the active step's completion criteria; backward movement and
// revisiting completed steps are always allowed.
package steps

import (
	"context"
	"sync"

	"permitdesk/internal/verification"
	"permitdesk/internal/wizard/draft"
)

// StepCount is the number of wizard steps:
// 1 owner details, 2 identity checklist, 3 address checklist,
// 4 business affiliation, 5 decision, 6 summary.
const StepCount = 6

// State describes one step for progress rendering.
type State struct {
	Number    int
	Completed bool
	Active    bool
}

// Flusher persists any pending draft immediately. autosave.Coordinator
// satisfies it.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Controller tracks the active step and mirrors it into the draft store so
// saved drafts resume on the right screen.
type Controller struct {
	mu      sync.Mutex
	store   *draft.Store
	flusher Flusher
	current int
}

// NewController builds a controller positioned at the draft's saved step, or
// step 1 when the draft carries none.
func NewController(store *draft.Store, flusher Flusher) *Controller {
	current := store.Current().CurrentStep()
	if current < 1 || current > StepCount {
		current = 1
	}
	return &Controller{store: store, flusher: flusher, current: current}
}

// Current returns the active step number.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// States returns the progress view: steps before the active one are
// completed, the active one is active.
func (c *Controller) States() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, StepCount)
	for i := range out {
		n := i + 1
		out[i] = State{
			Number:    n,
			Completed: n < c.current,
			Active:    n == c.current,
		}
	}
	return out
}

// Next advances to the following step when the active step's completion
// criteria hold. Returns false without moving otherwise, or on the final
// step. Advancing flushes the draft so a crash between screens loses nothing.
func (c *Controller) Next(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current >= StepCount {
		return false
	}
	if !canLeave(c.current, c.store.Current()) {
		return false
	}
	c.setStepLocked(c.current + 1)
	if c.flusher != nil {
		// Failures surface via the coordinator's Status; navigation proceeds.
		_ = c.flusher.Flush(ctx)
	}
	return true
}

// Prev steps back. Only step 1 refuses.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current <= 1 {
		return false
	}
	c.setStepLocked(c.current - 1)
	return true
}

// GoTo jumps to a previously visited step. Skipping forward is not allowed;
// forward movement validates through Next.
func (c *Controller) GoTo(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.current {
		return false
	}
	if n != c.current {
		c.setStepLocked(n)
	}
	return true
}

func (c *Controller) setStepLocked(n int) {
	c.current = n
	c.store.Apply(func(d draft.Draft) draft.Draft {
		return d.SetCurrentStep(n)
	})
}

// canLeave is the per-step completion predicate. Steps 1 and 6 have none:
// owner details are optional corrections, and 6 is the last screen.
func canLeave(step int, d draft.Draft) bool {
	switch step {
	case 2:
		return d.AllResolved(verification.CategoryIdentity)
	case 3:
		return d.AllResolved(verification.CategoryAddress)
	case 4:
		return d.AllResolved(verification.CategoryBusiness) && d.AffiliationRole() != ""
	case 5:
		return d.FinalDecision().Status != ""
	default:
		return true
	}
}
