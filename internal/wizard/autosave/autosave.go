// Package autosave persists wizard drafts in the background. Edits are
// debounced so a burst of changes turns into one save carrying the final
// snapshot, and at most one persist is ever in flight.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"permitdesk/internal/verification"
	"permitdesk/internal/wizard/draft"
)

// DefaultDebounce is how long the coordinator waits after the last edit
// before persisting.
const DefaultDebounce = 30 * time.Second

// PersistFunc saves one draft snapshot, typically by calling the verification
// service or its HTTP endpoint.
type PersistFunc func(ctx context.Context, ownerID uuid.UUID, payload verification.DraftPayload) error

// Status describes the coordinator's bookkeeping for hosts that render a
// "saving…" / "saved" indicator.
type Status struct {
	Saving        bool
	SavedRevision uint64
	LastSavedAt   time.Time
	Err           error
}

// Coordinator watches a draft store and persists snapshots after a debounce
// window. Create with New, release with Close.
type Coordinator struct {
	store    *draft.Store
	ownerID  uuid.UUID
	persist  PersistFunc
	debounce time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	idle        *sync.Cond
	timer       *time.Timer
	saving      bool
	rerun       bool
	savedRev    uint64
	lastSavedAt time.Time
	err         error
	closed      bool
	unsubscribe func()
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithClock overrides the time source; tests only.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New builds a coordinator and subscribes it to the store.
func New(store *draft.Store, ownerID uuid.UUID, persist PersistFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		ownerID:  ownerID,
		persist:  persist,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.idle = sync.NewCond(&c.mu)
	c.unsubscribe = store.Subscribe(c.onChange)
	return c
}

// Status returns a copy of the current save bookkeeping.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Saving:        c.saving,
		SavedRevision: c.savedRev,
		LastSavedAt:   c.lastSavedAt,
		Err:           c.err,
	}
}

// Flush cancels any pending debounce and persists the current snapshot now.
// When a persist is already in flight the request coalesces into its
// follow-up save and Flush returns nil.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.stopTimerLocked()
	if c.saving {
		c.rerun = true
		c.mu.Unlock()
		return nil
	}
	c.saving = true
	c.mu.Unlock()

	return c.runSave(ctx)
}

// Close detaches from the store and performs a final best-effort save when
// unsaved edits remain. A failing final save is logged, not returned.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	unsubscribe := c.unsubscribe
	if c.saving {
		// The in-flight persist may carry a snapshot older than the latest
		// edit. Ask its loop to recapture, then wait for it to drain.
		if c.store.Revision() > c.savedRev {
			c.rerun = true
		}
		for c.saving {
			c.idle.Wait()
		}
	}
	dirty := c.store.Revision() > c.savedRev
	if dirty {
		c.saving = true
	}
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if dirty {
		if err := c.runSave(context.Background()); err != nil {
			c.logger.Error("final draft save failed", "owner_id", c.ownerID, "error", err)
		}
	}
}

func (c *Coordinator) onChange() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.saving {
		c.rerun = true
		c.mu.Unlock()
		return
	}
	c.saving = true
	c.mu.Unlock()

	if err := c.runSave(context.Background()); err != nil {
		c.logger.Warn("autosave failed", "owner_id", c.ownerID, "error", err)
	}
}

// runSave executes persists until no follow-up is pending. The caller must
// have set c.saving. The snapshot and its revision are captured together so a
// completion never records a revision it did not send.
func (c *Coordinator) runSave(ctx context.Context) error {
	for {
		rev := c.store.Revision()
		snapshot := c.store.Current().Snapshot()

		err := c.persist(ctx, c.ownerID, snapshot)

		c.mu.Lock()
		if err != nil {
			c.err = err
			c.saving = false
			c.rerun = false
			c.idle.Broadcast()
			c.mu.Unlock()
			return err
		}
		c.err = nil
		if rev > c.savedRev {
			c.savedRev = rev
			c.lastSavedAt = c.now()
		}
		if c.rerun {
			c.rerun = false
			c.mu.Unlock()
			continue
		}
		c.saving = false
		c.idle.Broadcast()
		c.mu.Unlock()
		return nil
	}
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
