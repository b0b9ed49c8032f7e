// Package idle tracks session inactivity for the wizard. A silent session
// moves from active to a warning countdown and finally to expired, at which
// point the host is told exactly once to abandon the session.
package idle

import (
	"sync"
	"time"
)

// DefaultTimeout is the full inactivity window when the host does not
// configure one.
const DefaultTimeout = 30 * time.Minute

// DefaultWarningWindow is how long before expiry the warning phase starts.
const DefaultWarningWindow = 60 * time.Second

// Phase is the timer's position in the inactivity lifecycle.
type Phase string

const (
	PhaseActive  Phase = "active"
	PhaseWarning Phase = "warning"
	PhaseExpired Phase = "expired"
)

// ActivitySource delivers user-activity signals. draft.Store satisfies it, so
// edits reset the timer for free; hosts add pointer and key events themselves.
// The timer never debounces signals, sources should.
type ActivitySource interface {
	Subscribe(fn func()) (cancel func())
}

// Timer watches an ActivitySource and walks active -> warning -> expired.
// Any activity or DismissWarning before expiry restarts the full window.
// Expiry is terminal: the callback fires once and nothing restarts the timer.
type Timer struct {
	timeout   time.Duration
	warning   time.Duration
	onTimeout func()
	now       func() time.Time

	mu          sync.Mutex
	phase       Phase
	deadline    time.Time
	warnTimer   *time.Timer
	expireTimer *time.Timer
	stopped     bool
	unsubscribe func()
}

// Option configures the Timer.
type Option func(*Timer)

// WithWarningWindow overrides how long before expiry the warning starts.
func WithWarningWindow(d time.Duration) Option {
	return func(t *Timer) { t.warning = d }
}

// WithClock overrides the time source; tests only.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// New builds a timer, subscribes it to the source and starts the window.
// A non-positive timeout falls back to DefaultTimeout. A timeout no longer
// than the warning window puts every window straight into the warning phase.
func New(timeout time.Duration, onTimeout func(), source ActivitySource, opts ...Option) *Timer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &Timer{
		timeout:   timeout,
		warning:   DefaultWarningWindow,
		onTimeout: onTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.mu.Lock()
	t.restartLocked()
	t.mu.Unlock()

	if source != nil {
		t.unsubscribe = source.Subscribe(t.Touch)
	}
	return t
}

// Phase returns the current lifecycle phase.
func (t *Timer) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Remaining returns the time left until expiry, floored to whole seconds for
// a stable once-per-second countdown display. Zero once expired.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase == PhaseExpired {
		return 0
	}
	left := t.deadline.Sub(t.now())
	if left < 0 {
		return 0
	}
	return left.Truncate(time.Second)
}

// Touch records user activity, restarting the full window unless the session
// already expired.
func (t *Timer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.phase == PhaseExpired {
		return
	}
	t.restartLocked()
}

// DismissWarning is the explicit "I'm still here" action on the warning
// dialog. Same effect as activity.
func (t *Timer) DismissWarning() {
	t.Touch()
}

// Stop detaches the timer from its source and halts it without firing the
// callback.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.stopTimersLocked()
	unsubscribe := t.unsubscribe
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (t *Timer) restartLocked() {
	t.stopTimersLocked()
	t.deadline = t.now().Add(t.timeout)

	if t.timeout > t.warning {
		t.phase = PhaseActive
		t.warnTimer = time.AfterFunc(t.timeout-t.warning, t.enterWarning)
	} else {
		t.phase = PhaseWarning
	}
	t.expireTimer = time.AfterFunc(t.timeout, t.expire)
}

func (t *Timer) enterWarning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.phase != PhaseActive {
		return
	}
	t.phase = PhaseWarning
}

func (t *Timer) expire() {
	t.mu.Lock()
	if t.stopped || t.phase == PhaseExpired {
		t.mu.Unlock()
		return
	}
	t.phase = PhaseExpired
	t.stopTimersLocked()
	onTimeout := t.onTimeout
	t.mu.Unlock()

	if onTimeout != nil {
		onTimeout()
	}
}

func (t *Timer) stopTimersLocked() {
	if t.warnTimer != nil {
		t.warnTimer.Stop()
		t.warnTimer = nil
	}
	if t.expireTimer != nil {
		t.expireTimer.Stop()
		t.expireTimer = nil
	}
}
