package idle

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a hand-cranked ActivitySource.
type fakeSource struct {
	mu  sync.Mutex
	fns []func()
}

func (s *fakeSource) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
	return func() {}
}

func (s *fakeSource) signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range s.fns {
		fn()
	}
}

func waitForPhase(t *testing.T, timer *Timer, want Phase) {
	t.Helper()
	require.Eventually(t, func() bool { return timer.Phase() == want },
		2*time.Second, 2*time.Millisecond)
}

func TestLifecycle(t *testing.T) {
	var expired atomic.Int32
	src := &fakeSource{}
	timer := New(120*time.Millisecond, func() { expired.Add(1) }, src,
		WithWarningWindow(60*time.Millisecond))
	defer timer.Stop()

	assert.Equal(t, PhaseActive, timer.Phase())
	waitForPhase(t, timer, PhaseWarning)
	waitForPhase(t, timer, PhaseExpired)
	assert.Equal(t, int32(1), expired.Load())
	assert.Zero(t, timer.Remaining())
}

func TestActivityRestartsFullWindow(t *testing.T) {
	var expired atomic.Int32
	src := &fakeSource{}
	timer := New(200*time.Millisecond, func() { expired.Add(1) }, src,
		WithWarningWindow(100*time.Millisecond))
	defer timer.Stop()

	// Keep signalling inside the window; the timer must never expire.
	for i := 0; i < 5; i++ {
		time.Sleep(40 * time.Millisecond)
		src.signal()
		assert.Equal(t, PhaseActive, timer.Phase())
	}
	assert.Zero(t, expired.Load())

	// Silence finally runs it out.
	waitForPhase(t, timer, PhaseExpired)
	assert.Equal(t, int32(1), expired.Load())
}

func TestDismissWarningRestarts(t *testing.T) {
	var expired atomic.Int32
	src := &fakeSource{}
	timer := New(300*time.Millisecond, func() { expired.Add(1) }, src,
		WithWarningWindow(200*time.Millisecond))
	defer timer.Stop()

	waitForPhase(t, timer, PhaseWarning)
	timer.DismissWarning()
	assert.Equal(t, PhaseActive, timer.Phase())
	assert.Zero(t, expired.Load())
}

func TestShortTimeoutStartsInWarning(t *testing.T) {
	src := &fakeSource{}
	timer := New(50*time.Millisecond, func() {}, src,
		WithWarningWindow(60*time.Millisecond))
	defer timer.Stop()

	assert.Equal(t, PhaseWarning, timer.Phase())
}

func TestExpiryIsTerminal(t *testing.T) {
	var expired atomic.Int32
	src := &fakeSource{}
	timer := New(30*time.Millisecond, func() { expired.Add(1) }, src,
		WithWarningWindow(10*time.Millisecond))
	defer timer.Stop()

	waitForPhase(t, timer, PhaseExpired)

	// Neither activity nor dismissal revives an expired session.
	src.signal()
	timer.DismissWarning()
	assert.Equal(t, PhaseExpired, timer.Phase())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), expired.Load())
}

func TestNonPositiveTimeoutUsesDefault(t *testing.T) {
	src := &fakeSource{}
	now := time.Now()
	timer := New(0, func() {}, src, WithClock(func() time.Time { return now }))
	defer timer.Stop()

	assert.Equal(t, PhaseActive, timer.Phase())
	assert.Equal(t, DefaultTimeout, timer.Remaining())
}

func TestRemainingCountsDown(t *testing.T) {
	src := &fakeSource{}
	now := time.Now()
	timer := New(10*time.Minute, func() {}, src, WithClock(func() time.Time { return now }))
	defer timer.Stop()

	assert.Equal(t, 10*time.Minute, timer.Remaining())

	now = now.Add(9*time.Minute + 30*time.Second + 400*time.Millisecond)
	assert.Equal(t, 29*time.Second, timer.Remaining())
}

func TestStopPreventsCallback(t *testing.T) {
	var expired atomic.Int32
	src := &fakeSource{}
	timer := New(30*time.Millisecond, func() { expired.Add(1) }, src)
	timer.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, expired.Load())
	assert.NotEqual(t, PhaseExpired, timer.Phase())
}
