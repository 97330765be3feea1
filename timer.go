package emgfx

import "time"

// noTimerReady is returned by RunDue when no timer is armed.
const noTimerReady = time.Duration(1<<63 - 1)

// fpsWindow is the sample count over which the actual frame rate is
// averaged.
const fpsWindow = 100

// TimerCallback is invoked when a timer's period elapses. Callbacks run on
// the caller of Engine.Tick with the engine lock held; they must not block.
type TimerCallback func(userData any)

// Timer is one periodic callback owned by a TimerManager. Timers fire with
// catch-up accounting: a late tick does not shift the schedule.
type Timer struct {
	period      time.Duration
	cb          TimerCallback
	userData    any
	lastRun     time.Time
	repeatCount int // -1 = infinite, 0 = exhausted
	paused      bool
}

// TimerManager drives an engine's periodic callbacks: animation frame
// advance and label scrolling. It is engine-owned and, like everything in
// the core, must only be used with the engine lock held.
type TimerManager struct {
	timers []*Timer

	fps       int // target rate of the surrounding refresh loop
	actualFPS int
	lastTick  time.Time

	fpsSamples   int
	fpsTotalTime time.Duration
}

// newTimerManager initializes a manager targeting fps refreshes per second.
func newTimerManager(fps int, now time.Time) *TimerManager {
	return &TimerManager{fps: fps, lastTick: now}
}

// Create adds a timer firing cb every period, starting one period from now.
// Timers repeat indefinitely until deleted, paused or capped with
// SetRepeatCount.
func (m *TimerManager) Create(period time.Duration, cb TimerCallback, userData any) *Timer {
	t := &Timer{
		period:      period,
		cb:          cb,
		userData:    userData,
		lastRun:     m.lastTick,
		repeatCount: -1,
	}
	m.timers = append(m.timers, t)
	return t
}

// Delete removes a timer. Deleting a timer that is not in the manager is a
// no-op, so Delete is safe to call from object teardown paths twice.
func (m *TimerManager) Delete(t *Timer) {
	for i, cur := range m.timers {
		if cur == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Pause stops a timer from firing without losing it.
func (t *Timer) Pause() { t.paused = true }

// Resume restarts a paused timer, rescheduling it one full period ahead.
// A timer exhausted by SetRepeatCount is restored to infinite repeat.
func (t *Timer) Resume(now time.Time) {
	t.paused = false
	t.lastRun = now
	if t.repeatCount == 0 {
		t.repeatCount = -1
	}
}

// SetPeriod changes the firing period. The change takes effect against the
// existing schedule; call Reset to also restart the countdown.
func (t *Timer) SetPeriod(period time.Duration) { t.period = period }

// Period returns the current firing period.
func (t *Timer) Period() time.Duration { return t.period }

// SetRepeatCount caps the remaining firings. -1 restores infinite repeat.
func (t *Timer) SetRepeatCount(n int) { t.repeatCount = n }

// Reset restarts the countdown from now.
func (t *Timer) Reset(now time.Time) { t.lastRun = now }

// exec fires the timer if its period has elapsed and reports whether it ran.
// Catch-up accounting keeps the schedule on the original grid: lastRun moves
// to now minus the fraction of a period already consumed.
func (t *Timer) exec(now time.Time) bool {
	if t.paused || t.repeatCount == 0 {
		return false
	}
	elapsed := now.Sub(t.lastRun)
	if elapsed < t.period {
		return false
	}
	if t.period > 0 {
		t.lastRun = now.Add(-(elapsed % t.period))
	} else {
		t.lastRun = now
	}
	if t.cb != nil {
		t.cb(t.userData)
	}
	if t.repeatCount > 0 {
		t.repeatCount--
	}
	return true
}

// RunDue fires every timer whose period has elapsed, removes exhausted
// timers, and returns how long the caller may sleep before the next timer or
// scheduled refresh is due.
func (m *TimerManager) RunDue(now time.Time) time.Duration {
	nextDelay := noTimerReady

	for i := 0; i < len(m.timers); {
		t := m.timers[i]
		t.exec(now)

		if t.repeatCount == 0 {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			continue
		}
		if !t.paused {
			elapsed := now.Sub(t.lastRun)
			remaining := t.period - elapsed
			if remaining < 0 {
				remaining = 0
			}
			if remaining < nextDelay {
				nextDelay = remaining
			}
		}
		i++
	}

	schedElapsed := now.Sub(m.lastTick)
	m.lastTick = now

	schedPeriod := 30 * time.Millisecond
	if m.fps > 0 {
		schedPeriod = time.Second / time.Duration(m.fps)
	}
	schedRemaining := schedPeriod - schedElapsed
	if schedRemaining < 0 {
		schedRemaining = 0
	}

	delay := schedRemaining
	if nextDelay < delay {
		delay = nextDelay
	}

	m.fpsSamples++
	if schedElapsed > schedPeriod {
		m.fpsTotalTime += schedElapsed
	} else {
		m.fpsTotalTime += schedPeriod
	}
	if m.fpsSamples >= fpsWindow {
		avg := m.fpsTotalTime / time.Duration(m.fpsSamples)
		if avg > 0 {
			m.actualFPS = int(time.Second / avg)
		}
		m.fpsSamples = 0
		m.fpsTotalTime = 0
	}

	if delay <= 0 {
		delay = time.Millisecond
	}
	return delay
}

// Now returns the instant of the manager's last tick. Object code uses it
// to schedule timer resumes without reaching for the wall clock.
func (m *TimerManager) Now() time.Time { return m.lastTick }

// ActualFPS returns the measured refresh rate averaged over the last
// sampling window, zero until the first window completes.
func (m *TimerManager) ActualFPS() int { return m.actualFPS }
