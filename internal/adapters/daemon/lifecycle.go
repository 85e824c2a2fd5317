package daemon

import (
	"sync"
	"time"
)

// Lifecycle shuts the daemon down after a period without requests. The idle
// clock does not run while a session is open, so a long evaluation is never
// cut off.
type Lifecycle struct {
	mu           sync.Mutex
	timer        *time.Timer
	started      time.Time
	lastActivity time.Time
	timeout      time.Duration
	sessions     int

	done     chan struct{}
	doneOnce sync.Once
}

// NewLifecycle starts the idle clock with the given timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	now := time.Now()
	l := &Lifecycle{
		started:      now,
		lastActivity: now,
		timeout:      timeout,
		done:         make(chan struct{}),
	}
	l.timer = time.AfterFunc(timeout, l.expire)
	return l
}

// expire runs when the timer fires. A session may have begun between the
// timer firing and the lock being taken.
func (l *Lifecycle) expire() {
	l.mu.Lock()
	open := l.sessions
	l.mu.Unlock()
	if open == 0 {
		l.close()
	}
}

// Touch records activity and restarts the idle clock unless a session is open.
func (l *Lifecycle) Touch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastActivity = time.Now()
	if l.sessions == 0 {
		l.timer.Reset(l.timeout)
	}
}

// Begin marks a session as open and pauses the idle clock.
func (l *Lifecycle) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions++
	l.lastActivity = time.Now()
	l.timer.Stop()
}

// End closes a session opened with Begin. The idle clock restarts with the
// last session.
func (l *Lifecycle) End() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sessions > 0 {
		l.sessions--
	}
	l.lastActivity = time.Now()
	if l.sessions == 0 {
		l.timer.Reset(l.timeout)
	}
}

// Sessions returns the number of open sessions.
func (l *Lifecycle) Sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessions
}

// IdleRemaining returns the time left before an idle shutdown. It is the full
// timeout while a session is open.
func (l *Lifecycle) IdleRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sessions > 0 {
		return l.timeout
	}
	return max(l.timeout-time.Since(l.lastActivity), 0)
}

// Uptime returns how long the daemon has been running.
func (l *Lifecycle) Uptime() time.Duration {
	return time.Since(l.started)
}

// LastActivity returns the time of the last request or session change.
func (l *Lifecycle) LastActivity() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastActivity
}

// Done is closed once the daemon should stop.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// Stop ends the lifecycle immediately, open sessions or not.
func (l *Lifecycle) Stop() {
	l.timer.Stop()
	l.close()
}

func (l *Lifecycle) close() {
	l.doneOnce.Do(func() { close(l.done) })
}
