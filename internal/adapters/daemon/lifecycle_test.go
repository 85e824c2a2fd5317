package daemon_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/carve/internal/adapters/daemon"
)

const idle = time.Minute

func stopped(lc *daemon.Lifecycle) bool {
	synctest.Wait()
	select {
	case <-lc.Done():
		return true
	default:
		return false
	}
}

func TestLifecycle_IdleShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)

		time.Sleep(idle - time.Second)
		assert.False(t, stopped(lc))
		assert.Equal(t, time.Second, lc.IdleRemaining())

		time.Sleep(2 * time.Second)
		assert.True(t, stopped(lc))
		assert.Zero(t, lc.IdleRemaining())
	})
}

func TestLifecycle_TouchRestartsClock(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)

		time.Sleep(idle / 2)
		lc.Touch()
		assert.WithinDuration(t, time.Now(), lc.LastActivity(), 0)

		time.Sleep(idle - time.Second)
		assert.False(t, stopped(lc))

		time.Sleep(2 * time.Second)
		assert.True(t, stopped(lc))
	})
}

// An evaluation can run far longer than the idle timeout without sending
// anything; the daemon must not stop under it.
func TestLifecycle_OpenSessionPausesClock(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)

		lc.Begin()
		time.Sleep(10 * idle)
		assert.False(t, stopped(lc))
		assert.Equal(t, 1, lc.Sessions())
		assert.Equal(t, idle, lc.IdleRemaining())

		lc.Touch()
		time.Sleep(2 * idle)
		assert.False(t, stopped(lc), "activity inside a session does not restart the clock")

		lc.End()
		assert.Zero(t, lc.Sessions())
		time.Sleep(idle - time.Second)
		assert.False(t, stopped(lc))

		time.Sleep(2 * time.Second)
		assert.True(t, stopped(lc))
	})
}

func TestLifecycle_OverlappingSessions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)

		lc.Begin()
		lc.Begin()
		lc.End()
		time.Sleep(3 * idle)
		assert.False(t, stopped(lc))
		assert.Equal(t, 1, lc.Sessions())

		lc.End()
		lc.End()
		assert.Zero(t, lc.Sessions())
		time.Sleep(idle + time.Second)
		assert.True(t, stopped(lc))
	})
}

func TestLifecycle_StopWithOpenSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)
		lc.Begin()

		lc.Stop()
		lc.Stop()
		assert.True(t, stopped(lc))
	})
}

func TestLifecycle_Uptime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(idle)
		lc.Begin()
		time.Sleep(90 * time.Second)
		assert.Equal(t, 90*time.Second, lc.Uptime())
		lc.Stop()
	})
}
