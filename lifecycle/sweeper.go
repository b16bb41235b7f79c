package lifecycle

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/scope"
)

// sweeper owns the periodic idle auto-dispose job. Reclamation is soft and
// cooperative: use-counts are explicit API calls, not reference counting, so
// an instance held only outside the scope system is still eligible.
type sweeper struct {
	scheduler gocron.Scheduler
}

// StartSweep starts the idle auto-dispose job with the given interval.
// Calling it while a sweep is running is a no-op.
func (m *Manager) StartSweep(interval time.Duration) error {
	m.mu.Lock()
	if m.sweeper != nil {
		m.mu.Unlock()
		return nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.sweeper = &sweeper{scheduler: scheduler}
	m.mu.Unlock()

	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { m.SweepOnce() }),
	); err != nil {
		m.mu.Lock()
		m.sweeper = nil
		m.mu.Unlock()
		_ = scheduler.Shutdown()
		return err
	}
	scheduler.Start()

	m.log.Debug("🧹 空闲回收任务已启动", zap.Duration("interval", interval))
	return nil
}

// StopSweep stops the idle auto-dispose job if one is running
func (m *Manager) StopSweep() {
	m.mu.Lock()
	sw := m.sweeper
	m.sweeper = nil
	m.mu.Unlock()
	if sw != nil {
		_ = sw.scheduler.Shutdown()
	}
}

// SweepOnce performs one sweep pass over the whole scope forest and returns
// the number of entries reclaimed.
//
// An entry is reclaimed when it is non-permanent, holds a realized instance,
// and its use-count was zero at this sweep AND the previous one, meaning it
// stayed idle for at least a full interval. The first idle observation only
// marks the entry; a use-count bump in between clears the mark.
func (m *Manager) SweepOnce() int {
	reclaimed := 0
	seen := make(map[recordKey]struct{})

	for _, s := range scope.AllScopes() {
		for _, e := range s.Entries() {
			if e.Permanent || !e.HasInstance {
				continue
			}
			rk := recordKey{scopeID: s.ID(), key: e.Key}
			seen[rk] = struct{}{}

			if e.UseCount > 0 {
				m.mu.Lock()
				delete(m.idleMarks, rk)
				m.mu.Unlock()
				continue
			}

			m.mu.Lock()
			marked := m.idleMarks[rk]
			if !marked {
				m.idleMarks[rk] = true
			}
			m.mu.Unlock()

			if marked && s.DeleteKey(e.Key, true) {
				reclaimed++
				m.log.Debug("🧹 空闲实例已回收",
					zap.String("key", e.Key.String()),
					zap.String("scope", s.Name()))
			}
		}
	}

	// Drop marks for entries deleted by other means
	m.mu.Lock()
	for rk := range m.idleMarks {
		if _, ok := seen[rk]; !ok {
			delete(m.idleMarks, rk)
		}
	}
	m.mu.Unlock()

	return reclaimed
}
