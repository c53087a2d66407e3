/*
scheduler.go - Date rollover scheduler for cached dashboards

PURPOSE:
  A cached dashboard is only recomputed when the store pushes a change.
  "Today" moves on its own, so once a day (and on demand) every cached
  view is recomputed for the new date. This is what makes the timeline
  roll over on payday without any write.

DESIGN:
  - robfig/cron drives the runs, in UTC
  - Overlapping runs are skipped
  - Each run is logged with the number of views refreshed

CONFIGURATION:
  - Schedule: standard 5-field cron spec from [refresh] (default
    "1 0 * * *", one minute past midnight)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler, err := NewRefreshScheduler(handler.Cache, cfg.Refresh.Schedule, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - cache.go: DashboardCache
  - budget/service.go: Watcher.Refresh
*/
package api

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshScheduler recomputes cached dashboards on a cron schedule.
type RefreshScheduler struct {
	Cache    *DashboardCache
	Schedule string
	Enabled  bool

	log     logrus.FieldLogger
	cron    *cron.Cron
	entry   cron.EntryID
	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewRefreshScheduler validates spec and creates a stopped scheduler.
func NewRefreshScheduler(cache *DashboardCache, spec string, log logrus.FieldLogger) (*RefreshScheduler, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "scheduler")

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cron.PrintfLogger(log)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
	)

	rs := &RefreshScheduler{
		Cache:    cache,
		Schedule: spec,
		Enabled:  true,
		log:      log,
		cron:     c,
	}

	id, err := c.AddFunc(spec, rs.RunNow)
	if err != nil {
		return nil, err
	}
	rs.entry = id
	return rs, nil
}

// Start begins the scheduler.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info("Disabled, not starting")
		return
	}
	if rs.running {
		return
	}

	rs.cron.Start()
	rs.running = true
	rs.log.WithField("schedule", rs.Schedule).Info("Started")
}

// Stop stops the scheduler and waits for a run in progress.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	if !rs.running {
		rs.mu.Unlock()
		return
	}
	rs.running = false
	rs.mu.Unlock()

	<-rs.cron.Stop().Done()
	rs.log.Info("Stopped")
}

// RunNow refreshes every cached dashboard immediately.
func (rs *RefreshScheduler) RunNow() {
	n := rs.Cache.RefreshAll()

	rs.mu.Lock()
	rs.lastRun = time.Now()
	rs.mu.Unlock()

	rs.log.WithField("views", n).Info("Dashboards refreshed")
}

// LastRun returns when the last refresh finished, zero if never.
func (rs *RefreshScheduler) LastRun() time.Time {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.lastRun
}

// NextRunTime returns when the next scheduled refresh will occur.
func (rs *RefreshScheduler) NextRunTime() time.Time {
	rs.mu.Lock()
	running := rs.running
	rs.mu.Unlock()

	if running {
		return rs.cron.Entry(rs.entry).Next
	}
	sched, err := cron.ParseStandard(rs.Schedule)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(time.Now().UTC())
}
