package api

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
)

// DashboardCache keeps one budget.Watcher per user that has asked for a
// dashboard. Writes through any handler reach the watcher via the store's
// subscription, so reads never reload the snapshot.
type DashboardCache struct {
	svc *budget.Service
	log logrus.FieldLogger

	mu       sync.Mutex
	watchers map[generic.UserID]*budget.Watcher
}

func NewDashboardCache(svc *budget.Service, log logrus.FieldLogger) *DashboardCache {
	return &DashboardCache{
		svc:      svc,
		log:      log,
		watchers: make(map[generic.UserID]*budget.Watcher),
	}
}

// View returns the user's current view, starting a watcher on first use.
func (c *DashboardCache) View(ctx context.Context, user generic.UserID) (budget.View, error) {
	c.mu.Lock()
	w, ok := c.watchers[user]
	c.mu.Unlock()
	if ok {
		return w.View(), nil
	}

	w, err := c.svc.Watch(ctx, user, nil)
	if err != nil {
		return budget.View{}, err
	}

	c.mu.Lock()
	if existing, raced := c.watchers[user]; raced {
		c.mu.Unlock()
		w.Close()
		return existing.View(), nil
	}
	c.watchers[user] = w
	c.mu.Unlock()

	c.log.WithField("user", user).Debug("Dashboard watcher started")
	return w.View(), nil
}

// RefreshAll recomputes every cached view for the current date.
func (c *DashboardCache) RefreshAll() int {
	c.mu.Lock()
	watchers := make([]*budget.Watcher, 0, len(c.watchers))
	for _, w := range c.watchers {
		watchers = append(watchers, w)
	}
	c.mu.Unlock()

	for _, w := range watchers {
		w.Refresh()
	}
	return len(watchers)
}

// Forget stops watching user.
func (c *DashboardCache) Forget(user generic.UserID) {
	c.mu.Lock()
	w, ok := c.watchers[user]
	delete(c.watchers, user)
	c.mu.Unlock()

	if ok {
		w.Close()
	}
}

// Close stops every watcher.
func (c *DashboardCache) Close() {
	c.mu.Lock()
	watchers := c.watchers
	c.watchers = make(map[generic.UserID]*budget.Watcher)
	c.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
}
