// Package session glues the watcher, the roster pipeline, and the hub
// into the live session lifecycle.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/hub"
	"github.com/mixoverlays/roster/internal/roster"
	"github.com/mixoverlays/roster/internal/watcher"
)

// Builder produces roster snapshots; satisfied by *roster.Reconciler.
type Builder interface {
	Build(ctx context.Context) (*roster.Snapshot, error)
}

// Controller is the watcher's loader and the hub's publisher. It keeps
// the latest snapshot for HTTP reads and enforces the generation guard
// on its own copy; the hub enforces the same guard independently for
// subscribers.
type Controller struct {
	builder Builder
	feed    *hub.Hub
	log     *zap.SugaredLogger

	lastGen atomic.Uint64

	mu     sync.RWMutex
	latest *roster.Snapshot
}

func NewController(builder Builder, feed *hub.Hub, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{builder: builder, feed: feed, log: log}
}

// Load builds a snapshot and publishes it. Implements watcher.Loader:
// a returned error means the watcher retries next tick.
func (c *Controller) Load(ctx context.Context) error {
	snap, err := c.builder.Build(ctx)
	if err != nil {
		return err
	}
	c.publish(snap)
	return nil
}

// Refresh is the manual variant of Load, exposed to overlay clients.
func (c *Controller) Refresh(ctx context.Context) error { return c.Load(ctx) }

// Latest returns the current snapshot, nil when no game is known.
func (c *Controller) Latest() *roster.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// RunEvents forwards watcher transitions to the hub and clears the
// roster whenever the session leaves the game. Returns when the event
// channel closes or ctx is cancelled.
func (c *Controller) RunEvents(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.log.Infow("phase transition", "from", ev.Prev, "to", ev.Phase)
			if ev.Phase != watcher.PhaseInGame && ev.Phase != watcher.PhaseChampSelect {
				c.clear()
			}
			if c.feed != nil {
				c.feed.Inbox() <- hub.PublishPhase{Phase: ev.Phase}
			}
		}
	}
}

// publish stores and forwards a snapshot unless a newer one has already
// been published. A slow Build finishing after a fresher one must never
// win.
func (c *Controller) publish(snap *roster.Snapshot) {
	if snap == nil {
		return
	}
	for {
		last := c.lastGen.Load()
		if snap.Generation <= last {
			c.log.Debugw("discarding stale snapshot",
				"generation", snap.Generation, "current", last)
			return
		}
		if c.lastGen.CompareAndSwap(last, snap.Generation) {
			break
		}
	}
	c.mu.Lock()
	c.latest = snap
	c.mu.Unlock()
	if c.feed != nil {
		c.feed.Inbox() <- hub.PublishRoster{Snapshot: snap}
	}
	c.log.Infow("roster published",
		"generation", snap.Generation,
		"allies", len(snap.Allies), "enemies", len(snap.Enemies))
}

func (c *Controller) clear() {
	c.mu.Lock()
	c.latest = nil
	c.mu.Unlock()
}
