// Package hub is the fan-out point between the session pipeline and the
// overlay clients. It is a single actor goroutine; all access goes
// through the inbox.
package hub

import (
	"context"

	"github.com/mixoverlays/roster/internal/roster"
	"github.com/mixoverlays/roster/internal/watcher"
)

type Msg interface{ isHubMsg() }

// Update is one emission to a subscriber. Phase is always populated;
// Roster is nil on pure phase changes.
type Update struct {
	Phase  watcher.Phase
	Roster *roster.Snapshot
}

type Subscribe struct {
	ClientID string
	Outbox   chan Update // receives the current state immediately, then changes
}

type Unsubscribe struct{ ClientID string }

type PublishRoster struct{ Snapshot *roster.Snapshot }

type PublishPhase struct{ Phase watcher.Phase }

type GetView struct {
	Reply chan View
}

type Shutdown struct{}

func (Subscribe) isHubMsg()     {}
func (Unsubscribe) isHubMsg()   {}
func (PublishRoster) isHubMsg() {}
func (PublishPhase) isHubMsg()  {}
func (GetView) isHubMsg()       {}
func (Shutdown) isHubMsg()      {}

// View reflects hub state without data races; used by tests and /status.
type View struct {
	Phase      watcher.Phase
	Generation uint64
	NumClients int
	Roster     *roster.Snapshot
}

type Hub struct {
	inbox   chan Msg
	clients map[string]chan Update
	phase   watcher.Phase
	latest  *roster.Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan Update),
		phase:   watcher.PhaseDisconnected,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				// Register and send current state immediately so a late
				// joiner never waits for the next change.
				h.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Update{Phase: h.phase, Roster: h.latest}

			case Unsubscribe:
				delete(h.clients, msg.ClientID)

			case PublishRoster:
				// Stale builds never replace a newer snapshot.
				if msg.Snapshot == nil {
					break
				}
				if h.latest != nil && msg.Snapshot.Generation <= h.latest.Generation {
					break
				}
				h.latest = msg.Snapshot
				h.broadcast(Update{Phase: h.phase, Roster: h.latest})

			case PublishPhase:
				if msg.Phase == h.phase {
					break
				}
				h.phase = msg.Phase
				if h.phase != watcher.PhaseInGame && h.phase != watcher.PhaseChampSelect {
					h.latest = nil
				}
				h.broadcast(Update{Phase: h.phase, Roster: h.latest})

			case GetView:
				v := View{Phase: h.phase, NumClients: len(h.clients), Roster: h.latest}
				if h.latest != nil {
					v.Generation = h.latest.Generation
				}
				msg.Reply <- v

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.cancel()
}

func (h *Hub) broadcast(u Update) {
	for id, ch := range h.clients {
		select {
		case ch <- u:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(h.clients, id)
		}
	}
}
