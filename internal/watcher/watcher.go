// Package watcher polls the local League client and turns its raw
// gameflow phase into a small, deduplicated connection state machine.
package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is the watcher's own vocabulary, collapsed from the client's much
// larger gameflow phase set.
type Phase string

const (
	PhaseDisconnected Phase = "Disconnected"
	PhaseConnecting   Phase = "Connecting"
	PhaseConnected    Phase = "Connected"
	PhaseChampSelect  Phase = "InChampSelect"
	PhaseInGame       Phase = "InGame"
)

// ErrClientStarting marks a connector failure where the client process
// exists but is not serving yet; the watcher reports Connecting instead
// of Disconnected while this persists.
var ErrClientStarting = errors.New("watcher: local client starting up")

// Event is one phase transition. Events are only emitted when the phase
// actually changes.
type Event struct {
	Phase Phase
	Prev  Phase
	At    time.Time
}

// Client is the slice of the local client the watcher drives. Close must
// be safe to call once after any failure.
type Client interface {
	GameflowPhase(ctx context.Context) (string, error)
	Close()
}

// Connector establishes a session with the local client, typically via
// lockfile discovery plus a probe request.
type Connector func(ctx context.Context) (Client, error)

// Loader performs the one-shot in-game data load. It is retried on every
// tick while in game until it first succeeds.
type Loader interface {
	Load(ctx context.Context) error
}

// DefaultInterval matches the client's own UI refresh cadence; polling
// faster buys nothing.
const DefaultInterval = 3 * time.Second

type Watcher struct {
	connect  Connector
	loader   Loader
	interval time.Duration
	log      *zap.SugaredLogger

	events chan Event

	mu         sync.Mutex
	client     Client
	phase      Phase
	gameLoaded bool
	diag       string
}

// Status is a point-in-time diagnostic view.
type Status struct {
	Phase      Phase  `json:"phase"`
	Connected  bool   `json:"connected"`
	GameLoaded bool   `json:"gameLoaded"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

func New(connect Connector, loader Loader, interval time.Duration, log *zap.SugaredLogger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Watcher{
		connect:  connect,
		loader:   loader,
		interval: interval,
		log:      log,
		events:   make(chan Event, 16),
		phase:    PhaseDisconnected,
	}
}

// Events is the transition feed. The channel is buffered; if a consumer
// falls this far behind, transitions are dropped oldest-first.
func (w *Watcher) Events() <-chan Event { return w.events }

func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{Phase: w.phase, Connected: w.client != nil, GameLoaded: w.gameLoaded, Diagnostic: w.diag}
}

// Run polls until ctx is cancelled. Ticks never overlap: the next poll
// waits for the previous one to finish.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.client != nil {
				w.client.Close()
				w.client = nil
			}
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.client == nil {
		c, err := w.connect(ctx)
		if err != nil {
			w.diag = err.Error()
			if errors.Is(err, ErrClientStarting) {
				w.setPhase(PhaseConnecting)
			} else {
				w.setPhase(PhaseDisconnected)
			}
			return
		}
		w.log.Infow("connected to local client")
		w.diag = ""
		w.client = c
	}

	raw, err := w.client.GameflowPhase(ctx)
	if err != nil {
		// Connection went away; drop the client and reconnect next tick.
		w.log.Infow("local client lost", "err", err)
		w.client.Close()
		w.client = nil
		w.gameLoaded = false
		w.diag = err.Error()
		w.setPhase(PhaseDisconnected)
		return
	}

	phase, known := mapPhase(raw)
	if !known {
		w.log.Debugw("unknown gameflow phase", "phase", raw)
		return
	}
	w.setPhase(phase)

	if phase != PhaseInGame {
		w.gameLoaded = false
		return
	}
	if w.gameLoaded || w.loader == nil {
		return
	}
	if err := w.loader.Load(ctx); err != nil {
		w.log.Warnw("in-game data load failed, will retry", "err", err)
		return
	}
	w.gameLoaded = true
}

// setPhase records a transition and emits it. Repeats are silently
// swallowed; consumers only ever see changes.
func (w *Watcher) setPhase(next Phase) {
	if next == w.phase {
		return
	}
	ev := Event{Phase: next, Prev: w.phase, At: time.Now()}
	w.phase = next
	select {
	case w.events <- ev:
	default:
		// Consumer stalled; make room by discarding the oldest event.
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- ev:
		default:
		}
	}
}

// mapPhase collapses the client's gameflow vocabulary. Unknown strings
// return known=false and the current phase is kept.
func mapPhase(raw string) (Phase, bool) {
	switch raw {
	case "ChampSelect":
		return PhaseChampSelect, true
	case "InProgress", "Reconnect":
		return PhaseInGame, true
	case "None", "Lobby", "Matchmaking", "ReadyCheck",
		"EndOfGame", "PreEndOfGame", "WaitingForStats":
		return PhaseConnected, true
	}
	return "", false
}
