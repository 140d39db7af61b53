package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/lcu"
	"github.com/mixoverlays/roster/internal/watcher"
)

// ErrNotConnected is returned by holder calls while no local client
// session exists.
var ErrNotConnected = errors.New("session: not connected to local client")

// ClientHolder owns the lifecycle of the LCU connection. The watcher
// connects and disposes it; the roster pipeline reads through it. All
// reads fail fast with ErrNotConnected between sessions.
type ClientHolder struct {
	log *zap.SugaredLogger

	mu     sync.RWMutex
	client *lcu.Client
}

func NewClientHolder(log *zap.SugaredLogger) *ClientHolder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ClientHolder{log: log}
}

// Connect discovers the lockfile, opens a client, and probes it with a
// current-summoner request. On success the holder is bound; the returned
// handle is what the watcher polls and closes.
func (h *ClientHolder) Connect(ctx context.Context) (*BoundClient, error) {
	creds, err := lcu.Discover()
	if err != nil {
		return nil, err
	}
	c := lcu.NewClient(creds.BaseURL(), creds.Token)
	if _, err := c.CurrentSummoner(ctx); err != nil {
		c.Close()
		// The lockfile exists but the API is not up yet; the process is
		// still booting.
		return nil, fmt.Errorf("%w: %v", watcher.ErrClientStarting, err)
	}
	h.mu.Lock()
	h.client = c
	h.mu.Unlock()
	h.log.Infow("local client session established", "port", creds.Port)
	return &BoundClient{holder: h, client: c}, nil
}

// BoundClient is the watcher-facing handle. Closing it unbinds the
// holder so pipeline reads fail fast instead of hitting a dead socket.
type BoundClient struct {
	holder *ClientHolder
	client *lcu.Client
}

func (b *BoundClient) GameflowPhase(ctx context.Context) (string, error) {
	return b.client.GameflowPhase(ctx)
}

func (b *BoundClient) Close() { b.holder.Drop() }

// Drop unbinds the holder. Called when the watcher loses the client.
func (h *ClientHolder) Drop() {
	h.mu.Lock()
	if h.client != nil {
		h.client.Close()
		h.client = nil
	}
	h.mu.Unlock()
}

func (h *ClientHolder) get() (*lcu.Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.client == nil {
		return nil, ErrNotConnected
	}
	return h.client, nil
}

// The holder satisfies roster.LocalAPI by delegation.

func (h *ClientHolder) CurrentSummoner(ctx context.Context) (*lcu.Summoner, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.CurrentSummoner(ctx)
}

func (h *ClientHolder) SummonerByID(ctx context.Context, id int64) (*lcu.Summoner, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.SummonerByID(ctx, id)
}

func (h *ClientHolder) SummonerByPUUID(ctx context.Context, puuid string) (*lcu.Summoner, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.SummonerByPUUID(ctx, puuid)
}

func (h *ClientHolder) SummonerByName(ctx context.Context, name string) (*lcu.Summoner, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.SummonerByName(ctx, name)
}

func (h *ClientHolder) SummonerSpellsByID(ctx context.Context, id int64) (*lcu.SummonerSpells, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.SummonerSpellsByID(ctx, id)
}

func (h *ClientHolder) GameflowSession(ctx context.Context) ([]byte, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.GameflowSession(ctx)
}

func (h *ClientHolder) ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error) {
	c, err := h.get()
	if err != nil {
		return nil, err
	}
	return c.ChampSelectSession(ctx)
}
