package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mixoverlays/roster/internal/roster"
	"github.com/mixoverlays/roster/internal/watcher"
)

type stubBuilder struct {
	mu    sync.Mutex
	snaps []*roster.Snapshot
	idx   int
	err   error
}

func (s *stubBuilder) Build(ctx context.Context) (*roster.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	snap := s.snaps[s.idx]
	if s.idx < len(s.snaps)-1 {
		s.idx++
	}
	return snap, nil
}

func snapGen(gen uint64) *roster.Snapshot {
	return &roster.Snapshot{Generation: gen, Allies: []roster.Member{{PUUID: "me"}}}
}

func TestLoadPublishesLatest(t *testing.T) {
	b := &stubBuilder{snaps: []*roster.Snapshot{snapGen(1)}}
	c := NewController(b, nil, nil)

	require.NoError(t, c.Load(context.Background()))
	require.NotNil(t, c.Latest())
	require.Equal(t, uint64(1), c.Latest().Generation)
}

func TestLoadPropagatesBuildError(t *testing.T) {
	b := &stubBuilder{err: errors.New("no source")}
	c := NewController(b, nil, nil)

	require.Error(t, c.Load(context.Background()))
	require.Nil(t, c.Latest())
}

func TestStaleGenerationNeverOverwritesNewer(t *testing.T) {
	c := NewController(nil, nil, nil)

	c.publish(snapGen(2))
	c.publish(snapGen(1)) // slow build finishing late
	require.Equal(t, uint64(2), c.Latest().Generation)

	c.publish(snapGen(3))
	require.Equal(t, uint64(3), c.Latest().Generation)
}

func TestRunEventsClearsRosterOutOfGame(t *testing.T) {
	c := NewController(nil, nil, nil)
	c.publish(snapGen(1))

	events := make(chan watcher.Event, 4)
	done := make(chan struct{})
	go func() {
		c.RunEvents(context.Background(), events)
		close(done)
	}()

	events <- watcher.Event{Phase: watcher.PhaseConnected, Prev: watcher.PhaseInGame}
	close(events)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunEvents did not return on channel close")
	}
	require.Nil(t, c.Latest())
}
