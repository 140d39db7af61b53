package watcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	phases   []string
	idx      int
	phaseErr error
	closed   int
}

func (f *fakeClient) GameflowPhase(ctx context.Context) (string, error) {
	if f.phaseErr != nil {
		return "", f.phaseErr
	}
	p := f.phases[f.idx]
	if f.idx < len(f.phases)-1 {
		f.idx++
	}
	return p, nil
}

func (f *fakeClient) Close() { f.closed++ }

type fakeLoader struct {
	calls int
	fail  int // fail the first N calls
}

func (f *fakeLoader) Load(ctx context.Context) error {
	f.calls++
	if f.calls <= f.fail {
		return errors.New("not ready")
	}
	return nil
}

func connectorFor(c Client, err error) Connector {
	return func(ctx context.Context) (Client, error) { return c, err }
}

func drainEvents(w *Watcher) []Event {
	var out []Event
	for {
		select {
		case ev := <-w.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPhaseTransitionsAreDeduplicated(t *testing.T) {
	client := &fakeClient{phases: []string{"Lobby", "Lobby", "ChampSelect", "InProgress", "InProgress", "EndOfGame"}}
	w := New(connectorFor(client, nil), nil, time.Second, nil)

	for i := 0; i < 6; i++ {
		w.tick(context.Background())
	}

	events := drainEvents(w)
	require.Len(t, events, 4)
	require.Equal(t, PhaseConnected, events[0].Phase)
	require.Equal(t, PhaseDisconnected, events[0].Prev)
	require.Equal(t, PhaseChampSelect, events[1].Phase)
	require.Equal(t, PhaseInGame, events[2].Phase)
	require.Equal(t, PhaseConnected, events[3].Phase)
}

func TestUnknownPhaseIsIgnored(t *testing.T) {
	client := &fakeClient{phases: []string{"Lobby", "SomethingNew", "Lobby"}}
	w := New(connectorFor(client, nil), nil, time.Second, nil)

	for i := 0; i < 3; i++ {
		w.tick(context.Background())
	}

	events := drainEvents(w)
	require.Len(t, events, 1)
	require.Equal(t, PhaseConnected, w.Status().Phase)
}

func TestConnectFailureStaysDisconnected(t *testing.T) {
	w := New(connectorFor(nil, errors.New("no lockfile")), nil, time.Second, nil)

	w.tick(context.Background())
	w.tick(context.Background())

	require.Empty(t, drainEvents(w))
	st := w.Status()
	require.Equal(t, PhaseDisconnected, st.Phase)
	require.False(t, st.Connected)
	require.NotEmpty(t, st.Diagnostic)
}

func TestClientStartingReportsConnecting(t *testing.T) {
	w := New(connectorFor(nil, fmt.Errorf("%w: probe refused", ErrClientStarting)), nil, time.Second, nil)

	w.tick(context.Background())
	w.tick(context.Background())

	events := drainEvents(w)
	require.Len(t, events, 1)
	require.Equal(t, PhaseConnecting, events[0].Phase)
	require.Equal(t, PhaseConnecting, w.Status().Phase)
}

func TestDiagnosticClearsOnConnect(t *testing.T) {
	calls := 0
	client := &fakeClient{phases: []string{"Lobby"}}
	connect := func(ctx context.Context) (Client, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no lockfile")
		}
		return client, nil
	}
	w := New(connect, nil, time.Second, nil)

	w.tick(context.Background())
	require.NotEmpty(t, w.Status().Diagnostic)
	w.tick(context.Background())
	require.Empty(t, w.Status().Diagnostic)
}

func TestClientLossDisposesAndReconnects(t *testing.T) {
	bad := &fakeClient{phaseErr: errors.New("conn refused")}
	good := &fakeClient{phases: []string{"Lobby"}}
	clients := []Client{bad, good}
	i := 0
	connect := func(ctx context.Context) (Client, error) {
		c := clients[i]
		if i < len(clients)-1 {
			i++
		}
		return c, nil
	}
	w := New(connect, nil, time.Second, nil)

	w.tick(context.Background()) // connects to bad, loses it
	require.Equal(t, 1, bad.closed)
	require.Equal(t, PhaseDisconnected, w.Status().Phase)

	w.tick(context.Background()) // reconnects
	require.Equal(t, PhaseConnected, w.Status().Phase)
	require.True(t, w.Status().Connected)
}

func TestInGameLoadIsOneShotWithRetry(t *testing.T) {
	client := &fakeClient{phases: []string{"InProgress"}}
	loader := &fakeLoader{fail: 1}
	w := New(connectorFor(client, nil), loader, time.Second, nil)

	w.tick(context.Background()) // load fails, retried next tick
	require.False(t, w.Status().GameLoaded)
	w.tick(context.Background()) // load succeeds
	require.True(t, w.Status().GameLoaded)
	w.tick(context.Background()) // no further loads while in game
	w.tick(context.Background())
	require.Equal(t, 2, loader.calls)
}

func TestLoadedFlagResetsWhenLeavingGame(t *testing.T) {
	client := &fakeClient{phases: []string{"InProgress", "EndOfGame", "InProgress"}}
	loader := &fakeLoader{}
	w := New(connectorFor(client, nil), loader, time.Second, nil)

	w.tick(context.Background())
	require.True(t, w.Status().GameLoaded)
	w.tick(context.Background())
	require.False(t, w.Status().GameLoaded)
	w.tick(context.Background())
	require.Equal(t, 2, loader.calls)
}

func TestRunHonorsContext(t *testing.T) {
	client := &fakeClient{phases: []string{"Lobby"}}
	w := New(connectorFor(client, nil), nil, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case ev := <-w.Events():
		require.Equal(t, PhaseConnected, ev.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	require.GreaterOrEqual(t, client.closed, 1)
}
