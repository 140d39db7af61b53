package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixoverlays/roster/internal/config"
	"github.com/mixoverlays/roster/internal/hub"
	"github.com/mixoverlays/roster/internal/riot"
	"github.com/mixoverlays/roster/internal/roster"
	"github.com/mixoverlays/roster/internal/session"
	"github.com/mixoverlays/roster/internal/watcher"
)

type stubStatus struct{ st watcher.Status }

func (s stubStatus) Status() watcher.Status { return s.st }

type stubBuilder struct {
	snap *roster.Snapshot
	err  error
}

func (s *stubBuilder) Build(ctx context.Context) (*roster.Snapshot, error) {
	return s.snap, s.err
}

type stubProfiles struct{ last string }

func (s *stubProfiles) LoadPlayerProfile(ctx context.Context, puuid, gameName, tagLine string) *riot.PlayerProfile {
	s.last = puuid
	return &riot.PlayerProfile{PUUID: puuid, GameName: gameName, TagLine: tagLine}
}

type stubRemote struct {
	key      string
	region   string
	keyValid bool
	probes   int
}

func (s *stubRemote) SetAPIKey(k string) { s.key = k }
func (s *stubRemote) SetRegion(r string) { s.region = r }
func (s *stubRemote) PlatformStatus(ctx context.Context) bool {
	s.probes++
	return s.keyValid
}

func newSettingsServer(t *testing.T, b session.Builder, st watcher.Status) (*httptest.Server, *session.Controller, *config.Service, *stubRemote) {
	t.Helper()
	feed := hub.NewHub(context.Background())
	ctrl := session.NewController(b, feed, nil)
	cfg := config.NewService(filepath.Join(t.TempDir(), "settings.json"))
	remote := &stubRemote{keyValid: true}
	srv := httptest.NewServer(SetupRoutes(feed, ctrl, stubStatus{st}, &stubProfiles{}, cfg, remote, nil))
	t.Cleanup(srv.Close)
	return srv, ctrl, cfg, remote
}

func newServer(t *testing.T, b session.Builder, st watcher.Status) (*httptest.Server, *session.Controller) {
	t.Helper()
	srv, ctrl, _, _ := newSettingsServer(t, b, st)
	return srv, ctrl
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t, &stubBuilder{}, watcher.Status{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusReportsWatcherState(t *testing.T) {
	srv, _ := newServer(t, &stubBuilder{}, watcher.Status{
		Phase: watcher.PhaseInGame, Connected: true, GameLoaded: true,
	})
	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var st watcher.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.Equal(t, watcher.PhaseInGame, st.Phase)
	require.True(t, st.Connected)
}

func TestRosterEmptyIs204(t *testing.T) {
	srv, _ := newServer(t, &stubBuilder{}, watcher.Status{})
	resp, err := http.Get(srv.URL + "/roster")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRefreshBuildsAndReturnsRoster(t *testing.T) {
	b := &stubBuilder{snap: &roster.Snapshot{
		Generation: 1,
		Allies:     []roster.Member{{PUUID: "me", GameName: "Me", TagLine: "TAG"}},
	}}
	srv, ctrl := newServer(t, b, watcher.Status{})

	resp, err := http.Post(srv.URL+"/roster/refresh", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap roster.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Allies, 1)
	require.NotNil(t, ctrl.Latest())

	// And the plain GET now serves the same snapshot.
	resp2, err := http.Get(srv.URL + "/roster")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestPlayerProfileEndpoint(t *testing.T) {
	srv, _ := newServer(t, &stubBuilder{}, watcher.Status{})
	resp, err := http.Get(srv.URL + "/players/p1?name=Me&tag=EUW")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p riot.PlayerProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	require.Equal(t, "p1", p.PUUID)
	require.Equal(t, "Me", p.GameName)
}

func TestUpdateSettingsRegion(t *testing.T) {
	srv, _, cfg, remote := newSettingsServer(t, &stubBuilder{}, watcher.Status{})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/settings",
		bytes.NewBufferString(`{"region":"na1"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "NA1", remote.region, "remote client should be re-pointed")
	require.Equal(t, "NA1", cfg.Current.Region)

	var body struct {
		Region   string `json:"region"`
		KeyValid bool   `json:"keyValid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "NA1", body.Region)
}

func TestUpdateSettingsUnknownRegionIsRejected(t *testing.T) {
	srv, _, cfg, remote := newSettingsServer(t, &stubBuilder{}, watcher.Status{})
	before := cfg.Current.Region

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/settings",
		bytes.NewBufferString(`{"region":"MOON1"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Equal(t, before, cfg.Current.Region, "rejected region must not be applied")
	require.Empty(t, remote.region)
}

func TestUpdateSettingsKeyIsProbed(t *testing.T) {
	srv, _, cfg, remote := newSettingsServer(t, &stubBuilder{}, watcher.Status{})
	remote.keyValid = true

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/settings",
		bytes.NewBufferString(`{"riotApiKey":"RGAPI-new"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "RGAPI-new", remote.key)
	require.Equal(t, "RGAPI-new", cfg.Current.RiotAPIKey)
	require.Equal(t, 1, remote.probes, "a new key should be validated once")

	var body struct {
		KeyValid bool `json:"keyValid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.KeyValid)
}

func TestRefreshFailureIs502(t *testing.T) {
	srv, _ := newServer(t, &stubBuilder{err: errors.New("no source")}, watcher.Status{})
	resp, err := http.Post(srv.URL+"/roster/refresh", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
