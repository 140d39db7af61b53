package roster

import (
	"context"
	"errors"

	"github.com/mixoverlays/roster/internal/lcu"
	"github.com/mixoverlays/roster/internal/riot"
)

var errFakeNotFound = errors.New("not found")

// fakeLocal implements LocalAPI from in-memory tables.
type fakeLocal struct {
	me          *lcu.Summoner
	byID        map[int64]*lcu.Summoner
	byPUUID     map[string]*lcu.Summoner
	byName      map[string]*lcu.Summoner
	spells      map[int64]*lcu.SummonerSpells
	gameflow    []byte
	gameflowErr error
	champSelect *lcu.ChampSelectSession
}

func (f *fakeLocal) CurrentSummoner(ctx context.Context) (*lcu.Summoner, error) {
	if f.me == nil {
		return nil, errFakeNotFound
	}
	return f.me, nil
}

func (f *fakeLocal) SummonerByID(ctx context.Context, id int64) (*lcu.Summoner, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeLocal) SummonerByPUUID(ctx context.Context, puuid string) (*lcu.Summoner, error) {
	if s, ok := f.byPUUID[puuid]; ok {
		return s, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeLocal) SummonerByName(ctx context.Context, name string) (*lcu.Summoner, error) {
	if s, ok := f.byName[name]; ok {
		return s, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeLocal) SummonerSpellsByID(ctx context.Context, id int64) (*lcu.SummonerSpells, error) {
	if sp, ok := f.spells[id]; ok {
		return sp, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeLocal) GameflowSession(ctx context.Context) ([]byte, error) {
	if f.gameflowErr != nil {
		return nil, f.gameflowErr
	}
	return f.gameflow, nil
}

func (f *fakeLocal) ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error) {
	if f.champSelect == nil {
		return nil, errFakeNotFound
	}
	return f.champSelect, nil
}

// fakeRemote implements RemoteAPI; accounts are keyed by PUUID and by
// "name#tag".
type fakeRemote struct {
	byPUUID  map[string]*riot.Account
	byRiotID map[string]*riot.Account
	calls    int
}

func (f *fakeRemote) AccountByPUUID(ctx context.Context, puuid string) (*riot.Account, error) {
	f.calls++
	if a, ok := f.byPUUID[puuid]; ok {
		return a, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeRemote) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error) {
	f.calls++
	if a, ok := f.byRiotID[gameName+"#"+tagLine]; ok {
		return a, nil
	}
	return nil, errFakeNotFound
}

// fakeLive implements LiveAPI.
type fakeLive struct {
	players   []lcu.LivePlayer
	active    *lcu.ActivePlayer
	listErr   error
	activeErr error
}

func (f *fakeLive) PlayerList(ctx context.Context) ([]lcu.LivePlayer, error) {
	return f.players, f.listErr
}

func (f *fakeLive) ActivePlayer(ctx context.Context) (*lcu.ActivePlayer, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

// fakeNames implements NameSource with a fixed two-way table.
type fakeNames struct {
	toName map[int]string
	toID   map[string]int
}

func (f *fakeNames) NameOf(id int) string { return f.toName[id] }
func (f *fakeNames) IDOf(name string) int { return f.toID[name] }

// fixedAdapter returns a canned candidate; used to drive the reconciler
// without real transports.
type fixedAdapter struct {
	name string
	gd   *lcu.GameData
}

func (f *fixedAdapter) Name() string                            { return f.name }
func (f *fixedAdapter) Fetch(ctx context.Context) *lcu.GameData { return f.gd }

func account(puuid, name, tag string) *riot.Account {
	return &riot.Account{PUUID: puuid, GameName: name, TagLine: tag}
}
