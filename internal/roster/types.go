// Package roster builds one normalized ally/enemy roster for the current
// game from up to three partially-overlapping local data sources, resolving
// player identities through the remote API collaborator.
package roster

import (
	"context"

	"github.com/mixoverlays/roster/internal/lcu"
	"github.com/mixoverlays/roster/internal/riot"
)

type TeamSide string

const (
	SideAlly  TeamSide = "ally"
	SideEnemy TeamSide = "enemy"
)

// Member is one participant of the current game, relative to the local
// player. A member is only useful downstream once PUUID is non-empty;
// everything the resolver does exists to populate that field.
type Member struct {
	PUUID        string   `json:"puuid"`
	SummonerID   int64    `json:"summonerId,omitempty"`
	GameName     string   `json:"gameName"`
	TagLine      string   `json:"tagLine,omitempty"`
	ChampionID   int      `json:"championId,omitempty"`
	ChampionName string   `json:"championName,omitempty"`
	Spell1ID     int      `json:"spell1Id,omitempty"`
	Spell2ID     int      `json:"spell2Id,omitempty"`
	Side         TeamSide `json:"side"`
}

// DisplayName renders "GameName#TagLine", or just the name when the tag
// is unknown.
func (m Member) DisplayName() string {
	if m.TagLine == "" {
		return m.GameName
	}
	return m.GameName + "#" + m.TagLine
}

// Snapshot is one immutable roster emission. Generation increases
// monotonically across emissions so that a slow, stale build can never
// overwrite a newer one downstream.
type Snapshot struct {
	Generation uint64   `json:"generation"`
	GameID     int64    `json:"gameId,omitempty"`
	Allies     []Member `json:"allies"`
	Enemies    []Member `json:"enemies"`
}

func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Allies) == 0 && len(s.Enemies) == 0)
}

// Fragment carries whichever identity pieces a source knew about one
// player. At least one field should be set.
type Fragment struct {
	PUUID      string
	SummonerID int64
	RawName    string // possibly "Name#Tag", possibly a bare legacy name
}

// Identity is the canonical resolved triple.
type Identity struct {
	PUUID    string
	GameName string
	TagLine  string
}

// LocalAPI is the slice of the LCU client the roster pipeline needs.
type LocalAPI interface {
	CurrentSummoner(ctx context.Context) (*lcu.Summoner, error)
	SummonerByID(ctx context.Context, summonerID int64) (*lcu.Summoner, error)
	SummonerByPUUID(ctx context.Context, puuid string) (*lcu.Summoner, error)
	SummonerByName(ctx context.Context, name string) (*lcu.Summoner, error)
	SummonerSpellsByID(ctx context.Context, summonerID int64) (*lcu.SummonerSpells, error)
	GameflowSession(ctx context.Context) ([]byte, error)
	ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error)
}

// LiveAPI is the in-process live client data endpoint (port 2999).
type LiveAPI interface {
	PlayerList(ctx context.Context) ([]lcu.LivePlayer, error)
	ActivePlayer(ctx context.Context) (*lcu.ActivePlayer, error)
}

// RemoteAPI is the slice of the public API the resolver needs.
type RemoteAPI interface {
	AccountByPUUID(ctx context.Context, puuid string) (*riot.Account, error)
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
}

// NameSource maps champion ids and display names both ways. Unknown
// values map to ""/0.
type NameSource interface {
	NameOf(championID int) string
	IDOf(name string) int
}
