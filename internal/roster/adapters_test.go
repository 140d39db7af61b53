package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixoverlays/roster/internal/lcu"
)

func spells(one, two string) *lcu.SummonerSpells {
	return &lcu.SummonerSpells{
		One: &lcu.SummonerSpell{RawDisplayName: one},
		Two: &lcu.SummonerSpell{RawDisplayName: two},
	}
}

func TestLiveDataAdapterSplitsByMyTeam(t *testing.T) {
	live := &fakeLive{
		players: []lcu.LivePlayer{
			{RiotID: "Ally1#EUW", Team: "CHAOS", ChampionName: "Ahri",
				SummonerSpells: spells(
					"GeneratedTip_SummonerSpell_SummonerFlash_DisplayName",
					"GeneratedTip_SummonerSpell_SummonerDot_DisplayName")},
			{RiotID: "Me#EUW", Team: "CHAOS"},
			{RiotID: "Enemy1#EUW", Team: "ORDER"},
			{SummonerName: "LegacyEnemy", Team: "ORDER"},
		},
		active: &lcu.ActivePlayer{RiotID: "Me#EUW"},
	}
	a := NewLiveDataAdapter(live, nil)

	gd := a.Fetch(context.Background())
	require.NotNil(t, gd)
	// Local player is on CHAOS, so CHAOS lands in teamOne.
	require.Len(t, gd.TeamOne, 2)
	require.Len(t, gd.TeamTwo, 2)
	require.Equal(t, "Ally1#EUW", gd.TeamOne[0].SummonerName)
	require.Equal(t, 4, gd.TeamOne[0].Spell1ID)
	require.Equal(t, 14, gd.TeamOne[0].Spell2ID)
	require.Equal(t, "Ahri", gd.TeamOne[0].ChampionName)
	require.Equal(t, "LegacyEnemy", gd.TeamTwo[1].SummonerName)
}

func TestLiveDataAdapterHalfSplitFallback(t *testing.T) {
	live := &fakeLive{
		players: []lcu.LivePlayer{
			{RiotID: "P1#X"}, {RiotID: "P2#X"}, {RiotID: "P3#X"}, {RiotID: "P4#X"},
		},
		activeErr: errFakeNotFound,
	}
	a := NewLiveDataAdapter(live, nil)

	gd := a.Fetch(context.Background())
	require.NotNil(t, gd)
	require.Len(t, gd.TeamOne, 2)
	require.Len(t, gd.TeamTwo, 2)
	require.Equal(t, "P1#X", gd.TeamOne[0].SummonerName)
	require.Equal(t, "P3#X", gd.TeamTwo[0].SummonerName)
}

func TestLiveDataAdapterUnavailable(t *testing.T) {
	a := NewLiveDataAdapter(&fakeLive{listErr: errFakeNotFound}, nil)
	require.Nil(t, a.Fetch(context.Background()))
}

func TestSessionAdapterFillsMissingPUUIDs(t *testing.T) {
	local := &fakeLocal{
		gameflow: []byte(`{"gameData":{"gameId":77,"teamOne":[{"summonerId":1,"summonerName":"A"}],"teamTwo":[{"summonerId":2,"puuid":"p2","summonerName":"B"}]}}`),
		byID: map[int64]*lcu.Summoner{
			1: {SummonerID: 1, PUUID: "p1"},
		},
	}
	a := NewSessionAdapter(local, nil)

	gd := a.Fetch(context.Background())
	require.NotNil(t, gd)
	require.Equal(t, int64(77), gd.GameID)
	require.Equal(t, "p1", gd.TeamOne[0].PUUID)
	require.Equal(t, "p2", gd.TeamTwo[0].PUUID)
}

func TestChampSelectAdapterStandardTeams(t *testing.T) {
	local := &fakeLocal{
		champSelect: &lcu.ChampSelectSession{
			MyTeam: []lcu.ChampSelectMember{
				{SummonerID: 1, PUUID: "p1", ChampionID: 103},
			},
			TheirTeam: []lcu.ChampSelectMember{
				{SummonerID: 2, PUUID: "p2", ChampionID: 55},
			},
		},
	}
	a := NewChampSelectAdapter(local, nil)

	gd := a.Fetch(context.Background())
	require.NotNil(t, gd)
	require.Len(t, gd.TeamOne, 1)
	require.Len(t, gd.TeamTwo, 1)
	require.Len(t, gd.Selections, 2)
	require.Equal(t, 103, gd.Selections[0].ChampionID)
}

func TestChampSelectAdapterSplitsMixedMyTeam(t *testing.T) {
	members := make([]lcu.ChampSelectMember, 0, 10)
	for i := 0; i < 10; i++ {
		teamID := 100
		if i >= 5 {
			teamID = 200
		}
		members = append(members, lcu.ChampSelectMember{SummonerID: int64(i + 1), TeamID: teamID})
	}
	local := &fakeLocal{champSelect: &lcu.ChampSelectSession{MyTeam: members}}
	a := NewChampSelectAdapter(local, nil)

	gd := a.Fetch(context.Background())
	require.NotNil(t, gd)
	require.Len(t, gd.TeamOne, 5)
	require.Len(t, gd.TeamTwo, 5)
	require.Equal(t, int64(6), gd.TeamTwo[0].SummonerID)
}

func TestExtractGameDataTolerantFields(t *testing.T) {
	// gameId quoted, summonerId quoted, alternate team key spelling.
	body := []byte(`{"gameData":{"gameId":"123","TeamOne":[{"summonerId":"41","summonerName":"A"}],"team2":[{"puuid":"p9"}]}}`)

	gd, unparsed := ExtractGameData(body)
	require.NotNil(t, gd)
	require.Empty(t, unparsed)
	require.Equal(t, int64(123), gd.GameID)
	require.Equal(t, int64(41), gd.TeamOne[0].SummonerID)
	require.Equal(t, "p9", gd.TeamTwo[0].PUUID)
}

func TestExtractGameDataSkipsBadFieldsByName(t *testing.T) {
	body := []byte(`{"gameData":{"gameId":{"bad":true},"teamOne":[{"summonerId":true,"summonerName":"A"}]}}`)

	gd, unparsed := ExtractGameData(body)
	require.NotNil(t, gd)
	require.Contains(t, unparsed, "gameId")
	require.Contains(t, unparsed, "teamOne[0].summonerId")
	require.Equal(t, "A", gd.TeamOne[0].SummonerName)
}

func TestExtractGameDataSelectionsOnlyFallback(t *testing.T) {
	body := []byte(`{"gameData":{"playerChampionSelections":[{"puuid":"p1","championId":103},{"puuid":"p2","championId":55}]}}`)

	gd, _ := ExtractGameData(body)
	require.NotNil(t, gd)
	require.Len(t, gd.TeamOne, 2)
	require.Empty(t, gd.TeamTwo)
	require.Equal(t, "p1", gd.TeamOne[0].PUUID)
	require.Len(t, gd.Selections, 2)
}

func TestExtractGameDataGarbage(t *testing.T) {
	gd, _ := ExtractGameData([]byte(`not json`))
	require.Nil(t, gd)

	gd, _ = ExtractGameData([]byte(`{"gameData":{}}`))
	require.Nil(t, gd)
}
