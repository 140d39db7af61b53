package lcu

// Models for the subset of the League client API we consume. Field names
// mirror the wire shapes; the client JSON is camelCase.

type Summoner struct {
	SummonerID    int64  `json:"summonerId"`
	PUUID         string `json:"puuid"`
	DisplayName   string `json:"displayName"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	SummonerLevel int    `json:"summonerLevel"`
	ProfileIconID int64  `json:"profileIconId"`
}

// GameData is the roster-relevant slice of /lol-gameflow/v1/session.
// The full session payload carries a "queue" field that is sometimes an
// object and sometimes a scalar; we never declare it so a type mismatch
// there can't poison the parse.
type GameData struct {
	GameID       int64               `json:"gameId"`
	IsCustomGame bool                `json:"isCustomGame"`
	TeamOne      []TeamMember        `json:"teamOne"`
	TeamTwo      []TeamMember        `json:"teamTwo"`
	Selections   []ChampionSelection `json:"playerChampionSelections"`
}

type TeamMember struct {
	SummonerID   int64  `json:"summonerId"`
	PUUID        string `json:"puuid"`
	SummonerName string `json:"summonerName"`
	// Optional, pre-filled when the entry came from the live client data
	// endpoint rather than the LCU itself.
	ChampionName string `json:"championName"`
	Spell1ID     int    `json:"spell1Id"`
	Spell2ID     int    `json:"spell2Id"`
}

// ChampionSelection is one entry of playerChampionSelections (the only
// populated roster shape in custom/practice games).
type ChampionSelection struct {
	PUUID      string `json:"puuid"`
	ChampionID int    `json:"championId"`
	Spell1ID   int    `json:"spell1Id"`
	Spell2ID   int    `json:"spell2Id"`
}

type ChampSelectSession struct {
	MyTeam       []ChampSelectMember `json:"myTeam"`
	TheirTeam    []ChampSelectMember `json:"theirTeam"`
	IsSpectating bool                `json:"isSpectating"`
}

type ChampSelectMember struct {
	SummonerID int64  `json:"summonerId"`
	PUUID      string `json:"puuid"`
	ChampionID int    `json:"championId"`
	CellID     int    `json:"cellId"`
	TeamID     int    `json:"teamId"`
}

// SummonerSpells matches both the live client data spell block and the
// LCU per-summoner spell endpoint.
type SummonerSpells struct {
	One *SummonerSpell `json:"summonerSpellOne"`
	Two *SummonerSpell `json:"summonerSpellTwo"`
}

type SummonerSpell struct {
	DisplayName    string `json:"displayName"`
	RawDisplayName string `json:"rawDisplayName"`
}

// LivePlayer is one entry of /liveclientdata/playerlist on port 2999.
// riotId is "GameName#TAG"; summonerName is the legacy display name.
// team is "ORDER" (blue side) or "CHAOS" (red side).
type LivePlayer struct {
	PUUID          string          `json:"puuid"`
	SummonerName   string          `json:"summonerName"`
	RiotID         string          `json:"riotId"`
	ChampionName   string          `json:"championName"`
	Team           string          `json:"team"`
	SummonerLevel  int             `json:"summonerLevel"`
	SummonerSpells *SummonerSpells `json:"summonerSpells"`
}

type ActivePlayer struct {
	SummonerName string `json:"summonerName"`
	RiotID       string `json:"riotId"`
}
