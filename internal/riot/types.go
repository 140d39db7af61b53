package riot

import "strconv"

// Wire models for the public Riot API endpoints we consume.

type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

type LeagueEntry struct {
	LeagueID     string `json:"leagueId"`
	SummonerID   string `json:"summonerId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HotStreak    bool   `json:"hotStreak"`
}

// WinRate returns the entry's win percentage, 0 for an empty record.
func (e LeagueEntry) WinRate() float64 {
	total := e.Wins + e.Losses
	if total == 0 {
		return 0
	}
	return float64(e.Wins) / float64(total) * 100
}

type ChampionMastery struct {
	PUUID          string `json:"puuid"`
	ChampionID     int    `json:"championId"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int64  `json:"championPoints"`
	LastPlayTime   int64  `json:"lastPlayTime"`
	ChampionName   string `json:"-"` // filled from reference data
}

type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int64              `json:"gameDuration"`
	GameMode     string             `json:"gameMode"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	PUUID           string `json:"puuid"`
	SummonerName    string `json:"summonerName"`
	RiotIDGameName  string `json:"riotIdGameName"`
	RiotIDTagline   string `json:"riotIdTagline"`
	ChampionID      int    `json:"championId"`
	ChampionName    string `json:"championName"`
	Win             bool   `json:"win"`
	Kills           int    `json:"kills"`
	Deaths          int    `json:"deaths"`
	Assists         int    `json:"assists"`
	DamageToChamps  int    `json:"totalDamageDealtToChampions"`
	VisionScore     int    `json:"visionScore"`
	GoldEarned      int    `json:"goldEarned"`
	MinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralsKilled  int    `json:"neutralMinionsKilled"`
	TeamPosition    string `json:"teamPosition"`
	Item0           int    `json:"item0"`
	Item1           int    `json:"item1"`
	Item2           int    `json:"item2"`
	Item3           int    `json:"item3"`
	Item4           int    `json:"item4"`
	Item5           int    `json:"item5"`
	Item6           int    `json:"item6"`
	Summoner1ID     int    `json:"summoner1Id"`
	Summoner2ID     int    `json:"summoner2Id"`
	Perks           *Perks `json:"perks"`
}

func (p MatchParticipant) CS() int { return p.MinionsKilled + p.NeutralsKilled }

// PrimaryRune returns the keystone perk id, 0 when perks are absent.
func (p MatchParticipant) PrimaryRune() int {
	if p.Perks == nil || len(p.Perks.Styles) == 0 || len(p.Perks.Styles[0].Selections) == 0 {
		return 0
	}
	return p.Perks.Styles[0].Selections[0].Perk
}

type Perks struct {
	Styles []PerkStyle `json:"styles"`
}

type PerkStyle struct {
	Description string          `json:"description"`
	Style       int             `json:"style"`
	Selections  []PerkSelection `json:"selections"`
}

type PerkSelection struct {
	Perk int `json:"perk"`
}

// ActiveGame is the spectator v5 shape. v4 responses are adapted into this
// before anything downstream sees them.
type ActiveGame struct {
	GameID        int64             `json:"gameId"`
	GameMode      string            `json:"gameMode"`
	GameType      string            `json:"gameType"`
	GameStartTime int64             `json:"gameStartTime"`
	Participants  []GameParticipant `json:"participants"`
}

type GameParticipant struct {
	PUUID        string `json:"puuid"`
	SummonerName string `json:"summonerName"`
	ChampionID   int    `json:"championId"`
	TeamID       int    `json:"teamId"`
	Spell1ID     int    `json:"spell1Id"`
	Spell2ID     int    `json:"spell2Id"`
}

// activeGameV4 has summonerId instead of puuid on participants.
type activeGameV4 struct {
	GameID        int64  `json:"gameId"`
	GameMode      string `json:"gameMode"`
	GameType      string `json:"gameType"`
	GameStartTime int64  `json:"gameStartTime"`
	Participants  []struct {
		SummonerName string `json:"summonerName"`
		SummonerID   string `json:"summonerId"`
		ChampionID   int    `json:"championId"`
		TeamID       int    `json:"teamId"`
		Spell1ID     int    `json:"spell1Id"`
		Spell2ID     int    `json:"spell2Id"`
	} `json:"participants"`
}

// PlayerProfile is the aggregated view the dashboard renders for one
// player: identity, ranked entries, masteries and recent matches.
type PlayerProfile struct {
	PUUID         string
	SummonerID    string
	GameName      string
	TagLine       string
	ProfileIconID int
	SummonerLevel int

	SoloRank *LeagueEntry
	FlexRank *LeagueEntry

	TopMasteries  []ChampionMastery
	RecentMatches []MatchSummary

	// Pagination: buffered match ids and the offset already consumed.
	MatchIDBuffer []string
	MatchesOffset int

	InGame        bool
	ActiveGame    *ActiveGame
	GameStartTime int64

	Partial bool
	Errors  string
}

func (p *PlayerProfile) HasMoreMatches() bool {
	return len(p.MatchIDBuffer) > p.MatchesOffset
}

// MatchSummary is the flattened per-match record shown in history lists.
type MatchSummary struct {
	MatchID      string
	Win          bool
	ChampionID   int
	ChampionName string
	Kills        int
	Deaths       int
	Assists      int
	CS           int
	Position     string
	GameDuration int64
	GameCreation int64
	QueueID      int
	Summoner1ID  int
	Summoner2ID  int
	PrimaryRune  int

	OpponentChampionID   int
	OpponentChampionName string

	Participants []ParticipantSummary
}

type ParticipantSummary struct {
	PUUID        string
	GameName     string
	TagLine      string
	ChampionID   int
	ChampionName string
	Kills        int
	Deaths       int
	Assists      int
	CS           int
	Win          bool
	Position     string
	TotalDamage  int
	GoldEarned   int
	VisionScore  int
	Items        [7]int
	Summoner1ID  int
	Summoner2ID  int
}

var queueNames = map[int]string{
	0:    "Custom",
	400:  "Normal Draft",
	420:  "Ranked Solo",
	430:  "Normal Blind",
	440:  "Ranked Flex",
	450:  "ARAM",
	700:  "Clash",
	830:  "Co-op vs AI",
	840:  "Co-op vs AI",
	850:  "Co-op vs AI",
	900:  "URF",
	1020: "One for All",
	1300: "Nexus Blitz",
	1400: "Ultimate Spellbook",
	1700: "Arena",
	1900: "URF",
}

// QueueName maps a queue id to a display label.
func QueueName(queueID int) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return "Mode " + strconv.Itoa(queueID)
}
