package roster

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/lcu"
)

// An Adapter is one independent, read-only strategy for producing a
// candidate roster. Adapters never fail loudly: any error degrades to a
// nil result and the caller moves on to the next source.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) *lcu.GameData
}

// ── Adapter A: live client data (port 2999) ──

// LiveDataAdapter reads the game process's own live data endpoint. It has
// the authoritative team split but usually no PUUIDs or summoner ids.
type LiveDataAdapter struct {
	live LiveAPI
	log  *zap.SugaredLogger
}

func NewLiveDataAdapter(live LiveAPI, log *zap.SugaredLogger) *LiveDataAdapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LiveDataAdapter{live: live, log: log}
}

func (a *LiveDataAdapter) Name() string { return "livedata" }

func (a *LiveDataAdapter) Fetch(ctx context.Context) *lcu.GameData {
	players, err := a.live.PlayerList(ctx)
	if err != nil || len(players) == 0 {
		a.log.Debugw("live data unavailable", "err", err)
		return nil
	}

	// Which side is "ally" depends on which team token the local player
	// carries. The team tokens themselves are the only team data here.
	myTeam := "ORDER"
	if me, err := a.live.ActivePlayer(ctx); err == nil {
		myName := me.RiotID
		if myName == "" {
			myName = me.SummonerName
		}
		for _, p := range players {
			if strings.EqualFold(p.RiotID, myName) || strings.EqualFold(p.SummonerName, myName) {
				if p.Team != "" {
					myTeam = p.Team
				}
				break
			}
		}
	}

	var allied, enemy []lcu.LivePlayer
	for _, p := range players {
		if strings.EqualFold(p.Team, myTeam) {
			allied = append(allied, p)
		} else {
			enemy = append(enemy, p)
		}
	}
	// Malformed responses sometimes carry no team tokens at all; split the
	// list in half by order as a last resort.
	if len(allied) == 0 || len(enemy) == 0 {
		half := (len(players) + 1) / 2
		allied, enemy = players[:half], players[half:]
	}

	toMembers := func(list []lcu.LivePlayer) []lcu.TeamMember {
		members := make([]lcu.TeamMember, 0, len(list))
		for _, p := range list {
			name := p.RiotID
			if name == "" {
				name = p.SummonerName
			}
			m := lcu.TeamMember{
				PUUID:        p.PUUID,
				SummonerName: name,
				ChampionName: p.ChampionName,
			}
			if sp := p.SummonerSpells; sp != nil {
				if sp.One != nil {
					m.Spell1ID = SpellNameToID(sp.One.RawDisplayName)
				}
				if sp.Two != nil {
					m.Spell2ID = SpellNameToID(sp.Two.RawDisplayName)
				}
			}
			members = append(members, m)
		}
		return members
	}

	return &lcu.GameData{TeamOne: toMembers(allied), TeamTwo: toMembers(enemy)}
}

// ── Adapter B: LCU gameflow session ──

// SessionAdapter reads the LCU's own in-progress session. Rich in
// summoner ids and PUUIDs, but loosely typed on the wire.
type SessionAdapter struct {
	local LocalAPI
	log   *zap.SugaredLogger
}

func NewSessionAdapter(local LocalAPI, log *zap.SugaredLogger) *SessionAdapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SessionAdapter{local: local, log: log}
}

func (a *SessionAdapter) Name() string { return "session" }

func (a *SessionAdapter) Fetch(ctx context.Context) *lcu.GameData {
	body, err := a.local.GameflowSession(ctx)
	if err != nil {
		a.log.Debugw("gameflow session unavailable", "err", err)
		return nil
	}
	gd, unparsed := ExtractGameData(body)
	if gd == nil {
		return nil
	}
	if len(unparsed) > 0 {
		a.log.Debugw("gameflow session fields skipped", "fields", unparsed)
	}

	// Fill in PUUIDs the session left blank; the resolver could do this
	// later, but doing it here keeps positional backfill into adapter A
	// useful.
	a.fillPUUIDs(ctx, gd.TeamOne)
	a.fillPUUIDs(ctx, gd.TeamTwo)
	return gd
}

func (a *SessionAdapter) fillPUUIDs(ctx context.Context, members []lcu.TeamMember) {
	for i := range members {
		if members[i].PUUID != "" || members[i].SummonerID <= 0 {
			continue
		}
		if s, err := a.local.SummonerByID(ctx, members[i].SummonerID); err == nil && s.PUUID != "" {
			members[i].PUUID = s.PUUID
		}
	}
}

// ── Adapter C: champ-select fallback ──

// ChampSelectAdapter rebuilds a roster from the last pre-game selection
// state. Coarser than the live sources but it always has team membership
// and resolvable summoner ids.
type ChampSelectAdapter struct {
	local LocalAPI
	log   *zap.SugaredLogger
}

func NewChampSelectAdapter(local LocalAPI, log *zap.SugaredLogger) *ChampSelectAdapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ChampSelectAdapter{local: local, log: log}
}

func (a *ChampSelectAdapter) Name() string { return "champselect" }

func (a *ChampSelectAdapter) Fetch(ctx context.Context) *lcu.GameData {
	session, err := a.local.ChampSelectSession(ctx)
	if err != nil {
		a.log.Debugw("champ select session unavailable", "err", err)
		return nil
	}

	toMember := func(m lcu.ChampSelectMember) lcu.TeamMember {
		return lcu.TeamMember{SummonerID: m.SummonerID, PUUID: m.PUUID}
	}

	gd := &lcu.GameData{}
	if len(session.TheirTeam) == 0 && len(session.MyTeam) > 5 {
		// ARAM-style sessions put everyone in myTeam with mixed teamIds.
		firstTeam := session.MyTeam[0].TeamID
		for _, m := range session.MyTeam {
			if m.TeamID == firstTeam {
				gd.TeamOne = append(gd.TeamOne, toMember(m))
			} else {
				gd.TeamTwo = append(gd.TeamTwo, toMember(m))
			}
		}
	} else {
		for _, m := range session.MyTeam {
			gd.TeamOne = append(gd.TeamOne, toMember(m))
		}
		for _, m := range session.TheirTeam {
			gd.TeamTwo = append(gd.TeamTwo, toMember(m))
		}
	}

	// Selections give us champion and spell picks keyed by PUUID.
	for _, m := range session.MyTeam {
		if m.PUUID != "" && m.ChampionID > 0 {
			gd.Selections = append(gd.Selections, lcu.ChampionSelection{PUUID: m.PUUID, ChampionID: m.ChampionID})
		}
	}
	for _, m := range session.TheirTeam {
		if m.PUUID != "" && m.ChampionID > 0 {
			gd.Selections = append(gd.Selections, lcu.ChampionSelection{PUUID: m.PUUID, ChampionID: m.ChampionID})
		}
	}
	return gd
}

// ── Permissive session parsing ──

// ExtractGameData parses the gameflow session payload without trusting
// its types: individual field mismatches are skipped (and reported by
// name) rather than aborting the whole parse. Returns nil only when no
// roster shape could be recovered at all.
func ExtractGameData(body []byte) (*lcu.GameData, []string) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, nil
	}

	gdRaw, ok := probe(root, "gameData", "GameData")
	if !ok {
		// Some payloads are the gameData object itself.
		gdRaw = body
	}
	var gdMap map[string]json.RawMessage
	if err := json.Unmarshal(gdRaw, &gdMap); err != nil {
		return nil, nil
	}

	var unparsed []string
	gd := &lcu.GameData{}

	if raw, ok := probe(gdMap, "gameId", "GameId"); ok {
		if v, ok := decodeInt64(raw); ok {
			gd.GameID = v
		} else {
			unparsed = append(unparsed, "gameId")
		}
	}
	if raw, ok := probe(gdMap, "teamOne", "TeamOne", "team1", "Team1"); ok {
		gd.TeamOne = parseMembers(raw, "teamOne", &unparsed)
	}
	if raw, ok := probe(gdMap, "teamTwo", "TeamTwo", "team2", "Team2"); ok {
		gd.TeamTwo = parseMembers(raw, "teamTwo", &unparsed)
	}
	if raw, ok := probe(gdMap, "playerChampionSelections", "PlayerChampionSelections"); ok {
		var selections []lcu.ChampionSelection
		if err := json.Unmarshal(raw, &selections); err != nil {
			unparsed = append(unparsed, "playerChampionSelections")
		} else {
			gd.Selections = selections
		}
	}

	if len(gd.TeamOne) > 0 || len(gd.TeamTwo) > 0 {
		return gd, unparsed
	}

	// Custom/practice games populate only the selections list. Everyone
	// goes in the ally bucket provisionally; the reconciler corrects team
	// sides once identities are known.
	if len(gd.Selections) > 0 {
		for _, sel := range gd.Selections {
			gd.TeamOne = append(gd.TeamOne, lcu.TeamMember{PUUID: sel.PUUID})
		}
		return gd, unparsed
	}

	return nil, unparsed
}

// probe returns the first of the given keys present in m. The LCU has
// shipped several spellings of the same fields over the years.
func probe(m map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && len(v) > 0 && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func parseMembers(raw json.RawMessage, field string, unparsed *[]string) []lcu.TeamMember {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		*unparsed = append(*unparsed, field)
		return nil
	}
	members := make([]lcu.TeamMember, 0, len(items))
	for i, item := range items {
		var m lcu.TeamMember
		if v, ok := probe(item, "summonerId", "SummonerId"); ok {
			if id, ok := decodeInt64(v); ok {
				m.SummonerID = id
			} else {
				*unparsed = append(*unparsed, field+"["+strconv.Itoa(i)+"].summonerId")
			}
		}
		if v, ok := probe(item, "puuid", "Puuid"); ok {
			if s, ok := decodeString(v); ok {
				m.PUUID = s
			} else {
				*unparsed = append(*unparsed, field+"["+strconv.Itoa(i)+"].puuid")
			}
		}
		if v, ok := probe(item, "summonerName", "SummonerName", "displayName"); ok {
			if s, ok := decodeString(v); ok {
				m.SummonerName = s
			} else {
				*unparsed = append(*unparsed, field+"["+strconv.Itoa(i)+"].summonerName")
			}
		}
		members = append(members, m)
	}
	return members
}

// decodeInt64 accepts both numeric and quoted-numeric encodings.
func decodeInt64(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
