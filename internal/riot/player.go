package riot

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const matchPageSize = 10

// SetNameSource wires the champion id → display name lookup used when
// building profiles and match summaries. Defaults to an empty lookup.
func (c *Client) SetNameSource(nameOf func(championID int) string) {
	c.mu.Lock()
	c.nameOf = nameOf
	c.mu.Unlock()
}

func (c *Client) championName(id int) string {
	c.mu.Lock()
	f := c.nameOf
	c.mu.Unlock()
	if f == nil || id == 0 {
		return ""
	}
	return f(id)
}

// LoadPlayerProfile aggregates everything the dashboard shows for one
// player. Independent calls run in parallel; each failure degrades to a
// missing section and a note in Errors rather than failing the profile.
func (c *Client) LoadPlayerProfile(ctx context.Context, puuid, gameName, tagLine string) *PlayerProfile {
	profile := &PlayerProfile{
		PUUID:    puuid,
		GameName: gameName,
		TagLine:  tagLine,
	}

	var (
		summoner *Summoner
		leagues  []LeagueEntry
		mastery  []ChampionMastery
		matchIDs []string
		active   *ActiveGame
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { summoner, _ = c.SummonerByPUUID(gctx, puuid); return nil })
	g.Go(func() error { leagues, _ = c.LeagueEntriesByPUUID(gctx, puuid); return nil })
	g.Go(func() error { mastery, _ = c.TopMasteriesByPUUID(gctx, puuid, 5); return nil })
	g.Go(func() error { matchIDs, _ = c.MatchIDsByPUUID(gctx, puuid, 20, 0); return nil })
	g.Go(func() error { active, _ = c.ActiveGameByPUUID(gctx, puuid); return nil })
	_ = g.Wait()

	var missing []string

	if summoner != nil {
		profile.SummonerID = summoner.ID
		profile.ProfileIconID = summoner.ProfileIconID
		profile.SummonerLevel = summoner.SummonerLevel
	} else {
		missing = append(missing, "summoner")
	}

	if leagues != nil {
		for i := range leagues {
			switch leagues[i].QueueType {
			case "RANKED_SOLO_5x5":
				profile.SoloRank = &leagues[i]
			case "RANKED_FLEX_SR":
				profile.FlexRank = &leagues[i]
			}
		}
	} else {
		missing = append(missing, "ranked")
	}

	if mastery != nil {
		for i := range mastery {
			mastery[i].ChampionName = c.championName(mastery[i].ChampionID)
		}
		profile.TopMasteries = mastery
	} else {
		missing = append(missing, "masteries")
	}

	if len(matchIDs) > 0 {
		profile.MatchIDBuffer = matchIDs
		page := matchIDs
		if len(page) > matchPageSize {
			page = page[:matchPageSize]
		}
		profile.RecentMatches = c.loadMatchSummaries(ctx, puuid, page)
		profile.MatchesOffset = len(page)
	} else {
		missing = append(missing, "matches")
	}

	if active != nil {
		profile.InGame = true
		profile.ActiveGame = active
		profile.GameStartTime = active.GameStartTime
	}

	if len(missing) > 0 {
		profile.Partial = true
		profile.Errors = "missing: " + strings.Join(missing, ", ")
		if last := c.LastError(); last != "" {
			profile.Errors += " (" + last + ")"
		}
	}
	return profile
}

// LoadMoreMatches fetches the next page of match summaries for an already
// loaded profile and extends the id buffer when it runs dry. Returns the
// newly added summaries.
func (c *Client) LoadMoreMatches(ctx context.Context, profile *PlayerProfile) []MatchSummary {
	if !profile.HasMoreMatches() {
		return nil
	}
	end := profile.MatchesOffset + matchPageSize
	if end > len(profile.MatchIDBuffer) {
		end = len(profile.MatchIDBuffer)
	}
	page := profile.MatchIDBuffer[profile.MatchesOffset:end]
	added := c.loadMatchSummaries(ctx, profile.PUUID, page)
	profile.MatchesOffset = end
	profile.RecentMatches = append(profile.RecentMatches, added...)

	if !profile.HasMoreMatches() {
		if more, err := c.MatchIDsByPUUID(ctx, profile.PUUID, matchPageSize, len(profile.MatchIDBuffer)); err == nil && len(more) > 0 {
			profile.MatchIDBuffer = append(profile.MatchIDBuffer, more...)
		}
	}
	return added
}

// loadMatchSummaries fetches matches concurrently (bounded by the client
// semaphore) and returns summaries in the order of matchIDs. Failed
// matches are skipped.
func (c *Client) loadMatchSummaries(ctx context.Context, puuid string, matchIDs []string) []MatchSummary {
	results := make([]*MatchSummary, len(matchIDs))
	var wg sync.WaitGroup
	for i, id := range matchIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			match, err := c.MatchByID(ctx, id)
			if err != nil {
				c.log.Debugw("match fetch failed", "matchId", id, "err", err)
				return
			}
			results[i] = c.summarize(puuid, id, match)
		}(i, id)
	}
	wg.Wait()

	summaries := make([]MatchSummary, 0, len(matchIDs))
	for _, s := range results {
		if s != nil {
			summaries = append(summaries, *s)
		}
	}
	return summaries
}

func (c *Client) summarize(puuid, matchID string, match *Match) *MatchSummary {
	var me *MatchParticipant
	myIndex := -1
	for i := range match.Info.Participants {
		if match.Info.Participants[i].PUUID == puuid {
			me = &match.Info.Participants[i]
			myIndex = i
			break
		}
	}
	if me == nil {
		return nil
	}

	// Direct-lane opponent: same teamPosition on the other half of the
	// participant list (first five rows are team 100).
	var opponent *MatchParticipant
	if me.TeamPosition != "" && len(match.Info.Participants) == 10 {
		start := 0
		if myIndex < 5 {
			start = 5
		}
		for i := start; i < start+5; i++ {
			if match.Info.Participants[i].TeamPosition == me.TeamPosition {
				opponent = &match.Info.Participants[i]
				break
			}
		}
	}

	summary := &MatchSummary{
		MatchID:      matchID,
		Win:          me.Win,
		ChampionID:   me.ChampionID,
		ChampionName: me.ChampionName,
		Kills:        me.Kills,
		Deaths:       me.Deaths,
		Assists:      me.Assists,
		CS:           me.CS(),
		Position:     me.TeamPosition,
		GameDuration: match.Info.GameDuration,
		GameCreation: match.Info.GameCreation,
		QueueID:      match.Info.QueueID,
		Summoner1ID:  me.Summoner1ID,
		Summoner2ID:  me.Summoner2ID,
		PrimaryRune:  me.PrimaryRune(),
	}
	if opponent != nil {
		summary.OpponentChampionID = opponent.ChampionID
		summary.OpponentChampionName = opponent.ChampionName
	}

	for _, p := range match.Info.Participants {
		name := p.RiotIDGameName
		if name == "" {
			name = p.SummonerName
		}
		summary.Participants = append(summary.Participants, ParticipantSummary{
			PUUID:        p.PUUID,
			GameName:     name,
			TagLine:      p.RiotIDTagline,
			ChampionID:   p.ChampionID,
			ChampionName: p.ChampionName,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			CS:           p.CS(),
			Win:          p.Win,
			Position:     p.TeamPosition,
			TotalDamage:  p.DamageToChamps,
			GoldEarned:   p.GoldEarned,
			VisionScore:  p.VisionScore,
			Items:        [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6},
			Summoner1ID:  p.Summoner1ID,
			Summoner2ID:  p.Summoner2ID,
		})
	}
	return summary
}
