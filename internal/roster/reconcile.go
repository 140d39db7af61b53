package roster

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mixoverlays/roster/internal/lcu"
)

// ErrNoRosterSource means every adapter came back empty and there was no
// local summoner to synthesize a roster from.
var ErrNoRosterSource = errors.New("roster: no source produced a roster")

// Reconciler merges the candidate rosters from the three adapters into
// one resolved Snapshot. Source priority is fixed: live data beats the
// gameflow session beats champ select; lower-priority sources still
// contribute fields the winner lacks.
type Reconciler struct {
	liveData    Adapter
	session     Adapter
	champSelect Adapter

	local    LocalAPI
	resolver *Resolver
	names    NameSource
	log      *zap.SugaredLogger

	generation atomic.Uint64
}

func NewReconciler(liveData, session, champSelect Adapter, local LocalAPI, resolver *Resolver, names NameSource, log *zap.SugaredLogger) *Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reconciler{
		liveData:    liveData,
		session:     session,
		champSelect: champSelect,
		local:       local,
		resolver:    resolver,
		names:       names,
		log:         log,
	}
}

// Build fetches all sources, reconciles them, and resolves every member
// to a canonical identity. Members whose identity cannot be resolved are
// dropped rather than emitted half-known. The returned snapshot carries
// a generation strictly greater than any previously returned one.
func (r *Reconciler) Build(ctx context.Context) (*Snapshot, error) {
	me, err := r.local.CurrentSummoner(ctx)
	if err != nil {
		return nil, err
	}

	// The adapters are independent reads; run them together.
	var candA, candB, candC *lcu.GameData
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); candA = r.liveData.Fetch(ctx) }()
	go func() { defer wg.Done(); candB = r.session.Fetch(ctx) }()
	go func() { defer wg.Done(); candC = r.champSelect.Fetch(ctx) }()
	wg.Wait()

	chosen, source := r.choose(candA, candB, candC)
	if chosen == nil {
		// Nothing knows about a game; emit the local player alone so the
		// overlay still has something to show.
		if me.PUUID == "" {
			return nil, ErrNoRosterSource
		}
		r.log.Infow("no roster source, synthesizing self-only roster")
		return r.stamp(&Snapshot{Allies: []Member{r.selfMember(me)}}), nil
	}
	r.log.Debugw("roster source chosen", "source", source,
		"teamOne", len(chosen.TeamOne), "teamTwo", len(chosen.TeamTwo))

	// The live data endpoint rarely has PUUIDs; when the session agrees on
	// roster length the two lists are in the same order, so identities can
	// be carried across by position.
	if source == r.liveData.Name() && candB != nil {
		backfillByPosition(chosen.TeamOne, candB.TeamOne)
		backfillByPosition(chosen.TeamTwo, candB.TeamTwo)
	}

	selections := mergeSelections(candB, candC)

	teamOne := r.resolveTeam(ctx, chosen.TeamOne, selections)
	teamTwo := r.resolveTeam(ctx, chosen.TeamTwo, selections)
	if len(teamOne) == 0 && len(teamTwo) == 0 {
		if me.PUUID == "" {
			return nil, ErrNoRosterSource
		}
		r.log.Warnw("all roster members unresolvable, synthesizing self-only roster")
		return r.stamp(&Snapshot{GameID: chosen.GameID, Allies: []Member{r.selfMember(me)}}), nil
	}

	allies, enemies := teamOne, teamTwo
	if containsPUUID(teamTwo, me.PUUID) {
		allies, enemies = teamTwo, teamOne
	}
	setSide(allies, SideAlly)
	setSide(enemies, SideEnemy)

	return r.stamp(&Snapshot{GameID: chosen.GameID, Allies: allies, Enemies: enemies}), nil
}

func (r *Reconciler) choose(a, b, c *lcu.GameData) (*lcu.GameData, string) {
	usable := func(gd *lcu.GameData) bool {
		return gd != nil && (len(gd.TeamOne) > 0 || len(gd.TeamTwo) > 0)
	}
	switch {
	case usable(a):
		return a, r.liveData.Name()
	case usable(b):
		return b, r.session.Name()
	case usable(c):
		return c, r.champSelect.Name()
	}
	return nil, ""
}

// resolveTeam resolves each member concurrently and keeps only the ones
// with a usable identity. Order of survivors is preserved.
func (r *Reconciler) resolveTeam(ctx context.Context, raw []lcu.TeamMember, selections map[string]lcu.ChampionSelection) []Member {
	resolved := make([]*Member, len(raw))
	g, ctx := errgroup.WithContext(ctx)
	for i, tm := range raw {
		g.Go(func() error {
			id, ok := r.resolver.Resolve(ctx, Fragment{
				PUUID:      tm.PUUID,
				SummonerID: tm.SummonerID,
				RawName:    tm.SummonerName,
			})
			if !ok {
				r.log.Debugw("dropping unresolvable member",
					"puuid", tm.PUUID, "summonerId", tm.SummonerID, "rawName", tm.SummonerName)
				return nil
			}
			m := &Member{
				PUUID:        id.PUUID,
				SummonerID:   tm.SummonerID,
				GameName:     id.GameName,
				TagLine:      id.TagLine,
				ChampionName: tm.ChampionName,
				Spell1ID:     tm.Spell1ID,
				Spell2ID:     tm.Spell2ID,
			}
			r.enrich(ctx, m, selections)
			resolved[i] = m
			return nil
		})
	}
	g.Wait()

	members := make([]Member, 0, len(raw))
	for _, m := range resolved {
		if m != nil {
			members = append(members, *m)
		}
	}
	return members
}

// enrich fills champion and spell fields from the selections map and the
// name source, and as a last resort asks the LCU for the member's spell
// picks directly. Selection records are authoritative: a populated
// selection field replaces whatever the winning adapter reported, while
// an empty one never erases adapter data.
func (r *Reconciler) enrich(ctx context.Context, m *Member, selections map[string]lcu.ChampionSelection) {
	if sel, ok := selections[m.PUUID]; ok {
		if sel.ChampionID > 0 && sel.ChampionID != m.ChampionID {
			m.ChampionID = sel.ChampionID
			m.ChampionName = ""
		}
		if sel.Spell1ID > 0 {
			m.Spell1ID = sel.Spell1ID
		}
		if sel.Spell2ID > 0 {
			m.Spell2ID = sel.Spell2ID
		}
	}
	if r.names != nil {
		if m.ChampionName == "" && m.ChampionID > 0 {
			m.ChampionName = r.names.NameOf(m.ChampionID)
		}
		if m.ChampionID == 0 && m.ChampionName != "" {
			m.ChampionID = r.names.IDOf(m.ChampionName)
		}
	}
	if m.Spell1ID == 0 && m.Spell2ID == 0 && m.SummonerID > 0 {
		if sp, err := r.local.SummonerSpellsByID(ctx, m.SummonerID); err == nil && sp != nil {
			if sp.One != nil {
				m.Spell1ID = SpellNameToID(sp.One.RawDisplayName)
			}
			if sp.Two != nil {
				m.Spell2ID = SpellNameToID(sp.Two.RawDisplayName)
			}
		}
	}
}

func (r *Reconciler) selfMember(me *lcu.Summoner) Member {
	name := me.GameName
	if name == "" {
		name = me.DisplayName
	}
	name, tag := SplitRiotID(name, me.TagLine)
	return Member{
		PUUID:      me.PUUID,
		SummonerID: me.SummonerID,
		GameName:   name,
		TagLine:    tag,
		Side:       SideAlly,
	}
}

func (r *Reconciler) stamp(s *Snapshot) *Snapshot {
	s.Generation = r.generation.Add(1)
	return s
}

// backfillByPosition copies identity fields from donor into dst at equal
// indexes. Only valid when both lists describe the same team in the same
// order, which holds when their lengths agree.
func backfillByPosition(dst, donor []lcu.TeamMember) {
	if len(dst) == 0 || len(dst) != len(donor) {
		return
	}
	for i := range dst {
		if dst[i].PUUID == "" {
			dst[i].PUUID = donor[i].PUUID
		}
		if dst[i].SummonerID == 0 {
			dst[i].SummonerID = donor[i].SummonerID
		}
	}
}

// mergeSelections collects champion selections keyed by PUUID; entries
// from b win over entries from c.
func mergeSelections(b, c *lcu.GameData) map[string]lcu.ChampionSelection {
	out := make(map[string]lcu.ChampionSelection)
	if c != nil {
		for _, sel := range c.Selections {
			if sel.PUUID != "" {
				out[sel.PUUID] = sel
			}
		}
	}
	if b != nil {
		for _, sel := range b.Selections {
			if sel.PUUID != "" {
				out[sel.PUUID] = sel
			}
		}
	}
	return out
}

func containsPUUID(members []Member, puuid string) bool {
	if puuid == "" {
		return false
	}
	for _, m := range members {
		if m.PUUID == puuid {
			return true
		}
	}
	return false
}

func setSide(members []Member, side TeamSide) {
	for i := range members {
		members[i].Side = side
	}
}
