package roster

import (
	"context"

	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/lcu"
)

// Resolver turns partial identity fragments into canonical
// (PUUID, name, tag) triples. Each rung of the ladder degrades to the
// next on failure; total failure returns ok=false and the caller decides
// what to do with the member.
type Resolver struct {
	local  LocalAPI
	remote RemoteAPI
	log    *zap.SugaredLogger
}

func NewResolver(local LocalAPI, remote RemoteAPI, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{local: local, remote: remote, log: log}
}

// Resolve runs the resolution ladder:
//  1. PUUID → remote account lookup.
//  2. Summoner id → LCU summoner → PUUID → step 1; the LCU record's name
//     is kept as a fallback and retried against the remote riot-id lookup.
//  3. PUUID whose remote lookup failed → LCU by-puuid record.
//  4. Raw display name → LCU search by name, then recurse on whatever
//     identity that yields.
func (r *Resolver) Resolve(ctx context.Context, frag Fragment) (Identity, bool) {
	if frag.PUUID != "" {
		if id, ok := r.fromAccount(ctx, frag.PUUID, frag.RawName); ok {
			return id, true
		}
		// Remote rejected the PUUID (stale LCU data); try the LCU's own
		// by-puuid record for a name we can re-resolve with.
		if s, err := r.local.SummonerByPUUID(ctx, frag.PUUID); err == nil {
			if id, ok := r.fromLocalSummoner(ctx, s); ok {
				return id, true
			}
		}
	}

	if frag.SummonerID > 0 {
		if s, err := r.local.SummonerByID(ctx, frag.SummonerID); err == nil {
			if s.PUUID != "" && s.PUUID != frag.PUUID {
				if id, ok := r.fromAccount(ctx, s.PUUID, frag.RawName); ok {
					return id, true
				}
			}
			if id, ok := r.fromLocalSummoner(ctx, s); ok {
				return id, true
			}
		}
	}

	if frag.RawName != "" {
		name, _ := SplitRiotID(frag.RawName, "")
		if s, err := r.local.SummonerByName(ctx, name); err == nil {
			if id, ok := r.fromLocalSummoner(ctx, s); ok {
				return id, true
			}
		}
		// Last rung: the raw name may itself be a full riot id the remote
		// API can resolve directly.
		if gameName, tag := SplitRiotID(frag.RawName, ""); tag != "" {
			if acct, err := r.remote.AccountByRiotID(ctx, gameName, tag); err == nil {
				name, tag := SplitRiotID(acct.GameName, acct.TagLine)
				return Identity{PUUID: acct.PUUID, GameName: name, TagLine: tag}, true
			}
		}
	}

	r.log.Debugw("identity unresolvable", "puuid", frag.PUUID, "summonerId", frag.SummonerID, "rawName", frag.RawName)
	return Identity{}, false
}

// fromAccount validates a PUUID against the remote account endpoint and
// normalizes the returned name.
func (r *Resolver) fromAccount(ctx context.Context, puuid, rawName string) (Identity, bool) {
	acct, err := r.remote.AccountByPUUID(ctx, puuid)
	if err != nil {
		return Identity{}, false
	}
	gameName, tagLine := acct.GameName, acct.TagLine
	if gameName == "" {
		gameName = rawName
	}
	gameName, tagLine = SplitRiotID(gameName, tagLine)
	if gameName == "" {
		return Identity{}, false
	}
	return Identity{PUUID: acct.PUUID, GameName: gameName, TagLine: tagLine}, true
}

// fromLocalSummoner derives an identity from an LCU summoner record,
// preferring to re-validate through the remote riot-id endpoint.
func (r *Resolver) fromLocalSummoner(ctx context.Context, s *lcu.Summoner) (Identity, bool) {
	name := s.GameName
	if name == "" {
		name = s.DisplayName
	}
	name, tag := SplitRiotID(name, s.TagLine)
	if name == "" {
		return Identity{}, false
	}
	if acct, err := r.remote.AccountByRiotID(ctx, name, tag); err == nil {
		rn, rt := SplitRiotID(acct.GameName, acct.TagLine)
		return Identity{PUUID: acct.PUUID, GameName: rn, TagLine: rt}, true
	}
	if s.PUUID == "" {
		return Identity{}, false
	}
	return Identity{PUUID: s.PUUID, GameName: name, TagLine: tag}, true
}
