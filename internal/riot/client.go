package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/mixoverlays/roster/internal/config"
)

var (
	ErrNotFound    = errors.New("riot: not found")
	ErrRateLimited = errors.New("riot: rate limited")
	ErrStatus      = errors.New("riot: unexpected status")
)

const (
	cacheTTL = 3 * time.Minute
	// Riot dev keys allow ~20 req/s burst but sustained traffic needs
	// pacing; one request per 1.2 s per host keeps a key healthy.
	minRequestInterval = 1200 * time.Millisecond
	rateLimitBackoff   = 5 * time.Second
	maxInFlight        = 5
)

// Client is the remote Riot API collaborator. All calls go through one
// cached, paced GET helper; individual endpoint failures surface as nil
// results plus a user-visible status string, never as panics.
type Client struct {
	apiKey string
	log    *zap.SugaredLogger
	http   *http.Client
	cache  *responseCache
	sem    *semaphore.Weighted

	platformBase string
	regionalBase string

	minInterval time.Duration
	rateBackoff time.Duration

	mu           sync.Mutex
	lastRequest  map[string]time.Time
	backoffUntil map[string]time.Time
	lastError    string
	nameOf       func(championID int) string
}

func NewClient(apiKey, region string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Client{
		apiKey:       apiKey,
		log:          log,
		http:         &http.Client{Timeout: 10 * time.Second},
		cache:        newResponseCache(cacheTTL),
		sem:          semaphore.NewWeighted(maxInFlight),
		minInterval:  minRequestInterval,
		rateBackoff:  rateLimitBackoff,
		lastRequest:  map[string]time.Time{},
		backoffUntil: map[string]time.Time{},
	}
	c.SetRegion(region)
	return c
}

// SetBaseURLs overrides both API hosts. Used by tests.
func (c *Client) SetBaseURLs(platform, regional string) {
	c.platformBase = platform
	c.regionalBase = regional
}

// SetAPIKey swaps the key without rebuilding the client and drops cached
// responses fetched under the old key.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
	c.cache.clear()
}

// SetRegion re-points both API hosts at a new platform region and drops
// responses cached for the old one.
func (c *Client) SetRegion(region string) {
	c.platformBase = "https://" + strings.ToLower(region) + ".api.riotgames.com"
	c.regionalBase = "https://" + strings.ToLower(config.RegionalRoute(region)) + ".api.riotgames.com"
	c.cache.clear()
}

// LastError returns the most recent human-readable HTTP failure, for the
// UI status line.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

// pace blocks until the per-host spacing and any active 429 backoff for
// the host have elapsed.
func (c *Client) pace(ctx context.Context, host string) error {
	c.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if until, ok := c.backoffUntil[host]; ok && until.After(now) {
		wait = until.Sub(now)
	}
	if last, ok := c.lastRequest[host]; ok {
		if gap := c.minInterval - now.Sub(last); gap > wait {
			wait = gap
		}
	}
	c.lastRequest[host] = now.Add(wait)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any, useCache bool) error {
	if useCache {
		if body, ok := c.cache.get(rawURL); ok {
			return json.Unmarshal(body, v)
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if err := c.pace(ctx, u.Host); err != nil {
		return err
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	req.Header.Set("X-Riot-Token", c.apiKey)
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		c.setLastError(err.Error())
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		c.mu.Lock()
		c.backoffUntil[u.Host] = time.Now().Add(c.rateBackoff)
		c.lastError = fmt.Sprintf("HTTP 429 on %s", u.Path)
		c.mu.Unlock()
		c.log.Warnw("riot rate limited", "host", u.Host, "path", u.Path)
		return ErrRateLimited
	default:
		c.setLastError(fmt.Sprintf("HTTP %d on %s", resp.StatusCode, u.Path))
		return fmt.Errorf("%w: %d on %s", ErrStatus, resp.StatusCode, u.Path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if useCache {
		c.cache.put(rawURL, body)
	}
	return json.Unmarshal(body, v)
}

// ── Account API ──

func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := c.regionalBase + "/riot/account/v1/accounts/by-riot-id/" +
		url.PathEscape(gameName) + "/" + url.PathEscape(tagLine)
	var a Account
	if err := c.getJSON(ctx, u, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) AccountByPUUID(ctx context.Context, puuid string) (*Account, error) {
	u := c.regionalBase + "/riot/account/v1/accounts/by-puuid/" + url.PathEscape(puuid)
	var a Account
	if err := c.getJSON(ctx, u, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

// ── Summoner API ──

func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	u := c.platformBase + "/lol/summoner/v4/summoners/by-puuid/" + url.PathEscape(puuid)
	var s Summoner
	if err := c.getJSON(ctx, u, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

// ── League API ──

func (c *Client) LeagueEntriesByPUUID(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	u := c.platformBase + "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)
	var entries []LeagueEntry
	if err := c.getJSON(ctx, u, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

// ── Champion Mastery API ──

func (c *Client) TopMasteriesByPUUID(ctx context.Context, puuid string, count int) ([]ChampionMastery, error) {
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top?count=%d",
		c.platformBase, url.PathEscape(puuid), count)
	var masteries []ChampionMastery
	if err := c.getJSON(ctx, u, &masteries, true); err != nil {
		return nil, err
	}
	return masteries, nil
}

// ── Match API v5 ──

func (c *Client) MatchIDsByPUUID(ctx context.Context, puuid string, count, start int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d&start=%d",
		c.regionalBase, url.PathEscape(puuid), count, start)
	var ids []string
	if err := c.getJSON(ctx, u, &ids, true); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) MatchByID(ctx context.Context, matchID string) (*Match, error) {
	u := c.regionalBase + "/lol/match/v5/matches/" + url.PathEscape(matchID)
	var m Match
	if err := c.getJSON(ctx, u, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

// ── Spectator API ──

// ActiveGameByPUUID looks up the player's running game. Spectator v5 takes
// a PUUID directly; when it fails we fall back to v4 via the summoner id
// and adapt the shape. Spectator responses are never cached: a stale
// "in game" answer is worse than an extra call. A (nil, nil) return means
// "not in game".
func (c *Client) ActiveGameByPUUID(ctx context.Context, puuid string) (*ActiveGame, error) {
	u5 := c.platformBase + "/lol/spectator/v5/active-games/by-summoner/" + url.PathEscape(puuid)
	var game ActiveGame
	err := c.getJSON(ctx, u5, &game, false)
	if err == nil {
		return &game, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	c.log.Debugw("spectator v5 failed, trying v4", "err", err)

	summoner, serr := c.SummonerByPUUID(ctx, puuid)
	if serr != nil || summoner.ID == "" {
		return nil, err
	}
	u4 := c.platformBase + "/lol/spectator/v4/active-games/by-summoner/" + url.PathEscape(summoner.ID)
	var v4 activeGameV4
	if err := c.getJSON(ctx, u4, &v4, false); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	adapted := &ActiveGame{
		GameID:        v4.GameID,
		GameMode:      v4.GameMode,
		GameType:      v4.GameType,
		GameStartTime: v4.GameStartTime,
	}
	for _, p := range v4.Participants {
		adapted.Participants = append(adapted.Participants, GameParticipant{
			// v4 has no puuid; the caller asked about one player, so tag
			// every row with theirs and match on summoner name elsewhere.
			PUUID:        puuid,
			SummonerName: p.SummonerName,
			ChampionID:   p.ChampionID,
			TeamID:       p.TeamID,
			Spell1ID:     p.Spell1ID,
			Spell2ID:     p.Spell2ID,
		})
	}
	return adapted, nil
}

// PlatformStatus probes the status endpoint, mostly to validate the key.
func (c *Client) PlatformStatus(ctx context.Context) bool {
	u := c.platformBase + "/lol/status/v4/platform-data"
	var raw json.RawMessage
	err := c.getJSON(ctx, u, &raw, false)
	return err == nil
}
