// Package ddragon loads static reference tables (champion names, summoner
// spells, rune icons) from the Data Dragon CDN. The tables are fetched once
// per process and cached; every lookup degrades to an "unknown" value when
// the fetch failed, never to an error.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultBase = "https://ddragon.leagueoflegends.com"

// fallbackVersion is used when versions.json is unreachable.
const fallbackVersion = "15.1.1"

type Service struct {
	base string
	http *http.Client
	log  *zap.SugaredLogger

	mu       sync.RWMutex
	loaded   bool
	version  string
	idToName map[int]string
	idToKey  map[int]string
	nameToID map[string]int
	spells   map[int]string // spell id -> DDragon name ("SummonerFlash")
	runes    map[int]string // perk id -> icon path
}

func NewService(base string, log *zap.SugaredLogger) *Service {
	if base == "" {
		base = defaultBase
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		base:     base,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
		version:  fallbackVersion,
		idToName: map[int]string{},
		idToKey:  map[int]string{},
		nameToID: map[string]int{},
		spells:   map[int]string{},
		runes:    map[int]string{},
	}
}

func (s *Service) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ddragon: %d on %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// EnsureLoaded fetches the version manifest and data tables if they have
// not been loaded yet. Safe to call from any goroutine; only the first
// successful call does network work.
func (s *Service) EnsureLoaded(ctx context.Context) {
	s.mu.RLock()
	done := s.loaded
	s.mu.RUnlock()
	if done {
		return
	}

	var versions []string
	if err := s.getJSON(ctx, "/api/versions.json", &versions); err != nil || len(versions) == 0 {
		s.log.Warnw("ddragon versions fetch failed, using fallback", "err", err, "version", fallbackVersion)
	}
	version := fallbackVersion
	if len(versions) > 0 {
		version = versions[0]
	}

	idToName, idToKey, nameToID, err := s.loadChampions(ctx, version)
	if err != nil {
		s.log.Warnw("ddragon champion table fetch failed", "err", err)
		return // leave loaded=false, retry on next call
	}
	spells := s.loadSpells(ctx, version)
	runes := s.loadRunes(ctx, version)

	s.mu.Lock()
	s.version = version
	s.idToName = idToName
	s.idToKey = idToKey
	s.nameToID = nameToID
	s.spells = spells
	s.runes = runes
	s.loaded = true
	s.mu.Unlock()
	s.log.Infow("ddragon tables loaded", "version", version, "champions", len(idToName), "spells", len(spells))
}

type championEntry struct {
	Name string `json:"name"`
	Key  string `json:"key"` // numeric id, as a string
}

func (s *Service) loadChampions(ctx context.Context, version string) (map[int]string, map[int]string, map[string]int, error) {
	var payload struct {
		Data map[string]championEntry `json:"data"`
	}
	if err := s.getJSON(ctx, "/cdn/"+version+"/data/en_US/champion.json", &payload); err != nil {
		return nil, nil, nil, err
	}
	idToName := make(map[int]string, len(payload.Data))
	idToKey := make(map[int]string, len(payload.Data))
	nameToID := make(map[string]int, len(payload.Data))
	for ddKey, entry := range payload.Data {
		id, err := strconv.Atoi(entry.Key)
		if err != nil {
			continue
		}
		idToName[id] = entry.Name
		idToKey[id] = ddKey
		nameToID[entry.Name] = id
		// Some feeds return the DDragon key ("MonkeyKing") instead of the
		// display name ("Wukong").
		nameToID[ddKey] = id
	}
	return idToName, idToKey, nameToID, nil
}

func (s *Service) loadSpells(ctx context.Context, version string) map[int]string {
	var payload struct {
		Data map[string]struct {
			Key string `json:"key"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, "/cdn/"+version+"/data/en_US/summoner.json", &payload); err != nil {
		s.log.Warnw("ddragon spell table fetch failed", "err", err)
		return map[int]string{}
	}
	spells := make(map[int]string, len(payload.Data))
	for ddName, entry := range payload.Data {
		if id, err := strconv.Atoi(entry.Key); err == nil {
			spells[id] = ddName
		}
	}
	return spells
}

func (s *Service) loadRunes(ctx context.Context, version string) map[int]string {
	var styles []struct {
		ID    int    `json:"id"`
		Icon  string `json:"icon"`
		Slots []struct {
			Runes []struct {
				ID   int    `json:"id"`
				Icon string `json:"icon"`
			} `json:"runes"`
		} `json:"slots"`
	}
	if err := s.getJSON(ctx, "/cdn/"+version+"/data/en_US/runesReforged.json", &styles); err != nil {
		s.log.Warnw("ddragon rune table fetch failed", "err", err)
		return map[int]string{}
	}
	runes := map[int]string{}
	for _, style := range styles {
		runes[style.ID] = style.Icon
		for _, slot := range style.Slots {
			for _, r := range slot.Runes {
				runes[r.ID] = r.Icon
			}
		}
	}
	return runes
}

// Version returns the loaded patch version (or the fallback).
func (s *Service) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// NameOf maps a champion id to its display name, "" when unknown.
func (s *Service) NameOf(championID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idToName[championID]
}

// KeyOf maps a champion id to its DDragon key ("VelKoz"), "" when unknown.
func (s *Service) KeyOf(championID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idToKey[championID]
}

// IDOf maps a champion display name or DDragon key to its id, 0 when unknown.
func (s *Service) IDOf(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameToID[name]
}

// SpellNameOf maps a summoner spell id to its DDragon name, "" when unknown.
func (s *Service) SpellNameOf(spellID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spells[spellID]
}

// RuneIconPath maps a perk id to its icon path, "" when unknown.
func (s *Service) RuneIconPath(perkID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runes[perkID]
}
