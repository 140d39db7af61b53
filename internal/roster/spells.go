package roster

import "strings"

// spellIDs maps DDragon internal spell names (lowercased) to numeric
// summoner spell ids. The live client data endpoint only gives us the
// templated display-name string, so this table is the translation step.
var spellIDs = map[string]int{
	"summonerflash":        4,
	"summonerteleport":     12,
	"summonerdot":          14, // Ignite
	"summonerexhaust":      3,
	"summonerhaste":        6, // Ghost
	"summonerheal":         7,
	"summonersmite":        11,
	"summonerbarrier":      21,
	"summonerclairvoyance": 2,
	"summonermana":         13, // Clarity
	"summonersnowball":     32,
	"summonerboost":        1, // Cleanse
	"summonerpororecall":   30,
	"summonerporothrow":    31,
}

const (
	spellPrefix = "GeneratedTip_SummonerSpell_"
	spellSuffix = "_DisplayName"
)

// SpellNameToID translates a raw spell display-name string, e.g.
// "GeneratedTip_SummonerSpell_SummonerFlash_DisplayName", to its numeric
// id. Unknown or empty names map to 0, meaning "unknown", never an error.
func SpellNameToID(raw string) int {
	if raw == "" {
		return 0
	}
	name := raw
	if len(name) >= len(spellPrefix) && strings.EqualFold(name[:len(spellPrefix)], spellPrefix) {
		name = name[len(spellPrefix):]
		name = strings.Replace(name, spellSuffix, "", 1)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	return spellIDs[name]
}

// SplitRiotID splits a possibly-composite "Name#Tag" string. A
// pre-existing non-empty tag always wins over the one embedded in the
// composite; splitting never overwrites known-good data.
func SplitRiotID(combined, existingTag string) (name, tag string) {
	name = combined
	tag = existingTag
	if i := strings.Index(combined, "#"); i >= 0 {
		name = combined[:i]
		if tag == "" {
			tag = combined[i+1:]
		}
	}
	return name, tag
}
