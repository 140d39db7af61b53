package roster

import "testing"

func TestSpellNameToID(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"GeneratedTip_SummonerSpell_SummonerFlash_DisplayName", 4},
		{"GeneratedTip_SummonerSpell_SummonerDot_DisplayName", 14},
		{"GeneratedTip_SummonerSpell_SummonerHaste_DisplayName", 6},
		{"SummonerTeleport", 12},
		{"summonerflash", 4},
		{"  SummonerSmite  ", 11},
		{"", 0},
		{"GeneratedTip_SummonerSpell_SummonerUnheard_DisplayName", 0},
		{"garbage", 0},
	}
	for _, tc := range cases {
		if got := SpellNameToID(tc.raw); got != tc.want {
			t.Errorf("SpellNameToID(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestSplitRiotID(t *testing.T) {
	cases := []struct {
		combined, existing string
		wantName, wantTag  string
	}{
		{"Player#EUW", "", "Player", "EUW"},
		{"Player#EUW", "NA1", "Player", "NA1"},
		{"Player", "", "Player", ""},
		{"Player", "EUW", "Player", "EUW"},
		{"", "", "", ""},
		{"A#B#C", "", "A", "B#C"},
	}
	for _, tc := range cases {
		name, tag := SplitRiotID(tc.combined, tc.existing)
		if name != tc.wantName || tag != tc.wantTag {
			t.Errorf("SplitRiotID(%q, %q) = (%q, %q), want (%q, %q)",
				tc.combined, tc.existing, name, tag, tc.wantName, tc.wantTag)
		}
	}
}
