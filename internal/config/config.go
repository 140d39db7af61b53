package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is what we persist between runs. Env vars (optionally from a
// .env file) override whatever the settings file has, so a dev key never
// needs to be written to disk.
type Settings struct {
	RiotAPIKey     string        `json:"riotApiKey"`
	Region         string        `json:"region"`
	PollInterval   time.Duration `json:"-"`
	ListenAddr     string        `json:"listenAddr"`
	OverlayOpacity float64       `json:"overlayOpacity"`
	OverlayHotkey  string        `json:"overlayHotkey"`
	ShowOverlay    bool          `json:"showOverlayInGame"`
}

func Defaults() Settings {
	return Settings{
		Region:         "EUW1",
		PollInterval:   3 * time.Second,
		ListenAddr:     "127.0.0.1:7730",
		OverlayOpacity: 0.92,
		OverlayHotkey:  "Ctrl+X",
		ShowOverlay:    true,
	}
}

// Service owns the settings file. Same shape as the rest of the app's
// collaborators: construct once, pass by reference.
type Service struct {
	path    string
	Current Settings
}

func NewService(path string) *Service {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		path = filepath.Join(dir, "mixoverlays", "settings.json")
	}
	s := &Service{path: path, Current: Defaults()}
	s.load()
	s.applyEnv()
	return s
}

func (s *Service) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	// Corrupt settings are not fatal; we fall back to defaults.
	_ = json.Unmarshal(data, &s.Current)
	if s.Current.Region == "" {
		s.Current.Region = Defaults().Region
	}
	if s.Current.ListenAddr == "" {
		s.Current.ListenAddr = Defaults().ListenAddr
	}
}

func (s *Service) applyEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("RIOT_API_KEY"); v != "" {
		s.Current.RiotAPIKey = v
	}
	if v := os.Getenv("RIOT_REGION"); v != "" {
		s.Current.Region = v
	}
	if v := os.Getenv("ROSTER_LISTEN_ADDR"); v != "" {
		s.Current.ListenAddr = v
	}
	if v := os.Getenv("ROSTER_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Current.PollInterval = time.Duration(n) * time.Second
		}
	}
}

func (s *Service) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Current, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

var Regions = []string{"EUW1", "EUN1", "NA1", "KR", "JP1", "BR1", "LA1", "LA2", "OC1", "TR1", "RU"}

// RegionalRoute maps a platform region to the regional routing value the
// account/match APIs are sharded by.
func RegionalRoute(platform string) string {
	switch strings.ToUpper(platform) {
	case "EUW1", "EUN1", "TR1", "RU":
		return "EUROPE"
	case "NA1", "BR1", "LA1", "LA2":
		return "AMERICAS"
	case "KR", "JP1":
		return "ASIA"
	case "OC1":
		return "SEA"
	default:
		return "EUROPE"
	}
}
