package httpapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/config"
	"github.com/mixoverlays/roster/internal/session"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetPlayerProfile serves the dashboard data for one roster member.
// Profiles are always returned, possibly partial; the payload carries
// its own error notes.
func GetPlayerProfile(profiles ProfileSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		puuid := chi.URLParam(r, "puuid")
		if puuid == "" {
			http.Error(w, "missing puuid", http.StatusBadRequest)
			return
		}
		q := r.URL.Query()
		profile := profiles.LoadPlayerProfile(r.Context(), puuid, q.Get("name"), q.Get("tag"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	}
}

func GetStatus(status StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status.Status())
	}
}

// UpdateSettings applies a key and/or region change, persists it, and
// reports whether the key passes a platform-status probe. Unknown
// regions are rejected before anything is applied.
func UpdateSettings(cfg *config.Service, remote RemoteSettings, log *zap.SugaredLogger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RiotAPIKey *string `json:"riotApiKey"`
			Region     *string `json:"region"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		if req.Region != nil {
			region := strings.ToUpper(strings.TrimSpace(*req.Region))
			if !slices.Contains(config.Regions, region) {
				http.Error(w, "unknown region", http.StatusBadRequest)
				return
			}
			cfg.Current.Region = region
			remote.SetRegion(region)
		}
		if req.RiotAPIKey != nil {
			cfg.Current.RiotAPIKey = strings.TrimSpace(*req.RiotAPIKey)
			remote.SetAPIKey(cfg.Current.RiotAPIKey)
		}
		if err := cfg.Save(); err != nil {
			log.Warnw("settings save failed", "err", err)
		}

		keyValid := false
		if cfg.Current.RiotAPIKey != "" {
			keyValid = remote.PlatformStatus(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Region   string `json:"region"`
			KeyValid bool   `json:"keyValid"`
		}{Region: cfg.Current.Region, KeyValid: keyValid})
	}
}

// GetRoster returns the latest snapshot, or 204 when no game is known.
func GetRoster(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := ctrl.Latest()
		if snap == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// RefreshRoster forces a rebuild; the result arrives over the feed and
// is also returned inline.
func RefreshRoster(ctrl *session.Controller, log *zap.SugaredLogger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Refresh(r.Context()); err != nil {
			log.Warnw("manual roster refresh failed", "err", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		snap := ctrl.Latest()
		if snap == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}
