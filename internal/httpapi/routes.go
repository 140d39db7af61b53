package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/config"
	"github.com/mixoverlays/roster/internal/hub"
	"github.com/mixoverlays/roster/internal/riot"
	"github.com/mixoverlays/roster/internal/session"
	"github.com/mixoverlays/roster/internal/watcher"
	"github.com/mixoverlays/roster/internal/ws"
)

// StatusSource reports the watcher's connection state for /status.
type StatusSource interface {
	Status() watcher.Status
}

// ProfileSource serves the per-player dashboard data; satisfied by
// *riot.Client.
type ProfileSource interface {
	LoadPlayerProfile(ctx context.Context, puuid, gameName, tagLine string) *riot.PlayerProfile
}

// RemoteSettings is the runtime-reconfigurable slice of the remote
// client, also satisfied by *riot.Client.
type RemoteSettings interface {
	SetAPIKey(key string)
	SetRegion(region string)
	PlatformStatus(ctx context.Context) bool
}

func SetupRoutes(feed *hub.Hub, ctrl *session.Controller, status StatusSource, profiles ProfileSource, cfg *config.Service, remote RemoteSettings, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/status", GetStatus(status))
	r.Get("/roster", GetRoster(ctrl))
	r.Post("/roster/refresh", RefreshRoster(ctrl, log))
	r.Get("/players/{puuid}", GetPlayerProfile(profiles))
	r.Put("/settings", UpdateSettings(cfg, remote, log))
	r.Get("/ws", ws.Handler(feed, ctrl, log))
	return r
}
