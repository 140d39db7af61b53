package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/config"
	"github.com/mixoverlays/roster/internal/ddragon"
	"github.com/mixoverlays/roster/internal/hub"
	"github.com/mixoverlays/roster/internal/httpapi"
	"github.com/mixoverlays/roster/internal/lcu"
	"github.com/mixoverlays/roster/internal/riot"
	"github.com/mixoverlays/roster/internal/roster"
	"github.com/mixoverlays/roster/internal/session"
	"github.com/mixoverlays/roster/internal/watcher"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.NewService("")
	if cfg.Current.RiotAPIKey == "" {
		log.Warnw("no riot api key configured, remote lookups will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Static game data loads in the background; lookups degrade to zero
	// values until it lands.
	dd := ddragon.NewService("", log)
	go dd.EnsureLoaded(ctx)

	remote := riot.NewClient(cfg.Current.RiotAPIKey, cfg.Current.Region, log)
	remote.SetNameSource(dd.NameOf)
	if cfg.Current.RiotAPIKey != "" {
		go func() {
			if !remote.PlatformStatus(ctx) {
				log.Warnw("riot api key failed validation", "detail", remote.LastError())
			}
		}()
	}

	holder := session.NewClientHolder(log)
	live := lcu.NewLiveClient(lcu.DefaultLiveBase)

	resolver := roster.NewResolver(holder, remote, log)
	reconciler := roster.NewReconciler(
		roster.NewLiveDataAdapter(live, log),
		roster.NewSessionAdapter(holder, log),
		roster.NewChampSelectAdapter(holder, log),
		holder, resolver, dd, log,
	)

	feed := hub.NewHub(ctx)
	ctrl := session.NewController(reconciler, feed, log)

	w := watcher.New(
		func(ctx context.Context) (watcher.Client, error) { return holder.Connect(ctx) },
		ctrl, cfg.Current.PollInterval, log,
	)
	go w.Run(ctx)
	go ctrl.RunEvents(ctx, w.Events())

	srv := &http.Server{
		Addr:    cfg.Current.ListenAddr,
		Handler: httpapi.SetupRoutes(feed, ctrl, w, remote, cfg, remote, log),
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Infow("overlay feed listening", "addr", cfg.Current.ListenAddr, "region", cfg.Current.Region)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server failed", "err", err)
	}
}
