package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/rikiki/go/clients"
	"github.com/mcdev12/rikiki/go/internal/dashboard"
	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/inspect"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/tui"
	"github.com/mcdev12/rikiki/go/internal/view"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(os.Getenv("RIKIKI_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if len(os.Args) > 1 {
		cfg.StatusURL = os.Args[1]
	}
	if err := cfg.validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logFile, err := setupLogging(cfg.Log.Level, cfg.Log.File, !cfg.Headless)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("dashboard exited with error")
		os.Exit(1)
	}
	log.Info().Msg("dashboard stopped")
}

func run(ctx context.Context, cfg *Config) error {
	client, err := clients.NewRikikiClient(cfg.StatusURL)
	if err != nil {
		return err
	}
	client.SetTimeout(cfg.HTTPTimeout)

	stale, _ := cfg.stalePolicy()
	session := poll.NewSession(cfg.pollConfig())
	broadcaster := events.NewBroadcaster()
	counters := events.NewCounters()
	sinks := events.Fanout{events.LogSink{Level: zerolog.DebugLevel}, broadcaster}

	if cfg.NATS.URL != "" {
		natsSink, err := events.NewNATSSink(ctx, cfg.natsConfig())
		if err != nil {
			return err
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}

	loc := i18n.New(cfg.Language)
	dash := dashboard.New(view.NewDocument(), session, client, dashboard.Config{
		SelfID:    cfg.SelfID,
		StaleRows: stale,
		Localizer: loc,
		Sink:      events.NewMetricSink(sinks, counters),
	})
	scheduler := poll.NewScheduler(nil, session, client, dash)
	dash.SetPoller(scheduler)

	log.Info().
		Str("session_id", session.ID.String()).
		Str("base_url", client.BaseURL()).
		Str("language", loc.Language().String()).
		Bool("headless", cfg.Headless).
		Msg("starting rikiki dashboard")

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if cfg.Inspector.Addr != "" {
		server := inspect.NewServer(dash, broadcaster, inspect.DefaultConnectionConfig()).
			WithCounters(counters).
			HTTPServer(cfg.Inspector.Addr)
		g.Go(func() error {
			log.Info().Str("addr", server.Addr).Msg("inspector listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return server.Shutdown(shutdownCtx)
		})
	}

	if !cfg.Headless {
		g.Go(func() error {
			// quitting the UI ends the process
			defer cancel()
			return tui.Run(ctx, dash)
		})
	}

	return g.Wait()
}
