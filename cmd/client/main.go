package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurante/internal/api"
	"restaurante/internal/catalog"
	"restaurante/internal/config"
	"restaurante/internal/events"
	"restaurante/internal/location"
	"restaurante/internal/logging"
	"restaurante/internal/metrics"
	"restaurante/internal/models"
	"restaurante/internal/session"
	"restaurante/internal/storage"
	"restaurante/internal/tokenstore"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "client-main").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := openStorage(ctx, cfg, baseLogger)
	if err != nil {
		return err
	}
	defer kv.Close()

	accountTokens := tokenstore.New(models.AccountTokenKey, kv, baseLogger)
	defer accountTokens.Close()
	pushTokens := tokenstore.New(models.PushTokenKey, kv, baseLogger)
	defer pushTokens.Close()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	tz, err := time.LoadLocation(cfg.API.TimeZone)
	if err != nil {
		logger.Warn().Str("zone", cfg.API.TimeZone).Msg("unknown time zone, using local")
		tz = time.Local
	}

	client := api.NewHTTPClient(cfg.API, baseLogger)
	client.WatchTokens(accountTokens, pushTokens)

	// No platform location source is wired here; positions arrive through
	// Feed.Set from whatever front end embeds this layer.
	feed := location.NewFeed(nil, cfg.Location.PollInterval(), models.DefaultMaxDistance, baseLogger)
	go feed.Run(ctx)

	bus := events.NewBus()
	subscribeReservationEvents(bus, baseLogger)

	sess := session.New(client, accountTokens, baseLogger)
	cat := catalog.New(client, accountTokens, feed, bus, tz, baseLogger)

	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("client started")

	// Poll for reservation status changes while logged in; the catalog
	// diffs statuses on each refetch and publishes the transitions.
	ticker := time.NewTicker(cfg.API.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			if sess.Logged() {
				cat.FetchReservations(ctx)
			}
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (storage.KV, error) {
	if cfg.Storage.Backend == "redis" {
		redisClient := storage.NewRedisClient(cfg.Redis)
		if err := storage.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup, failover will cover it")
		}
		primary := storage.NewRedisKV(redisClient)
		return storage.NewFailoverKV(primary, storage.NewMemoryKV(), logger), nil
	}

	return storage.NewSQLiteKV(cfg.Storage.Path)
}

func subscribeReservationEvents(bus *events.Bus, logger *zerolog.Logger) {
	l := logger.With().Str("component", "reservation-events").Logger()

	decode := func(e *events.Event) (events.ReservationEventPayload, error) {
		var p events.ReservationEventPayload
		err := json.Unmarshal(e.Payload, &p)
		return p, err
	}

	bus.Subscribe(events.EventReservationCreated, func(e *events.Event) error {
		p, err := decode(e)
		if err != nil {
			return err
		}
		l.Info().Int64("reservation_id", p.ReservationID).Int64("restaurant_id", p.RestaurantID).Msg("reservation created")
		return nil
	})

	bus.Subscribe(events.EventReservationCanceled, func(e *events.Event) error {
		p, err := decode(e)
		if err != nil {
			return err
		}
		l.Info().Int64("reservation_id", p.ReservationID).Msg("reservation canceled")
		return nil
	})

	bus.Subscribe(events.EventReservationStatusChanged, func(e *events.Event) error {
		p, err := decode(e)
		if err != nil {
			return err
		}
		l.Info().
			Int64("reservation_id", p.ReservationID).
			Str("status", p.StatusName).
			Msg("reservation status changed")
		return nil
	})

	bus.Subscribe(events.EventSessionExpired, func(_ *events.Event) error {
		l.Warn().Msg("session expired, logged out locally")
		return nil
	})
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics listener started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics listener stopped")
	}
}
