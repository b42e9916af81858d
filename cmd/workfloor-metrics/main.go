package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/common/database"
	logpkg "github.com/Anshuman122/worker-productivity-dashboard-final/common/logger"
	mqttcommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/mqtt"
	rediscommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/redis"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/config"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/consumer"
	httpapi "github.com/Anshuman122/worker-productivity-dashboard-final/internal/http"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/metrics"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/publisher"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/seed"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "workfloor-metrics")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: Postgres when enabled and reachable, otherwise the in-memory store
	var db *sql.DB
	var eventsRepo repository.EventsRepository
	var identityRepo repository.IdentityRepository
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			logger.Info("DB enabled for workfloor-metrics", zap.String("database", cfg.Database.Database))
		} else {
			logger.Warn("DB enabled but connection failed, falling back to in-memory store", zap.Error(err))
		}
	}
	if db != nil {
		defer database.Close(db)
		eventsRepo = repository.NewPostgresEventsRepository(db)
		identityRepo = repository.NewPostgresIdentityRepository(db)
	} else {
		mem := repository.NewMemoryStore()
		eventsRepo = mem
		identityRepo = mem
	}

	var redisClient *rediscommon.Client
	if cfg.RedisRequired() {
		redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		defer rediscommon.Close(redisClient)
		if err := rediscommon.Ping(ctx, redisClient); err != nil {
			logger.Warn("Redis ping failed; stream features will retry in the background", zap.Error(err))
		}
	}

	var pub service.EventPublisher
	if cfg.Publish.Enabled {
		pub = publisher.NewStreamPublisher(redisClient, cfg.Publish.Stream, logger)
	}

	eventSvc := service.NewEventService(eventsRepo, identityRepo, pub, service.EventServiceConfig{
		DefaultLimit:           cfg.Events.DefaultLimit,
		MaxLimit:               cfg.Events.MaxLimit,
		RequireKnownIdentities: cfg.Events.RequireKnownIdentities,
	}, logger)
	identitySvc := service.NewIdentityService(identityRepo, logger)
	engine := metrics.NewEngine(metrics.Config{
		IntervalMinutes: cfg.Metrics.IntervalMinutes,
		ShiftHours:      cfg.Metrics.ShiftHours,
	})
	metricsSvc := service.NewMetricsService(eventsRepo, engine, logger)
	seedSvc := service.NewSeedService(eventsRepo, identityRepo, seed.NewGenerator(nil, nil), logger)

	healthChecks := map[string]httpapi.HealthCheck{}

	var mqttClient *mqttcommon.Client
	if cfg.MQTT.Enabled {
		mqttCfg := cfg.MQTT.MQTTConfig
		// unique client id per process so replicas do not kick each other off the broker
		mqttCfg.ClientID = fmt.Sprintf("%s-%s", mqttCfg.ClientID, uuid.New().String()[:8])
		c, err := mqttcommon.NewClient(&mqttCfg, logger)
		if err != nil {
			logger.Error("MQTT ingest disabled: connect failed", zap.Error(err))
		} else if err := c.Subscribe(cfg.MQTT.Topic, mqttCfg.QoS, consumer.NewMQTTIngestHandler(eventSvc, logger)); err != nil {
			logger.Error("MQTT ingest disabled: subscribe failed", zap.Error(err))
			c.Disconnect()
		} else {
			logger.Info("MQTT ingest subscribed", zap.String("topic", cfg.MQTT.Topic), zap.String("client_id", mqttCfg.ClientID))
			mqttClient = c
			healthChecks["mqtt"] = c.IsConnected
		}
	}

	router := httpapi.NewRouter(logger)
	router.RegisterHealthRoutes(healthChecks)
	router.RegisterEventRoutes(httpapi.NewEventHandler(eventSvc, logger))
	router.RegisterMetricsRoutes(httpapi.NewMetricsHandler(metricsSvc, logger))
	router.RegisterIdentityRoutes(httpapi.NewIdentityHandler(identitySvc, logger))
	router.RegisterSeedRoutes(httpapi.NewSeedHandler(seedSvc, eventSvc, logger))

	if cfg.StreamIngest.Enabled {
		c := consumer.NewStreamConsumer(
			redisClient,
			eventSvc,
			logger,
			cfg.StreamIngest.Stream,
			cfg.StreamIngest.ConsumerGroup,
			cfg.StreamIngest.ConsumerName,
			int64(cfg.StreamIngest.BatchSize),
		)
		go func() {
			if err := c.Start(ctx); err != nil {
				logger.Error("Stream ingest consumer stopped", zap.Error(err))
			}
		}()
	}

	srv := service.NewServer(cfg.HTTP.Addr, router.Handler(), service.ServerTimeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Read:       cfg.HTTP.ReadTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", zap.Error(err))
	}
	if mqttClient != nil {
		if err := mqttClient.Unsubscribe(cfg.MQTT.Topic); err != nil {
			logger.Warn("MQTT unsubscribe failed", zap.Error(err))
		}
		mqttClient.Disconnect()
	}
	logger.Info("Service stopped")
}
