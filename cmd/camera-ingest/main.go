package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/common/config"
	logpkg "github.com/Anshuman122/worker-productivity-dashboard-final/common/logger"
	mqttcommon "github.com/Anshuman122/worker-productivity-dashboard-final/common/mqtt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	apiURL := flag.String("api-url", "http://localhost:8080", "workfloor-metrics base URL")
	interval := flag.Duration("interval", 15*time.Second, "time between events")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error")
	transport := flag.String("transport", "http", "http posts to --api-url, mqtt publishes to --mqtt-broker")
	mqttBroker := flag.String("mqtt-broker", "tcp://localhost:1883", "MQTT broker for --transport=mqtt")
	mqttTopic := flag.String("mqtt-topic", "factory/events", "MQTT topic for --transport=mqtt")
	flag.Parse()

	logger, err := logpkg.NewLogger(*logLevel, "console", "camera-ingest")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *interval <= 0 {
		logger.Fatal("interval must be positive", zap.Duration("interval", *interval))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender eventSender
	switch *transport {
	case "http":
		sender = newIngestClient(*apiURL, logger)
	case "mqtt":
		mqttCfg := &config.MQTTConfig{
			Broker:   *mqttBroker,
			ClientID: "camera-ingest-" + uuid.New().String()[:8],
			QoS:      1,
		}
		mqttCfg.Username = os.Getenv("MQTT_USERNAME")
		mqttCfg.Password = os.Getenv("MQTT_PASSWORD")
		client, err := mqttcommon.NewClient(mqttCfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer client.Disconnect()
		sender = &mqttSender{pub: client, topic: *mqttTopic, qos: mqttCfg.QoS, logger: logger}
	default:
		logger.Fatal("unknown transport", zap.String("transport", *transport))
	}

	logger.Info("Starting simulated camera ingestion",
		zap.String("transport", *transport),
		zap.String("api_url", *apiURL),
		zap.Duration("interval", *interval),
		zap.Duration("duration", *duration),
	)

	start := time.Now()
	cl := newClassifier(rand.New(rand.NewSource(time.Now().UnixNano())))
	sent := run(ctx, sender, cl, *interval, *duration, logger)

	logger.Info("Simulation complete",
		zap.Int("events_sent", sent),
		zap.Duration("elapsed", time.Since(start).Round(100*time.Millisecond)),
	)
}
