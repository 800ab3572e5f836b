package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-board/internal/config"
	"job-board/internal/database"
	"job-board/internal/delivery/ws"
	"job-board/internal/domain/event"
	"job-board/internal/domain/notification"
	"job-board/internal/infrastructure/events"
	"job-board/internal/infrastructure/notifier"
	"job-board/internal/logger"
	"job-board/internal/metrics"
	"job-board/internal/routes"
	"job-board/pkg/mqtt"
	"job-board/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	store, err := database.Open(startupCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	secrets := map[utils.TokenPurpose]string{
		utils.PurposeActivation: cfg.JWT.ActivationSecret,
		utils.PurposeAccess:     cfg.JWT.AccessSecret,
		utils.PurposeRefresh:    cfg.JWT.RefreshSecret,
	}
	if cfg.JWT.ResetSecret != "" {
		secrets[utils.PurposeReset] = cfg.JWT.ResetSecret
	}
	tokens, err := utils.NewTokenIssuer(secrets)
	if err != nil {
		logger.Fatal("Failed to configure token issuer", zap.Error(err))
	}

	m := metrics.New()

	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	hub := ws.NewHub(cfg.CORS.AllowedOrigins, m)
	go hub.Run(appCtx)

	var publisher event.Publisher = hub
	var broker routes.BrokerStatus
	if cfg.MQTT.Enabled {
		client := mqtt.NewClient(mqtt.DefaultConfig(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Username, cfg.MQTT.Password))
		if err := client.Connect(startupCtx); err != nil {
			logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer client.Disconnect()

		bus := events.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix)
		if err := bus.Relay(appCtx, hub); err != nil {
			logger.Fatal("Failed to subscribe job feed to MQTT", zap.Error(err))
		}
		publisher = bus
		broker = client
	}

	router := routes.SetupRoutes(cfg, &routes.Dependencies{
		Store:     store,
		Tokens:    tokens,
		Hasher:    utils.NewBcryptHasher(cfg.Auth.BcryptCost),
		Notifier:  newNotifier(cfg),
		Publisher: events.NewInstrumented(publisher, m),
		Hub:       hub,
		Metrics:   m,
		Broker:    broker,

		Background: appCtx,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopBackground()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func newNotifier(cfg *config.Config) notification.Notifier {
	if cfg.Auth.Notifier == config.NotifierLog {
		logger.Warn("Log notifier active, emails are written to the log only")
		return notifier.NewLogNotifier()
	}
	return notifier.NewSMTPNotifier(&cfg.SMTP)
}
