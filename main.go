package main

import (
	"context"
	"log"

	"cleaning-hub/cmd"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/internal/wire"
	"cleaning-hub/pkg/cache"
	"cleaning-hub/pkg/database"
	"cleaning-hub/pkg/events"
	"cleaning-hub/pkg/mailer"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database connected and migrated")

	infra := &wire.Infra{}

	if config.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting and idempotency disabled", zap.Error(err))
		} else {
			defer client.Close()
			infra.Cache = client
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if config.NATS.URL != "" {
		nc, err := events.NewNATSPublisher(config.NATS.URL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, events will only be logged", zap.Error(err))
		} else {
			publisher = nc
			logger.Info("NATS connected", zap.String("url", config.NATS.URL))
		}
	}
	defer publisher.Close()

	infra.Notifier = usecase.NewNotificationService(
		mailer.New(config.Email, logger),
		publisher,
		config.Notification,
		logger,
	)

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, infra, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger, app.Shutdown); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
