package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aiuniverse/universe/internal/otel"
	"github.com/aiuniverse/universe/internal/s3wrap"
	"github.com/aiuniverse/universe/portal/internal/analytics"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/chat"
	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/aiuniverse/universe/portal/internal/cron"
	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model/migrations"
	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/files"
	"github.com/aiuniverse/universe/portal/internal/handler"
	"github.com/aiuniverse/universe/portal/internal/kvs"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/aiuniverse/universe/portal/internal/services/mcp"
	"github.com/aiuniverse/universe/portal/internal/subscriptions"
	"github.com/aiuniverse/universe/portal/internal/translations"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const databaseWaitTimeout = 30 * time.Second

func createDatabaseClient(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	client, err := db.NewClient(db.ConnOptions{
		Host:       cfg.PostgresAddress,
		Port:       cfg.PostgresPort,
		User:       cfg.PostgresUser,
		Password:   cfg.PostgresPassword,
		Database:   cfg.PostgresDB,
		SSLMode:    cfg.PostgresSSLMode,
		CACertPath: cfg.PostgresCACertPath,
	})
	if err != nil {
		return nil, err
	}

	if err := db.WaitReady(ctx, client, databaseWaitTimeout); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func createRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redis := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Username: cfg.RedisUser,
		Password: cfg.RedisPassword,
	})
	if _, err := redis.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	if err := redisotel.InstrumentTracing(redis); err != nil {
		return nil, err
	}

	return redis, nil
}

func createFileService(ctx context.Context, cfg *config.Config) (*files.FileService, error) {
	if cfg.S3Bucket == "" {
		slog.Info("File storage is disabled because no bucket is configured")
		return nil, nil
	}

	client, err := s3wrap.New(ctx, cfg.S3ForcePathStyle)
	if err != nil {
		return nil, err
	}

	return files.New(files.NewS3Storage(client, cfg.S3Bucket), cfg.S3PublicBaseURL), nil
}

func runMigration(ctx context.Context, cfg *config.Config) {
	db, err := createDatabaseClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create database client", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrations.Migrate(ctx, migrator); err != nil {
		slog.Error("Failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
}

func startWeb(ctx context.Context, cfg *config.Config) {
	tp, err := otel.InitializeTracer(ctx, "universe-web")
	if err != nil {
		slog.Error("Failed to initialize OpenTelemetry", slog.Any("error", err))
		os.Exit(1)
	}
	defer otel.Shutdown(context.WithoutCancel(ctx), tp)

	db, err := createDatabaseClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create database client", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redis, err := createRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create redis client", slog.Any("error", err))
		os.Exit(1)
	}
	defer redis.Close()

	fileService, err := createFileService(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create file storage client", slog.Any("error", err))
		os.Exit(1)
	}

	broker := realtime.NewRedis(redis)
	chatService, err := chat.New(broker, chat.NewCannedResponder(), chat.Options{})
	if err != nil {
		slog.Error("Failed to initialize chat", slog.Any("error", err))
		os.Exit(1)
	}

	worldService := worlds.New(worlds.NewBunRepository(db), broker)
	services := handler.Services{
		Auth:          auth.New(kvs.New(kvs.NewRedis(redis)), auth.NewBunUserRepository(db)),
		Worlds:        worldService,
		Events:        events.New(events.NewBunRepository(db), worlds.NewBunRepository(db)),
		Analytics:     analytics.New(db),
		Translations:  translations.New(db, worldService),
		Subscriptions: subscriptions.New(db, worldService),
		Files:         fileService,
		Chat:          chatService,
		Broker:        broker,
	}

	sessionStore, err := handler.NewRedisSessionStore(cfg)
	if err != nil {
		slog.Error("Failed to create session store", slog.Any("error", err))
		os.Exit(1)
	}

	handler, err := handler.NewHandler(cfg, cfg.Bind, services, sessionStore,
		handler.PostgresHealthCheck(db),
		handler.RedisHealthCheck(redis),
	)
	if err != nil {
		slog.Error("Failed to initialize handler", slog.Any("error", err))
		os.Exit(1)
	}
	if err := handler.Start(ctx); err != nil {
		slog.Error("Error starting server", slog.Any("error", err))
		os.Exit(1)
	}
}

func startCron(ctx context.Context, cfg *config.Config) {
	db, err := createDatabaseClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create database client", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	worldService := worlds.New(worlds.NewBunRepository(db), nil)
	cron := cron.NewCronService(cfg, subscriptions.New(db, worldService), analytics.New(db))
	if err := cron.Run(ctx); err != nil {
		slog.Error("Error in cron", slog.Any("error", err))
		os.Exit(1)
	}
}

func startMCP(ctx context.Context, cfg *config.Config) {
	db, err := createDatabaseClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create database client", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redis, err := createRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create redis client", slog.Any("error", err))
		os.Exit(1)
	}
	defer redis.Close()

	worldRepo := worlds.NewBunRepository(db)
	server := mcp.NewMCPServer(
		cfg.MCPBind,
		worlds.New(worldRepo, nil),
		events.New(events.NewBunRepository(db), worldRepo),
		auth.New(kvs.New(kvs.NewRedis(redis)), auth.NewBunUserRepository(db)),
	)
	if err := server.Start(ctx); err != nil {
		slog.Error("Error in MCP server", slog.Any("error", err))
		os.Exit(1)
	}
}

func main() {
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})))

	ctx, cancelFn := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancelFn()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigration(ctx, cfg)
		return
	}

	switch cfg.Mode {
	case "web":
		startWeb(ctx, cfg)
	case "cron":
		startCron(ctx, cfg)
	case "mcp":
		startMCP(ctx, cfg)
	default:
		slog.Error(fmt.Sprintf("Unknown mode: %s", cfg.Mode))
		os.Exit(1)
	}
}
