package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/flicknet/config"
	"github.com/jupiterclapton/flicknet/internal/adapters/primary/events"
	httpadapter "github.com/jupiterclapton/flicknet/internal/adapters/primary/http"
	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
	"github.com/jupiterclapton/flicknet/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Flicknet social service", "env", cfg.Env, "storage", cfg.StorageDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure : stores (Driven Adapters)
	var (
		friendshipRepo ports.FriendshipRepository
		likeRepo       ports.LikeRepository
		reviewRepo     ports.ReviewRepository
		feedRepo       ports.FeedRepository
		directory      ports.EntityDirectory
	)

	switch cfg.StorageDriver {
	case "memory":
		// Tout en RAM : dev local et smoke tests, aucun backend requis.
		friendshipRepo = repository.NewMemoryFriendshipRepo()
		likeRepo = repository.NewMemoryLikeRepo()
		reviewRepo = repository.NewMemoryReviewRepo()
		feedRepo = repository.NewMemoryFeedRepo()
		directory = repository.NewMemoryDirectory()
		slog.Info("✅ In-memory storage ready")

	default:
		// Postgres : likes, reviews, feed, annuaire catalogue.
		dbConfig, err := pgxpool.ParseConfig(cfg.PostgresURL)
		if err != nil {
			slog.Error("Unable to parse DB config", "error", err)
			os.Exit(1)
		}
		dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

		dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			slog.Error("Database ping failed", "error", err)
			os.Exit(1)
		}
		slog.Info("✅ Connected to Postgres")

		// Neo4j : le graphe d'amitié.
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			slog.Error("Failed to create neo4j driver", "error", err)
			os.Exit(1)
		}
		defer driver.Close(context.Background())

		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := driver.VerifyConnectivity(connectCtx); err != nil {
			connectCancel()
			slog.Error("Failed to connect to Neo4j", "error", err)
			os.Exit(1)
		}
		connectCancel()
		slog.Info("✅ Connected to Neo4j")

		graphRepo := repository.NewNeo4jFriendshipRepo(driver)
		if err := graphRepo.EnsureSchema(ctx); err != nil {
			slog.Warn("Schema init failed (might be fine if already exists)", "error", err)
		}

		friendshipRepo = graphRepo
		likeRepo = repository.NewPostgresLikeRepo(dbPool)
		reviewRepo = repository.NewPostgresReviewRepo(dbPool)
		feedRepo = repository.NewPostgresFeedRepo(dbPool)
		directory = repository.NewPostgresDirectory(dbPool)
	}

	// 4. Cache de feed (Redis, optionnel)
	var feedCache ports.FeedCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Error("Failed to instrument redis", "error", err)
			os.Exit(1)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("✅ Connected to Redis")
		feedCache = repository.NewRedisFeedCache(rdb)
	}

	// 5. Core
	feedSvc := services.NewFeedService(feedRepo, feedCache, directory)

	// 6. FeedSink : NATS si configuré, sinon append direct.
	var publisher ports.ActivityPublisher
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		slog.Info("✅ Connected to NATS")

		publisher = eventbroker.NewNatsPublisher(nc)

		handler := events.NewActivityHandler(feedSvc)
		if _, err := handler.Subscribe(nc); err != nil {
			slog.Error("Failed to subscribe to NATS", "error", err)
			os.Exit(1)
		}
		slog.Info("👂 Listening for activity events (NATS)")
	} else {
		publisher = eventbroker.NewDirectSink(feedSvc)
		slog.Info("ℹ️ No NATS configured, using direct feed sink")
	}

	friendshipSvc := services.NewFriendshipService(friendshipRepo, directory, publisher)
	likeSvc := services.NewLikeService(likeRepo, directory, publisher)
	rankingSvc := services.NewRankingService(likeRepo, directory)
	recommendationSvc := services.NewRecommendationService(likeRepo, directory)
	reviewSvc := services.NewReviewService(reviewRepo, directory, publisher)

	// 7. Serveur HTTP (Driving Adapter)
	server := httpadapter.NewServer(friendshipSvc, likeSvc, rankingSvc, recommendationSvc, reviewSvc, feedSvc)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("📡 HTTP API listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("flicknet-social"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
