package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"wedding-planner/internal/api"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/booking"
	"wedding-planner/internal/config"
	"wedding-planner/internal/database"
	"wedding-planner/internal/database/migrations"
	"wedding-planner/internal/db"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/lock"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/qr"
	"wedding-planner/internal/review"
	"wedding-planner/internal/vendor"
	"wedding-planner/internal/wedding"
)

// prepareSchema brings the store up to date. Postgres goes through the
// migrations on a dedicated connection, since the migration driver closes
// the handle it is given. SQLite is created from the models.
func prepareSchema(ctx context.Context, cfg *config.Config, store *db.DB, log *logger.Logger) error {
	if cfg.Database.Driver == database.DriverSQLite {
		log.Info("DATABASE", "Creating SQLite schema from models")
		return store.CreateSchema(ctx)
	}
	if !cfg.Migrations.Auto {
		log.Info("DATABASE", "AUTO_MIGRATE disabled, skipping migrations")
		return nil
	}

	migrationDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	runner := migrations.NewRunner(migrationDB, migrations.DefaultOptions(), log)
	defer runner.Close()

	if err := runner.Initialize(); err != nil {
		return err
	}
	return runner.RunMigrations()
}

func newLocker(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (lock.Locker, func()) {
	if !cfg.Enabled {
		log.Info("REDIS", "Redis disabled, using in-process rating locks")
		return lock.NewLocal(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Addr, client.Options().DB))
	return lock.NewRedis(client, cfg.LockTTL, log), func() { client.Close() }
}

func newPublisher(cfg config.KafkaConfig, log *logger.Logger) (kafka.Publisher, func()) {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, domain events are only logged")
		return &kafka.LogPublisher{Logger: log}, func() {}
	}

	topics := make([]string, 0, len(kafka.AllTopics()))
	for _, t := range kafka.AllTopics() {
		topics = append(topics, kafka.TopicName(cfg.TopicPrefix, t))
	}
	if err := kafka.EnsureTopicsExist(cfg.Brokers, topics, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	producer := kafka.NewProducer(cfg.Brokers, cfg.TopicPrefix, log)
	log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Brokers))
	return producer, func() {
		if err := producer.Close(); err != nil {
			log.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}

func newAuthenticator(ctx context.Context, cfg config.AuthConfig, log *logger.Logger) *auth.Authenticator {
	if cfg.JWTSecret == "" {
		log.Fatal("CONFIG", "SESSION_SECRET not set")
	}
	verifiers := []auth.Verifier{auth.NewSessionVerifier(cfg.JWTSecret)}
	if cfg.OIDCIssuer != "" {
		v, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			log.Fatal("AUTH", fmt.Sprintf("OIDC discovery failed for %s: %v", cfg.OIDCIssuer, err))
		}
		verifiers = append(verifiers, v)
		log.Info("AUTH", fmt.Sprintf("Accepting OIDC bearer tokens from %s", cfg.OIDCIssuer))
	}
	return auth.NewAuthenticator(cfg.SessionCookie, log, verifiers...)
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	log := logger.New(logger.Options{Dir: cfg.Log.Dir, Service: cfg.Log.Service})
	defer log.Close()
	log.Info("APP", "Starting wedding planner API")

	ctx := context.Background()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()
	store := db.New(bunDB)

	if err := prepareSchema(ctx, cfg, store, log); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Schema setup failed: %v", err))
	}

	locker, closeLocker := newLocker(ctx, cfg.Redis, log)
	defer closeLocker()
	events, closeEvents := newPublisher(cfg.Kafka, log)
	defer closeEvents()

	handler := &api.Handler{
		Weddings: wedding.NewService(store, events, qr.NewGenerator(cfg.Invitation.QRSecret, cfg.Invitation.RSVPBaseURL), log),
		Vendors:  vendor.NewService(store, log),
		Bookings: booking.NewService(store, events, log),
		Reviews:  review.NewService(store, locker, events, log),
		Logger:   log,
		Ping:     bunDB.PingContext,
	}
	router := handler.Router(api.Options{
		Auth:           newAuthenticator(ctx, cfg.Auth, log),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Wedding planner API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Shutdown complete")
	}
}
