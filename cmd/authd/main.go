package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	authhttp "authgate/internal/auth/http"
	"authgate/internal/auth/service"
	"authgate/internal/auth/session"
	"authgate/internal/common/clock"
	"authgate/internal/common/config"
	commoncrypto "authgate/internal/common/crypto"
	"authgate/internal/common/db"
	commonhttp "authgate/internal/common/http"
	"authgate/internal/common/logger"
	srv "authgate/internal/common/server"
	userrepo "authgate/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "authgate", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	repo := userrepo.NewPgRepository(pool)
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	sessions := session.NewManager(
		session.NewRedisStore(rdb, cfg.SessionTTL),
		commoncrypto.NewUUIDGenerator(),
		clock.NewRealClock(),
		log,
	)
	authService := service.NewAuthService(repo, hasher, sessions, log)

	handler := authhttp.NewHandler(authService, sessions, cfg, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler("authgate", log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	srv.StartWithGracefulShutdown(server, log, "authgate")
}
