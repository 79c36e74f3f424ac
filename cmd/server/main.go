/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the point-of-sale server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env file + environment)
  2. Build the logger
  3. Open the store (SQLite or MongoDB)
  4. Seed default accounts and menu (SEED_DEFAULTS)
  5. Create services, API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to an env-format config file (default: .env, optional)
  -port    HTTP server port, overrides APP_PORT
  -db      SQLite database path, overrides SQLITE_PATH
           Use ":memory:" for in-memory database

ENVIRONMENT:
  APP_PORT, SEED_DEFAULTS, DB_DRIVER (sqlite|mongo), SQLITE_PATH,
  MONGO_URL, MONGO_DB, JWT_SECRET, JWT_TTL_HOURS, CORS_ALLOWED_ORIGINS,
  LOG_LEVEL, LOG_FORMAT, LOG_FILE, LOGIN_RATE_PER_SECOND, LOGIN_RATE_BURST,
  RECENT_LIMIT_MAX. See config/config.go for defaults.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/pos.db"

  # Run against MongoDB
  DB_DRIVER=mongo MONGO_URL=mongodb://localhost:27017 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go, store/mongo/mongo.go: Storage backends
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/pos-engine/api"
	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/bootstrap"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/config"
	"github.com/warp/pos-engine/logging"
	"github.com/warp/pos-engine/pos"
	"github.com/warp/pos-engine/store/mongo"
	"github.com/warp/pos-engine/store/sqlite"
)

// backend is everything the server needs from a storage driver.
type backend interface {
	pos.Store
	auth.UserStore
	catalog.Store
	Ping(ctx context.Context) error
}

func main() {
	// Flags
	configPath := flag.String("config", "", "Config file path (env format)")
	port := flag.Int("port", 0, "HTTP server port (overrides APP_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides SQLITE_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.App.Port = strconv.Itoa(*port)
	}
	if *dbPath != "" {
		cfg.Database.SQLitePath = *dbPath
	}

	log := logging.New(cfg.Log)

	// Initialize store
	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer closeStore()

	if cfg.App.SeedDefaults {
		if err := bootstrap.Seed(context.Background(), store, store, log); err != nil {
			log.WithError(err).Fatal("failed to seed defaults")
		}
	}

	// Services
	authSvc := auth.NewService(store, auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL))
	menu := catalog.NewService(store)
	txLog := pos.NewLog(store)
	register := pos.NewRegister(txLog)
	reports := pos.NewReporter(pos.NewAggregator(txLog), menu)

	handler := api.NewHandler(authSvc, menu, register, reports, log)
	handler.LoginLimiter = api.NewLoginLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst)
	handler.AllowedOrigins = cfg.CORS.AllowedOrigins
	handler.RecentLimitMax = cfg.Orders.RecentLimitMax
	handler.Ping = store.Ping

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":   server.Addr,
			"env":    cfg.App.Env,
			"driver": cfg.Database.Driver,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server stopped")
}

func openStore(cfg config.DatabaseConfig) (backend, func(), error) {
	switch cfg.Driver {
	case "", "sqlite":
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "mongo", "mongodb":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.Close(ctx)
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}
