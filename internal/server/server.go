// Package server assembles the FloraCart HTTP server: storage, sessions,
// middleware, routes, and lifecycle.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/floracart/floracart/app/repositories"
	"github.com/floracart/floracart/app/routes"
	"github.com/floracart/floracart/app/services"
	"github.com/floracart/floracart/config"
	"github.com/floracart/floracart/pkg/crypt"
	"github.com/floracart/floracart/pkg/database"
	"github.com/floracart/floracart/pkg/logger"
	"github.com/floracart/floracart/pkg/metrics"
	"github.com/floracart/floracart/pkg/middleware"
	"github.com/floracart/floracart/pkg/reqid"
	"github.com/floracart/floracart/pkg/router"
	"github.com/floracart/floracart/pkg/session"
)

const shutdownGrace = 10 * time.Second

// Run starts the server and blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func Run(cfg config.Config) error {
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("server: connect mongo: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(ctx, db)
	}()

	setupLogging(cfg, db)

	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		return fmt.Errorf("server: ensure indexes: %w", err)
	}

	sessions, err := newSessionManager(cfg, db)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(db)
	orders := repositories.NewOrderRepository(db)
	auth := services.NewAuthService(users)
	orderSvc := services.NewOrderService(orders)

	r := newRouter(sessions, auth, orderSvc, db)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Routes enumerates the route table without touching any backing store.
// Used by the routes CLI command.
func Routes() []router.RouteInfo {
	sealer, _ := crypt.NewSealer("route-listing")
	sessions := session.NewManager(session.NewMemoryStore(), sealer, session.DefaultOptions(time.Hour))

	r := router.New()
	routes.RegisterWeb(r, sessions, services.NewAuthService(nil), services.NewOrderService(nil))
	return r.Routes()
}

// EnsureIndexes connects and creates the collection indexes. Used by the
// db:index CLI command.
func EnsureIndexes(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer database.Disconnect(context.Background(), db) //nolint:errcheck

	return database.EnsureIndexes(ctx, db)
}

func newRouter(sessions *session.Manager, auth *services.AuthService, orders *services.OrderService, db *mongo.Database) *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		sessions.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(db))

	routes.RegisterWeb(r, sessions, auth, orders)
	return r
}

func healthz(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
			http.Error(w, "mongo unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	}
}

// setupLogging configures the process logger, optionally mirroring records
// into a Mongo collection.
func setupLogging(cfg config.Config, db *mongo.Database) {
	var extra []slog.Handler
	if cfg.LogCollection != "" {
		extra = append(extra, logger.NewMongoHandler(db.Collection(cfg.LogCollection)))
	}
	logger.Setup(cfg.Production(), extra...)
}

// newSessionManager builds the session store named by the config. An empty
// secret outside production falls back to a random per-process value, so
// development works out of the box; sessions then die with the process.
func newSessionManager(cfg config.Config, db *mongo.Database) (*session.Manager, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("server: generate dev secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		logger.Warn("SESSION_SECRET not set; using a random per-process secret")
	}

	sealer, err := crypt.NewSealer(secret)
	if err != nil {
		return nil, fmt.Errorf("server: sealer: %w", err)
	}

	var store session.Store
	switch cfg.SessionDriver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		store = session.NewRedisStore(rdb)
	default:
		store = session.NewMongoStore(db.Collection(database.SessionsCollection))
	}

	opts := session.DefaultOptions(cfg.SessionTTL)
	opts.Secure = cfg.Production()
	return session.NewManager(store, sealer, opts), nil
}
