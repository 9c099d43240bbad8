// Package main provides the station inventory server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rescueops/stationstock/pkg/audit"
	"github.com/rescueops/stationstock/pkg/cache"
	"github.com/rescueops/stationstock/pkg/ha"
	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/inventory"
	"github.com/rescueops/stationstock/pkg/jobs"
	"github.com/rescueops/stationstock/pkg/metrics"
	"github.com/rescueops/stationstock/pkg/station"
	"github.com/rescueops/stationstock/pkg/volunteer"
)

func main() {
	var (
		listenAddr string
		dbType     string
		dbDSN      string
		authMode   string
	)

	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	flag.StringVar(&listenAddr, "listen", envOrDefault("STATIONSTOCK_LISTEN", ":8080"), "Address to listen on")
	flag.StringVar(&dbType, "db-type", envOrDefault("STATIONSTOCK_DB_TYPE", "sqlite"), "Database type (sqlite, postgres or mysql)")
	flag.StringVar(&dbDSN, "db-dsn", os.Getenv("STATIONSTOCK_DB_DSN"), "Database connection string")
	flag.StringVar(&authMode, "auth-mode", envOrDefault("STATIONSTOCK_AUTH_MODE", "header"), "Authorization mode (header or none)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting stationstock server",
		"listen", listenAddr,
		"dbType", dbType,
		"authMode", authMode,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	db, err := openDatabase(dbType, dbDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	resources := inventory.NewResourceStore(db)
	ledger := inventory.NewLedgerStore(db)
	requests := inventory.NewRequestStore(db)
	service := inventory.NewService(db)
	volunteers := volunteer.NewStore(db)
	auditStore := audit.NewStore(db)
	jobStore := jobs.NewJobStore(db)

	haCfg := ha.HAConfigFromEnv()
	migrate := func() error {
		if err := resources.AutoMigrate(); err != nil {
			return err
		}
		if err := volunteers.AutoMigrate(); err != nil {
			return err
		}
		if err := auditStore.AutoMigrate(); err != nil {
			return err
		}
		return jobStore.AutoMigrate()
	}
	if haCfg.MigrationLockEnabled {
		locker := ha.NewMigrationLocker(db)
		err = locker.WithLock(ctx, migrate)
	} else {
		err = migrate()
	}
	if err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	var authorizer identity.Authorizer
	switch authMode {
	case "header":
		authorizer = identity.RolePolicy{}
	case "none":
		authorizer = identity.NoopAuthorizer{}
		logger.Warn("authorization disabled, all actors may mutate")
	default:
		logger.Error("unknown auth mode", "authMode", authMode)
		os.Exit(1)
	}

	m := metrics.New()
	sink := metrics.NewSink(m)
	service.SetMetrics(sink)

	auditCfg := audit.ConfigFromEnv()
	cacheManager := cache.NewManager(cache.CacheConfigFromEnv())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Remote-User", "X-Remote-Role", "X-Station", "X-Correlation-ID"},
	}))
	r.Use(m.Middleware())
	r.Use(identity.Middleware())
	r.Use(station.NewMiddleware(station.ModeFromEnv()))
	r.Use(audit.Middleware(auditStore, auditCfg, logger))
	r.Use(cacheManager.InvalidationMiddleware())

	r.Get("/livez", healthHandler)
	r.Get("/readyz", readinessHandler(db))
	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(readCacheMiddleware(cacheManager))
		r.Mount("/", inventory.NewRouter(service, resources, ledger, requests, authorizer))
		r.Mount("/volunteers", volunteer.NewRouter(volunteers, authorizer))
		r.Mount("/jobs", jobs.Router(jobStore, authorizer))
		r.Mount("/audit", audit.Router(auditStore, authorizer))
	})

	// Background loops: scan workers and audit retention.
	scanner := jobs.NewLowStockScanner(resources, requests, service)
	pool := jobs.NewWorkerPool(jobStore, scanner, jobs.JobConfigFromEnv(), logger)
	pool.SetMetrics(sink)
	go pool.Run(ctx)

	retention := audit.NewRetentionWorker(auditStore, auditCfg.RetentionDays, logger)
	go retention.Run(ctx)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		logger.Info("stationstock server ready", "listen", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("stationstock server stopped")
}

// readCacheMiddleware routes GET requests through the ledger cache for the
// append-only history endpoints and the resource cache for everything else.
func readCacheMiddleware(cm *cache.Manager) func(http.Handler) http.Handler {
	ledgerMW := cm.LedgerMiddleware()
	resourceMW := cm.ResourceMiddleware()
	return func(next http.Handler) http.Handler {
		viaLedger := ledgerMW(next)
		viaResource := resourceMW(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/v1/ledger") || strings.HasSuffix(r.URL.Path, "/history") {
				viaLedger.ServeHTTP(w, r)
				return
			}
			viaResource.ServeHTTP(w, r)
		})
	}
}

func openDatabase(dbType, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch dbType {
	case "sqlite":
		if dsn == "" {
			dsn = "stationstock.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a DSN (use -db-dsn or STATIONSTOCK_DB_DSN)")
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql requires a DSN (use -db-dsn or STATIONSTOCK_DB_DSN)")
		}
		return gorm.Open(mysql.Open(dsn), cfg)
	}
	return nil, fmt.Errorf("unknown database type %q (expected sqlite, postgres or mysql)", dbType)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func readinessHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
