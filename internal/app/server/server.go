package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"pendler/internal/domain/employee"
	"pendler/internal/domain/reports"
	"pendler/internal/domain/schedule"
	"pendler/internal/domain/tax"
	"pendler/internal/platform/config"
	cryptoutil "pendler/internal/platform/crypto"
	"pendler/internal/platform/db"
	"pendler/internal/platform/jobs"
	"pendler/internal/platform/metrics"
	"pendler/internal/transport/http/api"
	employeehandler "pendler/internal/transport/http/handlers/employee"
	reportshandler "pendler/internal/transport/http/handlers/reports"
	schedulehandler "pendler/internal/transport/http/handlers/schedule"
	taxhandler "pendler/internal/transport/http/handlers/tax"
	"pendler/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	collector := metrics.New()

	scheduleService := schedule.NewService(schedule.NewStore(pool))
	snapshotService := tax.NewSnapshotService(
		tax.NewStore(pool),
		tax.NewLocalStore(cfg.SnapshotFallbackDir),
		crypto,
	)
	employeeStore := employee.NewStore(pool)
	reportsStore := reports.NewStore(pool)
	reportsService := reports.NewService(reportsStore)

	jobsService := jobs.New(pool, cfg, scheduleService, snapshotService, collector)
	jobsService.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
	// Auth runs before the rate limiter so authenticated traffic is limited
	// per user rather than per source address.
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		schedulehandler.NewHandler(scheduleService, collector).RegisterRoutes(r)
		taxhandler.NewHandler(snapshotService, collector, cfg.AutosaveInterval).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, reportsStore, collector).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	log.Printf("pendler server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
