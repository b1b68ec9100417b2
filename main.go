package main

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"adpulse/adapters/memstate"
	"adpulse/adapters/notify"
	"adpulse/adapters/postgres"
	"adpulse/app"
	"adpulse/domain"
	"adpulse/internal/config"
	"adpulse/ports"
	"adpulse/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	var repo ports.KPIRepository
	var store ports.AlertStateStore = memstate.New()

	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("[main] database: %v", err)
		}
		if err := postgres.EnsureSchema(db); err != nil {
			log.Fatalf("[main] schema: %v", err)
		}
		repo = postgres.NewKPIRepository(db)
		store = postgres.NewAlertStateRepository(db)
		log.Printf("[main] using postgres-backed KPI feed and alert history")
	} else {
		log.Printf("[main] no DATABASE_URL set; running with in-memory alert state only")
	}

	var notifier ports.Notifier = notify.NewLogNotifier()
	if cfg.Alerts.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Alerts.WebhookURL, cfg.Alerts.WebhookTimeout)
	}

	analytics := app.NewAnalyticsService(repo)
	router := app.NewAlertRouter(store, notifier)
	alertCfg := app.AlertConfig{
		EnableEmailAlerts:          cfg.Alerts.Enabled,
		MinimumSeverity:            domain.AlertSeverity(cfg.Alerts.MinimumSeverity),
		MaxAlertsPerCampaignPerDay: cfg.Alerts.MaxPerCampaignDay,
		DedupWindow:                cfg.Alerts.DedupWindow,
	}

	if cfg.Profiling.Enabled {
		go runOpsServer(cfg.Profiling.Port)
	}

	server := ui.NewServer(analytics, router, alertCfg)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[main] server: %v", err)
	}
}

// runOpsServer exposes pprof and a liveness probe on a separate port so the
// public API surface never serves debug endpoints.
func runOpsServer(port string) {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/debug/pprof/*", pprof.Index)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	log.Printf("[ops] pprof listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Printf("[ops] server stopped: %v", err)
	}
}
