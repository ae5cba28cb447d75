package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskercompanyofficial/taskercompany-api/api/controllers"
	"github.com/taskercompanyofficial/taskercompany-api/api/routes"
	"github.com/taskercompanyofficial/taskercompany-api/internal/attendance"
	"github.com/taskercompanyofficial/taskercompany-api/internal/catalog"
	"github.com/taskercompanyofficial/taskercompany-api/internal/complaints"
	"github.com/taskercompanyofficial/taskercompany-api/internal/intake"
	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/internal/staff"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/broadcast"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/metrics"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/migrate"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/push"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/redis"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/whatsapp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// Broadcast fan-out is optional outside production; the notification
	// service tolerates a nil broadcaster and only delivers push + inbox.
	var broadcaster notifications.Broadcaster
	broadcastClient, err := broadcast.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		if cfg.App.IsProd() {
			logg.Error(context.Background(), "failed to create broadcast client", err)
			os.Exit(1)
		}
		logg.Warn(context.Background(), "broadcast client disabled: "+err.Error())
	} else {
		broadcaster = broadcastClient
		defer func() {
			if err := broadcastClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing broadcast client", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	waClient := whatsapp.New(cfg.WhatsApp)

	notificationsSvc, err := notifications.NewService(
		notifications.NewRepository(dbClient.DB()),
		broadcaster,
		push.New(cfg.Push),
		logg,
		metrics.NewDeliveryMetrics(registry),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	jobsSvc, err := jobs.NewService(jobs.NewRepository(dbClient.DB()), notificationsSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	complaintsSvc, err := complaints.NewService(
		complaints.NewRepository(dbClient.DB()),
		dbClient,
		notificationsSvc,
		jobsSvc,
		waClient,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create complaints service", err)
		os.Exit(1)
	}

	staffRepo := staff.NewRepository(dbClient.DB())
	attendanceSvc, err := attendance.NewService(
		attendance.NewRepository(dbClient.DB()),
		staffRepo,
		notificationsSvc,
		jobsSvc,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance service", err)
		os.Exit(1)
	}

	staffSvc, err := staff.NewService(staffRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create staff service", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	intakeSvc, err := intake.NewService(
		intake.NewSessionStore(redisClient, cfg.Intake.SessionTTL),
		complaintsSvc,
		catalogSvc,
		waClient,
		notificationsSvc,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create intake service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Cfg:  cfg,
			Logg: logg,
			Checks: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Registry:      registry,
			Staff:         staffSvc,
			Complaints:    complaintsSvc,
			Jobs:          jobsSvc,
			Attendance:    attendanceSvc,
			Catalog:       catalogSvc,
			Notifications: notificationsSvc,
			Intake:        intakeSvc,
			WhatsApp:      waClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
