package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray-remotestate/fastfood/config"
	"github.com/ray-remotestate/fastfood/database"
	"github.com/ray-remotestate/fastfood/database/dbhelper"
	"github.com/ray-remotestate/fastfood/handlers"
	"github.com/ray-remotestate/fastfood/realtime"
	"github.com/ray-remotestate/fastfood/server"
	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	setupLogger(cfg)
	utils.SetDevelopment(cfg.IsDevelopment())

	if err := database.ConnectAndMigrate(cfg.DatabaseURL); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Info("migration is successful")

	store := dbhelper.NewStore(database.Restro)
	hub := realtime.NewHub(store, cfg.ClientURL)
	h := &handlers.Handler{
		Config:    cfg,
		Tokens:    utils.TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.JWTExpire},
		Accounts:  store,
		Catalog:   store,
		Stock:     store,
		Coupons:   store,
		Shop:      store,
		Exporter:  store,
		Socket:    hub,
		Orders:    services.NewOrderService(store, hub, services.Rates{TaxRate: cfg.TaxRate, DeliveryFee: cfg.DeliveryFee}),
		Reviews:   services.NewReviewService(store),
		Inventory: services.NewInventoryService(store),
	}

	srv := server.SetupRoutes(h, store)
	go func() {
		logrus.Infof("server listening on port %s in %s mode", cfg.Port, cfg.Environment)
		if err := srv.Run(":"+cfg.Port, cfg.ClientURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server, error: %v", err)
		}
	}()

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(shutdownTimeOut); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}
	if err := database.ShutdownDatabase(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}

	logrus.Info("system is shut ..zzz")
}

func setupLogger(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
