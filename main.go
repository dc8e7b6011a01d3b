package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	appConfig "muc/config"
	"muc/handlers"
	"muc/sentry"
	"muc/service"
)

func main() {
	log.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"module", "platform"},
	})
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}

	cfg := appConfig.NewConfig()
	if level, err := log.ParseLevel(cfg.Options.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.Options.LogLevel)
	}
	sentry.Init(cfg.Sentry.DSN, cfg.Sentry.Release)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *appConfig.ConfigStruct) error {
	svc, err := service.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("Error closing service: %v", err)
			sentry.ReportError(err)
		}
	}()

	router := gin.Default()
	router.Use(sentry.GetSentryGin())
	handlers.NewManager(svc).Register(router)

	server := &http.Server{Addr: ":" + cfg.Options.Port, Handler: router}
	errs := make(chan error, 1)
	go func() {
		log.Infof("Starting server on :%s", cfg.Options.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
