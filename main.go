package main

import (
	"ceramiqc/api"
	_ "ceramiqc/docs"
	"ceramiqc/logger"
	"ceramiqc/service"
	"ceramiqc/service/config"
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Ceramic QC Service API
// @version 1.0
// @description Quality control of ceramic tile production: specifications, compliance, control schedules, measurements and control sheets
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)

	container, err := service.NewContainer(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("init services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Fatalf("start services: %v", err)
	}

	mux := chi.NewRouter()
	if base := cfg.Server.BaseContext; base != "" {
		mux.Route(base, func(r chi.Router) {
			mount(r, container)
		})
	} else {
		mount(mux, container)
	}

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(cfg.Server.Port), mux)
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := s.GracefulStop(); err != nil {
			slog.Error("http shutdown failed", "error", err)
		}
	}()

	slog.Info("ceramiqc listening", "port", cfg.Server.Port, "base_context", cfg.Server.BaseContext)
	if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("error: %v", err)
	}
	if err := container.Close(); err != nil {
		slog.Error("close services failed", "error", err)
	}
}

func mount(r chi.Router, c *service.Container) {
	api.InitRoute(r, c)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/swagger*", httpSwagger.WrapHandler)
}
