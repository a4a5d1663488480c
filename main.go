package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"peer-funding-service/api"
	_ "peer-funding-service/docs"
	"peer-funding-service/logger"
	"peer-funding-service/service"
	"peer-funding-service/service/config"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Peer Funding Service API
// @version 1.0
// @description Illinois school district funding adequacy metrics, staffing gaps and legislative district tables
// @BasePath /
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.InitLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Init(ctx, cfg, prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("init: %v", err)
	}
	defer service.Shutdown()

	mux := chi.NewRouter()

	// mount everything below BASE_CONTEXT when one is set
	if cfg.Server.BaseContext != "" {
		mux.Route(cfg.Server.BaseContext, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	s := daprd.NewServiceWithMux(":"+cfg.Server.ListenPort, mux)
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := s.GracefulStop(); err != nil {
			slog.Warn("graceful stop failed", "error", err)
		}
	}()

	slog.Info("listening", "port", cfg.Server.ListenPort, "base_context", cfg.Server.BaseContext)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
	}
}
