// The orders service owns the order store and the status state machine.
// Identity arrives via the gateway's X-User header, or a raw bearer token
// when the service is reached directly.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/orderstack/orderstack/internal/api"
	"github.com/orderstack/orderstack/internal/config"
	"github.com/orderstack/orderstack/internal/core/service"
	"github.com/orderstack/orderstack/internal/storage/jsonfile"
	"github.com/orderstack/orderstack/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config.OrdersConfig
	if err := config.Load(ctx, &cfg); err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "orders",
	})

	repo := jsonfile.NewOrderRepository(cfg.DataFile)
	tokens := service.NewTokenService(cfg.JWTSecret, 0)
	orders := service.NewOrderService(repo, cfg.StrictTransitions, log)
	e := api.NewOrdersRouter(orders, tokens, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("orders service failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Bool("strict_transitions", cfg.StrictTransitions).Msg("orders service started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
