// The API gateway authenticates callers once at the trust boundary and
// reverse-proxies them to the users and orders services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/orderstack/orderstack/internal/config"
	"github.com/orderstack/orderstack/internal/core/service"
	"github.com/orderstack/orderstack/internal/gateway"
	"github.com/orderstack/orderstack/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config.GatewayConfig
	if err := config.Load(ctx, &cfg); err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "gateway",
	})

	tokens := service.NewTokenService(cfg.JWTSecret, 0)
	e, err := gateway.New(&cfg, tokens, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid gateway configuration")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("gateway failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("users_url", cfg.UsersURL).Str("orders_url", cfg.OrdersURL).Msg("gateway started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
