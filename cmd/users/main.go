// The users service owns the credential store: registration, login, the
// caller's own profile, and admin user management.
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

	var cfg config.UsersConfig
	if err := config.Load(ctx, &cfg); err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "users",
	})

	repo := jsonfile.NewUserRepository(cfg.DataFile)
	if cfg.SeedFile != "" {
		n, err := repo.Seed(cfg.SeedFile)
		if err != nil {
			log.Warn().Err(err).Msg("failed to seed users")
		} else if n > 0 {
			log.Info().Int("count", n).Msg("seeded users")
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	users := service.NewUserService(repo, tokens, log)
	e := api.NewUsersRouter(users, tokens, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("users service failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("users service started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
