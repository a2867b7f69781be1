package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/metrohr/leavehub/internal/config"
	"github.com/metrohr/leavehub/internal/storage/postgres"
	"github.com/metrohr/leavehub/server"
	"github.com/metrohr/leavehub/token"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	_ = godotenv.Load()

	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.LoadServer()
	if err != nil {
		return errors.Wrap(err, "config.LoadServer")
	}
	displayAppname(cfg.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "postgres.New")
	}
	defer store.Close()

	tokens := token.New([]byte(cfg.JWTSecret), store.Tokens(),
		token.WithIssuer(cfg.TokenIssuer),
		token.WithTokenExpiry(cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry),
	)

	srv, err := server.New(server.Repos{
		Users:     store.Users(),
		Areas:     store.Areas(),
		Employees: store.Employees(),
		Catalogs:  store.Catalogs(),
		Requests:  store.Requests(),
		Balances:  store.Balances(),
		Tokens:    store.Tokens(),
	}, tokens,
		server.WithFolioPrefix(cfg.FolioPrefix),
		server.WithAllowedOrigins(cfg.AllowedOrigins),
	)
	if err != nil {
		return errors.Wrap(err, "server.New")
	}

	return srv.ListenAndServe(ctx, cfg.Port)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
