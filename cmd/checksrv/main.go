package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
	"github.com/kokoro-care/kokoro/internal/checksrv/server"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

type cmdoptions struct {
	configFile string
	memoryDB   bool
}

func parseFlags() cmdoptions {
	opt := cmdoptions{}
	flag.StringVar(&opt.configFile, "config", "", "path to the config file")
	flag.BoolVar(&opt.memoryDB, "memory-db", false, "use the in-memory store instead of PostgreSQL")
	flag.Parse()
	return opt
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if config.Config().ServerPort == "" {
		return fmt.Errorf("server port not defined")
	}

	st, closeStore, err := createStore(ctx, opt)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer closeStore()

	serverErrors, shutdownServer, err := createCheckServer(ctx, st)
	if err != nil {
		return fmt.Errorf("creating check server: %w", err)
	}

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownServer()
	}

	slog.Info().Msg("server stopped")
	return nil
}

func createStore(ctx context.Context, opt cmdoptions) (store.Store, func(), error) {
	slog := log.With().Str("state", "init").Logger()

	if opt.memoryDB {
		slog.Warn().Msg("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	var pool *pgxpool.Pool
	err := retry.Do(
		func() error {
			var err error
			pool, err = pgxpool.Connect(ctx, config.Config().DB.ConnString())
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn().Uint("attempt", n+1).Err(err).Msg("database connection failed, retrying")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := store.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info().Str("host", config.Config().DB.Host).Msg("database connected")
	return store.NewPostgresStore(pool), pool.Close, nil
}

func createCheckServer(ctx context.Context, st store.Store) (chan error, func(), error) {
	slog := log.With().Str("state", "init").Logger()

	s := server.CreateNewServer(st)
	s.MountHandlers()

	srv := &http.Server{
		Addr:              config.Config().ServerHostName + ":" + config.Config().ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info().Str("addr", srv.Addr).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := func() {
		// Give outstanding requests 5 seconds to complete and initiate the shutdown.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	return serverErrors, shutdown, nil
}
