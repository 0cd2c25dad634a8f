package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zanonyme_go/internal/config"
	"zanonyme_go/internal/httpserver"
	"zanonyme_go/internal/logger"
	"zanonyme_go/internal/notify"
	"zanonyme_go/internal/store/postgres"
	"zanonyme_go/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	var db *sql.DB
	var repos httpserver.Repositories
	if cfg.UsesPostgres() {
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		repos = httpserver.Repositories{
			Accounts:  postgres.NewAccountRepo(db),
			Directory: postgres.NewDirectoryRepo(db),
			Links:     postgres.NewLinkRepo(db),
			Messages:  postgres.NewMessageRepo(db),
			Reports:   postgres.NewReportRepo(db),
		}
	} else {
		db, err = sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		if err := sqlite.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		repos = httpserver.Repositories{
			Accounts:  sqlite.NewAccountRepo(db),
			Directory: sqlite.NewDirectoryRepo(db),
			Links:     sqlite.NewLinkRepo(db),
			Messages:  sqlite.NewMessageRepo(db),
			Reports:   sqlite.NewReportRepo(db),
		}
	}
	defer db.Close()

	hub := notify.NewHub()

	// No push provider wired in this deployment; the notifier degrades to
	// WebSocket events only.
	router := httpserver.NewRouter(cfg, repos, hub, nil, log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Str("env", cfg.Env).Msg("starting Z-Anonyme server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
