package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/bianca-8/reload-rage/internal/config"
	"github.com/bianca-8/reload-rage/internal/database"
	"github.com/bianca-8/reload-rage/internal/handler"
	"github.com/bianca-8/reload-rage/internal/logging"
	"github.com/bianca-8/reload-rage/internal/repository"
	"github.com/bianca-8/reload-rage/internal/service"
	"github.com/bianca-8/reload-rage/internal/view"
)

// Run loads configuration, picks the store, wires every layer together and
// serves until the listener dies. Handles are built once here and injected
// down; nothing is reached through globals.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.LogLevel)

	if cfg.SessionSecret == config.DevSessionSecret {
		log.Warn().Msg("SESSION_SECRET not set, using insecure dev default")
	}

	// Durable store when configured, ephemeral fallback otherwise. The rest
	// of the app only ever sees the repository interfaces.
	var users repository.UserRepository
	var stats repository.StatsRepository

	if cfg.DatabaseURL != "" {
		db, connErr := database.Connect(cfg)
		if connErr == nil {
			defer db.Close()

			if err := database.Bootstrap(context.Background(), db); err != nil {
				return fmt.Errorf("failed to bootstrap database: %w", err)
			}
			users = repository.NewUserRepository(db)
			stats = repository.NewStatsRepository(db)
			log.Info().Msg("using postgres store")
		} else {
			log.Warn().Err(connErr).Msg("database unavailable, falling back to in-memory store")
		}
	}

	if users == nil {
		mem := repository.NewMemoryStore()
		users = mem
		stats = mem
		log.Warn().Msg("using in-memory store, all counters reset on restart")
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	sessions := service.NewSessionManager(cfg.SessionSecret, time.Duration(cfg.SessionMaxAge)*time.Second)
	userService := service.NewUserService(users)
	board := service.NewLeaderboardService(users, stats)
	views := service.NewViewService(users, stats, board, log)

	router := NewRouter(RouterConfig{
		Pages:    handler.NewPageHandler(userService, views, board, sessions, renderer, log),
		API:      handler.NewAPIHandler(board, log),
		Sessions: sessions,
	})

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	return stdhttp.ListenAndServe(addr, router)
}
