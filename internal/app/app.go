package app

import (
	"context"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/messageboard/internal/config"
	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/metrics"
	"github.com/vovakirdan/messageboard/internal/serve"
	"github.com/vovakirdan/messageboard/internal/store"
	"github.com/vovakirdan/messageboard/internal/store/memory"
	"github.com/vovakirdan/messageboard/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/messageboard/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	handler         stdhttp.Handler
	addr            string
	mode            serve.Mode
	readTimeout     time.Duration
	shutdownTimeout time.Duration
	listener        net.Listener
	feed            *core.Feed
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	mode, err := serve.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	st, err := openStore(store.Driver(cfg.Store.Driver))
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("driver", cfg.Store.Driver).Msg("message store initialized")

	feed := core.NewFeed(cfg.FeedBuffer)
	board := core.NewBoard(st, core.WithFeed(feed))
	m := metrics.New()

	return &App{
		handler:         transporthttp.NewRouter(board, feed, m, cfg, logger),
		addr:            cfg.Addr(),
		mode:            mode,
		readTimeout:     cfg.ReadHeaderTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		feed:            feed,
		store:           st,
		log:             logger,
	}, nil
}

// Handler exposes the configured HTTP handler.
func (a *App) Handler() stdhttp.Handler {
	return a.handler
}

// UseListener makes Run serve on ln instead of binding the configured address.
func (a *App) UseListener(ln net.Listener) {
	a.listener = ln
}

// Run starts serving and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	go a.feed.Run(feedCtx)

	err := serve.Run(ctx, a.mode, a.handler, serve.Options{
		Addr:              a.addr,
		ReadHeaderTimeout: a.readTimeout,
		ShutdownTimeout:   a.shutdownTimeout,
		Listener:          a.listener,
	}, a.log)

	stopFeed()
	a.cleanup()
	return err
}

func openStore(driver store.Driver) (store.Store, error) {
	switch driver {
	case store.DriverMemory, "":
		return memory.New(), nil
	case store.DriverSQLite:
		return sqlite.New()
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// cleanup closes the store, dropping every message.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
