package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
	"github.com/matonneli/bookstore-admin/internal/config"
	"github.com/matonneli/bookstore-admin/internal/logging"
	"github.com/matonneli/bookstore-admin/internal/refcache"
	"github.com/matonneli/bookstore-admin/internal/session"
	"github.com/matonneli/bookstore-admin/internal/store"
	"github.com/matonneli/bookstore-admin/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
}

// Run boots the admin TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.Init(logging.Options{
		Level: cfg.LogLevel,
		Path:  cfg.LogPath(),
	})
	log.Info().Str("api_base", cfg.APIBase).Msg("starting bookadm")

	client, err := api.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	clock := session.NewClock(cfg.ActivityPath(), cfg.IdleLimit)
	gate := session.NewGate(client, clock)
	warning := session.NewWarning(cfg.WarnImminent, cfg.WarnCoarse, cfg.RearmSlack)

	refs := refcache.New(client)
	books := store.NewBooks(client, cfg.BookPageSize)
	orders := store.NewOrders(client, cfg.OrderPageSize)
	workers := store.NewWorkers(client)

	// The watcher posts into the running program. The program does not exist
	// until the watcher is wired into its options, so the handle is captured
	// through the closure and assigned before the watcher starts ticking.
	var program *tea.Program
	watcher := session.NewExpiryWatcher(clock, gate.Authenticated, func() {
		gate.Logout(ctx)
		if program != nil {
			program.Send(ui.ForcedLogoutMsg{})
		}
	})

	program = ui.NewProgram(ui.Options{
		Context: ctx,
		Backend: client,
		Gate:    gate,
		Clock:   clock,
		Warning: warning,
		Watcher: watcher,
		Refs:    refs,
		Books:   books,
		Orders:  orders,
		Workers: workers,
		Config:  cfg,
	})

	watcher.Start(ctx, cfg.ExpiryPoll)
	startWarningLogger(ctx, clock, gate.Authenticated, warning, cfg.WarningPoll)

	_, err = program.Run()
	return err
}
