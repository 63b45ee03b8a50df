package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/keys"
	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/player"
	"github.com/desertthunder/harmony/internal/remote"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/storage"
	"github.com/desertthunder/harmony/internal/ui"
)

// Player launches the TUI. Logging moves to the configured file since the
// terminal belongs to bubbletea for the whole session.
func (r *Runner) Player(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Client
	if v := cmd.String("server"); v != "" {
		cfg.ServerURL = v
	}
	if v := cmd.String("token"); v != "" {
		cfg.Token = v
	}
	if v := cmd.String("state"); v != "" {
		cfg.StatePath = v
	}

	if cfg.LogPath != "" {
		logger, f, err := shared.NewFileLogger(cfg.LogPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetLevel(r.logger.GetLevel())
		r.SetLogger(logger)
	}

	store, err := storage.Open(cfg.StatePath, storage.WithLogger(shared.WithLogger(r.logger, "component", "storage")))
	if err != nil {
		return fmt.Errorf("failed to open local state: %w", err)
	}
	defer store.Close()

	client := remote.New(cfg.ServerURL,
		remote.WithToken(cfg.Token),
		remote.WithHTTPClient(r.httpClient),
		remote.WithLogger(shared.WithLogger(r.logger, "component", "remote")),
	)

	syncs := make(chan library.SyncResult, 16)
	lib := library.New(
		library.WithRemote(client),
		library.WithLocalStore(store),
		library.WithLogger(shared.WithLogger(r.logger, "component", "library")),
		library.OnSync(func(res library.SyncResult) {
			select {
			case syncs <- res:
			default:
			}
		}),
	)
	defer lib.Close()

	if err := lib.Load(ctx); err != nil {
		r.logger.Warn("library load failed, starting empty", "err", err)
	}

	coord := player.New(player.NewClockSink(),
		player.WithCatalog(client),
		player.WithPersister(store),
		player.WithLogger(shared.WithLogger(r.logger, "component", "player")),
		player.WithVolume(cfg.Volume),
		player.WithFallbackTerm(cfg.AutoplayFallback),
	)
	defer coord.Close()

	if err := coord.RestoreSaved(); err != nil {
		r.logger.Warn("discarding saved player state", "err", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go coord.Run(runCtx)

	r.logger.Info("player started", "server", cfg.ServerURL, "signedIn", client.Authenticated())

	model := ui.NewModel(runCtx, coord, lib, client,
		ui.WithHistory(store),
		ui.WithSyncResults(syncs),
		ui.WithResolver(keys.NewResolver(keys.Default)),
		ui.WithLogger(shared.WithLogger(r.logger, "component", "ui")),
	)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(runCtx)).Run(); err != nil {
		return fmt.Errorf("player exited: %w", err)
	}
	return nil
}
