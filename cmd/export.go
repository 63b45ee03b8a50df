package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/formatter"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/tasks"
)

const likedSongsID = "liked-songs"

// runExport drives a bulk export and logs its progress as it arrives.
func (r *Runner) runExport(ctx context.Context, cmd *cli.Command, source tasks.Source, ids []string) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message, "phase", u.Phase)
		}
	}()

	engine := tasks.NewEngine(r.httpClient, shared.WithLogger(r.logger, "component", "export"))
	result, err := engine.BulkExport(ctx, progress, source, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("out"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  r.config.Catalog.RequestsPerSecond,
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("exported %d of %d to %s (%d failed)\n", result.Succeeded, result.Total, result.OutputDirectory, result.Failed)
	if result.Failed > 0 {
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  %s: %s\n", res.ID, res.Reason)
			}
		}
	}
	return nil
}

// CatalogExport exports catalog albums, artists or playlists by id.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one id", shared.ErrMissingArgument)
	}

	client := r.catalogClient()
	var source tasks.Source
	switch kind := cmd.String("kind"); kind {
	case "album":
		source = func(ctx context.Context, id string) (formatter.Listing, error) {
			a, err := client.Album(ctx, id)
			return formatter.FromAlbum(a), err
		}
	case "artist":
		source = func(ctx context.Context, id string) (formatter.Listing, error) {
			a, err := client.Artist(ctx, id)
			return formatter.FromArtist(a), err
		}
	case "playlist":
		source = func(ctx context.Context, id string) (formatter.Listing, error) {
			p, err := client.Playlist(ctx, id)
			return formatter.FromCatalogPlaylist(p), err
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", shared.ErrInvalidArgument, kind)
	}
	return r.runExport(ctx, cmd, source, ids)
}

// UsersExport exports every playlist a user owns plus their liked songs.
func (r *Runner) UsersExport(ctx context.Context, cmd *cli.Command) error {
	email, err := firstArg(cmd, "email")
	if err != nil {
		return err
	}

	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := r.lookupUser(store, email)
	if err != nil {
		return err
	}

	liked, err := store.Favorites.List(user.ID())
	if err != nil {
		return err
	}
	views, err := store.Playlists.ViewsByOwner(user.ID())
	if err != nil {
		return err
	}

	likedListing := formatter.FromTracks("Liked Songs", liked)
	likedListing.ID = likedSongsID
	likedListing.Subtitle = user.Name()

	listings := map[string]formatter.Listing{likedSongsID: likedListing}
	ids := []string{likedSongsID}
	for _, v := range views {
		listings[v.ID] = formatter.FromPlaylistView(v)
		ids = append(ids, v.ID)
	}

	source := func(ctx context.Context, id string) (formatter.Listing, error) {
		l, ok := listings[id]
		if !ok {
			return formatter.Listing{}, fmt.Errorf("%w: playlist %s", shared.ErrPlaylistNotFound, id)
		}
		return l, nil
	}
	return r.runExport(ctx, cmd, source, ids)
}
