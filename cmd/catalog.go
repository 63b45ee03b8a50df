package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/formatter"
	"github.com/desertthunder/harmony/internal/shared"
)

// emit prints l in the requested format, or exports it when --out is set.
func (r *Runner) emit(ctx context.Context, cmd *cli.Command, l formatter.Listing) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if dir := cmd.String("out"); dir != "" {
		result, err := formatter.WriteExport(ctx, r.httpClient, l, format, dir)
		if err != nil {
			return err
		}
		r.logger.Info("export complete", "dir", result.Directory, "files", len(result.Files))
		for _, f := range result.Files {
			r.writePlain("%s\n", f)
		}
		return nil
	}
	return formatter.Print(r.output, l, format)
}

// CatalogSearch prints songs matching the query.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query, err := firstArg(cmd, "query")
	if err != nil {
		return err
	}

	tracks, err := r.catalogClient().Search(ctx, query)
	if err != nil {
		return err
	}
	return r.emit(ctx, cmd, formatter.FromTracks(fmt.Sprintf("Results for %q", query), tracks))
}

// CatalogSong prints a single song.
func (r *Runner) CatalogSong(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "id")
	if err != nil {
		return err
	}

	tracks, err := r.catalogClient().Song(ctx, id)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	l := formatter.FromTracks(tracks[0].Title, tracks)
	l.ID = id
	l.CoverURL = tracks[0].CoverURL
	return r.emit(ctx, cmd, l)
}

func (r *Runner) CatalogAlbum(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.catalogClient().Album(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(ctx, cmd, formatter.FromAlbum(album))
}

func (r *Runner) CatalogArtist(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "id")
	if err != nil {
		return err
	}

	artist, err := r.catalogClient().Artist(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(ctx, cmd, formatter.FromArtist(artist))
}

func (r *Runner) CatalogPlaylist(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "id")
	if err != nil {
		return err
	}

	playlist, err := r.catalogClient().Playlist(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(ctx, cmd, formatter.FromCatalogPlaylist(playlist))
}

// CatalogLyrics prints lyrics, or a notice when the catalog has none.
func (r *Runner) CatalogLyrics(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "id")
	if err != nil {
		return err
	}

	lyrics, err := r.catalogClient().Lyrics(ctx, id)
	if err != nil {
		return err
	}
	if lyrics.Lyrics == "" {
		return r.writePlain("Lyrics not available\n")
	}
	return r.writePlain("%s\n", lyrics.Lyrics)
}
