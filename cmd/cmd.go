// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write a config file if missing, then initialize the database",
		Action: r.Setup,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database maintenance",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the applied migration and tables",
				Action: r.DBStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the latest migration",
				Action: r.DBRollback,
			},
		},
	}
}

func usersCommand(r *Runner) *cli.Command {
	jsonFlag := &cli.BoolFlag{Name: "json", Usage: "Output JSON"}

	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts and session tokens",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
					&cli.BoolFlag{Name: "admin", Usage: "Grant admin rights"},
				},
				Action: r.UsersCreate,
			},
			{
				Name:   "list",
				Usage:  "List users",
				Flags:  []cli.Flag{jsonFlag},
				Action: r.UsersList,
			},
			{
				Name:      "promote",
				Usage:     "Grant admin rights",
				ArgsUsage: "<email>",
				Action:    r.UsersPromote,
			},
			{
				Name:      "token",
				Usage:     "Mint a session token for the player or API clients",
				ArgsUsage: "<email>",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime, 0 never expires",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: r.UsersToken,
			},
			{
				Name:      "revoke",
				Usage:     "Revoke a session token",
				ArgsUsage: "<token>",
				Action:    r.UsersRevoke,
			},
			{
				Name:      "export",
				Usage:     "Export a user's playlists and liked songs",
				ArgsUsage: "<email>",
				Flags:     exportFlags(),
				Action:    r.UsersExport,
			},
			{
				Name:   "stats",
				Usage:  "Show account totals",
				Flags:  []cli.Flag{jsonFlag},
				Action: r.UsersStats,
			},
		},
	}
}

func catalogCommand(r *Runner) *cli.Command {
	outputFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write an export into this directory instead of stdout",
			},
		}
	}

	return &cli.Command{
		Name:  "catalog",
		Usage: "Query the upstream song catalog",
		Commands: []*cli.Command{
			{Name: "search", Usage: "Search songs", ArgsUsage: "<query>", Flags: outputFlags(), Action: r.CatalogSearch},
			{Name: "song", Usage: "Show a song", ArgsUsage: "<id>", Flags: outputFlags(), Action: r.CatalogSong},
			{Name: "album", Usage: "Show an album", ArgsUsage: "<id>", Flags: outputFlags(), Action: r.CatalogAlbum},
			{Name: "artist", Usage: "Show an artist's top songs", ArgsUsage: "<id>", Flags: outputFlags(), Action: r.CatalogArtist},
			{Name: "playlist", Usage: "Show a catalog playlist", ArgsUsage: "<id>", Flags: outputFlags(), Action: r.CatalogPlaylist},
			{Name: "lyrics", Usage: "Print lyrics for a song", ArgsUsage: "<id>", Action: r.CatalogLyrics},
			{
				Name:      "export",
				Usage:     "Export several albums, artists or playlists concurrently",
				ArgsUsage: "<id>...",
				Flags: append(exportFlags(),
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "What the ids name: album, artist or playlist",
						Value:   "playlist",
					},
				),
				Action: r.CatalogExport,
			},
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: text, markdown, csv or json",
			Value:   "markdown",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Base output directory (default: harmony_export_{epoch})",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Concurrent writers (max 10)",
			Value:   5,
		},
	}
}

func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Launch the terminal player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "API base URL (overrides config)",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Session token (overrides config); empty runs local-only",
				Sources: cli.EnvVars("HARMONY_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Local state database path (overrides config)",
			},
		},
		Action: r.Player,
	}
}
