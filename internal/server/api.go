package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
)

// Catalog is the upstream song catalog. Implementations return empty values
// together with an error when the upstream is unavailable.
type Catalog interface {
	Search(ctx context.Context, term string) ([]models.Track, error)
	Song(ctx context.Context, id string) ([]models.Track, error)
	Album(ctx context.Context, id string) (models.Album, error)
	Artist(ctx context.Context, id string) (models.Artist, error)
	Playlist(ctx context.Context, id string) (models.CatalogPlaylist, error)
	Lyrics(ctx context.Context, id string) (models.Lyrics, error)
}

// NewAPI wires every handler group into one [http.Handler].
//
// CORS and request logging wrap the whole mux so preflights and unmatched paths
// are handled and logged too; panics are recovered per route.
func NewAPI(store *repositories.Store, catalog Catalog, corsOrigin string, logger *log.Logger) http.Handler {
	auth := NewAuthenticator(store.Sessions, store.Users, logger)

	router := NewBasicRouter()
	router.Use(Recoverer(logger))

	router.Handler(NewSystemHandler(store.DB, logger))
	router.Handler(NewMusicHandler(catalog, store, auth, logger))
	router.Handler(NewUserHandler(store, auth, logger))
	router.Handler(NewAdminHandler(store, auth, logger))

	return CORS(corsOrigin)(RequestLogger(logger)(router))
}
