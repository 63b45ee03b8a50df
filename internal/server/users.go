package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/shared"
)

// UserHandler serves the session user's favorites, playlists and profile.
type UserHandler struct {
	store  *repositories.Store
	auth   *Authenticator
	logger *log.Logger
}

func NewUserHandler(store *repositories.Store, auth *Authenticator, logger *log.Logger) *UserHandler {
	return &UserHandler{store: store, auth: auth, logger: logger}
}

func (h *UserHandler) Routes() []Route {
	protect := h.auth.protected()
	return []Route{
		{Method: http.MethodGet, Path: "/api/auth/me", Handler: h.Me, Middleware: protect},
		{Method: http.MethodGet, Path: "/api/users/favorites", Handler: h.Favorites, Middleware: protect},
		{Method: http.MethodPost, Path: "/api/users/favorites/add", Handler: h.AddFavorite, Middleware: protect},
		{Method: http.MethodPost, Path: "/api/users/favorites/remove", Handler: h.RemoveFavorite, Middleware: protect},
		{Method: http.MethodGet, Path: "/api/users/playlists", Handler: h.Playlists, Middleware: protect},
		{Method: http.MethodPost, Path: "/api/users/playlists", Handler: h.CreatePlaylist, Middleware: protect},
	}
}

// Me returns the authoritative user record clients resync from.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	liked, err := h.store.Favorites.List(user.ID())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	playlists, err := h.store.Playlists.ViewsByOwner(user.ID())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewProfile(user, liked, playlists))
}

func (h *UserHandler) respondFavorites(w http.ResponseWriter, userID string) {
	liked, err := h.store.Favorites.List(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, liked)
}

func (h *UserHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	h.respondFavorites(w, user.ID())
}

// AddFavorite takes {song} and returns the updated liked songs.
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req songRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Song == nil || req.Song.Key() == "" || strings.TrimSpace(req.Song.Title) == "" {
		writeError(w, h.logger, fmt.Errorf("%w: song with an id and title is required", shared.ErrMissingArgument))
		return
	}

	if err := h.store.Favorites.Add(user.ID(), *req.Song); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondFavorites(w, user.ID())
}

type removeFavoriteRequest struct {
	SongID string `json:"songId"`
}

// RemoveFavorite takes {songId} and returns the updated liked songs.
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req removeFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.SongID == "" {
		writeError(w, h.logger, fmt.Errorf("%w: songId is required", shared.ErrMissingArgument))
		return
	}

	if err := h.store.Favorites.Remove(user.ID(), req.SongID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondFavorites(w, user.ID())
}

func (h *UserHandler) Playlists(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	views, err := h.store.Playlists.ViewsByOwner(user.ID())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *UserHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	createPlaylist(w, r, h.store, h.logger)
}
