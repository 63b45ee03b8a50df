package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/shared"
)

const lyricsUnavailable = "Lyrics not available."

// MusicHandler proxies catalog lookups and manages user playlists under /api/music.
//
// Catalog failures degrade to empty payloads with status 200; the upstream error is only logged.
type MusicHandler struct {
	catalog Catalog
	store   *repositories.Store
	auth    *Authenticator
	logger  *log.Logger
}

func NewMusicHandler(catalog Catalog, store *repositories.Store, auth *Authenticator, logger *log.Logger) *MusicHandler {
	return &MusicHandler{catalog: catalog, store: store, auth: auth, logger: logger}
}

func (h *MusicHandler) Routes() []Route {
	protect := h.auth.protected()
	return []Route{
		{Method: http.MethodGet, Path: "/api/music/search", Handler: h.Search},
		{Method: http.MethodGet, Path: "/api/music/songs/{id}", Handler: h.Song},
		{Method: http.MethodGet, Path: "/api/music/songs/{id}/lyrics", Handler: h.Lyrics},
		{Method: http.MethodGet, Path: "/api/music/albums/{id}", Handler: h.Album},
		{Method: http.MethodGet, Path: "/api/music/artists/{id}", Handler: h.Artist},
		{Method: http.MethodGet, Path: "/api/music/playlists/{id}", Handler: h.Playlist},
		{Method: http.MethodPost, Path: "/api/music/playlists", Handler: h.CreatePlaylist, Middleware: protect},
		{Method: http.MethodPut, Path: "/api/music/playlists/{id}", Handler: h.EditPlaylist, Middleware: protect},
		{Method: http.MethodDelete, Path: "/api/music/playlists/{id}", Handler: h.DeletePlaylist, Middleware: protect},
		{Method: http.MethodPost, Path: "/api/music/playlists/{id}/songs", Handler: h.AddSong, Middleware: protect},
		{Method: http.MethodDelete, Path: "/api/music/playlists/{id}/songs/{songId}", Handler: h.RemoveSong, Middleware: protect},
	}
}

type dataResponse struct {
	Data any `json:"data"`
}

// Search proxies /search/songs. The query parameter is required.
func (h *MusicHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeMessage(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	results, _ := h.catalog.Search(r.Context(), query)
	writeJSON(w, http.StatusOK, dataResponse{Data: map[string]any{"results": results}})
}

func (h *MusicHandler) Song(w http.ResponseWriter, r *http.Request) {
	songs, _ := h.catalog.Song(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, dataResponse{Data: songs})
}

func (h *MusicHandler) Album(w http.ResponseWriter, r *http.Request) {
	album, _ := h.catalog.Album(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, dataResponse{Data: album})
}

func (h *MusicHandler) Artist(w http.ResponseWriter, r *http.Request) {
	artist, _ := h.catalog.Artist(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, dataResponse{Data: artist})
}

// Lyrics returns {lyrics}, substituting a placeholder when the catalog has none.
func (h *MusicHandler) Lyrics(w http.ResponseWriter, r *http.Request) {
	lyrics, _ := h.catalog.Lyrics(r.Context(), r.PathValue("id"))
	if strings.TrimSpace(lyrics.Lyrics) == "" {
		lyrics.Lyrics = lyricsUnavailable
	}
	writeJSON(w, http.StatusOK, lyrics)
}

// Playlist serves a user playlist when id names one, otherwise the catalog playlist.
func (h *MusicHandler) Playlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	view, err := h.store.Playlists.View(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dataResponse{Data: view})
		return
	case !errors.Is(err, shared.ErrNotFound):
		writeError(w, h.logger, err)
		return
	}

	playlist, _ := h.catalog.Playlist(r.Context(), id)
	writeJSON(w, http.StatusOK, dataResponse{Data: playlist})
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	Public      *bool  `json:"isPublic"`
}

// createPlaylist is shared with POST /api/users/playlists.
func createPlaylist(w http.ResponseWriter, r *http.Request, store *repositories.Store, logger *log.Logger) {
	user, _ := CurrentUser(r.Context())

	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, logger, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument))
		return
	}

	playlist := models.NewPlaylist(0, user.ID(), req.Name)
	playlist.SetDescription(req.Description)
	playlist.SetCoverURL(req.CoverURL)
	if req.Public != nil {
		playlist.SetPublic(*req.Public)
	}

	if err := store.Playlists.Create(playlist); err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewPlaylistView(playlist, nil))
}

func (h *MusicHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	createPlaylist(w, r, h.store, h.logger)
}

// owned loads the playlist in the path and checks that the session user owns it.
func (h *MusicHandler) owned(r *http.Request) (*models.Playlist, error) {
	user, _ := CurrentUser(r.Context())

	playlist, err := h.store.Playlists.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrPlaylistNotFound
		}
		return nil, err
	}
	if !playlist.OwnedBy(user.ID()) {
		return nil, shared.ErrForbidden
	}
	return playlist, nil
}

func (h *MusicHandler) respondView(w http.ResponseWriter, id string) {
	view, err := h.store.Playlists.View(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EditPlaylist applies the fields present in the body.
func (h *MusicHandler) EditPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.owned(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var fields models.PlaylistFields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, h.logger, err)
		return
	}
	fields.Apply(playlist)

	if err := h.store.Playlists.Update(playlist); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondView(w, playlist.ID())
}

func (h *MusicHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.owned(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.store.Playlists.Delete(playlist.ID()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Playlist removed")
}

type songRequest struct {
	Song *models.Track `json:"song"`
}

// AddSong upserts the song and appends it. A song already present is 409.
func (h *MusicHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.owned(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req songRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Song == nil || req.Song.Key() == "" {
		writeError(w, h.logger, fmt.Errorf("%w: song with an id is required", shared.ErrMissingArgument))
		return
	}

	if err := h.store.Playlists.AddSong(playlist.ID(), *req.Song); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			writeMessage(w, http.StatusConflict, "Song already in playlist")
			return
		}
		writeError(w, h.logger, err)
		return
	}
	h.respondView(w, playlist.ID())
}

func (h *MusicHandler) RemoveSong(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.owned(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.store.Playlists.RemoveSong(playlist.ID(), r.PathValue("songId")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respondView(w, playlist.ID())
}
