package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
)

// AdminHandler serves the admin-only endpoints.
type AdminHandler struct {
	store  *repositories.Store
	auth   *Authenticator
	logger *log.Logger
}

func NewAdminHandler(store *repositories.Store, auth *Authenticator, logger *log.Logger) *AdminHandler {
	return &AdminHandler{store: store, auth: auth, logger: logger}
}

func (h *AdminHandler) Routes() []Route {
	admin := h.auth.admin()
	return []Route{
		{Method: http.MethodGet, Path: "/api/admin/users", Handler: h.Users, Middleware: admin},
		{Method: http.MethodGet, Path: "/api/admin/stats", Handler: h.Stats, Middleware: admin},
	}
}

type adminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users.List(map[string]any{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{ID: u.ID(), Name: u.Name(), Email: u.Email(), IsAdmin: u.IsAdmin(), CreatedAt: u.CreatedAt()})
	}
	writeJSON(w, http.StatusOK, out)
}

// CollectStats gathers the dashboard counters. Active users are those holding a live session.
func CollectStats(store *repositories.Store) (models.Stats, error) {
	var (
		stats models.Stats
		err   error
	)
	if stats.Users, err = store.Users.Count(); err != nil {
		return stats, err
	}
	if stats.Playlists, err = store.Playlists.Count(); err != nil {
		return stats, err
	}
	if stats.TotalLikedSongs, err = store.Favorites.Count(); err != nil {
		return stats, err
	}
	if stats.ActiveUsers, err = store.Sessions.ActiveUsers(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := CollectStats(h.store)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
