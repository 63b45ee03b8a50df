// Package library keeps the user's favorites and playlists.
//
// Every mutation is applied locally first and returned immediately. When a
// session exists the matching remote call runs afterwards; its outcome is
// reported through the [SyncResult] callback and a failure is never rolled
// back. A later successful call resyncs from the authoritative user record.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// Remote is the session-scoped user store.
type Remote interface {
	Authenticated() bool
	CurrentUser(ctx context.Context) (models.Profile, error)
	AddFavorite(ctx context.Context, track models.Track) ([]models.Track, error)
	RemoveFavorite(ctx context.Context, trackID string) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, fields models.PlaylistFields) (models.PlaylistView, error)
	EditPlaylist(ctx context.Context, id string, fields models.PlaylistFields) (models.PlaylistView, error)
	DeletePlaylist(ctx context.Context, id string) error
	AddSongToPlaylist(ctx context.Context, id string, track models.Track) (models.PlaylistView, error)
	RemoveSongFromPlaylist(ctx context.Context, id, songID string) (models.PlaylistView, error)
}

// LocalStore persists favorites and playlists on this machine. Loads return
// [shared.ErrNotFound] when nothing was saved and [shared.ErrMalformedState]
// when the stored value is unreadable.
type LocalStore interface {
	LoadFavorites() ([]models.Track, error)
	SaveFavorites([]models.Track) error
	LoadPlaylists() ([]Playlist, error)
	SavePlaylists([]Playlist) error
}

// SyncResult reports how a mutation was reconciled. Local is set when no
// remote call was made; otherwise Err is the remote failure, if any.
type SyncResult struct {
	Op    string
	Key   string
	Local bool
	Err   error
}

// Library holds the optimistic local copy of favorites and playlists.
type Library struct {
	mu        sync.RWMutex
	favorites []models.Track
	playlists []Playlist

	remote Remote
	local  LocalStore
	logger *log.Logger
	exec   func(func())
	onSync func(SyncResult)

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a [Library].
type Option func(*Library)

func WithRemote(r Remote) Option {
	return func(l *Library) { l.remote = r }
}

func WithLocalStore(s LocalStore) Option {
	return func(l *Library) { l.local = s }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// WithExecutor replaces the goroutine-per-call default for remote work.
func WithExecutor(exec func(func())) Option {
	return func(l *Library) { l.exec = exec }
}

// OnSync registers the reconciliation callback. It runs on the executor.
func OnSync(fn func(SyncResult)) Option {
	return func(l *Library) { l.onSync = fn }
}

// New creates an empty library. Call [Library.Load] to populate it.
func New(opts ...Option) *Library {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Library{
		favorites: []models.Track{},
		playlists: []Playlist{},
		exec:      func(fn func()) { go fn() },
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	return l
}

// Close cancels in-flight remote calls.
func (l *Library) Close() {
	l.cancel()
}

func (l *Library) online() bool {
	return l.remote != nil && l.remote.Authenticated()
}

// Load populates the library at session start: from the remote user when
// signed in, from local storage otherwise or when the remote is unreachable.
func (l *Library) Load(ctx context.Context) error {
	if l.online() {
		err := l.Resync(ctx)
		if err == nil {
			return nil
		}
		l.logger.Warn("remote library unavailable, using local copy", "err", err)
	}
	return l.loadLocal()
}

func (l *Library) loadLocal() error {
	if l.local == nil {
		return nil
	}

	favorites, err := l.local.LoadFavorites()
	if err := ignoreMissing(l.logger, "favorites", err); err != nil {
		return err
	}
	playlists, err := l.local.LoadPlaylists()
	if err := ignoreMissing(l.logger, "playlists", err); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if favorites != nil {
		l.favorites = favorites
	}
	if playlists != nil {
		l.playlists = playlists
	}
	return nil
}

// ignoreMissing swallows absent and malformed values, which fall back to empty.
func ignoreMissing(logger *log.Logger, what string, err error) error {
	switch {
	case err == nil, errors.Is(err, shared.ErrNotFound):
		return nil
	case errors.Is(err, shared.ErrMalformedState):
		logger.Warn("discarding stored "+what, "err", err)
		return nil
	default:
		return err
	}
}

// Resync replaces the local copy with the authoritative remote user record.
func (l *Library) Resync(ctx context.Context) error {
	if l.remote == nil {
		return shared.ErrLocalOnly
	}
	profile, err := l.remote.CurrentUser(ctx)
	if err != nil {
		return err
	}

	playlists := make([]Playlist, 0, len(profile.Playlists))
	for _, v := range profile.Playlists {
		playlists = append(playlists, fromView(v))
	}
	favorites := profile.LikedSongs
	if favorites == nil {
		favorites = []models.Track{}
	}

	l.mu.Lock()
	l.favorites = favorites
	l.playlists = playlists
	l.mu.Unlock()

	l.saveLocal()
	return nil
}

// saveLocal mirrors the current state to local storage.
func (l *Library) saveLocal() {
	if l.local == nil {
		return
	}
	l.mu.RLock()
	favorites := slices.Clone(l.favorites)
	playlists := clonePlaylists(l.playlists)
	l.mu.RUnlock()

	if err := l.local.SaveFavorites(favorites); err != nil {
		l.logger.Warn("failed to save favorites", "err", err)
	}
	if err := l.local.SavePlaylists(playlists); err != nil {
		l.logger.Warn("failed to save playlists", "err", err)
	}
}

// reconcile mirrors locally, then runs call against the remote when signed in.
func (l *Library) reconcile(op, key string, call func(ctx context.Context, r Remote) error) {
	l.saveLocal()

	if !l.online() || call == nil {
		l.report(SyncResult{Op: op, Key: key, Local: true})
		return
	}

	remote, ctx := l.remote, l.ctx
	l.exec(func() {
		if err := call(ctx, remote); err != nil {
			l.logger.Warn("remote sync failed", "op", op, "key", key, "err", err)
			l.report(SyncResult{Op: op, Key: key, Err: err})
			return
		}
		if err := l.Resync(ctx); err != nil {
			l.logger.Warn("resync failed", "op", op, "err", err)
		}
		l.report(SyncResult{Op: op, Key: key})
	})
}

func (l *Library) report(r SyncResult) {
	if l.onSync != nil {
		l.onSync(r)
	}
}

// IsFavorite reports whether key is liked. It never does I/O.
func (l *Library) IsFavorite(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.IndexOf(l.favorites, key) >= 0
}

// Favorites returns a copy of the liked tracks.
func (l *Library) Favorites() []models.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.favorites)
}

// Playlists returns a copy of the playlists.
func (l *Library) Playlists() []Playlist {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clonePlaylists(l.playlists)
}

// Playlist returns the playlist with id.
func (l *Library) Playlist(id string) (Playlist, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.find(id); i >= 0 {
		return clonePlaylists(l.playlists[i : i+1])[0], true
	}
	return Playlist{}, false
}

func (l *Library) find(id string) int {
	return slices.IndexFunc(l.playlists, func(p Playlist) bool { return p.ID == id })
}

// ToggleFavorite flips track's membership and returns whether it is now liked.
func (l *Library) ToggleFavorite(track models.Track) bool {
	key := track.Key()

	l.mu.Lock()
	i := models.IndexOf(l.favorites, key)
	liked := i < 0
	if liked {
		l.favorites = append(l.favorites, track)
	} else {
		l.favorites = slices.Delete(l.favorites, i, i+1)
	}
	l.mu.Unlock()

	if liked {
		l.reconcile("addFavorite", key, func(ctx context.Context, r Remote) error {
			_, err := r.AddFavorite(ctx, track)
			return err
		})
	} else {
		l.reconcile("removeFavorite", key, func(ctx context.Context, r Remote) error {
			_, err := r.RemoveFavorite(ctx, key)
			return err
		})
	}
	return liked
}

// CreatePlaylist adds an empty playlist with a generated id. When signed in,
// the next resync replaces it with the server's copy.
func (l *Library) CreatePlaylist(name string) (Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Playlist{}, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	p := Playlist{ID: shared.GenerateID(), Name: name, Tracks: []models.Track{}, CreatedAt: time.Now()}
	l.mu.Lock()
	l.playlists = append(l.playlists, p)
	l.mu.Unlock()

	l.reconcile("createPlaylist", p.ID, func(ctx context.Context, r Remote) error {
		_, err := r.CreatePlaylist(ctx, models.PlaylistFields{Name: &name})
		return err
	})
	return p, nil
}

// RenamePlaylist changes a playlist's name.
func (l *Library) RenamePlaylist(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	l.mu.Lock()
	i := l.find(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	l.playlists[i].Name = name
	l.mu.Unlock()

	l.reconcile("renamePlaylist", id, func(ctx context.Context, r Remote) error {
		_, err := r.EditPlaylist(ctx, id, models.PlaylistFields{Name: &name})
		return err
	})
	return nil
}

// DeletePlaylist removes a playlist.
func (l *Library) DeletePlaylist(id string) error {
	l.mu.Lock()
	i := l.find(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	l.playlists = slices.Delete(l.playlists, i, i+1)
	l.mu.Unlock()

	l.reconcile("deletePlaylist", id, func(ctx context.Context, r Remote) error {
		return r.DeletePlaylist(ctx, id)
	})
	return nil
}

// AddToPlaylist appends track. A track already present is [shared.ErrAlreadyExists].
func (l *Library) AddToPlaylist(id string, track models.Track) error {
	l.mu.Lock()
	i := l.find(id)
	switch {
	case i < 0:
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	case l.playlists[i].Has(track.Key()):
		l.mu.Unlock()
		return fmt.Errorf("%w: %q is already in the playlist", shared.ErrAlreadyExists, track.Title)
	}
	l.playlists[i].Tracks = append(l.playlists[i].Tracks, track)
	l.mu.Unlock()

	l.reconcile("addToPlaylist", id, func(ctx context.Context, r Remote) error {
		_, err := r.AddSongToPlaylist(ctx, id, track)
		return err
	})
	return nil
}

// RemoveFromPlaylist removes the track identified by trackRef, a track id or
// playable url. The remote call needs a catalog id; tracks without one are
// only removed locally.
func (l *Library) RemoveFromPlaylist(id, trackRef string) error {
	l.mu.Lock()
	i := l.find(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	j := slices.IndexFunc(l.playlists[i].Tracks, func(t models.Track) bool {
		return t.Key() == trackRef || (trackRef != "" && t.PlayableURL == trackRef)
	})
	if j < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackRef)
	}
	removed := l.playlists[i].Tracks[j]
	l.playlists[i].Tracks = slices.Delete(l.playlists[i].Tracks, j, j+1)
	l.mu.Unlock()

	var call func(context.Context, Remote) error
	if removed.ID != "" {
		call = func(ctx context.Context, r Remote) error {
			_, err := r.RemoveSongFromPlaylist(ctx, id, removed.ID)
			return err
		}
	}
	l.reconcile("removeFromPlaylist", id, call)
	return nil
}
