package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
	tu "github.com/desertthunder/harmony/internal/testing"
)

type memStore struct {
	mu           sync.Mutex
	favorites    []models.Track
	playlists    []Playlist
	favoritesErr error
	playlistsErr error
	saves        int
}

func (m *memStore) LoadFavorites() ([]models.Track, error) { return m.favorites, m.favoritesErr }
func (m *memStore) LoadPlaylists() ([]Playlist, error)     { return m.playlists, m.playlistsErr }

func (m *memStore) SaveFavorites(ts []models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites = ts
	m.saves++
	return nil
}

func (m *memStore) SavePlaylists(ps []Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists = ps
	return nil
}

type recorder struct {
	mu      sync.Mutex
	results []SyncResult
}

func (r *recorder) record(res SyncResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) last(t *testing.T) SyncResult {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.results)
	return r.results[len(r.results)-1]
}

func song(id string) models.Track {
	return models.Track{ID: id, Title: "Song " + id, Artist: "Artist", PlayableURL: "https://cdn.example.com/" + id + ".mp4"}
}

func inline(fn func()) { fn() }

func newOnline(t *testing.T) (*Library, *tu.MockRemote, *memStore, *recorder) {
	t.Helper()
	remote := tu.NewMockRemote()
	store := &memStore{}
	rec := &recorder{}
	l := New(WithRemote(remote), WithLocalStore(store), WithExecutor(inline), OnSync(rec.record))
	t.Cleanup(l.Close)
	return l, remote, store, rec
}

func newLocal(t *testing.T) (*Library, *memStore, *recorder) {
	t.Helper()
	store := &memStore{}
	rec := &recorder{}
	remote := tu.NewMockRemote()
	remote.Anonymous = true
	l := New(WithRemote(remote), WithLocalStore(store), WithExecutor(inline), OnSync(rec.record))
	t.Cleanup(l.Close)
	return l, store, rec
}

func TestLoad(t *testing.T) {
	t.Run("signed in uses the remote user", func(t *testing.T) {
		l, remote, store, _ := newOnline(t)
		remote.Seed([]models.Track{song("a")}, []models.PlaylistView{{ID: "p1", Name: "Remote", Tracks: []models.Track{song("b")}}})

		require.NoError(t, l.Load(context.Background()))

		assert.True(t, l.IsFavorite("a"))
		require.Len(t, l.Playlists(), 1)
		assert.Equal(t, "Remote", l.Playlists()[0].Name)
		assert.Len(t, store.favorites, 1, "remote state is mirrored locally")
	})

	t.Run("unreachable remote falls back to local", func(t *testing.T) {
		l, remote, store, _ := newOnline(t)
		remote.SetErr(shared.ErrServiceUnavailable)
		store.favorites = []models.Track{song("x")}

		require.NoError(t, l.Load(context.Background()))
		assert.True(t, l.IsFavorite("x"))
	})

	t.Run("local only", func(t *testing.T) {
		l, store, _ := newLocal(t)
		store.playlists = []Playlist{{ID: "local-1", Name: "Mine"}}

		require.NoError(t, l.Load(context.Background()))
		_, ok := l.Playlist("local-1")
		assert.True(t, ok)
	})

	t.Run("malformed local state is discarded", func(t *testing.T) {
		l, store, _ := newLocal(t)
		store.favoritesErr = shared.ErrMalformedState
		store.playlistsErr = shared.ErrNotFound

		require.NoError(t, l.Load(context.Background()))
		assert.Empty(t, l.Favorites())
		assert.Empty(t, l.Playlists())
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		l, store, _ := newLocal(t)
		store.favoritesErr = errors.New("locked")
		assert.Error(t, l.Load(context.Background()))
	})
}

func TestToggleFavorite(t *testing.T) {
	t.Run("signed in adds remotely and resyncs", func(t *testing.T) {
		l, remote, _, rec := newOnline(t)

		assert.True(t, l.ToggleFavorite(song("a")))

		assert.True(t, l.IsFavorite("a"))
		assert.Equal(t, []string{"AddFavorite", "CurrentUser"}, remote.Calls())
		assert.Equal(t, SyncResult{Op: "addFavorite", Key: "a"}, rec.last(t))
	})

	t.Run("remove failure is not rolled back", func(t *testing.T) {
		l, remote, _, rec := newOnline(t)
		remote.Seed([]models.Track{song("a")}, nil)
		require.NoError(t, l.Load(context.Background()))
		remote.SetErr(shared.ErrServiceUnavailable)

		assert.False(t, l.ToggleFavorite(song("a")))

		assert.False(t, l.IsFavorite("a"))
		assert.Contains(t, remote.Calls(), "RemoveFavorite")
		res := rec.last(t)
		assert.Equal(t, "removeFavorite", res.Op)
		assert.ErrorIs(t, res.Err, shared.ErrServiceUnavailable)
		assert.Len(t, remote.Liked(), 1, "remote still has it until the next successful sync")
	})

	t.Run("local only persists without remote calls", func(t *testing.T) {
		l, store, rec := newLocal(t)

		assert.True(t, l.ToggleFavorite(song("a")))
		assert.False(t, l.ToggleFavorite(song("a")))
		assert.True(t, l.ToggleFavorite(song("b")))

		assert.Equal(t, []models.Track{song("b")}, store.favorites)
		assert.True(t, rec.last(t).Local)
	})

	t.Run("keyed by playable url when id is missing", func(t *testing.T) {
		l, _, _ := newLocal(t)
		keyless := models.Track{Title: "x", PlayableURL: "https://cdn.example.com/x"}

		l.ToggleFavorite(keyless)
		assert.True(t, l.IsFavorite(keyless.PlayableURL))
	})
}

func TestPlaylists_LocalOnly(t *testing.T) {
	l, store, _ := newLocal(t)

	_, err := l.CreatePlaylist("  ")
	require.ErrorIs(t, err, shared.ErrMissingArgument)

	p, err := l.CreatePlaylist("Road Trip")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	require.Len(t, store.playlists, 1)

	require.NoError(t, l.AddToPlaylist(p.ID, song("a")))
	require.NoError(t, l.AddToPlaylist(p.ID, song("b")))
	assert.ErrorIs(t, l.AddToPlaylist(p.ID, song("a")), shared.ErrAlreadyExists)
	assert.ErrorIs(t, l.AddToPlaylist("missing", song("a")), shared.ErrPlaylistNotFound)

	require.NoError(t, l.RemoveFromPlaylist(p.ID, song("a").PlayableURL))
	assert.ErrorIs(t, l.RemoveFromPlaylist(p.ID, "nope"), shared.ErrTrackNotFound)

	require.NoError(t, l.RenamePlaylist(p.ID, "Night Drive"))
	got, ok := l.Playlist(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Night Drive", got.Name)
	assert.Equal(t, []models.Track{song("b")}, got.Tracks)
	assert.Equal(t, "Night Drive", store.playlists[0].Name)

	require.NoError(t, l.DeletePlaylist(p.ID))
	assert.Empty(t, l.Playlists())
	assert.ErrorIs(t, l.DeletePlaylist(p.ID), shared.ErrPlaylistNotFound)
}

func TestPlaylists_SignedIn(t *testing.T) {
	l, remote, _, rec := newOnline(t)

	local, err := l.CreatePlaylist("Gym")
	require.NoError(t, err)

	// The resync after creation swaps the optimistic copy for the server's.
	playlists := l.Playlists()
	require.Len(t, playlists, 1)
	assert.NotEqual(t, local.ID, playlists[0].ID)
	id := playlists[0].ID

	require.NoError(t, l.AddToPlaylist(id, song("a")))
	require.NoError(t, l.RenamePlaylist(id, "Gym Mix"))
	assert.Equal(t, "Gym Mix", remote.Playlists()[0].Name)
	assert.Len(t, remote.Playlists()[0].Tracks, 1)

	require.NoError(t, l.RemoveFromPlaylist(id, "a"))
	assert.Empty(t, remote.Playlists()[0].Tracks)

	require.NoError(t, l.DeletePlaylist(id))
	assert.Empty(t, remote.Playlists())
	assert.Equal(t, SyncResult{Op: "deletePlaylist", Key: id}, rec.last(t))
}

func TestPlaylists_RemoteFailureKeepsLocalChange(t *testing.T) {
	l, remote, _, rec := newOnline(t)
	remote.Seed(nil, []models.PlaylistView{{ID: "p1", Name: "Shared"}})
	require.NoError(t, l.Load(context.Background()))
	remote.SetErr(shared.ErrServiceUnavailable)

	require.NoError(t, l.AddToPlaylist("p1", song("a")))

	p, _ := l.Playlist("p1")
	assert.Len(t, p.Tracks, 1)
	assert.ErrorIs(t, rec.last(t).Err, shared.ErrServiceUnavailable)
}

func TestRemoveFromPlaylist_KeylessIsLocalOnly(t *testing.T) {
	l, remote, _, rec := newOnline(t)
	keyless := models.Track{Title: "x", PlayableURL: "https://cdn.example.com/x"}
	remote.Seed(nil, []models.PlaylistView{{ID: "p1", Name: "Shared", Tracks: []models.Track{keyless}}})
	require.NoError(t, l.Load(context.Background()))

	require.NoError(t, l.RemoveFromPlaylist("p1", keyless.PlayableURL))

	assert.NotContains(t, remote.Calls(), "RemoveSongFromPlaylist")
	assert.True(t, rec.last(t).Local)
}
