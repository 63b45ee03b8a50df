package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/server"
	"github.com/desertthunder/harmony/internal/shared"
	tu "github.com/desertthunder/harmony/internal/testing"
)

type backend struct {
	url   string
	store *repositories.Store
}

// startBackend serves the full API over an in-memory database.
func startBackend(t *testing.T) *backend {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, shared.RunMigrations(db))

	store := repositories.NewStore(db)
	catalog := &tu.MockCatalog{
		Tracks: []models.Track{
			{ID: "s1", Title: "One", Artist: "A", PlayableURL: "https://cdn/1.mp4"},
			{ID: "s2", Title: "Two", Artist: "A", PlayableURL: "https://cdn/2.mp4"},
		},
		LyricsFor: map[string]string{"s2": "la la"},
	}

	srv := httptest.NewServer(server.NewAPI(store, catalog, "*", shared.NewLogger(io.Discard)))
	t.Cleanup(srv.Close)
	return &backend{url: srv.URL, store: store}
}

func (b *backend) token(t *testing.T, email string) string {
	t.Helper()
	user := models.NewUser(0, email, "Listener")
	require.NoError(t, b.store.Users.Create(user))
	session, err := b.store.Sessions.Create(user.ID(), 0)
	require.NoError(t, err)
	return session.Token
}

func TestClient_Catalog(t *testing.T) {
	b := startBackend(t)
	c := New(b.url)
	ctx := context.Background()

	assert.False(t, c.Authenticated())

	results, err := c.Search(ctx, "one")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = c.Search(ctx, "  ")
	assert.ErrorIs(t, err, shared.ErrMissingArgument)

	songs, err := c.Song(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "One", songs[0].Title)

	lyrics, err := c.Lyrics(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "la la", lyrics.Lyrics)
}

func TestClient_LocalOnly(t *testing.T) {
	b := startBackend(t)
	c := New(b.url)
	ctx := context.Background()

	_, err := c.CurrentUser(ctx)
	assert.ErrorIs(t, err, shared.ErrLocalOnly)
	_, err = c.AddFavorite(ctx, models.Track{ID: "s1", Title: "One"})
	assert.ErrorIs(t, err, shared.ErrLocalOnly)
	assert.ErrorIs(t, c.DeletePlaylist(ctx, "p"), shared.ErrLocalOnly)
}

func TestClient_BadToken(t *testing.T) {
	b := startBackend(t)
	c := New(b.url, WithToken("not-a-session"))

	_, err := c.CurrentUser(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestClient_Account(t *testing.T) {
	b := startBackend(t)
	c := New(b.url, WithToken(b.token(t, "a@example.com")))
	ctx := context.Background()
	one := models.Track{ID: "s1", Title: "One", PlayableURL: "https://cdn/1.mp4"}

	liked, err := c.AddFavorite(ctx, one)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "s1", liked[0].ID)

	name := "Road trip"
	view, err := c.CreatePlaylist(ctx, models.PlaylistFields{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, view.Name)
	assert.NotEmpty(t, view.ID)

	view, err = c.AddSongToPlaylist(ctx, view.ID, one)
	require.NoError(t, err)
	assert.Len(t, view.Tracks, 1)

	_, err = c.AddSongToPlaylist(ctx, view.ID, one)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	renamed := "Night drive"
	view, err = c.EditPlaylist(ctx, view.ID, models.PlaylistFields{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, view.Name)

	profile, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", profile.Email)
	assert.Len(t, profile.LikedSongs, 1)
	require.Len(t, profile.Playlists, 1)

	view, err = c.RemoveSongFromPlaylist(ctx, view.ID, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Tracks)

	require.NoError(t, c.DeletePlaylist(ctx, view.ID))
	assert.ErrorIs(t, c.DeletePlaylist(ctx, view.ID), shared.ErrPlaylistNotFound)

	liked, err = c.RemoveFavorite(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestClient_Forbidden(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	owner := New(b.url, WithToken(b.token(t, "owner@example.com")))
	other := New(b.url, WithToken(b.token(t, "other@example.com")))

	name := "Mine"
	view, err := owner.CreatePlaylist(ctx, models.PlaylistFields{Name: &name})
	require.NoError(t, err)

	assert.ErrorIs(t, other.DeletePlaylist(ctx, view.ID), shared.ErrForbidden)
}

// TestLibrarySync drives a signed-in library through the real API.
func TestLibrarySync(t *testing.T) {
	b := startBackend(t)
	c := New(b.url, WithToken(b.token(t, "a@example.com")))

	var results []library.SyncResult
	lib := library.New(
		library.WithRemote(c),
		library.WithExecutor(func(fn func()) { fn() }),
		library.OnSync(func(r library.SyncResult) { results = append(results, r) }),
	)
	defer lib.Close()
	require.NoError(t, lib.Load(context.Background()))

	one := models.Track{ID: "s1", Title: "One", PlayableURL: "https://cdn/1.mp4"}
	assert.True(t, lib.ToggleFavorite(one))
	assert.True(t, lib.IsFavorite("s1"))

	p, err := lib.CreatePlaylist("Mix")
	require.NoError(t, err)

	// The resync swaps the optimistic id for the server's.
	playlists := lib.Playlists()
	require.Len(t, playlists, 1)
	assert.NotEqual(t, p.ID, playlists[0].ID)

	require.NoError(t, lib.AddToPlaylist(playlists[0].ID, one))
	got, ok := lib.Playlist(playlists[0].ID)
	require.True(t, ok)
	assert.True(t, got.Has("s1"))

	for _, r := range results {
		assert.NoError(t, r.Err, r.Op)
		assert.False(t, r.Local, r.Op)
	}
}
