package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// MockRemote is an in-memory user store with the same semantics as the backend
// API. Anonymous makes every call return [shared.ErrLocalOnly]; Err makes every
// call fail after being recorded.
type MockRemote struct {
	mu sync.Mutex

	Anonymous bool
	Err       error

	user      models.Profile
	liked     []models.Track
	playlists []models.PlaylistView
	calls     []string
	nextID    int
}

// NewMockRemote creates a signed-in remote with no favorites or playlists.
func NewMockRemote() *MockRemote {
	return &MockRemote{user: models.Profile{ID: "user-1", Name: "Listener", Email: "listener@example.com"}}
}

func (m *MockRemote) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.Anonymous
}

func (m *MockRemote) check(op string) error {
	m.calls = append(m.calls, op)
	if m.Anonymous {
		return shared.ErrLocalOnly
	}
	return m.Err
}

func (m *MockRemote) CurrentUser(ctx context.Context) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CurrentUser"); err != nil {
		return models.Profile{}, err
	}
	p := m.user
	p.LikedSongs = slices.Clone(m.liked)
	p.Playlists = make([]models.PlaylistView, len(m.playlists))
	for i, v := range m.playlists {
		v.Tracks = slices.Clone(v.Tracks)
		p.Playlists[i] = v
	}
	return p, nil
}

func (m *MockRemote) AddFavorite(ctx context.Context, track models.Track) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("AddFavorite"); err != nil {
		return nil, err
	}
	if models.IndexOf(m.liked, track.Key()) < 0 {
		m.liked = append(m.liked, track)
	}
	return slices.Clone(m.liked), nil
}

func (m *MockRemote) RemoveFavorite(ctx context.Context, trackID string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("RemoveFavorite"); err != nil {
		return nil, err
	}
	m.liked = slices.DeleteFunc(m.liked, func(t models.Track) bool { return t.Key() == trackID })
	return slices.Clone(m.liked), nil
}

func (m *MockRemote) CreatePlaylist(ctx context.Context, fields models.PlaylistFields) (models.PlaylistView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CreatePlaylist"); err != nil {
		return models.PlaylistView{}, err
	}
	m.nextID++
	now := time.Now()
	v := models.PlaylistView{
		ID:        fmt.Sprintf("remote-%d", m.nextID),
		Owner:     m.user.ID,
		Public:    true,
		Tracks:    []models.Track{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyFields(&v, fields)
	m.playlists = append(m.playlists, v)
	return v, nil
}

func (m *MockRemote) EditPlaylist(ctx context.Context, id string, fields models.PlaylistFields) (models.PlaylistView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("EditPlaylist"); err != nil {
		return models.PlaylistView{}, err
	}
	i, err := m.find(id)
	if err != nil {
		return models.PlaylistView{}, err
	}
	applyFields(&m.playlists[i], fields)
	return m.playlists[i], nil
}

func (m *MockRemote) DeletePlaylist(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("DeletePlaylist"); err != nil {
		return err
	}
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.playlists = slices.Delete(m.playlists, i, i+1)
	return nil
}

func (m *MockRemote) AddSongToPlaylist(ctx context.Context, id string, track models.Track) (models.PlaylistView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("AddSongToPlaylist"); err != nil {
		return models.PlaylistView{}, err
	}
	i, err := m.find(id)
	if err != nil {
		return models.PlaylistView{}, err
	}
	if models.IndexOf(m.playlists[i].Tracks, track.Key()) >= 0 {
		return models.PlaylistView{}, fmt.Errorf("%w: song already in playlist", shared.ErrAlreadyExists)
	}
	m.playlists[i].Tracks = append(m.playlists[i].Tracks, track)
	return m.playlists[i], nil
}

func (m *MockRemote) RemoveSongFromPlaylist(ctx context.Context, id, songID string) (models.PlaylistView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("RemoveSongFromPlaylist"); err != nil {
		return models.PlaylistView{}, err
	}
	i, err := m.find(id)
	if err != nil {
		return models.PlaylistView{}, err
	}
	m.playlists[i].Tracks = slices.DeleteFunc(m.playlists[i].Tracks, func(t models.Track) bool { return t.Key() == songID })
	return m.playlists[i], nil
}

func (m *MockRemote) find(id string) (int, error) {
	for i, v := range m.playlists {
		if v.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
}

func applyFields(v *models.PlaylistView, f models.PlaylistFields) {
	if f.Name != nil {
		v.Name = *f.Name
	}
	if f.Description != nil {
		v.Description = *f.Description
	}
	if f.CoverURL != nil {
		v.CoverURL = *f.CoverURL
	}
	if f.Public != nil {
		v.Public = *f.Public
	}
	v.UpdatedAt = time.Now()
}

// Calls returns the name of every method called, in order.
func (m *MockRemote) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// SetErr changes the failure for subsequent calls.
func (m *MockRemote) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Liked returns the remote favorites.
func (m *MockRemote) Liked() []models.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.liked)
}

// Playlists returns the remote playlists.
func (m *MockRemote) Playlists() []models.PlaylistView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.playlists)
}

// Seed replaces the remote favorites and playlists.
func (m *MockRemote) Seed(liked []models.Track, playlists []models.PlaylistView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liked = slices.Clone(liked)
	m.playlists = slices.Clone(playlists)
}
