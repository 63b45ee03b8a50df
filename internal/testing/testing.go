// Package testing contains shared test doubles and filesystem helpers.
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/harmony/internal/models"
)

// MockCatalog is an in-memory song catalog. Search returns Results[term] when
// present and Tracks otherwise; Err makes every call fail with empty values.
type MockCatalog struct {
	mu sync.Mutex

	Tracks    []models.Track
	Results   map[string][]models.Track
	LyricsFor map[string]string
	Err       error

	searches []string
	lyrics   []string
}

func (m *MockCatalog) Search(ctx context.Context, term string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, term)
	if m.Err != nil {
		return []models.Track{}, m.Err
	}
	if results, ok := m.Results[term]; ok {
		return slices.Clone(results), nil
	}
	return slices.Clone(m.Tracks), nil
}

func (m *MockCatalog) Song(ctx context.Context, id string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return []models.Track{}, m.Err
	}
	for _, t := range m.Tracks {
		if t.ID == id {
			return []models.Track{t}, nil
		}
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) Album(ctx context.Context, id string) (models.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Album{Songs: []models.Track{}}, m.Err
	}
	return models.Album{ID: id, Name: "Album " + id, Songs: slices.Clone(m.Tracks)}, nil
}

func (m *MockCatalog) Artist(ctx context.Context, id string) (models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Artist{TopSongs: []models.Track{}}, m.Err
	}
	return models.Artist{ID: id, Name: "Artist " + id, TopSongs: slices.Clone(m.Tracks)}, nil
}

func (m *MockCatalog) Playlist(ctx context.Context, id string) (models.CatalogPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.CatalogPlaylist{Songs: []models.Track{}}, m.Err
	}
	return models.CatalogPlaylist{ID: id, Name: "Catalog " + id, Songs: slices.Clone(m.Tracks)}, nil
}

func (m *MockCatalog) Lyrics(ctx context.Context, id string) (models.Lyrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lyrics = append(m.lyrics, id)
	if m.Err != nil {
		return models.Lyrics{}, m.Err
	}
	return models.Lyrics{Lyrics: m.LyricsFor[id]}, nil
}

// Searches returns every search term received, in order.
func (m *MockCatalog) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.searches)
}

// LyricsRequests returns every lyrics id requested, in order.
func (m *MockCatalog) LyricsRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lyrics)
}

// SetErr changes the failure for subsequent calls.
func (m *MockCatalog) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
