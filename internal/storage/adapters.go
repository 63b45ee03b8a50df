package storage

import (
	"errors"
	"slices"
	"strings"

	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/player"
	"github.com/desertthunder/harmony/internal/shared"
)

const maxRecentSearches = 10

var (
	_ player.Persister   = (*Store)(nil)
	_ library.LocalStore = (*Store)(nil)
)

// SavePlayerState writes the player snapshot, debounced.
func (s *Store) SavePlayerState(snap player.Snapshot) error {
	return s.saveLater(func() error { return s.Save(player.StateKey, snap) })
}

func (s *Store) LoadPlayerState() (player.Snapshot, error) {
	var snap player.Snapshot
	err := s.Load(player.StateKey, &snap)
	return snap, err
}

func (s *Store) LoadFavorites() ([]models.Track, error) {
	var favorites []models.Track
	err := s.Load(KeyFavorites, &favorites)
	return favorites, err
}

func (s *Store) SaveFavorites(favorites []models.Track) error {
	return s.Save(KeyFavorites, favorites)
}

func (s *Store) LoadPlaylists() ([]library.Playlist, error) {
	var playlists []library.Playlist
	err := s.Load(KeyPlaylists, &playlists)
	return playlists, err
}

func (s *Store) SavePlaylists(playlists []library.Playlist) error {
	return s.Save(KeyPlaylists, playlists)
}

// RecentSearches returns the saved search terms, newest first. Missing or
// malformed history is empty.
func (s *Store) RecentSearches() ([]string, error) {
	var terms []string
	err := s.Load(KeyRecentSearches, &terms)
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrMalformedState):
		return []string{}, nil
	case err != nil:
		return nil, err
	}
	return terms, nil
}

// AddRecentSearch moves term to the front of the history, keeping at most ten
// distinct entries, and returns the new history.
func (s *Store) AddRecentSearch(term string) ([]string, error) {
	term = strings.TrimSpace(term)
	terms, err := s.RecentSearches()
	if err != nil || term == "" {
		return terms, err
	}

	terms = slices.DeleteFunc(terms, func(t string) bool { return strings.EqualFold(t, term) })
	terms = append([]string{term}, terms...)
	if len(terms) > maxRecentSearches {
		terms = terms[:maxRecentSearches]
	}
	return terms, s.Save(KeyRecentSearches, terms)
}

// ClearRecentSearches empties the history.
func (s *Store) ClearRecentSearches() error {
	return s.Delete(KeyRecentSearches)
}
