package models

import "fmt"

// Song is a catalog [Track] cached in the database so playlists and favorites can
// reference it. The catalog id is unique across songs.
type Song struct {
	entity
	track Track
}

// NewSong wraps track for persistence.
func NewSong(sequence int, track Track) *Song {
	return &Song{entity: newEntity(sequence), track: track}
}

// CatalogID is the upstream identity of the song, see [Track.Key].
func (s *Song) CatalogID() string { return s.track.Key() }

// Track returns the canonical record.
func (s *Song) Track() Track { return s.track }

// SetTrack replaces the cached metadata, keeping the identity.
func (s *Song) SetTrack(t Track) { s.track = t }

func (s *Song) Validate() error {
	if s.id == "" {
		return fmt.Errorf("song id is required")
	}
	if s.track.Key() == "" {
		return fmt.Errorf("song needs a catalog id or playable url")
	}
	if s.track.Title == "" {
		return fmt.Errorf("song title is required")
	}
	return nil
}
