package library

import (
	"time"

	"github.com/desertthunder/harmony/internal/models"
)

// Playlist is the client's copy of a playlist. Remote playlists carry the
// server id; local-only ones get a generated id.
type Playlist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tracks    []models.Track `json:"tracks"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Has reports whether a track with key is in the playlist.
func (p Playlist) Has(key string) bool {
	return models.IndexOf(p.Tracks, key) >= 0
}

func fromView(v models.PlaylistView) Playlist {
	tracks := v.Tracks
	if tracks == nil {
		tracks = []models.Track{}
	}
	return Playlist{ID: v.ID, Name: v.Name, Tracks: tracks, CreatedAt: v.CreatedAt}
}

func clonePlaylists(ps []Playlist) []Playlist {
	out := make([]Playlist, len(ps))
	for i, p := range ps {
		p.Tracks = append([]models.Track(nil), p.Tracks...)
		out[i] = p
	}
	return out
}
