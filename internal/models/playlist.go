package models

import (
	"fmt"
	"strings"
	"time"
)

// Playlist is a user-owned playlist.
type Playlist struct {
	entity
	ownerID     string
	name        string
	description string
	coverURL    string
	public      bool
}

// NewPlaylist creates a new [Playlist] owned by ownerID.
func NewPlaylist(sequence int, ownerID, name string) *Playlist {
	return &Playlist{entity: newEntity(sequence), ownerID: ownerID, name: strings.TrimSpace(name), public: true}
}

func (p *Playlist) OwnerID() string { return p.ownerID }
func (p *Playlist) Name() string { return p.name }
func (p *Playlist) Description() string { return p.description }
func (p *Playlist) CoverURL() string { return p.coverURL }
func (p *Playlist) Public() bool { return p.public }

func (p *Playlist) SetName(name string) { p.name = strings.TrimSpace(name) }
func (p *Playlist) SetDescription(desc string) { p.description = desc }
func (p *Playlist) SetCoverURL(url string) { p.coverURL = url }
func (p *Playlist) SetPublic(public bool) { p.public = public }

// OwnedBy reports whether userID may modify the playlist.
func (p *Playlist) OwnedBy(userID string) bool {
	return userID != "" && p.ownerID == userID
}

func (p *Playlist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.ownerID == "" {
		return fmt.Errorf("playlist owner is required")
	}
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// PlaylistFields is the editable subset of a playlist. Nil fields are left as is.
type PlaylistFields struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"coverUrl,omitempty"`
	Public      *bool   `json:"isPublic,omitempty"`
}

// Apply copies the set fields onto p.
func (f PlaylistFields) Apply(p *Playlist) {
	if f.Name != nil {
		p.SetName(*f.Name)
	}
	if f.Description != nil {
		p.SetDescription(*f.Description)
	}
	if f.CoverURL != nil {
		p.SetCoverURL(*f.CoverURL)
	}
	if f.Public != nil {
		p.SetPublic(*f.Public)
	}
}

// PlaylistView is a playlist as the API returns it, songs included.
type PlaylistView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverURL    string    `json:"coverUrl"`
	Owner       string    `json:"user"`
	Public      bool      `json:"isPublic"`
	Tracks      []Track   `json:"songs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPlaylistView flattens p and its songs.
func NewPlaylistView(p *Playlist, tracks []Track) PlaylistView {
	if tracks == nil {
		tracks = []Track{}
	}
	return PlaylistView{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		CoverURL:    p.CoverURL(),
		Owner:       p.OwnerID(),
		Public:      p.Public(),
		Tracks:      tracks,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
