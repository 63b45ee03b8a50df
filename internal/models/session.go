package models

import "time"

// Session binds an opaque bearer token to a user.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt *time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can authenticate a request at now.
func (s *Session) Active(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

// Profile is the authenticated user's record, favorites and playlists included.
type Profile struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Avatar     string         `json:"avatar,omitempty"`
	IsAdmin    bool           `json:"isAdmin"`
	LikedSongs []Track        `json:"likedSongs"`
	Playlists  []PlaylistView `json:"playlists"`
}

// NewProfile builds a [Profile] for u.
func NewProfile(u *User, liked []Track, playlists []PlaylistView) Profile {
	if liked == nil {
		liked = []Track{}
	}
	if playlists == nil {
		playlists = []PlaylistView{}
	}
	return Profile{
		ID:         u.ID(),
		Name:       u.Name(),
		Email:      u.Email(),
		Avatar:     u.Avatar(),
		IsAdmin:    u.IsAdmin(),
		LikedSongs: liked,
		Playlists:  playlists,
	}
}

// Stats is the admin dashboard summary.
type Stats struct {
	Users           int `json:"users"`
	Playlists       int `json:"playlists"`
	TotalLikedSongs int `json:"totalLikedSongs"`
	ActiveUsers     int `json:"activeUsers"`
}
