package repositories

import "database/sql"

// Store groups the repositories that share one database.
type Store struct {
	DB        *sql.DB
	Users     *UserRepository
	Songs     *SongRepository
	Playlists *PlaylistRepository
	Favorites *FavoriteRepository
	Sessions  *SessionRepository
}

// NewStore builds every repository over db.
func NewStore(db *sql.DB) *Store {
	songs := NewSongRepository(db)
	return &Store{
		DB:        db,
		Users:     NewUserRepository(db),
		Songs:     songs,
		Playlists: NewPlaylistRepository(db, songs),
		Favorites: NewFavoriteRepository(db, songs),
		Sessions:  NewSessionRepository(db),
	}
}
