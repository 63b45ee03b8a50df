package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
)

// FavoriteRepository stores each user's liked songs.
type FavoriteRepository struct {
	db    *sql.DB
	songs *SongRepository
}

// NewFavoriteRepository creates a new FavoriteRepository with the given database connection
func NewFavoriteRepository(db *sql.DB, songs *SongRepository) *FavoriteRepository {
	return &FavoriteRepository{db: db, songs: songs}
}

// Add upserts track and likes it for userID. Liking twice is a no-op.
func (r *FavoriteRepository) Add(userID string, track models.Track) error {
	song, err := r.songs.Upsert(track)
	if err != nil {
		return fmt.Errorf("failed to cache song: %w", err)
	}

	query := `INSERT INTO liked_songs (user_id, song_id, liked_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(query, userID, song.ID(), time.Now()); err != nil {
		return fmt.Errorf("failed to like song: %w", err)
	}
	return nil
}

// Remove unlikes the song with catalogID. Removing a song that is not liked is a no-op.
func (r *FavoriteRepository) Remove(userID, catalogID string) error {
	query := `
		DELETE FROM liked_songs
		WHERE user_id = ? AND song_id IN (SELECT id FROM songs WHERE catalog_id = ?)
	`
	if _, err := r.db.Exec(query, userID, catalogID); err != nil {
		return fmt.Errorf("failed to unlike song: %w", err)
	}
	return nil
}

// List returns userID's liked songs, oldest like first.
func (r *FavoriteRepository) List(userID string) ([]models.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM liked_songs l
		JOIN songs s ON s.id = l.song_id
		WHERE l.user_id = ? AND s.deleted_at IS NULL
		ORDER BY l.liked_at ASC, s.sequence ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked songs: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liked song: %w", err)
		}
		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// Count returns the number of likes across all users.
func (r *FavoriteRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM liked_songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count liked songs: %w", err)
	}
	return n, nil
}
