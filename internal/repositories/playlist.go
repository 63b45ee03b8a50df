package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const playlistColumns = `id, sequence, user_id, name, description, cover_url, public, created_at, updated_at, deleted_at`

// PlaylistRepository implements models.Repository[*models.Playlist] for user playlists.
//
// Membership is kept in playlist_songs, ordered by position.
type PlaylistRepository struct {
	db    *sql.DB
	songs *SongRepository
}

var _ models.Repository[*models.Playlist] = (*PlaylistRepository)(nil)

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB, songs *SongRepository) *PlaylistRepository {
	return &PlaylistRepository{db: db, songs: songs}
}

// Create inserts a new playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)
	playlist.SetSequence(sequence)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO playlists (id, sequence, user_id, name, description, cover_url, public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.OwnerID(),
		playlist.Name(),
		playlist.Description(),
		playlist.CoverURL(),
		playlist.Public(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ? AND deleted_at IS NULL`

	playlist, err := r.scan(r.db.QueryRow(query, id))
	if err != nil {
		return nil, scanErr(err, "playlist", id)
	}
	return playlist, nil
}

// Update modifies an existing playlist in the database
func (r *PlaylistRepository) Update(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET name = ?, description = ?, cover_url = ?, public = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		playlist.Description(),
		playlist.CoverURL(),
		playlist.Public(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return expectOne(result, "playlist", playlist.ID())
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	return expectOne(result, "playlist", id)
}

// List retrieves all playlists matching the given criteria, excluding soft-deleted playlists.
//
// Supported criteria: "user_id" (string), "public" (bool).
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if public, ok := criteria["public"].(bool); ok {
		query += " AND public = ?"
		args = append(args, public)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Count returns the number of live playlists.
func (r *PlaylistRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM playlists WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count playlists: %w", err)
	}
	return n, nil
}

// AddSong upserts track and appends it to the playlist.
// A track already in the playlist returns [shared.ErrAlreadyExists].
func (r *PlaylistRepository) AddSong(playlistID string, track models.Track) error {
	if _, err := r.Get(playlistID); err != nil {
		return err
	}

	song, err := r.songs.Upsert(track)
	if err != nil {
		return fmt.Errorf("failed to cache song: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_songs WHERE playlist_id = ?`, playlistID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to compute position: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO playlist_songs (playlist_id, song_id, position, added_at) VALUES (?, ?, ?, ?)`,
		playlistID, song.ID(), next, time.Now())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: song already in playlist", shared.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	if _, err := tx.Exec(`UPDATE playlists SET updated_at = ? WHERE id = ?`, time.Now(), playlistID); err != nil {
		return fmt.Errorf("failed to touch playlist: %w", err)
	}

	return tx.Commit()
}

// RemoveSong drops the song with catalogID from the playlist. Missing songs are not an error.
func (r *PlaylistRepository) RemoveSong(playlistID, catalogID string) error {
	if _, err := r.Get(playlistID); err != nil {
		return err
	}

	query := `
		DELETE FROM playlist_songs
		WHERE playlist_id = ? AND song_id IN (SELECT id FROM songs WHERE catalog_id = ?)
	`
	if _, err := r.db.Exec(query, playlistID, catalogID); err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}
	return nil
}

// Songs returns the playlist's tracks in position order.
func (r *PlaylistRepository) Songs(playlistID string) ([]models.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ? AND s.deleted_at IS NULL
		ORDER BY ps.position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// View loads the playlist with its songs.
func (r *PlaylistRepository) View(id string) (models.PlaylistView, error) {
	playlist, err := r.Get(id)
	if err != nil {
		return models.PlaylistView{}, err
	}
	tracks, err := r.Songs(id)
	if err != nil {
		return models.PlaylistView{}, err
	}
	return models.NewPlaylistView(playlist, tracks), nil
}

// ViewsByOwner loads every playlist of userID with its songs.
func (r *PlaylistRepository) ViewsByOwner(userID string) ([]models.PlaylistView, error) {
	playlists, err := r.List(map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}

	views := make([]models.PlaylistView, 0, len(playlists))
	for _, p := range playlists {
		tracks, err := r.Songs(p.ID())
		if err != nil {
			return nil, err
		}
		views = append(views, models.NewPlaylistView(p, tracks))
	}
	return views, nil
}

func (r *PlaylistRepository) scan(row scanner) (*models.Playlist, error) {
	var (
		id          string
		sequence    int
		userID      string
		name        string
		description string
		coverURL    string
		public      bool
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &name, &description, &coverURL, &public, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	playlist := models.NewPlaylist(sequence, userID, name)
	playlist.SetID(id)
	playlist.SetDescription(description)
	playlist.SetCoverURL(coverURL)
	playlist.SetPublic(public)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
