package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const songColumns = `id, sequence, catalog_id, title, artist, album, cover_url, duration, playable_url, created_at, updated_at, deleted_at`

// SongRepository implements [models.Repository] for cached catalog songs.
type SongRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Song] = (*SongRepository)(nil)

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song with generated ID and sequence.
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)
	song.SetSequence(sequence)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	t := song.Track()
	query := `
		INSERT INTO songs (id, sequence, catalog_id, title, artist, album, cover_url, duration, playable_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, song.CatalogID(), t.Title, t.Artist, t.Album, t.CoverURL, t.Duration, t.PlayableURL,
		song.CreatedAt(), song.UpdatedAt())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: song %s", shared.ErrAlreadyExists, song.CatalogID())
	}
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Upsert returns the cached song for track, inserting it on first sight and refreshing
// its metadata otherwise.
func (r *SongRepository) Upsert(track models.Track) (*models.Song, error) {
	existing, err := r.GetByCatalogID(track.Key())
	switch {
	case err == nil:
		existing.SetTrack(track)
		if err := r.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	song := models.NewSong(0, track)
	if err := r.Create(song); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return r.GetByCatalogID(track.Key())
		}
		return nil, err
	}
	return song, nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ? AND deleted_at IS NULL`

	song, err := r.scan(r.db.QueryRow(query, id))
	if err != nil {
		return nil, scanErr(err, "song", id)
	}
	return song, nil
}

// GetByCatalogID retrieves a song by its catalog identity ([models.Track.Key]).
func (r *SongRepository) GetByCatalogID(catalogID string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE catalog_id = ? AND deleted_at IS NULL`

	song, err := r.scan(r.db.QueryRow(query, catalogID))
	if err != nil {
		return nil, scanErr(err, "song", catalogID)
	}
	return song, nil
}

// Update refreshes a song's metadata
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	t := song.Track()
	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, cover_url = ?, duration = ?, playable_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, t.Title, t.Artist, t.Album, t.CoverURL, t.Duration, t.PlayableURL, now, song.ID())
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	return expectOne(result, "song", song.ID())
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	return expectOne(result, "song", id)
}

// List retrieves songs, optionally filtered by "artist" (exact match).
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE deleted_at IS NULL`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func (r *SongRepository) scan(row scanner) (*models.Song, error) {
	var (
		id        string
		sequence  int
		catalogID string
		t         models.Track
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &catalogID, &t.Title, &t.Artist, &t.Album, &t.CoverURL, &t.Duration, &t.PlayableURL,
		&createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if catalogID != t.PlayableURL {
		t.ID = catalogID
	}

	song := models.NewSong(sequence, t)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

// scanTrack reads the track columns of a songs row joined into another query.
func scanTrack(row scanner, extra ...any) (models.Track, error) {
	var (
		t         models.Track
		catalogID string
	)
	dest := append([]any{&catalogID, &t.Title, &t.Artist, &t.Album, &t.CoverURL, &t.Duration, &t.PlayableURL}, extra...)
	if err := row.Scan(dest...); err != nil {
		return t, err
	}
	if catalogID != t.PlayableURL {
		t.ID = catalogID
	}
	return t, nil
}

// trackColumns selects songs columns in the order scanTrack expects, for alias s.
const trackColumns = `s.catalog_id, s.title, s.artist, s.album, s.cover_url, s.duration, s.playable_url`
