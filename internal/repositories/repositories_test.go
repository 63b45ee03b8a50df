package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	user := models.NewUser(0, email, "Test User")
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func testTrack(id, title string) models.Track {
	return models.Track{
		ID:          id,
		Title:       title,
		Artist:      "Test Artist",
		Album:       "Test Album",
		Duration:    180,
		PlayableURL: "https://cdn.example.com/" + id + ".mp4",
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "Test@Example.com", "Test User")

		err := repo.Create(user)
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}

		if user.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence())
		}

		if user.Email() != "test@example.com" {
			t.Errorf("expected normalized email, got %s", user.Email())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createUser(t, db, "test@example.com")

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), retrieved.ID())
		}

		if retrieved.Email() != user.Email() {
			t.Errorf("expected email %s, got %s", user.Email(), retrieved.Email())
		}

		byEmail, err := repo.GetByEmail("TEST@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if byEmail.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), byEmail.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createUser(t, db, "test@example.com")

		user.SetAdmin(true)
		user.SetAvatar("https://img.example.com/me.png")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if !retrieved.IsAdmin() {
			t.Error("expected user to be admin after update")
		}
		if retrieved.Avatar() != "https://img.example.com/me.png" {
			t.Errorf("expected avatar to persist, got %q", retrieved.Avatar())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createUser(t, db, "test@example.com")

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		_, err := repo.Get(user.ID())
		if err == nil {
			t.Error("expected error when getting deleted user")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)

		users := []*models.User{
			models.NewUser(0, "user1@example.com", "User One"),
			models.NewUser(0, "user2@example.com", "User Two"),
			models.NewUser(0, "user3@example.com", "User Three"),
		}
		users[2].SetAdmin(true)

		for _, user := range users {
			if err := repo.Create(user); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		retrieved, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}

		if len(retrieved) != 3 {
			t.Errorf("expected 3 users, got %d", len(retrieved))
		}

		filtered, err := repo.List(map[string]any{"email": "user2@example.com"})
		if err != nil {
			t.Fatalf("failed to list filtered users: %v", err)
		}

		if len(filtered) != 1 {
			t.Errorf("expected 1 user, got %d", len(filtered))
		}

		if len(filtered) > 0 && filtered[0].Email() != "user2@example.com" {
			t.Errorf("expected user2@example.com, got %s", filtered[0].Email())
		}

		admins, err := repo.List(map[string]any{"is_admin": true})
		if err != nil {
			t.Fatalf("failed to list admins: %v", err)
		}
		if len(admins) != 1 {
			t.Errorf("expected 1 admin, got %d", len(admins))
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count users: %v", err)
		}
		if count != 3 {
			t.Errorf("expected count 3, got %d", count)
		}
	})
}

func TestSongRepository(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)

		first, err := repo.Upsert(testTrack("abc", "First Title"))
		if err != nil {
			t.Fatalf("failed to upsert song: %v", err)
		}

		second, err := repo.Upsert(testTrack("abc", "Renamed"))
		if err != nil {
			t.Fatalf("failed to upsert song again: %v", err)
		}

		if first.ID() != second.ID() {
			t.Errorf("expected upsert to reuse row %s, got %s", first.ID(), second.ID())
		}

		retrieved, err := repo.GetByCatalogID("abc")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Track().Title != "Renamed" {
			t.Errorf("expected refreshed title Renamed, got %s", retrieved.Track().Title)
		}

		songs, err := repo.List(map[string]any{"artist": "Test Artist"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected 1 song, got %d", len(songs))
		}
	})

	t.Run("Keyless id falls back to playable url", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		track := models.Track{Title: "No Id", PlayableURL: "https://cdn.example.com/x.mp4"}

		song, err := repo.Upsert(track)
		if err != nil {
			t.Fatalf("failed to upsert song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Track().ID != "" {
			t.Errorf("expected empty track id, got %q", retrieved.Track().ID)
		}
		if retrieved.Track().Key() != track.PlayableURL {
			t.Errorf("expected key %s, got %s", track.PlayableURL, retrieved.Track().Key())
		}
	})
}

func TestFavoriteRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createUser(t, db, "fan@example.com")
	repo := NewFavoriteRepository(db, NewSongRepository(db))

	for _, tr := range []models.Track{testTrack("a", "A"), testTrack("b", "B"), testTrack("a", "A")} {
		if err := repo.Add(user.ID(), tr); err != nil {
			t.Fatalf("failed to add favorite: %v", err)
		}
	}

	liked, err := repo.List(user.ID())
	if err != nil {
		t.Fatalf("failed to list favorites: %v", err)
	}
	if len(liked) != 2 {
		t.Fatalf("expected 2 liked songs, got %d", len(liked))
	}

	if err := repo.Remove(user.ID(), "a"); err != nil {
		t.Fatalf("failed to remove favorite: %v", err)
	}
	if err := repo.Remove(user.ID(), "missing"); err != nil {
		t.Errorf("removing an unliked song should be a no-op, got %v", err)
	}

	liked, err = repo.List(user.ID())
	if err != nil {
		t.Fatalf("failed to list favorites: %v", err)
	}
	if len(liked) != 1 || liked[0].ID != "b" {
		t.Errorf("expected only b to remain, got %+v", liked)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("failed to count favorites: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("CRUD", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		owner := createUser(t, db, "owner@example.com")
		repo := NewPlaylistRepository(db, NewSongRepository(db))

		playlist := models.NewPlaylist(0, owner.ID(), "Road Trip")
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		playlist.SetDescription("long drives")
		if err := repo.Update(playlist); err != nil {
			t.Fatalf("failed to update playlist: %v", err)
		}

		retrieved, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if retrieved.Description() != "long drives" {
			t.Errorf("expected description to persist, got %q", retrieved.Description())
		}
		if !retrieved.OwnedBy(owner.ID()) {
			t.Error("expected playlist to be owned by creator")
		}

		if err := repo.Delete(playlist.ID()); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}
		if _, err := repo.Get(playlist.ID()); err == nil {
			t.Error("expected error when getting deleted playlist")
		}
	})

	t.Run("Songs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		owner := createUser(t, db, "owner@example.com")
		repo := NewPlaylistRepository(db, NewSongRepository(db))

		playlist := models.NewPlaylist(0, owner.ID(), "Mix")
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		for _, id := range []string{"x", "y", "z"} {
			if err := repo.AddSong(playlist.ID(), testTrack(id, "Song "+id)); err != nil {
				t.Fatalf("failed to add song %s: %v", id, err)
			}
		}

		if err := repo.RemoveSong(playlist.ID(), "y"); err != nil {
			t.Fatalf("failed to remove song: %v", err)
		}

		view, err := repo.View(playlist.ID())
		if err != nil {
			t.Fatalf("failed to load playlist view: %v", err)
		}

		if len(view.Tracks) != 2 || view.Tracks[0].ID != "x" || view.Tracks[1].ID != "z" {
			t.Errorf("expected [x z], got %+v", view.Tracks)
		}

		if err := repo.AddSong(playlist.ID(), testTrack("w", "Song w")); err != nil {
			t.Fatalf("failed to add song after removal: %v", err)
		}

		views, err := repo.ViewsByOwner(owner.ID())
		if err != nil {
			t.Fatalf("failed to list views: %v", err)
		}
		if len(views) != 1 || len(views[0].Tracks) != 3 || views[0].Tracks[2].ID != "w" {
			t.Errorf("expected appended song last, got %+v", views)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createUser(t, db, "listener@example.com")
	repo := NewSessionRepository(db)

	session, err := repo.Create(user.ID(), 0)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if len(session.Token) != 64 {
		t.Errorf("expected 64 character token, got %d", len(session.Token))
	}

	found, err := repo.Lookup(session.Token)
	if err != nil {
		t.Fatalf("failed to look up session: %v", err)
	}
	if found.UserID != user.ID() {
		t.Errorf("expected user %s, got %s", user.ID(), found.UserID)
	}

	active, err := repo.ActiveUsers()
	if err != nil {
		t.Fatalf("failed to count active users: %v", err)
	}
	if active != 1 {
		t.Errorf("expected 1 active user, got %d", active)
	}

	expired, err := repo.Create(user.ID(), time.Nanosecond)
	if err != nil {
		t.Fatalf("failed to create expiring session: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := repo.Lookup(expired.Token); err == nil {
		t.Error("expected expired session to be rejected")
	}

	if err := repo.Revoke(session.Token); err != nil {
		t.Fatalf("failed to revoke session: %v", err)
	}
	if _, err := repo.Lookup(session.Token); err == nil {
		t.Error("expected revoked session to be rejected")
	}
}
