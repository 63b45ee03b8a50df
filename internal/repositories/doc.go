// Package repositories implements SQLite persistence for harmony's server-side entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Users, songs and playlists support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : accounts with email-based lookups and the admin flag
//   - [SongRepository] : catalog tracks cached by catalog id, upserted on first reference
//   - [PlaylistRepository] : user playlists and their ordered playlist_songs membership
//   - [FavoriteRepository] : the liked_songs set per user
//   - [SessionRepository] : opaque bearer tokens
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
