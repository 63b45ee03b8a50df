// Package models defines domain entities and persistence interfaces for harmony.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs that cross the wire
//   - [Track] : the one canonical song record every catalog shape is normalized into
//   - [Album], [Artist], [CatalogPlaylist], [Lyrics] : catalog lookups
//   - [Profile], [PlaylistView], [Stats] : API responses built from persisted entities
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [User] : accounts, with an admin flag
//   - [Song] : a cached catalog track, unique by catalog id
//   - [Playlist] : a user-owned playlist; membership lives in the playlist_songs table
//   - [Session] : an opaque bearer token bound to a user
//
// All persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
