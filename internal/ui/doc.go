// Package ui implements the terminal player using bubbletea's Elm architecture.
//
// The [Model] is a set of tabbed panes over one shared coordinator and library:
//  1. [SearchPane] : catalog search, with recent searches when there are no results
//  2. [QueuePane] : the play queue, current track marked
//  3. [FavoritesPane] : liked songs
//  4. [PlaylistsPane] : local or synced playlists and their tracks
//  5. [LyricsPane] : lyrics of the current track
//
// A now-playing bar with progress, volume, shuffle and repeat sits below the
// active pane. Coordinator events and library sync results arrive as messages;
// the model re-reads state on each and never mutates it directly.
//
// Playback shortcuts (space, arrows, m) are resolved by package keys and are
// suppressed while the search or playlist name input has focus.
package ui
