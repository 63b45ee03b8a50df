package player

import "github.com/desertthunder/harmony/internal/models"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a different track is loaded into the sink.
//
// Emitted by PlayTrack, Advance, Retreat and autoplay extension. Not emitted
// by play/pause toggles or when a track restarts from 0.
type TrackChange struct {
	Previous *models.Track
	Current  *models.Track
	Index    int
}

// QueueChange is emitted when the queue contents or the current index change.
type QueueChange struct {
	Tracks []models.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  RepeatMode
	Shuffle bool
}

// ProgressChange carries position and duration in whole seconds.
type ProgressChange struct {
	Position int
	Duration int
}

// VolumeChange is emitted when the volume changes. Zero is muted.
type VolumeChange struct {
	Volume float64
}

// LyricsChange is emitted when the lyrics text changes. Key identifies the
// track the fetch was started for.
type LyricsChange struct {
	Key  string
	Text string
}

// ErrorEvent is emitted when an operation fails without being returned to a caller.
type ErrorEvent struct {
	Operation string // e.g. "play", "extend"
	Key       string // track key if applicable
	Err       error
}
