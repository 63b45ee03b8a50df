package player

import (
	"errors"
	"slices"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// StateKey is the storage key of the persisted [Snapshot].
const StateKey = "harmony_player_state"

// Snapshot is the persisted player state.
//
// Playing is written for completeness but never honored on restore: a restored
// player always starts paused. A nil Volume keeps the configured volume.
type Snapshot struct {
	CurrentTrack  *models.Track  `json:"currentTrack"`
	Queue         []models.Track `json:"queue"`
	OriginalQueue []models.Track `json:"originalQueue,omitempty"`
	CurrentIndex  int            `json:"currentIndex"`
	Volume        *float64       `json:"volume,omitempty"`
	Shuffle       bool           `json:"shuffle"`
	Repeat        RepeatMode     `json:"repeat"`
	Playing       bool           `json:"isPlaying,omitempty"`
}

// Persister stores the snapshot. LoadPlayerState returns [shared.ErrNotFound]
// when nothing was saved and [shared.ErrMalformedState] when the stored value
// cannot be decoded.
type Persister interface {
	SavePlayerState(Snapshot) error
	LoadPlayerState() (Snapshot, error)
}

// Snapshot returns the current persisted view of the player.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	volume := c.volume
	s := Snapshot{
		Queue:        slices.Clone(c.queue),
		CurrentIndex: c.index,
		Volume:       &volume,
		Shuffle:      c.shuffle,
		Repeat:       c.repeat,
		Playing:      c.state == StatePlaying,
	}
	if s.Queue == nil {
		s.Queue = []models.Track{}
	}
	if c.shuffle {
		s.OriginalQueue = slices.Clone(c.original)
	}
	if c.current != nil {
		t := *c.current
		s.CurrentTrack = &t
	}
	return s
}

func (c *Coordinator) save(s Snapshot) {
	if c.persister == nil {
		return
	}
	if err := c.persister.SavePlayerState(s); err != nil {
		c.logger.Warn("failed to save player state", "err", err)
	}
}

// Restore applies s. The current track is loaded into the sink but not played.
func (c *Coordinator) Restore(s Snapshot) {
	_ = c.update(func() error {
		c.queue = slices.Clone(s.Queue)
		c.original = slices.Clone(s.OriginalQueue)
		c.shuffle = s.Shuffle
		c.repeat = s.Repeat
		if s.Volume != nil {
			c.setVolumeLocked(*s.Volume)
		}
		c.current = nil
		c.index = -1

		if s.CurrentTrack == nil {
			c.position, c.duration = 0, 0
			c.setState(StateIdle)
		} else {
			c.index = restoredIndex(c.queue, s.CurrentIndex, *s.CurrentTrack)
			c.loadLocked(*s.CurrentTrack, false)
		}

		c.publishQueue()
		c.publishMode()
		return nil
	})
}

// restoredIndex keeps a stored index that is in range, and otherwise relocates track.
func restoredIndex(queue []models.Track, index int, track models.Track) int {
	if len(queue) == 0 {
		return -1
	}
	if index >= 0 && index < len(queue) {
		return index
	}
	return max(models.IndexOf(queue, track.Key()), 0)
}

// RestoreSaved restores the persisted snapshot. A missing or malformed
// snapshot leaves the defaults in place and is not an error.
func (c *Coordinator) RestoreSaved() error {
	if c.persister == nil {
		return nil
	}

	s, err := c.persister.LoadPlayerState()
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case errors.Is(err, shared.ErrMalformedState):
		c.logger.Warn("discarding saved player state", "err", err)
		return nil
	case err != nil:
		return err
	}

	c.Restore(s)
	return nil
}
