package player

import (
	"fmt"
	"slices"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	lyricsLoading     = "Loading lyrics..."
	lyricsUnavailable = "Lyrics not available for this track."
	lyricsFailed      = "Failed to load lyrics."
)

// PlayTrack plays track, replacing the queue with newQueue when it is non-empty.
//
// Playing the current track again toggles play/pause instead of reloading it.
// Without a new queue the coordinator jumps to the track if it is queued, or
// plays it standalone. A track without a playable url returns [shared.ErrUnplayable]
// and changes nothing. A rejected play request is not an error: the coordinator
// ends up paused and reports it on the subscription error channel.
func (c *Coordinator) PlayTrack(track models.Track, newQueue []models.Track) error {
	return c.update(func() error {
		c.generation++

		if c.current != nil && c.current.Same(track) {
			c.toggleLocked()
			return nil
		}
		if !track.Playable() {
			return fmt.Errorf("%w: %q", shared.ErrUnplayable, track.Title)
		}

		switch {
		case len(newQueue) > 0:
			c.original = slices.Clone(newQueue)
			if c.shuffle {
				c.queue = shuffled(newQueue, track, c.rng)
				c.index = 0
			} else {
				c.queue = slices.Clone(newQueue)
				c.index = max(models.IndexOf(c.queue, track.Key()), 0)
			}
			c.publishQueue()
		default:
			if i := models.IndexOf(c.queue, track.Key()); i >= 0 {
				c.index = i
				c.publishQueue()
			}
		}

		c.loadLocked(track, true)
		return nil
	})
}

// PlayAll replaces the queue with tracks and plays the first one.
func (c *Coordinator) PlayAll(tracks []models.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	return c.PlayTrack(tracks[0], tracks)
}

// JumpTo plays the queue entry at index. Jumping to the current entry toggles.
func (c *Coordinator) JumpTo(index int) error {
	return c.update(func() error {
		if index < 0 || index >= len(c.queue) {
			return fmt.Errorf("%w: queue index %d", shared.ErrInvalidArgument, index)
		}
		c.generation++

		if index == c.index && c.current != nil && c.current.Same(c.queue[index]) {
			c.toggleLocked()
			return nil
		}
		c.playIndexLocked(index)
		return nil
	})
}

// Enqueue appends tracks without changing what is playing.
func (c *Coordinator) Enqueue(tracks ...models.Track) {
	if len(tracks) == 0 {
		return
	}
	_ = c.update(func() error {
		c.queue = append(c.queue, tracks...)
		if c.shuffle {
			c.original = append(c.original, tracks...)
		}
		if c.index < 0 && c.current != nil {
			if i := models.IndexOf(c.queue, c.current.Key()); i >= 0 {
				c.index = i
			}
		}
		c.publishQueue()
		return nil
	})
}

// TogglePlayPause pauses when playing and resumes when paused. No-op when idle.
func (c *Coordinator) TogglePlayPause() {
	_ = c.update(func() error {
		c.toggleLocked()
		return nil
	})
}

func (c *Coordinator) toggleLocked() {
	switch c.state {
	case StatePlaying:
		c.sink.Pause()
		c.setState(StatePaused)
	case StatePaused, StateLoading:
		if c.current != nil && c.current.Playable() {
			c.startLocked()
		}
	}
}

// Advance moves to the next track.
//
// With repeat one the current track restarts. At the end of the queue, repeat
// all wraps to the start and repeat off runs autoplay extension. No-op on an
// empty queue or while an extension for the current generation is in flight.
func (c *Coordinator) Advance() {
	_ = c.update(func() error {
		c.advanceLocked()
		return nil
	})
}

func (c *Coordinator) advanceLocked() {
	if len(c.queue) == 0 || c.index < 0 {
		return
	}
	if c.extending && c.extendGen == c.generation {
		return
	}

	if c.repeat == RepeatOne && c.current != nil {
		c.restartLocked()
		c.startLocked()
		return
	}
	if c.index == len(c.queue)-1 && c.repeat == RepeatOff {
		c.extendLocked()
		return
	}
	c.playIndexLocked((c.index + 1) % len(c.queue))
}

// Retreat restarts the current track when it has played for 3 seconds or
// more, and otherwise moves to the previous entry. Before the first entry it
// wraps to the end with repeat all and restarts the track otherwise.
func (c *Coordinator) Retreat() {
	_ = c.update(func() error {
		c.retreatLocked()
		return nil
	})
}

func (c *Coordinator) retreatLocked() {
	if len(c.queue) == 0 || c.index < 0 {
		return
	}
	// Either branch replaces whatever a pending extension would start.
	c.generation++

	if c.sink.Position() >= restartThreshold {
		c.restartLocked()
		return
	}

	prev := c.index - 1
	if prev < 0 {
		if c.repeat != RepeatAll {
			c.restartLocked()
			return
		}
		prev = len(c.queue) - 1
	}
	c.playIndexLocked(prev)
}

// Seek forwards seconds to the sink, which clamps it, and mirrors the result.
func (c *Coordinator) Seek(seconds float64) {
	_ = c.update(func() error {
		c.seekLocked(seconds)
		return nil
	})
}

// SeekBy seeks relative to the current position, clamped to the track.
func (c *Coordinator) SeekBy(delta float64) {
	_ = c.update(func() error {
		target := max(0, c.sink.Position()+delta)
		if d := c.sink.Duration(); d > 0 {
			target = min(target, d)
		}
		c.seekLocked(target)
		return nil
	})
}

func (c *Coordinator) seekLocked(seconds float64) {
	if c.current == nil {
		return
	}
	c.sink.Seek(seconds)
	c.position = int(c.sink.Position())
	c.publishProgress()
}

// SetVolume sets the volume, clamped to [0, 1]. Zero is muted.
func (c *Coordinator) SetVolume(v float64) {
	_ = c.update(func() error {
		c.setVolumeLocked(v)
		return nil
	})
}

// ToggleMute switches between 0 and the last non-zero volume.
func (c *Coordinator) ToggleMute() {
	_ = c.update(func() error {
		if c.volume > 0 {
			c.setVolumeLocked(0)
			return nil
		}
		restore := c.lastVolume
		if restore <= 0 {
			restore = unmuteVolume
		}
		c.setVolumeLocked(restore)
		return nil
	})
}

func (c *Coordinator) setVolumeLocked(v float64) {
	c.volume = clampVolume(v)
	if c.volume > 0 {
		c.lastVolume = c.volume
	}
	c.sink.SetVolume(c.volume)
	c.publishVolume()
}

func (c *Coordinator) playIndexLocked(i int) {
	c.index = i
	c.publishQueue()
	c.loadLocked(c.queue[i], true)
}

func (c *Coordinator) restartLocked() {
	c.sink.Seek(0)
	c.position = 0
	c.publishProgress()
}

// loadLocked makes track current, assigns it to the sink and optionally starts it.
func (c *Coordinator) loadLocked(track models.Track, autoplay bool) {
	prev := c.current
	current := track
	c.current = &current
	c.position = 0
	c.duration = track.Duration

	e := TrackChange{Previous: prev, Current: &track, Index: c.index}
	c.each(func(sub *Subscription) { send(sub.trackCh, e) })
	c.publishProgress()
	c.fetchLyricsLocked(track)

	if !track.Playable() {
		c.sink.Pause()
		c.setState(StatePaused)
		c.fail("load", track.Key(), fmt.Errorf("%w: %q", shared.ErrUnplayable, track.Title))
		return
	}

	c.setState(StateLoading)
	c.sink.Load(track.PlayableURL, float64(track.Duration))
	c.sink.SetVolume(c.volume)

	if autoplay {
		c.startLocked()
		return
	}
	c.setState(StatePaused)
}

// startLocked requests playback. A rejection leaves the coordinator paused.
func (c *Coordinator) startLocked() {
	if err := c.sink.Play(); err != nil {
		c.setState(StatePaused)
		c.fail("play", c.current.Key(), err)
		return
	}
	c.setState(StatePlaying)
}

// fetchLyricsLocked schedules a lyrics fetch for track. Results are applied
// unconditionally, so the latest completed fetch wins.
func (c *Coordinator) fetchLyricsLocked(track models.Track) {
	key := track.Key()
	if c.catalog == nil || track.ID == "" {
		c.setLyrics(key, lyricsUnavailable)
		return
	}

	c.setLyrics(key, lyricsLoading)
	ctx, catalog := c.ctx, c.catalog
	c.jobs = append(c.jobs, func() {
		text := lyricsUnavailable
		lyrics, err := catalog.Lyrics(ctx, track.ID)
		switch {
		case err != nil:
			c.logger.Debug("lyrics fetch failed", "track", key, "err", err)
			text = lyricsFailed
		case lyrics.Lyrics != "":
			text = lyrics.Lyrics
		}

		c.mu.Lock()
		c.setLyrics(key, text)
		c.mu.Unlock()
	})
}
