package player

import (
	"slices"

	"github.com/desertthunder/harmony/internal/models"
)

// ToggleShuffle flips shuffle and returns the new setting.
//
// Turning it on captures the queue as the original order and shuffles the rest
// behind the current track. Turning it off restores the original order and
// points at the current track within it (0 when absent). Without a current
// track only the flag changes.
func (c *Coordinator) ToggleShuffle() bool {
	var on bool
	_ = c.update(func() error {
		c.shuffle = !c.shuffle
		on = c.shuffle

		if c.current != nil {
			if c.shuffle {
				c.original = slices.Clone(c.queue)
				c.queue = shuffled(c.queue, *c.current, c.rng)
				c.index = 0
			} else {
				c.queue = slices.Clone(c.original)
				c.index = -1
				if len(c.queue) > 0 {
					c.index = max(models.IndexOf(c.queue, c.current.Key()), 0)
				}
			}
			c.publishQueue()
		}
		c.publishMode()
		return nil
	})
	return on
}

// ToggleRepeat cycles off → one → all → off and returns the new mode.
func (c *Coordinator) ToggleRepeat() RepeatMode {
	var mode RepeatMode
	_ = c.update(func() error {
		c.repeat = c.repeat.Next()
		mode = c.repeat
		c.publishMode()
		return nil
	})
	return mode
}

// SetRepeat sets the repeat mode directly.
func (c *Coordinator) SetRepeat(mode RepeatMode) {
	_ = c.update(func() error {
		c.repeat = mode
		c.publishMode()
		return nil
	})
}
