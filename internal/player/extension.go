package player

import (
	"strings"

	"github.com/desertthunder/harmony/internal/models"
)

// extendLocked starts autoplay extension: a catalog search for the current
// artist (or the fallback term) whose unique playable results are appended.
func (c *Coordinator) extendLocked() {
	if c.catalog == nil {
		c.stopAtEndLocked()
		return
	}

	term := c.fallback
	if c.current != nil && strings.TrimSpace(c.current.Artist) != "" {
		term = c.current.Artist
	}

	c.extending = true
	c.extendGen = c.generation
	gen, ctx, catalog := c.generation, c.ctx, c.catalog

	c.logger.Debug("queue ended, extending", "term", term)
	c.jobs = append(c.jobs, func() {
		results, err := catalog.Search(ctx, term)
		c.finishExtension(gen, term, results, err)
	})
}

// finishExtension applies search results requested under generation gen.
// Results from a superseded generation are dropped.
func (c *Coordinator) finishExtension(gen uint64, term string, results []models.Track, err error) {
	_ = c.update(func() error {
		if gen == c.extendGen {
			c.extending = false
		}
		if gen != c.generation {
			c.logger.Debug("discarding stale autoplay results", "term", term, "results", len(results))
			return nil
		}
		if err != nil {
			c.fail("extend", term, err)
		}

		fresh := uniquePlayable(c.queue, results)
		if len(fresh) == 0 {
			c.stopAtEndLocked()
			return nil
		}

		start := len(c.queue)
		c.queue = append(c.queue, fresh...)
		if c.shuffle {
			c.original = append(c.original, fresh...)
		}
		c.playIndexLocked(start)
		return nil
	})
}

// stopAtEndLocked leaves the last track loaded and paused.
func (c *Coordinator) stopAtEndLocked() {
	if c.current == nil {
		return
	}
	c.sink.Pause()
	c.setState(StatePaused)
}
