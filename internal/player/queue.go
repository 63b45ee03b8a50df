package player

import (
	"math/rand/v2"

	"github.com/desertthunder/harmony/internal/models"
)

// shuffled returns a Fisher–Yates permutation of tracks with pinned at index 0.
// Entries sharing pinned's key are dropped from the remainder.
func shuffled(tracks []models.Track, pinned models.Track, rng *rand.Rand) []models.Track {
	rest := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if !t.Same(pinned) {
			rest = append(rest, t)
		}
	}
	for i := len(rest) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
	return append([]models.Track{pinned}, rest...)
}

// uniquePlayable returns the playable candidates whose key is neither in queue
// nor repeated earlier in candidates.
func uniquePlayable(queue, candidates []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(queue)+len(candidates))
	for _, t := range queue {
		seen[t.Key()] = struct{}{}
	}

	var out []models.Track
	for _, t := range candidates {
		key := t.Key()
		if !t.Playable() || key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
