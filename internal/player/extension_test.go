package player

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/harmony/internal/models"
)

func TestAdvance_ExtendsAtEndOfQueue(t *testing.T) {
	c, sink, catalog := newTestCoordinator(t)
	catalog.Results = map[string][]models.Track{"Artist": tracks("d", "e")}
	q := tracks("a", "b", "c")
	require.NoError(t, c.PlayTrack(q[2], q))

	c.Advance()

	assert.Equal(t, []string{"Artist"}, catalog.Searches())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys(c.Queue()))
	assert.Equal(t, 3, c.CurrentIndex())
	current, _ := c.CurrentTrack()
	assert.Equal(t, "d", current.ID)
	assert.True(t, c.IsPlaying())
	assert.Equal(t, current.PlayableURL, sink.Src())
	assert.False(t, c.Extending())
}

func TestAdvance_ExtensionDeduplicates(t *testing.T) {
	c, _, catalog := newTestCoordinator(t)
	results := []models.Track{
		track("b"),
		{ID: "silent", Title: "No source"},
		track("d"),
		track("d"),
		track("e"),
	}
	catalog.Results = map[string][]models.Track{"Artist": results}
	q := tracks("a", "b", "c")
	require.NoError(t, c.PlayTrack(q[2], q))

	c.Advance()

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys(c.Queue()))
	assert.Equal(t, 3, c.CurrentIndex())
}

func TestAdvance_ExtensionFallbackTerm(t *testing.T) {
	c, _, catalog := newTestCoordinator(t, WithFallbackTerm("top hits"))
	anon := track("a")
	anon.Artist = ""
	require.NoError(t, c.PlayTrack(anon, []models.Track{anon}))

	c.Advance()

	assert.Equal(t, []string{"top hits"}, catalog.Searches())
}

func TestAdvance_ExtensionFindsNothing(t *testing.T) {
	tests := []struct {
		name    string
		results []models.Track
		err     error
	}{
		{name: "empty results"},
		{name: "only duplicates", results: tracks("a", "b")},
		{name: "search failure", err: errors.New("upstream down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sink, catalog := newTestCoordinator(t)
			catalog.Results = map[string][]models.Track{"Artist": tt.results}
			catalog.Err = tt.err
			q := tracks("a", "b")
			require.NoError(t, c.PlayTrack(q[1], q))

			c.Advance()

			assert.Equal(t, []string{"a", "b"}, keys(c.Queue()))
			assert.Equal(t, 1, c.CurrentIndex())
			assert.Equal(t, StatePaused, c.State())
			assert.False(t, sink.Playing())
		})
	}
}

func TestAdvance_ExtensionWithoutCatalogStops(t *testing.T) {
	sink := NewMockSink()
	c := New(sink, WithExecutor(Inline))
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.PlayAll(tracks("a")))

	c.Advance()

	assert.Equal(t, StatePaused, c.State())
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestAdvance_StaleExtensionIsDiscarded(t *testing.T) {
	var jobs []func()
	c, _, catalog := newTestCoordinator(t, WithExecutor(func(fn func()) { jobs = append(jobs, fn) }))
	catalog.Results = map[string][]models.Track{"Artist": tracks("d", "e")}
	q := tracks("a", "b", "c")
	require.NoError(t, c.PlayTrack(q[2], q))

	c.Advance()
	require.True(t, c.Extending())
	extension := jobs[len(jobs)-1]

	// A second advance while the fetch is pending does not start another.
	c.Advance()
	assert.Len(t, jobs, 2)

	// The user jumps elsewhere before the search returns.
	require.NoError(t, c.PlayTrack(q[0], nil))
	extension()

	assert.Equal(t, []string{"a", "b", "c"}, keys(c.Queue()))
	assert.Equal(t, 0, c.CurrentIndex())
	assert.True(t, c.IsPlaying())
	assert.False(t, c.Extending())
}

func TestRetreat_DiscardsPendingExtension(t *testing.T) {
	var jobs []func()
	c, sink, catalog := newTestCoordinator(t, WithExecutor(func(fn func()) { jobs = append(jobs, fn) }))
	catalog.Results = map[string][]models.Track{"Artist": tracks("d", "e")}
	q := tracks("a", "b", "c")
	require.NoError(t, c.PlayTrack(q[2], q))

	c.Advance()
	require.True(t, c.Extending())
	extension := jobs[len(jobs)-1]

	c.Retreat()
	require.Equal(t, 1, c.CurrentIndex())
	extension()

	cur, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, []string{"a", "b", "c"}, keys(c.Queue()))
	assert.Equal(t, q[1].PlayableURL, sink.Src())
}

func TestRetreat_RestartDiscardsPendingExtension(t *testing.T) {
	var jobs []func()
	c, sink, catalog := newTestCoordinator(t, WithExecutor(func(fn func()) { jobs = append(jobs, fn) }))
	catalog.Results = map[string][]models.Track{"Artist": tracks("d")}
	q := tracks("a", "b")
	require.NoError(t, c.PlayTrack(q[1], q))

	c.Advance()
	require.True(t, c.Extending())
	extension := jobs[len(jobs)-1]

	sink.SetPosition(30)
	c.Retreat()
	extension()

	cur, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
	assert.Equal(t, []string{"a", "b"}, keys(c.Queue()))
}

func TestAdvance_ExtensionKeepsShuffleOrigin(t *testing.T) {
	c, _, catalog := newTestCoordinator(t)
	catalog.Results = map[string][]models.Track{"Artist": tracks("d")}
	q := tracks("a", "b")
	require.NoError(t, c.PlayTrack(q[0], q))
	c.ToggleShuffle()
	c.SetRepeat(RepeatOff)

	// Shuffled queue is [a, b]; advance to the end and extend.
	c.Advance()
	c.Advance()
	require.Equal(t, "d", c.Queue()[c.CurrentIndex()].ID)

	c.ToggleShuffle()
	assert.Equal(t, []string{"a", "b", "d"}, keys(c.Queue()))
	assert.Equal(t, 2, c.CurrentIndex())
}
