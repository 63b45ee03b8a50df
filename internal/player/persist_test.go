package player

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

type memPersister struct {
	mu      sync.Mutex
	saved   []Snapshot
	load    Snapshot
	loadErr error
	saveErr error
}

func (m *memPersister) SavePlayerState(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return m.saveErr
}

func (m *memPersister) LoadPlayerState() (Snapshot, error) {
	return m.load, m.loadErr
}

func (m *memPersister) last() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

func TestPersist_EveryMutationSaves(t *testing.T) {
	p := &memPersister{}
	c, _, _ := newTestCoordinator(t, WithPersister(p))
	q := tracks("a", "b")

	require.NoError(t, c.PlayTrack(q[1], q))
	s := p.last()
	require.NotNil(t, s.CurrentTrack)
	assert.Equal(t, "b", s.CurrentTrack.ID)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, []string{"a", "b"}, keys(s.Queue))

	c.SetVolume(0.2)
	require.NotNil(t, p.last().Volume)
	assert.Equal(t, 0.2, *p.last().Volume)

	c.ToggleRepeat()
	assert.Equal(t, RepeatOne, p.last().Repeat)

	c.ToggleShuffle()
	s = p.last()
	assert.True(t, s.Shuffle)
	assert.Equal(t, []string{"a", "b"}, keys(s.OriginalQueue))
}

// lockCheckPersister records whether the coordinator lock was held during each save.
type lockCheckPersister struct {
	memPersister
	c        *Coordinator
	unlocked int
}

func (l *lockCheckPersister) SavePlayerState(s Snapshot) error {
	if l.c != nil && l.c.mu.TryLock() {
		l.c.mu.Unlock()
		l.unlocked++
	}
	return l.memPersister.SavePlayerState(s)
}

func TestPersist_SavesInMutationOrder(t *testing.T) {
	p := &lockCheckPersister{}
	c, _, _ := newTestCoordinator(t, WithPersister(p))
	p.c = c
	require.NoError(t, c.PlayAll(tracks("a", "b", "c")))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.SetVolume(float64(i%10) / 10)
			if i%7 == 0 {
				c.ToggleRepeat()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, p.unlocked, "every save happens under the coordinator lock")
	assert.Equal(t, c.Snapshot(), p.last())
}

func TestPersist_SaveFailureIsNotFatal(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	c, _, _ := newTestCoordinator(t, WithPersister(p))

	require.NoError(t, c.PlayTrack(track("a"), nil))
	assert.True(t, c.IsPlaying())
}

func TestRestore_NeverPlays(t *testing.T) {
	c, sink, _ := newTestCoordinator(t)
	tr := track("t")

	c.Restore(Snapshot{
		CurrentTrack: &tr,
		Queue:        []models.Track{tr},
		CurrentIndex: 0,
		Volume:       ptr(0.7),
		Shuffle:      false,
		Repeat:       RepeatAll,
		Playing:      true,
	})

	assert.False(t, c.IsPlaying())
	assert.Equal(t, StatePaused, c.State())
	assert.Equal(t, 0, c.CurrentIndex())
	assert.Equal(t, RepeatAll, c.Repeat())
	assert.Equal(t, 0.7, c.Volume())
	assert.Equal(t, tr.PlayableURL, sink.Src(), "source is assigned so toggling resumes")
	assert.Zero(t, sink.Plays())

	c.TogglePlayPause()
	assert.True(t, c.IsPlaying())
}

func TestRestore_Normalizes(t *testing.T) {
	tests := []struct {
		name      string
		snap      Snapshot
		wantState State
		wantIndex int
	}{
		{
			name:      "no current track is idle",
			snap:      Snapshot{Queue: tracks("a"), CurrentIndex: 0, Volume: ptr(1.0)},
			wantState: StateIdle,
			wantIndex: -1,
		},
		{
			name:      "out of range index relocates the track",
			snap:      Snapshot{CurrentTrack: ptr(track("b")), Queue: tracks("a", "b"), CurrentIndex: 7, Volume: ptr(1.0)},
			wantState: StatePaused,
			wantIndex: 1,
		},
		{
			name:      "empty queue",
			snap:      Snapshot{CurrentTrack: ptr(track("b")), CurrentIndex: 3, Volume: ptr(1.0)},
			wantState: StatePaused,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCoordinator(t)
			c.Restore(tt.snap)
			assert.Equal(t, tt.wantState, c.State())
			assert.Equal(t, tt.wantIndex, c.CurrentIndex())
		})
	}
}

func TestRestoreSaved(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, WithPersister(&memPersister{loadErr: shared.ErrNotFound}))
		require.NoError(t, c.RestoreSaved())
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("malformed state falls back to defaults", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, WithPersister(&memPersister{loadErr: shared.ErrMalformedState}))
		require.NoError(t, c.RestoreSaved())
		assert.Equal(t, StateIdle, c.State())
		assert.Equal(t, DefaultVolume, c.Volume())
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, WithPersister(&memPersister{loadErr: errors.New("locked")}))
		assert.Error(t, c.RestoreSaved())
	})

	t.Run("restores snapshot", func(t *testing.T) {
		tr := track("a")
		c, _, _ := newTestCoordinator(t, WithPersister(&memPersister{load: Snapshot{
			CurrentTrack: &tr, Queue: []models.Track{tr}, Volume: ptr(0.4), Repeat: RepeatOne,
		}}))
		require.NoError(t, c.RestoreSaved())
		assert.Equal(t, StatePaused, c.State())
		assert.Equal(t, 0.4, c.Volume())
		assert.Equal(t, RepeatOne, c.Repeat())
	})
}

func TestRestore_MissingVolumeKeepsConfigured(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal(
		[]byte(`{"currentTrack":null,"queue":[],"currentIndex":-1,"shuffle":false,"repeat":"off"}`), &s))
	assert.Nil(t, s.Volume)

	t.Run("default", func(t *testing.T) {
		c, sink, _ := newTestCoordinator(t, WithPersister(&memPersister{load: s}))
		require.NoError(t, c.RestoreSaved())
		assert.Equal(t, DefaultVolume, c.Volume())
		assert.Equal(t, DefaultVolume, sink.Volume())
	})

	t.Run("configured", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, WithVolume(0.3), WithPersister(&memPersister{load: s}))
		require.NoError(t, c.RestoreSaved())
		assert.Equal(t, 0.3, c.Volume())
	})

	t.Run("stored zero mutes", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		c.Restore(Snapshot{Volume: ptr(0.0)})
		assert.Zero(t, c.Volume())
	})
}

func TestSnapshot_JSON(t *testing.T) {
	tr := track("a")
	s := Snapshot{CurrentTrack: &tr, Queue: []models.Track{tr}, Volume: ptr(0.7), Repeat: RepeatAll}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"repeat":"all"`)
	assert.Contains(t, string(b), `"currentTrack":{"id":"a"`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, s, decoded)

	err = json.Unmarshal([]byte(`{"repeat":"sometimes"}`), &decoded)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func ptr[T any](v T) *T { return &v }
