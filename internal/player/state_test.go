package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Loading", StateLoading.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Unknown", State(99).String())
	assert.False(t, StateIdle.IsActive())
	assert.True(t, StatePaused.IsActive())
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in   string
		want RepeatMode
		err  bool
	}{
		{in: "", want: RepeatOff},
		{in: "off", want: RepeatOff},
		{in: "One", want: RepeatOne},
		{in: " all ", want: RepeatAll},
		{in: "shuffle", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRepeatMode(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseRepeatMode(got.String())))
		})
	}
}

func TestRepeatMode_Next(t *testing.T) {
	assert.Equal(t, RepeatOne, RepeatOff.Next())
	assert.Equal(t, RepeatAll, RepeatOne.Next())
	assert.Equal(t, RepeatOff, RepeatAll.Next())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
