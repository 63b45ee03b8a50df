package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/desertthunder/harmony/internal/player"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	loadSymbol  = "…"
)

// barState is everything the now-playing bar shows.
type barState struct {
	title     string
	artist    string
	state     player.State
	position  int
	duration  int
	volume    float64
	shuffle   bool
	repeat    player.RepeatMode
	extending bool
}

func newBarState(c *player.Coordinator) barState {
	s := barState{
		state:     c.State(),
		volume:    c.Volume(),
		shuffle:   c.Shuffle(),
		repeat:    c.Repeat(),
		extending: c.Extending(),
	}
	s.position, s.duration = c.Progress()
	if t, ok := c.CurrentTrack(); ok {
		s.title, s.artist = orUnknown(t.Title), orUnknown(t.Artist)
	}
	return s
}

// renderBar draws the bar at width. An idle player shows a hint instead.
func renderBar(s barState, bar progress.Model, width int) string {
	inner := max(width-4, 10)
	if s.title == "" {
		return styles.bar.Width(inner).Render(styles.help.Render("Nothing playing. Press / to search."))
	}

	status := playSymbol
	switch s.state {
	case player.StatePaused, player.StateIdle:
		status = pauseSymbol
	case player.StateLoading:
		status = loadSymbol
	}

	head := fmt.Sprintf("%s  %s - %s", status, s.title, s.artist)
	if s.extending {
		head += styles.help.Render("  finding more songs...")
	}

	pos, dur := shared.FormatDuration(s.position), shared.FormatDuration(s.duration)
	bar.Width = max(inner-len(pos)-len(dur)-4, 5)
	var ratio float64
	if s.duration > 0 {
		ratio = min(float64(s.position)/float64(s.duration), 1)
	}
	line := fmt.Sprintf("%s  %s  %s", pos, bar.ViewAs(ratio), dur)

	return styles.bar.Width(inner).Render(strings.Join([]string{head, line, renderModes(s)}, "\n"))
}

func renderModes(s barState) string {
	vol := fmt.Sprintf("vol %d%%", int(s.volume*100+0.5))
	if s.volume == 0 {
		vol = "muted"
	}

	shuffle := "shuffle off"
	if s.shuffle {
		shuffle = styles.ok.Render("shuffle on")
	}

	repeat := "repeat " + s.repeat.String()
	if s.repeat != player.RepeatOff {
		repeat = styles.ok.Render(repeat)
	}
	return strings.Join([]string{vol, shuffle, repeat}, "  ·  ")
}
