package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
	_ list.Item = recentItem("")
)

// playlistItem wraps [library.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist library.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	n := len(i.playlist.Tracks)
	desc := fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural(n, "track", "tracks"))
	if !i.playlist.CreatedAt.IsZero() {
		desc = fmt.Sprintf("%s • created %s", desc, humanize.Time(i.playlist.CreatedAt))
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track   models.Track
	liked   bool
	current bool
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string {
	var b strings.Builder
	if i.current {
		b.WriteString("▶ ")
	}
	b.WriteString(orUnknown(i.track.Title))
	if i.liked {
		b.WriteString(" ♥")
	}
	return b.String()
}

func (i trackItem) Description() string {
	parts := []string{orUnknown(i.track.Artist)}
	if i.track.Album != "" {
		parts = append(parts, i.track.Album)
	}
	if i.track.Duration > 0 {
		parts = append(parts, shared.FormatDuration(i.track.Duration))
	}
	if !i.track.Playable() {
		parts = append(parts, "unavailable")
	}
	return strings.Join(parts, " • ")
}

// recentItem is a saved search term.
type recentItem string

func (i recentItem) FilterValue() string { return string(i) }
func (i recentItem) Title() string       { return string(i) }
func (i recentItem) Description() string { return "recent search" }

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func tracksOf(l list.Model) []models.Track {
	var out []models.Track
	for _, it := range l.Items() {
		if t, ok := it.(trackItem); ok {
			out = append(out, t.track)
		}
	}
	return out
}
