package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/desertthunder/harmony/internal/keys"
)

// keyMap defines the [key.Binding] mapping for the TUI. Playback shortcuts
// come from the [keys.Resolver] and are listed alongside.
type keyMap struct {
	search      key.Binding
	next        key.Binding
	prev        key.Binding
	enter       key.Binding
	enqueue     key.Binding
	favorite    key.Binding
	addTo       key.Binding
	newPlaylist key.Binding
	remove      key.Binding
	shuffle     key.Binding
	repeat      key.Binding
	back        key.Binding
	clear       key.Binding
	help        key.Binding
	quit        key.Binding

	playback []key.Binding
}

func newKeyMap(resolver *keys.Resolver) keyMap {
	return keyMap{
		search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/open")),
		enqueue:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "enqueue")),
		favorite:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "like")),
		addTo:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add to playlist")),
		newPlaylist: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		remove:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		shuffle:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		clear:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
		help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		playback:    resolver.Help(),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.next, k.enter, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.next, k.prev, k.enter, k.back},
		{k.enqueue, k.favorite, k.addTo, k.newPlaylist, k.remove},
		{k.shuffle, k.repeat, k.clear, k.help, k.quit},
		k.playback,
	}
}
