package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/keys"
	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/player"
	"github.com/desertthunder/harmony/internal/shared"
)

// Pane is one of the tabs of the TUI.
type Pane int

const (
	SearchPane Pane = iota
	QueuePane
	FavoritesPane
	PlaylistsPane
	LyricsPane
	paneCount
)

var paneNames = [paneCount]string{"Search", "Queue", "Favorites", "Playlists", "Lyrics"}

func (p Pane) String() string { return paneNames[p] }

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputPlaylistName
)

// Searcher runs catalog searches.
type Searcher interface {
	Search(ctx context.Context, term string) ([]models.Track, error)
}

// History stores recent search terms.
type History interface {
	RecentSearches() ([]string, error)
	AddRecentSearch(term string) ([]string, error)
	ClearRecentSearches() error
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	player   *player.Coordinator
	sub      *player.Subscription
	library  *library.Library
	searcher Searcher
	history  History
	syncs    <-chan library.SyncResult
	resolver *keys.Resolver
	logger   *log.Logger

	pane         Pane
	mode         inputMode
	input        textinput.Model
	results      list.Model
	queue        list.Model
	favorites    list.Model
	playlists    list.Model
	detail       list.Model
	openPlaylist string
	picking      *models.Track
	recent       []string
	found        []models.Track
	lastTerm     string

	bar       progress.Model
	help      help.Model
	keys      keyMap
	status    string
	statusErr bool
	width     int
	height    int
}

// Option configures a [Model].
type Option func(*Model)

// WithHistory enables recent searches.
func WithHistory(h History) Option {
	return func(m *Model) { m.history = h }
}

// WithSyncResults feeds library reconciliation results into the status line.
func WithSyncResults(ch <-chan library.SyncResult) Option {
	return func(m *Model) { m.syncs = ch }
}

func WithResolver(r *keys.Resolver) Option {
	return func(m *Model) { m.resolver = r }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, coord *player.Coordinator, lib *library.Library, searcher Searcher, opts ...Option) *Model {
	m := &Model{
		ctx:       ctx,
		player:    coord,
		library:   lib,
		searcher:  searcher,
		results:   newList("Search"),
		queue:     newList("Queue"),
		favorites: newList("Favorites"),
		playlists: newList("Playlists"),
		detail:    newList(""),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.resolver == nil {
		m.resolver = keys.NewResolver(keys.Default)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.keys = newKeyMap(m.resolver)

	m.input = textinput.New()
	m.input.CharLimit = 120

	m.sub = coord.Subscribe()
	m.loadRecent()
	m.refreshPlayer()
	m.refreshLibrary()
	return m
}

// Init starts listening for player and library events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForPlayer(m.sub), waitForSync(m.syncs))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-12, 3)
		for _, l := range []*list.Model{&m.results, &m.queue, &m.favorites, &m.playlists, &m.detail} {
			l.SetSize(msg.Width-4, h)
		}
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, shared.ErrMissingArgument) {
			m.setError(fmt.Sprintf("Search failed: %v", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("%d results for %q", len(msg.results), msg.term))
		}
		if msg.recent != nil {
			m.recent = msg.recent
		}
		m.found = msg.results
		m.refreshSearch()
		return m, nil

	case playerChangedMsg:
		m.refreshPlayer()
		return m, waitForPlayer(m.sub)

	case playerErrorMsg:
		m.setError(describePlayerError(player.ErrorEvent(msg)))
		m.refreshPlayer()
		return m, waitForPlayer(m.sub)

	case syncMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Could not sync %s: %v", msg.Op, msg.Err))
		}
		m.refreshLibrary()
		return m, waitForSync(m.syncs)
	}

	return m.updateList(msg)
}

func describePlayerError(e player.ErrorEvent) string {
	switch {
	case errors.Is(e.Err, shared.ErrUnplayable):
		return "This track has no playable source."
	case errors.Is(e.Err, shared.ErrPlaybackRejected):
		return "Playback was blocked. Press space to retry."
	default:
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
}

func (m *Model) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *Model) setError(s string)  { m.status, m.statusErr = s, true }

func (m *Model) inputFocused() bool { return m.mode != inputNone }

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if _, ok := m.resolver.Handle(msg.String(), m.inputFocused(), m.player); ok {
		m.refreshPlayer()
		return m, nil
	}
	if m.inputFocused() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.pane = SearchPane
		return m, m.focusInput(inputSearch, "Search songs, artists, albums")
	case key.Matches(msg, m.keys.next):
		m.pane = (m.pane + 1) % paneCount
	case key.Matches(msg, m.keys.prev):
		m.pane = (m.pane + paneCount - 1) % paneCount
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.back):
		m.back()
	case key.Matches(msg, m.keys.shuffle):
		if m.player.ToggleShuffle() {
			m.setStatus("Shuffle on")
		} else {
			m.setStatus("Shuffle off")
		}
	case key.Matches(msg, m.keys.repeat):
		m.setStatus("Repeat " + m.player.ToggleRepeat().String())
	case key.Matches(msg, m.keys.enter):
		return m, m.activate()
	case key.Matches(msg, m.keys.enqueue):
		if t, ok := m.selectedTrack(); ok {
			m.player.Enqueue(t)
			m.setStatus(fmt.Sprintf("Queued %s", orUnknown(t.Title)))
		}
	case key.Matches(msg, m.keys.favorite):
		m.toggleFavorite()
	case key.Matches(msg, m.keys.addTo):
		if t, ok := m.selectedTrack(); ok {
			m.picking = &t
			m.openPlaylist = ""
			m.pane = PlaylistsPane
			m.setStatus(fmt.Sprintf("Pick a playlist for %s (esc to cancel)", orUnknown(t.Title)))
		}
	case key.Matches(msg, m.keys.newPlaylist):
		return m, m.focusInput(inputPlaylistName, "New playlist name")
	case key.Matches(msg, m.keys.remove):
		m.removeSelected()
	case key.Matches(msg, m.keys.clear):
		m.clearHistory()
	default:
		return m.updateList(msg)
	}
	m.refreshPlayer()
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blurInput()
		return m, nil
	case tea.KeyEnter:
		value, mode := strings.TrimSpace(m.input.Value()), m.mode
		m.blurInput()
		switch mode {
		case inputSearch:
			return m, m.runSearch(value)
		case inputPlaylistName:
			m.createPlaylist(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) focusInput(mode inputMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) blurInput() {
	m.mode = inputNone
	m.input.Blur()
}

func (m *Model) back() {
	switch {
	case m.picking != nil:
		m.picking = nil
		m.setStatus("Cancelled")
	case m.pane == PlaylistsPane && m.openPlaylist != "":
		m.openPlaylist = ""
	}
}

func (m *Model) runSearch(term string) tea.Cmd {
	if term == "" {
		return nil
	}
	m.lastTerm = term
	m.pane = SearchPane
	m.setStatus(fmt.Sprintf("Searching for %q...", term))

	ctx, searcher, history, logger := m.ctx, m.searcher, m.history, m.logger
	return func() tea.Msg {
		results, err := searcher.Search(ctx, term)
		var recent []string
		if history != nil {
			var herr error
			if recent, herr = history.AddRecentSearch(term); herr != nil {
				logger.Warn("failed to save recent search", "err", herr)
			}
		}
		return searchDoneMsg{term: term, results: results, recent: recent, err: err}
	}
}

// activate handles enter for the current pane.
func (m *Model) activate() tea.Cmd {
	switch m.pane {
	case SearchPane:
		switch it := m.results.SelectedItem().(type) {
		case recentItem:
			return m.runSearch(string(it))
		case trackItem:
			m.play(it.track, tracksOf(m.results))
		}
	case QueuePane:
		if err := m.player.JumpTo(m.queue.Index()); err != nil {
			m.setError(err.Error())
		}
	case FavoritesPane:
		if it, ok := m.favorites.SelectedItem().(trackItem); ok {
			m.play(it.track, tracksOf(m.favorites))
		}
	case PlaylistsPane:
		if m.openPlaylist != "" {
			if it, ok := m.detail.SelectedItem().(trackItem); ok {
				m.play(it.track, tracksOf(m.detail))
			}
			break
		}
		it, ok := m.playlists.SelectedItem().(playlistItem)
		if !ok {
			break
		}
		if m.picking != nil {
			m.addPicked(it.playlist)
			break
		}
		m.openPlaylist = it.playlist.ID
		m.refreshLibrary()
	}
	m.refreshPlayer()
	return nil
}

func (m *Model) play(t models.Track, queue []models.Track) {
	if err := m.player.PlayTrack(t, queue); err != nil {
		m.setError(describePlayerError(player.ErrorEvent{Operation: "play", Key: t.Key(), Err: err}))
	}
}

func (m *Model) addPicked(p library.Playlist) {
	t := *m.picking
	m.picking = nil
	switch err := m.library.AddToPlaylist(p.ID, t); {
	case errors.Is(err, shared.ErrAlreadyExists):
		m.setError(fmt.Sprintf("%s is already in %s", orUnknown(t.Title), p.Name))
	case err != nil:
		m.setError(err.Error())
	default:
		m.setStatus(fmt.Sprintf("Added %s to %s", orUnknown(t.Title), p.Name))
	}
	m.refreshLibrary()
}

func (m *Model) createPlaylist(name string) {
	p, err := m.library.CreatePlaylist(name)
	if err != nil {
		m.setError("Playlist name is required")
		return
	}
	m.setStatus(fmt.Sprintf("Created %s", p.Name))
	m.pane = PlaylistsPane
	m.refreshLibrary()
}

// toggleFavorite likes the selected track, or the current one when nothing is selected.
func (m *Model) toggleFavorite() {
	t, ok := m.selectedTrack()
	if !ok {
		t, ok = m.player.CurrentTrack()
	}
	if !ok {
		return
	}
	if m.library.ToggleFavorite(t) {
		m.setStatus(fmt.Sprintf("Liked %s", orUnknown(t.Title)))
	} else {
		m.setStatus(fmt.Sprintf("Removed %s from favorites", orUnknown(t.Title)))
	}
	m.refreshLibrary()
}

func (m *Model) removeSelected() {
	switch m.pane {
	case FavoritesPane:
		if it, ok := m.favorites.SelectedItem().(trackItem); ok {
			m.library.ToggleFavorite(it.track)
		}
	case PlaylistsPane:
		if m.openPlaylist != "" {
			if it, ok := m.detail.SelectedItem().(trackItem); ok {
				if err := m.library.RemoveFromPlaylist(m.openPlaylist, it.track.Key()); err != nil {
					m.setError(err.Error())
				}
			}
		} else if it, ok := m.playlists.SelectedItem().(playlistItem); ok {
			if err := m.library.DeletePlaylist(it.playlist.ID); err != nil {
				m.setError(err.Error())
			} else {
				m.setStatus(fmt.Sprintf("Deleted %s", it.playlist.Name))
			}
		}
	}
	m.refreshLibrary()
}

func (m *Model) clearHistory() {
	if m.history == nil || m.pane != SearchPane {
		return
	}
	if err := m.history.ClearRecentSearches(); err != nil {
		m.setError(err.Error())
		return
	}
	m.recent = nil
	m.refreshSearch()
	m.setStatus("Search history cleared")
}

// selectedTrack is the highlighted track in the current pane.
func (m *Model) selectedTrack() (models.Track, bool) {
	var item list.Item
	switch m.pane {
	case SearchPane:
		item = m.results.SelectedItem()
	case QueuePane:
		item = m.queue.SelectedItem()
	case FavoritesPane:
		item = m.favorites.SelectedItem()
	case PlaylistsPane:
		if m.openPlaylist != "" {
			item = m.detail.SelectedItem()
		}
	}
	it, ok := item.(trackItem)
	return it.track, ok
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.pane {
	case SearchPane:
		m.results, cmd = m.results.Update(msg)
	case QueuePane:
		m.queue, cmd = m.queue.Update(msg)
	case FavoritesPane:
		m.favorites, cmd = m.favorites.Update(msg)
	case PlaylistsPane:
		if m.openPlaylist != "" {
			m.detail, cmd = m.detail.Update(msg)
		} else {
			m.playlists, cmd = m.playlists.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) loadRecent() {
	if m.history == nil {
		return
	}
	recent, err := m.history.RecentSearches()
	if err != nil {
		m.logger.Warn("failed to load recent searches", "err", err)
		return
	}
	m.recent = recent
	m.refreshSearch()
}

func (m *Model) trackItems(tracks []models.Track, current int) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, liked: m.library.IsFavorite(t.Key()), current: i == current}
	}
	return items
}

// refreshSearch shows results, or recent searches when there are none.
func (m *Model) refreshSearch() {
	if len(m.found) > 0 {
		m.results.Title = fmt.Sprintf("Results for %q", m.lastTerm)
		m.results.SetItems(m.trackItems(m.found, -1))
		return
	}
	m.results.Title = "Recent searches"
	items := make([]list.Item, len(m.recent))
	for i, r := range m.recent {
		items[i] = recentItem(r)
	}
	m.results.SetItems(items)
}

func (m *Model) refreshPlayer() {
	m.queue.SetItems(m.trackItems(m.player.Queue(), m.player.CurrentIndex()))
}

func (m *Model) refreshLibrary() {
	m.favorites.SetItems(m.trackItems(m.library.Favorites(), -1))

	playlists := m.library.Playlists()
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	m.playlists.SetItems(items)

	if m.openPlaylist != "" {
		p, ok := m.library.Playlist(m.openPlaylist)
		if !ok {
			m.openPlaylist = ""
		} else {
			m.detail.Title = p.Name
			m.detail.SetItems(m.trackItems(p.Tracks, -1))
		}
	}
	if len(m.found) > 0 {
		m.refreshSearch()
	}
}

// View renders the UI based on the current pane.
func (m *Model) View() string {
	sections := []string{m.renderTabs()}

	if m.inputFocused() {
		sections = append(sections, m.input.View())
	}
	if m.status != "" {
		style := styles.help
		if m.statusErr {
			style = styles.err
		}
		sections = append(sections, style.Render(m.status))
	}

	sections = append(sections,
		m.renderPane(),
		renderBar(newBarState(m.player), m.bar, m.width),
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, paneCount)
	for p := range paneCount {
		if p == m.pane {
			tabs = append(tabs, styles.active.Render(p.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderPane() string {
	switch m.pane {
	case SearchPane:
		return m.results.View()
	case QueuePane:
		return m.queue.View()
	case FavoritesPane:
		return m.favorites.View()
	case PlaylistsPane:
		if m.openPlaylist != "" {
			return m.detail.View()
		}
		return m.playlists.View()
	case LyricsPane:
		return m.renderLyrics()
	}
	return ""
}

func (m *Model) renderLyrics() string {
	t, ok := m.player.CurrentTrack()
	if !ok {
		return styles.help.Render("Play something to see its lyrics.")
	}
	_, text := m.player.Lyrics()
	title := styles.title.Render(fmt.Sprintf("%s - %s", orUnknown(t.Title), orUnknown(t.Artist)))
	body := lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(text)
	return title + "\n" + body
}
