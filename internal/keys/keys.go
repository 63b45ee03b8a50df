// Package keys maps global keyboard shortcuts to player actions.
//
// Bindings are plain key strings as bubbletea reports them ("space",
// "ctrl+right"). Shortcuts are suppressed while a text input has focus so
// typing in the search box never controls playback.
package keys

import "github.com/charmbracelet/bubbles/key"

// SeekStep is how far left and right seek, in seconds.
const SeekStep = 10

// Action is a player operation a key can trigger.
type Action string

const (
	ActionNone        Action = ""
	ActionPlayPause   Action = "play_pause"
	ActionNext        Action = "next_track"
	ActionPrev        Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionMute        Action = "toggle_mute"
)

// Binding ties keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
}

// Default holds the global playback shortcuts.
var Default = []Binding{
	{ActionPlayPause, []string{" ", "space"}, "play/pause"},
	{ActionNext, []string{"ctrl+right"}, "next"},
	{ActionSeekForward, []string{"right"}, "+10s"},
	{ActionPrev, []string{"ctrl+left"}, "previous"},
	{ActionSeekBack, []string{"left"}, "-10s"},
	{ActionMute, []string{"M", "m"}, "mute"},
}

// Player is the subset of the coordinator the shortcuts drive.
type Player interface {
	TogglePlayPause()
	Advance()
	Retreat()
	SeekBy(delta float64)
	ToggleMute()
}

// Resolver maps key strings to actions.
type Resolver struct {
	bindings []Binding
	byKey    map[string]Action
}

// NewResolver builds a resolver. Later bindings win when a key repeats.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{bindings: bindings, byKey: make(map[string]Action)}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.byKey[k] = b.Action
		}
	}
	return r
}

// Resolve returns the action for key, or [ActionNone].
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key]
}

// KeysFor lists the keys bound to action.
func (r *Resolver) KeysFor(action Action) []string {
	for _, b := range r.bindings {
		if b.Action == action {
			return b.Keys
		}
	}
	return nil
}

// Handle resolves key and applies it to p. It reports the action taken, or
// false when the key is unbound or an input has focus.
func (r *Resolver) Handle(key string, inputFocused bool, p Player) (Action, bool) {
	if inputFocused {
		return ActionNone, false
	}
	action := r.Resolve(key)
	if action == ActionNone {
		return ActionNone, false
	}
	Apply(action, p)
	return action, true
}

// Apply runs action against p.
func Apply(action Action, p Player) {
	switch action {
	case ActionPlayPause:
		p.TogglePlayPause()
	case ActionNext:
		p.Advance()
	case ActionPrev:
		p.Retreat()
	case ActionSeekForward:
		p.SeekBy(SeekStep)
	case ActionSeekBack:
		p.SeekBy(-SeekStep)
	case ActionMute:
		p.ToggleMute()
	}
}

// Help returns the bindings as [key.Binding] values for bubbles/help.
func (r *Resolver) Help() []key.Binding {
	out := make([]key.Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		label := b.Keys[len(b.Keys)-1]
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Description)))
	}
	return out
}
