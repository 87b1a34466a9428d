package listkit

import (
	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/listkit/keybind"
)

// Keymap holds the key bindings of list items and list views.
type Keymap struct {
	Click          keybind.Keybind
	RevealLeading  keybind.Keybind
	RevealTrailing keybind.Keybind
	Rebound        keybind.Keybind
	Expand         keybind.Keybind

	Up         keybind.Keybind
	Down       keybind.Keybind
	Top        keybind.Keybind
	Bottom     keybind.Keybind
	SelectMode keybind.Keybind
	DragMode   keybind.Keybind
}

// DefaultKeymap returns the default bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Click: keybind.NewKeybind(
			keybind.WithKeys("enter", "space"),
			keybind.WithHelp("enter", "activate"),
		),
		RevealLeading: keybind.NewKeybind(
			keybind.WithKeys("right", "l"),
			keybind.WithHelp("→", "leading actions"),
		),
		RevealTrailing: keybind.NewKeybind(
			keybind.WithKeys("left", "h"),
			keybind.WithHelp("←", "trailing actions"),
		),
		Rebound: keybind.NewKeybind(
			keybind.WithKeys("esc"),
			keybind.WithHelp("esc", "close"),
		),
		Expand: keybind.NewKeybind(
			keybind.WithKeys("e"),
			keybind.WithHelp("e", "expand"),
		),
		Up: keybind.NewKeybind(
			keybind.WithKeys("up", "k"),
			keybind.WithHelp("↑/k", "up"),
		),
		Down: keybind.NewKeybind(
			keybind.WithKeys("down", "j"),
			keybind.WithHelp("↓/j", "down"),
		),
		Top: keybind.NewKeybind(
			keybind.WithKeys("home", "g"),
			keybind.WithHelp("home", "top"),
		),
		Bottom: keybind.NewKeybind(
			keybind.WithKeys("end", "G"),
			keybind.WithHelp("end", "bottom"),
		),
		SelectMode: keybind.NewKeybind(
			keybind.WithKeys("s"),
			keybind.WithHelp("s", "select"),
		),
		DragMode: keybind.NewKeybind(
			keybind.WithKeys("d"),
			keybind.WithHelp("d", "reorder"),
		),
	}
}

// Matches reports whether event is bound by one of binds.
func (Keymap) Matches(event *tcell.EventKey, binds ...keybind.Keybind) bool {
	return keybind.Matches(event, binds...)
}

// ShortHelp returns the bindings for a one-line help bar.
func (k Keymap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.Click, k.RevealLeading, k.RevealTrailing, k.Expand}
}

// FullHelp returns the bindings grouped into help columns.
func (k Keymap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Click, k.RevealLeading, k.RevealTrailing, k.Rebound, k.Expand},
		{k.SelectMode, k.DragMode},
	}
}
