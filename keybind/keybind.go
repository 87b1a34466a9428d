// Package keybind matches key events against configurable key names such as
// "enter", "ctrl+e" or "shift+tab".
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of key names bound to one command, with the text shown
// in help lines.
type Keybind struct {
	keys     []string
	help     Help
	disabled bool
}

// Help is the help text of a Keybind.
type Help struct {
	Key  string
	Desc string
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// WithDisabled creates the binding switched off.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys)
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Enabled returns whether the binding reacts to keys.
func (k Keybind) Enabled() bool {
	return !k.disabled && len(k.keys) > 0
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

// Matches returns whether event is bound by one of the enabled keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	return MatchesName(Name(event), keybinds...)
}

// MatchesName is Matches for a key name as returned by Name.
func MatchesName(name string, keybinds ...Keybind) bool {
	name = Normalize(name)
	if name == "" {
		return false
	}
	for _, keybind := range keybinds {
		if keybind.Enabled() && slices.Contains(keybind.keys, name) {
			return true
		}
	}
	return false
}

func normalizeKeys(keys []string) []string {
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = Normalize(key); key != "" {
			normalized = append(normalized, key)
		}
	}
	return normalized
}

var modifierNames = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"shift":   "shift",
	"meta":    "meta",
}

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"spacebar": "space",
	" ":        "space",
}

// Normalize returns the canonical form of a key name: modifiers first in
// the order they were given, then the lower case key.
func Normalize(key string) string {
	if key == " " {
		return "space"
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "Rune[") && strings.HasSuffix(key, "]") && len(key) >= 7 {
		key = key[5 : len(key)-1]
	}
	key = strings.Replace(key, "-", "+", 1)
	if key == "+" {
		return "+"
	}

	var mods []string
	primary := ""
	for part := range strings.SplitSeq(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := modifierNames[strings.ToLower(part)]; ok {
			if !slices.Contains(mods, mod) {
				mods = append(mods, mod)
			}
			continue
		}
		primary = part
	}
	if primary == "" {
		return ""
	}
	if len([]rune(primary)) > 1 || len(mods) > 0 {
		primary = strings.ToLower(primary)
	}
	if alias, ok := keyAliases[primary]; ok {
		primary = alias
	}
	if primary == "backtab" {
		primary = "tab"
		if !slices.Contains(mods, "shift") {
			mods = append(mods, "shift")
		}
	}
	return strings.Join(append(mods, primary), "+")
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "shift+tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyInsert:     "insert",
}

// Name returns the key name of an event.
func Name(event *tcell.EventKey) string {
	if event == nil {
		return ""
	}
	key := event.Key()
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+(key-tcell.KeyCtrlA)))
	}

	primary, ok := keyNames[key]
	if !ok && key == tcell.KeyRune {
		primary = event.Str()
		if primary == " " {
			primary = "space"
		}
	}
	if primary == "" {
		return Normalize(event.Name())
	}

	var mods []string
	modifiers := event.Modifiers()
	for _, mod := range []struct {
		mask tcell.ModMask
		name string
	}{
		{tcell.ModCtrl, "ctrl"},
		{tcell.ModAlt, "alt"},
		{tcell.ModShift, "shift"},
		{tcell.ModMeta, "meta"},
	} {
		if modifiers&mod.mask != 0 {
			mods = append(mods, mod.name)
		}
	}
	if len(mods) == 0 {
		return primary
	}
	return Normalize(strings.Join(append(mods, primary), "+"))
}
