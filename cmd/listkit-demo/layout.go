package main

import (
	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/listkit"
	"github.com/xqrs/listkit/help"
	"github.com/xqrs/listkit/keybind"
)

// keyMap adds the demo bindings to the list bindings.
type keyMap struct {
	listkit.Keymap
	Filter keybind.Keybind
	Help   keybind.Keybind
	Quit   keybind.Keybind
}

func newKeyMap(list listkit.Keymap) keyMap {
	return keyMap{
		Keymap: list,
		Filter: keybind.NewKeybind(keybind.WithKeys("/"), keybind.WithHelp("/", "filter")),
		Help:   keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "help")),
		Quit:   keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []keybind.Keybind {
	return append(k.Keymap.ShortHelp(), k.Filter, k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]keybind.Keybind {
	return append(k.Keymap.FullHelp(), []keybind.Keybind{k.Filter, k.Help, k.Quit})
}

// layout stacks the list, a status line and the help bar.
type layout struct {
	*listkit.Box
	keys keyMap

	list *listkit.ListView
	help *help.Help

	filtering bool
	filter    string
	status    string

	filterChanged func(filter string)
}

func newLayout(list *listkit.ListView, keys keyMap) *layout {
	l := &layout{
		Box:  listkit.NewBox(),
		keys: keys,
		list: list,
		help: help.New().SetKeyMap(keys),
	}
	list.SetParentNode(l)
	l.help.SetParentNode(l)
	return l
}

func (l *layout) setStatus(status string) {
	l.status = status
	l.MarkDirty()
}

func (l *layout) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	x, y, width, height := l.GetRect()
	helpHeight := l.help.Height()
	listHeight := max(height-helpHeight-1, 0)

	l.list.SetRect(x, y, width, listHeight)
	l.list.Draw(screen)

	line := l.status
	style := tcell.StyleDefault.Foreground(listkit.Styles.SecondaryTextColor)
	if l.filtering || l.filter != "" {
		line = "/" + l.filter
		if l.filtering {
			line += "▏"
			style = tcell.StyleDefault.Foreground(listkit.Styles.PrimaryTextColor)
		}
	}
	listkit.PrintWithStyle(screen, line, x, y+listHeight, width, listkit.AlignmentLeft, style)

	l.help.SetRect(x, y+listHeight+1, width, helpHeight)
	l.help.Draw(screen)
}

func (l *layout) MarkClean() {
	l.Box.MarkClean()
	l.list.MarkClean()
	l.help.MarkClean()
}

func (l *layout) IsDirty() bool {
	return l.Box.IsDirty() || l.list.IsDirty() || l.help.IsDirty()
}

func (l *layout) Focus(delegate func(p listkit.Primitive)) {
	l.Box.Focus(delegate)
	l.list.Focus(delegate)
}

func (l *layout) Blur() {
	l.list.Blur()
	l.Box.Blur()
}

func (l *layout) HasFocus() bool {
	return l.Box.HasFocus() || l.list.HasFocus()
}

func (l *layout) InputHandler(event *tcell.EventKey) listkit.Command {
	if l.filtering {
		return l.editFilter(event)
	}
	switch {
	case keybind.Matches(event, l.keys.Quit):
		return listkit.QuitCommand{}
	case keybind.Matches(event, l.keys.Help):
		l.help.SetShowAll(!l.help.ShowAll())
		l.MarkDirty()
		return listkit.RedrawCommand{}
	case keybind.Matches(event, l.keys.Filter):
		l.filtering = true
		l.MarkDirty()
		return listkit.RedrawCommand{}
	}
	return l.list.InputHandler(event)
}

func (l *layout) editFilter(event *tcell.EventKey) listkit.Command {
	switch event.Key() {
	case tcell.KeyEnter:
		l.filtering = false
	case tcell.KeyEscape:
		l.filtering = false
		l.setFilter("")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(l.filter); len(runes) > 0 {
			l.setFilter(string(runes[:len(runes)-1]))
		}
	case tcell.KeyRune:
		l.setFilter(l.filter + event.Str())
	default:
		return nil
	}
	l.MarkDirty()
	return listkit.RedrawCommand{}
}

func (l *layout) setFilter(filter string) {
	if l.filter == filter {
		return
	}
	l.filter = filter
	if l.filterChanged != nil {
		l.filterChanged(filter)
	}
}

func (l *layout) MouseHandler(action listkit.MouseAction, event *tcell.EventMouse) (listkit.Primitive, listkit.Command) {
	if !l.list.InRect(event.Position()) {
		return nil, nil
	}
	return l.list.MouseHandler(action, event)
}
