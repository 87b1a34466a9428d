// Package help draws a help bar for a set of key bindings.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
	"github.com/xqrs/listkit"
	"github.com/xqrs/listkit/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Help shows the enabled bindings of a KeyMap, either on one line or in
// columns.
type Help struct {
	*listkit.Box
	Styles Styles

	keyMap    KeyMap
	showAll   bool
	separator string
	gap       string
	ellipsis  string
}

func New() *Help {
	return &Help{
		Box:       listkit.NewBox(),
		Styles:    DefaultStyles(),
		separator: " • ",
		gap:       "   ",
		ellipsis:  "…",
	}
}

func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	h.MarkDirty()
	return h
}

// SetShowAll switches between the one-line and the column layout.
func (h *Help) SetShowAll(showAll bool) *Help {
	if h.showAll != showAll {
		h.showAll = showAll
		h.MarkDirty()
	}
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

// Height returns the rows the help needs in its current layout.
func (h *Help) Height() int {
	if !h.showAll || h.keyMap == nil {
		return 1
	}
	rows := 1
	for _, group := range h.keyMap.FullHelp() {
		rows = max(rows, len(enabled(group)))
	}
	return rows
}

func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)
	if h.keyMap == nil {
		return
	}
	x, y, width, height := h.GetRect()
	var lines [][]segment
	if h.showAll {
		lines = h.columns(h.keyMap.FullHelp(), width)
	} else {
		lines = [][]segment{h.line(h.keyMap.ShortHelp(), width)}
	}
	for row := 0; row < len(lines) && row < height; row++ {
		column := x
		for _, s := range lines[row] {
			column += listkit.PrintWithStyle(screen, s.text, column, y+row, x+width-column, listkit.AlignmentLeft, s.style)
		}
	}
}

// Lines renders the help as plain text, one string per row.
func (h *Help) Lines(width int) []string {
	if h.keyMap == nil {
		return nil
	}
	var lines [][]segment
	if h.showAll {
		lines = h.columns(h.keyMap.FullHelp(), width)
	} else {
		lines = [][]segment{h.line(h.keyMap.ShortHelp(), width)}
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.text)
		}
		out = append(out, b.String())
	}
	return out
}

type segment struct {
	text  string
	style tcell.Style
}

func enabled(binds []keybind.Keybind) []keybind.Help {
	out := make([]keybind.Help, 0, len(binds))
	for _, bind := range binds {
		help := bind.Help()
		if bind.Enabled() && (help.Key != "" || help.Desc != "") {
			out = append(out, help)
		}
	}
	return out
}

// line joins the bindings with the separator and ends with an ellipsis at
// the first binding that does not fit.
func (h *Help) line(binds []keybind.Keybind, width int) []segment {
	var out []segment
	used := 0
	for i, help := range enabled(binds) {
		entry := []segment{{text: help.Key, style: h.Styles.Key}}
		if help.Desc != "" {
			entry = append(entry, segment{text: " " + help.Desc, style: h.Styles.Desc})
		}
		if i > 0 {
			entry = append([]segment{{text: h.separator, style: h.Styles.Separator}}, entry...)
		}
		w := segmentsWidth(entry)
		if width > 0 && used+w > width {
			tail := h.ellipsis
			if used > 0 {
				tail = " " + tail
			}
			if used+uniseg.StringWidth(tail) <= width {
				out = append(out, segment{text: tail, style: h.Styles.Ellipsis})
			}
			break
		}
		out = append(out, entry...)
		used += w
	}
	return out
}

// columns lays out groups side by side, dropping the columns that do not
// fit.
func (h *Help) columns(groups [][]keybind.Keybind, width int) [][]segment {
	type column struct {
		entries []keybind.Help
		keyW    int
		w       int
	}
	var cols []column
	used := 0
	for _, group := range groups {
		col := column{entries: enabled(group)}
		if len(col.entries) == 0 {
			continue
		}
		for _, e := range col.entries {
			col.keyW = max(col.keyW, uniseg.StringWidth(e.Key))
		}
		for _, e := range col.entries {
			col.w = max(col.w, col.keyW+1+uniseg.StringWidth(e.Desc))
		}
		w := col.w
		if len(cols) > 0 {
			w += uniseg.StringWidth(h.gap)
		}
		if width > 0 && used+w > width {
			break
		}
		cols = append(cols, col)
		used += w
	}
	if len(cols) == 0 {
		return [][]segment{{{text: h.ellipsis, style: h.Styles.Ellipsis}}}
	}

	rows := 0
	for _, col := range cols {
		rows = max(rows, len(col.entries))
	}
	lines := make([][]segment, rows)
	for row := range lines {
		for c, col := range cols {
			if c > 0 {
				lines[row] = append(lines[row], segment{text: h.gap, style: h.Styles.Separator})
			}
			if row >= len(col.entries) {
				lines[row] = append(lines[row], segment{text: strings.Repeat(" ", col.w), style: h.Styles.Desc})
				continue
			}
			e := col.entries[row]
			key := e.Key + strings.Repeat(" ", col.keyW-uniseg.StringWidth(e.Key))
			desc := e.Desc
			if c < len(cols)-1 {
				desc += strings.Repeat(" ", col.w-col.keyW-1-uniseg.StringWidth(e.Desc))
			}
			lines[row] = append(lines[row],
				segment{text: key, style: h.Styles.Key},
				segment{text: " " + desc, style: h.Styles.Desc},
			)
		}
	}
	return lines
}

func segmentsWidth(segments []segment) int {
	width := 0
	for _, s := range segments {
		width += uniseg.StringWidth(s.text)
	}
	return width
}
