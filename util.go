package listkit

import (
	"maps"
	"slices"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// Print prints text onto the screen into the given box at (x,y,maxWidth,1),
// not exceeding that box. The screen's background color will not be changed.
//
// Returns the actual width used for the printed grapheme clusters.
func Print(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, color tcell.Color) int {
	return printWithStyle(screen, text, x, y, maxWidth, alignment, tcell.StyleDefault.Foreground(color), true)
}

// PrintWithStyle works like [Print] but takes a full style, background
// included.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) int {
	return printWithStyle(screen, text, x, y, maxWidth, alignment, style, false)
}

// printWithStyle works like [Print] but it takes a style instead of just a
// foreground color. If maintainBackground is "true", the existing screen
// background is not changed (i.e. the style's background color is ignored).
func printWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style, maintainBackground bool) (printedWidth int) {
	totalWidth, totalHeight := screen.Size()
	if maxWidth <= 0 || len(text) == 0 || y < 0 || y >= totalHeight {
		return 0
	}

	textWidth := uniseg.StringWidth(text)

	// Reduce all alignments to AlignLeft.
	switch alignment {
	case AlignmentRight:
		// Chop off clusters on the left until it fits.
		for len(text) > 0 && textWidth > maxWidth {
			var cluster string
			cluster, text, _, _ = uniseg.FirstGraphemeClusterInString(text, -1)
			textWidth -= uniseg.StringWidth(cluster)
		}
		x, maxWidth = x+maxWidth-textWidth, textWidth
	case AlignmentCenter:
		if textWidth < maxWidth {
			x, maxWidth = x+maxWidth/2-textWidth/2, textWidth
		}
	}

	state := -1
	rightBorder := x + maxWidth
	for len(text) > 0 && x < rightBorder && x < totalWidth {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if width <= 0 {
			continue
		}
		if x+width > rightBorder {
			break
		}

		finalStyle := style
		if maintainBackground {
			_, existing, _ := screen.Get(x, y)
			finalStyle = finalStyle.Background(existing.GetBackground())
		}
		if x >= 0 {
			screen.Put(x, y, cluster, finalStyle)
			// To avoid undesired effects, we populate all cells.
			for offset := 1; offset < width; offset++ {
				screen.Put(x+offset, y, " ", finalStyle)
			}
		}
		x += width
		printedWidth += width
	}
	return printedWidth
}

// fill paints a rectangle with blanks in the given style.
func fill(screen tcell.Screen, x, y, width, height int, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.Put(col, row, " ", style)
		}
	}
}

// clippedScreen drops writes outside its rectangle. Containers draw their
// children through it.
type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}

// sortedIDs returns the keys of a callback table in registration order.
func sortedIDs[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
