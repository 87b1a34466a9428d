package help

import (
	"github.com/gdamore/tcell/v3"
)

// Styles are the text styles of a help bar.
type Styles struct {
	Key       tcell.Style
	Desc      tcell.Style
	Separator tcell.Style
	Ellipsis  tcell.Style
}

func DefaultStyles() Styles {
	dim := tcell.StyleDefault.Dim(true)
	return Styles{
		Key:       tcell.StyleDefault.Bold(true),
		Desc:      dim,
		Separator: dim,
		Ellipsis:  dim,
	}
}
