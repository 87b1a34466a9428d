package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
)

// subcell is the number of thumb steps per cell.
const subcell = 8

// GlyphSet defines the track glyph and the fractional thumb glyphs.
type GlyphSet struct {
	Track      string
	ThumbLower [subcell]string
	ThumbUpper [subcell]string
}

// BlockGlyphSet uses eighth blocks for the thumb ends.
func BlockGlyphSet() GlyphSet {
	return GlyphSet{
		Track:      " ",
		ThumbLower: [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

// ScrollIndicator shows the position of a scroller's viewport. A press on
// the track pages towards the pointer.
type ScrollIndicator struct {
	*Box

	scroller ContentScroller
	height   func() float64

	glyphs GlyphSet
	style  tcell.Style
}

// NewScrollIndicator returns an indicator for scroller, whose content height
// is reported by height.
func NewScrollIndicator(scroller ContentScroller, height func() float64) *ScrollIndicator {
	return &ScrollIndicator{
		Box:      NewBox().SetDontClear(true),
		scroller: scroller,
		height:   height,
		glyphs:   BlockGlyphSet(),
		style:    tcell.StyleDefault.Foreground(Styles.ScrollIndicatorColor),
	}
}

func (s *ScrollIndicator) SetGlyphSet(glyphs GlyphSet) *ScrollIndicator {
	s.glyphs = glyphs
	return s
}

func (s *ScrollIndicator) SetStyle(style tcell.Style) *ScrollIndicator {
	s.style = style
	return s
}

type thumbMetrics struct {
	cells int
	start int // in subcells
	len   int // in subcells
}

// metrics returns the thumb geometry for a track of cells, or false when
// everything fits.
func (s *ScrollIndicator) metrics(cells int) (thumbMetrics, bool) {
	content := s.height()
	viewport := s.scroller.ViewportHeight()
	if cells <= 0 || content <= viewport || viewport <= 0 {
		return thumbMetrics{}, false
	}
	track := cells * subcell
	thumb := int(math.Round(float64(track) * viewport / content))
	thumb = min(max(thumb, subcell), track)
	travel := s.scroller.MaxContentY() - s.scroller.OriginY()
	offset := 0.0
	if travel > 0 {
		offset = clamp((s.scroller.ContentY()-s.scroller.OriginY())/travel, 0, 1)
	}
	start := int(math.Round(offset * float64(track-thumb)))
	return thumbMetrics{cells: cells, start: start, len: thumb}, true
}

// coverage returns the part of cell covered by the thumb, in subcells.
func (m thumbMetrics) coverage(cell int) (start, length int) {
	cellStart := cell * subcell
	from := max(m.start, cellStart)
	to := min(m.start+m.len, cellStart+subcell)
	if to <= from {
		return 0, 0
	}
	return from - cellStart, to - from
}

func (s *ScrollIndicator) glyph(start, length int) string {
	switch {
	case length <= 0:
		return s.glyphs.Track
	case length >= subcell:
		return s.glyphs.ThumbLower[subcell-1]
	case start == 0:
		return s.glyphs.ThumbUpper[length-1]
	}
	return s.glyphs.ThumbLower[length-1]
}

func (s *ScrollIndicator) Draw(screen tcell.Screen) {
	x, y, _, height := s.GetRect()
	m, ok := s.metrics(height)
	if !ok {
		return
	}
	for cell := range m.cells {
		start, length := m.coverage(cell)
		_, existing, _ := screen.Get(x, y+cell)
		screen.Put(x, y+cell, s.glyph(start, length), s.style.Background(existing.GetBackground()))
	}
}

// MouseHandler pages the scroller when the track is pressed outside the
// thumb.
func (s *ScrollIndicator) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if action != MouseLeftDown || !s.InRect(x, y) {
		return nil, nil
	}
	_, top, _, height := s.GetRect()
	m, ok := s.metrics(height)
	if !ok {
		return nil, nil
	}
	at := (y - top) * subcell
	page := s.scroller.ViewportHeight()
	switch {
	case at < m.start:
		page = -page
	case at >= m.start+m.len:
	default:
		return nil, nil
	}
	s.scroller.ScrollTo(clamp(s.scroller.ContentY()+page, s.scroller.OriginY(), s.scroller.MaxContentY()))
	return nil, RedrawCommand{}
}
