package listkit

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndicator(t *testing.T, content float64) (*Flickable, *ScrollIndicator) {
	t.Helper()
	env, _ := newTestEnv(t)
	f := NewFlickable(env)
	f.SetRect(0, 0, 20, 10)
	f.SetContentHeight(content)
	indicator := NewScrollIndicator(f, f.ContentHeight)
	indicator.SetRect(19, 0, 1, 10)
	return f, indicator
}

func press(indicator *ScrollIndicator, y int) Command {
	_, cmd := indicator.MouseHandler(MouseLeftDown, tcell.NewEventMouse(19, y, tcell.Button1, tcell.ModNone))
	return cmd
}

func TestThumbMetrics(t *testing.T) {
	f, indicator := newTestIndicator(t, 40)

	m, ok := indicator.metrics(10)
	require.True(t, ok)
	assert.Equal(t, thumbMetrics{cells: 10, start: 0, len: 20}, m)

	f.ScrollTo(10)
	m, _ = indicator.metrics(10)
	assert.Equal(t, 20, m.start)

	glyphs := make([]string, m.cells)
	for cell := range m.cells {
		glyphs[cell] = indicator.glyph(m.coverage(cell))
	}
	assert.Equal(t, []string{" ", " ", "▄", "█", "█", " ", " ", " ", " ", " "}, glyphs)
}

func TestThumbNeverShrinksBelowOneCell(t *testing.T) {
	_, indicator := newTestIndicator(t, 10000)
	m, ok := indicator.metrics(10)
	require.True(t, ok)
	assert.Equal(t, subcell, m.len)
}

func TestNoThumbWhenContentFits(t *testing.T) {
	_, indicator := newTestIndicator(t, 10)
	_, ok := indicator.metrics(10)
	assert.False(t, ok)
	assert.Nil(t, press(indicator, 5))
}

func TestTrackPressPages(t *testing.T) {
	f, indicator := newTestIndicator(t, 40)

	assert.Nil(t, press(indicator, 1), "pressing the thumb does nothing")
	assert.NotNil(t, press(indicator, 5))
	assert.Equal(t, 10.0, f.ContentY())
	press(indicator, 9)
	press(indicator, 9)
	assert.Equal(t, 30.0, f.ContentY(), "paging stops at the end")
	press(indicator, 0)
	assert.Equal(t, 20.0, f.ContentY())
	assert.False(t, f.IsMoving())
}
