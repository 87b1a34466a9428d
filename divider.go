package listkit

import "github.com/gdamore/tcell/v3"

// Divider is the line drawn on the last row of a list item. It is never
// drawn below the last item of a list.
type Divider struct {
	item    *ListItem
	visible bool

	// ColorDefault picks the palette's base color.
	color tcell.Color
}

func newDivider(item *ListItem) *Divider {
	return &Divider{item: item, visible: true, color: tcell.ColorDefault}
}

// SetVisible shows or hides the divider.
func (d *Divider) SetVisible(visible bool) *Divider {
	if d.visible != visible {
		d.visible = visible
		d.item.MarkDirty()
	}
	return d
}

// Visible returns whether the divider is enabled.
func (d *Divider) Visible() bool {
	return d.visible
}

// SetColor sets the divider color.
func (d *Divider) SetColor(color tcell.Color) *Divider {
	d.color = color
	d.item.MarkDirty()
	return d
}

// drawn returns whether the divider takes up a row.
func (d *Divider) drawn() bool {
	return d.visible && !d.item.last && d.item.collapsedHeight() >= 2
}

func (d *Divider) draw(screen tcell.Screen, x, y, width int) {
	color := d.color
	if color == tcell.ColorDefault {
		color = d.item.env.Palette.Color(ProfileNormal, RoleBase)
	}
	style := tcell.StyleDefault.Foreground(color).Background(d.item.GetBackgroundColor())
	for col := x; col < x+width; col++ {
		screen.Put(col, y, "─", style)
	}
}
