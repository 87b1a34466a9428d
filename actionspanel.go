package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// Panel is the visual strip revealed next to a swiped list item.
type Panel interface {
	// Width returns the panel width in cells.
	Width() float64
	// Draw draws the panel at r. Only the part inside the screen's clip area
	// is visible.
	Draw(screen tcell.Screen, r Rect, status PanelStatus)
	// SlotAt returns the action slot at x, measured from the panel's left
	// edge, or -1.
	SlotAt(x float64) int
}

// PanelFactory creates a custom panel for an actions list.
type PanelFactory func(actions *ListItemActions) Panel

// actionsPanel lays out the visible actions in slots of equal width.
type actionsPanel struct {
	actions *ListItemActions
}

func newActionsPanel(actions *ListItemActions) *actionsPanel {
	return &actionsPanel{actions: actions}
}

func (p *actionsPanel) visible() []*Action {
	var visible []*Action
	for _, action := range p.actions.actions {
		if action.Visible() {
			visible = append(visible, action)
		}
	}
	return visible
}

func (p *actionsPanel) slotWidth() float64 {
	return p.actions.env.GU(p.actions.env.Config.Actions.SlotWidthGU)
}

func (p *actionsPanel) Width() float64 {
	return p.slotWidth() * float64(len(p.visible()))
}

func (p *actionsPanel) SlotAt(x float64) int {
	slot := p.slotWidth()
	if x < 0 || slot <= 0 {
		return -1
	}
	index := int(math.Floor(x / slot))
	if index >= len(p.visible()) {
		return -1
	}
	return index
}

func (p *actionsPanel) Draw(screen tcell.Screen, r Rect, status PanelStatus) {
	env := p.actions.env
	background := p.actions.backgroundColor
	if background == tcell.ColorDefault {
		if status == PanelLeading {
			background = env.Palette.Color(ProfileNormal, RoleNegative)
		} else {
			background = env.Palette.Color(ProfileNormal, RolePositive)
		}
	}
	foreground := p.actions.foregroundColor
	if foreground == tcell.ColorDefault {
		foreground = Styles.PanelTextColor
	}
	style := tcell.StyleDefault.Background(background).Foreground(foreground)

	x, y, width, height := r.Cells()
	fill(screen, x, y, width, height, style)

	slot := p.slotWidth()
	row := y + height/2
	for i, action := range p.visible() {
		left := int(math.Round(r.X + float64(i)*slot))
		right := int(math.Round(r.X + float64(i+1)*slot))
		label := env.tr(action.Text)
		if action.Icon != "" && uniseg.StringWidth(label) > right-left-2 {
			label = action.Icon
		}
		labelStyle := style
		if !action.Enabled() {
			labelStyle = labelStyle.Foreground(env.Palette.Color(ProfileDisabled, RoleForeground))
		}
		printWithStyle(screen, label, left+1, row, right-left-2, AlignmentCenter, labelStyle, false)
	}
}
