package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/google/uuid"
)

// Action is a command a list item can trigger, either as its default action
// on click or from an actions panel.
type Action struct {
	ID   string
	Text string
	Icon string

	visible   bool
	enabled   bool
	triggered func(value int)
}

// NewAction returns a visible, enabled action.
func NewAction(id, text string) *Action {
	return &Action{ID: id, Text: text, visible: true, enabled: true}
}

// SetIcon sets a short glyph shown instead of the text when space is tight.
func (a *Action) SetIcon(icon string) *Action {
	a.Icon = icon
	return a
}

// SetVisible shows or hides the action in panels.
func (a *Action) SetVisible(visible bool) *Action {
	a.visible = visible
	return a
}

// Visible returns whether the action is shown in panels.
func (a *Action) Visible() bool {
	return a.visible
}

// SetEnabled enables or disables the action.
func (a *Action) SetEnabled(enabled bool) *Action {
	a.enabled = enabled
	return a
}

// Enabled returns whether the action can be triggered.
func (a *Action) Enabled() bool {
	return a.enabled
}

// SetTriggeredFunc sets a handler called with the index of the item the
// action was triggered from.
func (a *Action) SetTriggeredFunc(handler func(value int)) *Action {
	a.triggered = handler
	return a
}

func (a *Action) trigger(value int) {
	if a.triggered != nil {
		a.triggered(value)
	}
}

// PanelStatus tells which side of which item an actions panel serves.
type PanelStatus int

const (
	PanelDisconnected PanelStatus = iota
	PanelLeading
	PanelTrailing
)

func (s PanelStatus) String() string {
	switch s {
	case PanelLeading:
		return "leading"
	case PanelTrailing:
		return "trailing"
	}
	return "disconnected"
}

// ListItemActions is a list of actions revealed by swiping a list item. One
// ListItemActions can be shared by any number of items; its panel is
// attached to one item at a time.
type ListItemActions struct {
	env     *Env
	actions []*Action

	factory PanelFactory
	panel   Panel

	status PanelStatus
	// The item the panel is parented to, and the one waiting for it.
	owner  uuid.UUID
	queued uuid.UUID

	offsetDragged float64
	slotWidth     float64
	visibleCount  int
	dragging      bool

	backgroundColor tcell.Color
	foregroundColor tcell.Color

	statusChanged func(status PanelStatus)
}

// NewListItemActions returns an actions list using the built-in panel.
func NewListItemActions(env *Env, actions ...*Action) *ListItemActions {
	return &ListItemActions{
		env:             env,
		actions:         actions,
		backgroundColor: tcell.ColorDefault,
		foregroundColor: tcell.ColorDefault,
	}
}

// Actions returns the actions in panel order.
func (l *ListItemActions) Actions() []*Action {
	return l.actions
}

// SetActions replaces the actions.
func (l *ListItemActions) SetActions(actions ...*Action) *ListItemActions {
	l.actions = actions
	l.updateSlotWidth()
	return l
}

// SetCustomPanel replaces the built-in panel. A panel already created is
// torn down: the item holding it snaps back without animation.
func (l *ListItemActions) SetCustomPanel(factory PanelFactory) *ListItemActions {
	if l.panel != nil {
		l.queued = uuid.Nil
		if item := l.env.Items.Lookup(l.owner); item != nil {
			item.promptRebound()
		}
		l.detach()
		l.panel = nil
	}
	l.factory = factory
	return l
}

// HasCustomPanel returns whether a custom panel factory is set.
func (l *ListItemActions) HasCustomPanel() bool {
	return l.factory != nil
}

// SetBackgroundColor sets the built-in panel background. ColorDefault picks
// the palette color of the side the panel is attached to.
func (l *ListItemActions) SetBackgroundColor(color tcell.Color) *ListItemActions {
	l.backgroundColor = color
	return l
}

// SetForegroundColor sets the built-in panel label color.
func (l *ListItemActions) SetForegroundColor(color tcell.Color) *ListItemActions {
	l.foregroundColor = color
	return l
}

// SetStatusChangedFunc sets a handler called when the panel attaches or
// detaches.
func (l *ListItemActions) SetStatusChangedFunc(handler func(status PanelStatus)) *ListItemActions {
	l.statusChanged = handler
	return l
}

// Status returns the panel attachment.
func (l *ListItemActions) Status() PanelStatus {
	return l.status
}

// ConnectedItem returns the item holding the panel, or nil.
func (l *ListItemActions) ConnectedItem() *ListItem {
	if l.status == PanelDisconnected {
		return nil
	}
	return l.env.Items.Lookup(l.owner)
}

// Panel returns the panel, nil until the first attachment.
func (l *ListItemActions) Panel() Panel {
	return l.panel
}

// PanelWidth returns the width of the panel, 0 when none exists.
func (l *ListItemActions) PanelWidth() float64 {
	if l.panel == nil {
		return 0
	}
	return l.panel.Width()
}

// Dragging returns whether the connected item is being dragged.
func (l *ListItemActions) Dragging() bool {
	return l.dragging
}

// SlotWidth returns the width of one action slot.
func (l *ListItemActions) SlotWidth() float64 {
	return l.slotWidth
}

// VisibleCount returns the number of fully revealed slots.
func (l *ListItemActions) VisibleCount() int {
	return l.visibleCount
}

// Offset returns how far the panel is revealed.
func (l *ListItemActions) Offset() float64 {
	return l.offsetDragged
}

func (l *ListItemActions) createPanel() Panel {
	if l.panel != nil {
		return l.panel
	}
	if l.factory != nil {
		l.panel = l.factory(l)
	} else {
		l.panel = newActionsPanel(l)
	}
	l.updateSlotWidth()
	return l.panel
}

// isConnectedTo returns whether the panel is attached to item.
func (l *ListItemActions) isConnectedTo(item *ListItem) bool {
	return l != nil && l.panel != nil && l.status != PanelDisconnected && l.owner == item.id
}

// attach parents the panel to item. When the panel is still parented to
// another item the request is queued, replacing any earlier one, and false
// is returned.
func (l *ListItemActions) attach(item *ListItem, leading bool) bool {
	if l.createPanel() == nil {
		return false
	}
	if l.isConnectedTo(item) {
		return true
	}
	if l.owner != uuid.Nil {
		if l.env.Items.Lookup(l.owner) != nil {
			l.queued = item.id
			return false
		}
		// The previous holder is gone.
		l.owner = uuid.Nil
	}
	l.owner = item.id
	l.offsetDragged = 0
	l.visibleCount = 0
	l.updateSlotWidth()
	if leading {
		l.setStatus(PanelLeading)
	} else {
		l.setStatus(PanelTrailing)
	}
	return true
}

// detach unparents the panel and services a queued request.
func (l *ListItemActions) detach() {
	if l.panel == nil || l.owner == uuid.Nil {
		l.env.debug("detaching an actions panel that is not attached")
		return
	}
	l.owner = uuid.Nil
	l.dragging = false
	l.offsetDragged = 0
	l.visibleCount = 0
	l.setStatus(PanelDisconnected)

	if l.queued == uuid.Nil {
		return
	}
	queued := l.queued
	l.queued = uuid.Nil
	if item := l.env.Items.Lookup(queued); item != nil {
		item.grabQueuedPanel(l)
	}
}

func (l *ListItemActions) setStatus(status PanelStatus) {
	if l.status == status {
		return
	}
	l.status = status
	if l.statusChanged != nil {
		l.statusChanged(status)
	}
}

func (l *ListItemActions) setDragging(item *ListItem, dragging bool) {
	if l.isConnectedTo(item) {
		l.dragging = dragging
	}
}

// updateSlotWidth spreads the panel width over the visible, enabled actions.
func (l *ListItemActions) updateSlotWidth() {
	if l.panel == nil {
		return
	}
	count := 0
	for _, action := range l.actions {
		if action.Visible() && action.Enabled() {
			count++
		}
	}
	if count == 0 {
		l.slotWidth = 0
	} else {
		l.slotWidth = l.panel.Width() / float64(count)
	}
	l.updateDragOffset(l.offsetDragged)
}

// updateDragOffset records how far the panel is revealed and derives the
// number of fully revealed slots.
func (l *ListItemActions) updateDragOffset(offset float64) {
	l.offsetDragged = math.Max(offset, 0)
	if l.slotWidth > 0 {
		l.visibleCount = int(math.Trunc(l.offsetDragged / l.slotWidth))
	}
}

// SnapTarget returns the content offset the connected item should settle
// at. Custom panels snap to wherever they were dragged. The built-in panel
// snaps to whole slots, revealing a partly shown slot when more than half of
// it is visible. The result is positive for leading panels and negative for
// trailing ones.
func (l *ListItemActions) SnapTarget() float64 {
	if l == nil || l.panel == nil || l.status == PanelDisconnected {
		return 0
	}
	var result float64
	if l.factory != nil {
		result = l.offsetDragged
	} else if l.slotWidth > 0 {
		ratio := l.offsetDragged / l.slotWidth
		visible := l.visibleCount
		if ratio > 0 && ratio-math.Trunc(ratio) > 0.5 {
			visible++
		}
		result = float64(visible) * l.slotWidth
	}
	if l.status == PanelLeading {
		return result
	}
	return -result
}

// SnapToPosition moves the connected item to position, measured from the
// panel's edge. Zero rebounds the item and releases the panel.
func (l *ListItemActions) SnapToPosition(position float64) {
	item := l.ConnectedItem()
	if item == nil {
		return
	}
	if l.status == PanelTrailing {
		position = -position
	}
	if position == 0 {
		item.rebound()
		return
	}
	item.reboundTo(position)
}

// TriggerAt triggers the visible action in slot index for the connected
// item and rebounds it.
func (l *ListItemActions) TriggerAt(slot int) bool {
	item := l.ConnectedItem()
	if item == nil {
		return false
	}
	action := l.visibleAction(slot)
	if action == nil {
		return false
	}
	l.env.trigger(action, item.Index())
	item.rebound()
	return true
}

// visibleAction returns the slot-th visible action.
func (l *ListItemActions) visibleAction(slot int) *Action {
	for _, action := range l.actions {
		if !action.Visible() {
			continue
		}
		if slot == 0 {
			return action
		}
		slot--
	}
	return nil
}
