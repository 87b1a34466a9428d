package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
)

// contentRect returns the content area in item coordinates.
func (i *ListItem) contentRect() Rect {
	_, _, width, _ := i.GetRect()
	return Rect{X: i.ContentX(), Width: float64(width), Height: i.Height()}
}

// PointerPress handles a press at p, in item coordinates. It returns whether
// the press was taken.
func (i *ListItem) PointerPress(p Point) bool {
	if i.selectable {
		return i.pressSelectionBox(p)
	}
	if i.pressed || IsAnyAncestorMoving(i) {
		return false
	}
	if actions, slot := i.panelAt(p); actions != nil {
		if slot < 0 || !actions.TriggerAt(slot) {
			i.rebound()
		}
		return true
	}
	if !i.contentRect().Contains(p) {
		return false
	}

	// A press during a rebound lands on the settled item.
	if i.snap.Running() {
		i.snap.Complete()
	}
	i.setPressed(true)
	i.pressedPos = p
	i.lastPos = p
	if !i.lock.Captured() {
		i.lock.Capture()
	}
	i.listenToRebind()
	i.startHoldTimer()
	return true
}

// PointerMove handles a pointer move to p while pressed.
func (i *ListItem) PointerMove(p Point) bool {
	if i.selectable || !i.pressed {
		return false
	}
	if i.expansion.Expanded() {
		return true
	}
	if !i.panelsAttached() {
		threshold := i.env.GU(i.env.Config.Gesture.SwipeThresholdGU)
		if math.Abs(p.X-i.pressedPos.X) > threshold {
			i.lastPos = p
			i.grabPanel(i.leading)
			i.grabPanel(i.trailing)
			i.stopHoldTimer()
		}
		return true
	}

	dx := p.X - i.lastPos.X
	i.lastPos = p
	if dx != 0 {
		x := i.clampX(i.ContentX() + dx)
		i.setMoved(true)
		i.contentX.Set(x)
		i.leading.setDragging(i, true)
		i.trailing.setDragging(i, true)
	}
	return true
}

// PointerRelease ends the gesture. Without a swipe the item is clicked and
// rebounds; after a swipe it snaps to the revealed slots or rebounds.
func (i *ListItem) PointerRelease(p Point) bool {
	if i.selectable || !i.pressed {
		return false
	}
	i.stopHoldTimer()

	if !i.suppressClick {
		i.click()
		i.rebound()
	} else {
		x := i.ContentX()
		var snap float64
		switch {
		case x < 0:
			snap = i.trailing.SnapTarget()
		case x > 0:
			snap = i.leading.SnapTarget()
		}
		switch {
		case x == 0:
			i.promptRebound()
		case snap == 0:
			i.rebound()
		default:
			i.reboundTo(snap)
		}
		i.leading.setDragging(i, false)
		i.trailing.setDragging(i, false)
	}
	i.moved = false
	i.setPressed(false)
	return true
}

// Click emits clicked and triggers the default action with the item index.
func (i *ListItem) Click() {
	if i.selectable {
		i.SetSelected(!i.selected)
		return
	}
	i.click()
}

func (i *ListItem) click() {
	if i.clicked != nil {
		i.clicked()
	}
	if i.action != nil && i.action.Enabled() {
		i.env.trigger(i.action, i.index)
	}
}

// RevealLeading swipes the item fully open to its leading actions.
func (i *ListItem) RevealLeading() bool {
	return i.reveal(i.leading, 1)
}

// RevealTrailing swipes the item fully open to its trailing actions.
func (i *ListItem) RevealTrailing() bool {
	return i.reveal(i.trailing, -1)
}

func (i *ListItem) reveal(actions *ListItemActions, sign float64) bool {
	if i.selectable || i.pressed || actions == nil {
		return false
	}
	if i.ContentX()*sign < 0 {
		i.promptRebound()
	}
	if !i.grabPanel(actions) {
		return false
	}
	if !i.lock.Captured() {
		i.lock.Capture()
	}
	i.listenToRebind()
	i.reboundTo(sign * actions.PanelWidth())
	return true
}

// Rebound returns the content to rest and releases panels and scroll lock.
func (i *ListItem) Rebound() {
	i.cancelPress()
	i.rebound()
}

func (i *ListItem) setPressed(pressed bool) {
	if i.pressed == pressed {
		return
	}
	i.pressed = pressed
	if pressed {
		i.suppressClick = false
	}
	i.MarkDirty()
	if i.pressedChanged != nil {
		i.pressedChanged(pressed)
	}
}

func (i *ListItem) setMoved(moved bool) {
	i.moved = moved
	if moved {
		i.suppressClick = true
	}
}

// SuppressClick keeps the ongoing press from turning into a click. Children
// consuming a press call it.
func (i *ListItem) SuppressClick() {
	if i.pressed {
		i.suppressClick = true
	}
}

func (i *ListItem) startHoldTimer() {
	i.stopHoldTimer()
	i.holdTimer = i.env.Loop.AfterFunc(i.env.Config.Gesture.PressAndHold.Duration(), i.onPressAndHold)
}

func (i *ListItem) stopHoldTimer() {
	if i.holdTimer != nil {
		i.holdTimer.Stop()
		i.holdTimer = nil
	}
}

func (i *ListItem) onPressAndHold() {
	i.holdTimer = nil
	if !i.pressed || i.moved || !i.enabled || i.pressAndHold == nil {
		return
	}
	i.suppressClick = true
	i.pressAndHold()
}

// cancelPress drops a press in progress without a click.
func (i *ListItem) cancelPress() {
	i.stopHoldTimer()
	if i.pressed {
		i.suppressClick = true
		i.leading.setDragging(i, false)
		i.trailing.setDragging(i, false)
	}
	i.moved = false
	i.setPressed(false)
}

// interrupt cancels the gesture from outside: a press elsewhere, focus loss
// or a scroll container starting to move.
func (i *ListItem) interrupt() {
	i.cancelPress()
	if i.ContentX() != 0 {
		i.rebound()
		return
	}
	i.promptRebound()
}

// clampX limits a content offset to the widths of the attached panels.
func (i *ListItem) clampX(x float64) float64 {
	var lo, hi float64
	if i.trailing.isConnectedTo(i) {
		lo = -i.trailing.PanelWidth()
	}
	if i.leading.isConnectedTo(i) {
		hi = i.leading.PanelWidth()
	}
	return clamp(x, lo, hi)
}

func (i *ListItem) panelsAttached() bool {
	return i.leading.isConnectedTo(i) || i.trailing.isConnectedTo(i)
}

// grabPanel attaches actions to the item. A panel held by another item is
// queued and handed over once it is released.
func (i *ListItem) grabPanel(actions *ListItemActions) bool {
	if actions == nil {
		return false
	}
	return actions.attach(i, actions == i.leading)
}

// grabQueuedPanel takes over a panel released by another item. An item
// whose gesture already ended keeps the panel at rest until the next press
// elsewhere or focus loss.
func (i *ListItem) grabQueuedPanel(actions *ListItemActions) {
	if actions != i.leading && actions != i.trailing {
		return
	}
	if !i.grabPanel(actions) || i.pressed {
		return
	}
	if !i.lock.Captured() {
		i.lock.Capture()
	}
	i.listenToRebind()
}

// syncPanels forwards the content offset to the attached panels.
func (i *ListItem) syncPanels(x float64) {
	if i.leading.isConnectedTo(i) {
		i.leading.updateDragOffset(x)
	}
	if i.trailing.isConnectedTo(i) {
		i.trailing.updateDragOffset(-x)
	}
}

// panelAt returns the revealed panel under p and the action slot hit.
func (i *ListItem) panelAt(p Point) (*ListItemActions, int) {
	_, _, width, _ := i.GetRect()
	x := i.ContentX()
	if p.Y < 0 || p.Y >= i.Height() {
		return nil, -1
	}
	if x > 0 && p.X < x && i.leading.isConnectedTo(i) {
		return i.leading, i.leading.Panel().SlotAt(p.X - (x - i.leading.PanelWidth()))
	}
	if x < 0 && p.X >= float64(width)+x && i.trailing.isConnectedTo(i) {
		return i.trailing, i.trailing.Panel().SlotAt(p.X - (float64(width) + x))
	}
	return nil, -1
}

func (i *ListItem) pressSelectionBox(p Point) bool {
	width := i.env.GU(i.env.Config.Item.SelectionPanelGU)
	if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= i.Height() {
		return false
	}
	i.SetSelected(!i.selected)
	return true
}

// rebound animates the content back to rest, then releases everything the
// gesture held.
func (i *ListItem) rebound() {
	if i.snap.Running() && i.snap.To() == 0 {
		return
	}
	if i.ContentX() == 0 {
		i.snap.Stop()
		i.completeRebinding()
		return
	}
	i.snap.Run(i.ContentX(), 0, i.contentX.Set, i.completeRebinding)
}

// reboundTo animates the content to x and keeps the panels attached.
func (i *ListItem) reboundTo(x float64) {
	i.snap.Run(i.ContentX(), x, i.contentX.Set, nil)
}

// promptRebound puts the content back at rest without animation.
func (i *ListItem) promptRebound() {
	i.snap.Stop()
	i.completeRebinding()
}

// completeRebinding detaches the panels, releases the scroll lock and stops
// listening for interruptions.
func (i *ListItem) completeRebinding() {
	if !i.selectable && !i.selectAni.Running() && i.ContentX() != 0 {
		i.contentX.Set(0)
	}
	i.moved = false
	if i.leading.isConnectedTo(i) {
		i.leading.detach()
	}
	if i.trailing.isConnectedTo(i) {
		i.trailing.detach()
	}
	i.lock.Release()
	i.stopListening()
	i.MarkDirty()
}

// listenToRebind installs the window press filter and the focus loss
// handler that interrupt the gesture.
func (i *ListItem) listenToRebind() {
	window := i.env.Window
	if window == nil || i.removeFilter != nil {
		return
	}
	i.removeFilter = window.AddPressFilter(func(p Point) {
		if i.InRect(int(p.X), int(p.Y)) {
			return
		}
		i.interrupt()
	})
	i.cancelFocusLost = window.OnFocusLost(i.interrupt)
}

func (i *ListItem) stopListening() {
	if i.removeFilter != nil {
		i.removeFilter()
		i.removeFilter = nil
	}
	if i.cancelFocusLost != nil {
		i.cancelFocusLost()
		i.cancelFocusLost = nil
	}
}

// MouseHandler maps mouse actions to the pointer gesture. The item captures
// the mouse while pressed.
func (i *ListItem) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	left, top, _, _ := i.GetRect()
	p := Point{X: float64(x - left), Y: float64(y - top)}
	switch action {
	case MouseLeftDown:
		if !i.InRect(x, y) {
			return nil, nil
		}
		if i.PointerPress(p) {
			if i.pressed {
				return i, AppendCommand(SetFocusCommand{Target: i}, RedrawCommand{})
			}
			return nil, RedrawCommand{}
		}
	case MouseMove:
		if i.pressed {
			i.PointerMove(p)
			return i, RedrawCommand{}
		}
	case MouseLeftUp:
		if i.PointerRelease(p) {
			return nil, RedrawCommand{}
		}
	}
	return nil, nil
}

// InputHandler handles the item key bindings.
func (i *ListItem) InputHandler(event *tcell.EventKey) Command {
	keys := i.env.Keys
	switch {
	case keys.Matches(event, keys.Click):
		if i.ContentX() != 0 && !i.selectable {
			i.Rebound()
		} else {
			i.Click()
		}
		return RedrawCommand{}
	case keys.Matches(event, keys.RevealLeading):
		if i.ContentX() < 0 {
			i.Rebound()
			return RedrawCommand{}
		}
		return redraw(i.RevealLeading())
	case keys.Matches(event, keys.RevealTrailing):
		if i.ContentX() > 0 {
			i.Rebound()
			return RedrawCommand{}
		}
		return redraw(i.RevealTrailing())
	case keys.Matches(event, keys.Rebound):
		if i.ContentX() == 0 && !i.panelsAttached() {
			return nil
		}
		i.Rebound()
		return RedrawCommand{}
	case keys.Matches(event, keys.Expand):
		i.expansion.SetExpanded(!i.expansion.Expanded())
		return RedrawCommand{}
	}
	return nil
}
