package listkit

import (
	"slices"

	"github.com/xqrs/listkit/anim"
)

// DragDirection tells which way the dragged item last moved.
type DragDirection int

const (
	// DragNone marks the final event of a drag.
	DragNone DragDirection = iota
	DragUpwards
	DragDownwards
)

func (d DragDirection) String() string {
	switch d {
	case DragUpwards:
		return "upwards"
	case DragDownwards:
		return "downwards"
	}
	return "none"
}

// DragStatus is the phase of a drag.
type DragStatus int

const (
	DragStarted DragStatus = iota
	DragMoving
	DragDropped
)

// DragEvent describes a drag step. Handlers can clear Accept to veto it;
// a started drag can be bounded by setting Minimum and Maximum.
type DragEvent struct {
	Status    DragStatus
	Direction DragDirection
	From      int
	To        int
	// Inclusive index range the item may be dragged within, -1 meaning
	// unbounded.
	Minimum int
	Maximum int
	Accept  bool
}

type dragState struct {
	from, to int
	min, max int
	lastX    float64
	lastY    float64

	ghost     Rect
	ghostItem *ListItem
	lock      *FlickableScrollLock

	scroll          *anim.Timer
	scrollDirection DragDirection
}

// RemapSelection returns the selection after the item at from moved to to,
// in ascending order. It matches moving one element of a parallel
// selection array.
func RemapSelection(selected []int, from, to int) []int {
	out := make([]int, 0, len(selected))
	for _, index := range selected {
		switch {
		case index == from:
			index = to
		case from < to && index > from && index <= to:
			index--
		case from > to && index >= to && index < from:
			index++
		}
		out = append(out, index)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SetDragMode turns drag-to-reorder on or off. It needs a list container
// with a model and a draggingUpdated handler; otherwise a warning is logged
// and drag mode stays off. Without a draggingUpdated handler drag mode is
// refused outright, not entered with a warning.
func (c *ViewItemsController) SetDragMode(dragMode bool) bool {
	if c.dragMode == dragMode {
		return true
	}
	if dragMode {
		list := c.list()
		if list == nil {
			c.env.warn("dragging mode requires ListView")
			return false
		}
		if !list.HasModel() {
			c.env.warn("dragging mode requires a model")
			return false
		}
		if c.draggingUpdated == nil {
			c.env.warn("ListView has no draggingUpdated handler set. No dragging will be possible.")
			return false
		}
	} else {
		c.stopDrag()
	}
	c.dragMode = dragMode
	if observer := c.observer(); observer != nil {
		observer.dragModeChanged(dragMode)
	}
	if c.dragModeHandler != nil {
		c.dragModeHandler(dragMode)
	}
	return true
}

// DragMode returns whether drag-to-reorder is on.
func (c *ViewItemsController) DragMode() bool {
	return c.dragMode
}

// Dragging returns whether an item is being dragged.
func (c *ViewItemsController) Dragging() bool {
	return c.drag != nil
}

// DragStripWidth returns the width of the input strip along the right edge
// of the container.
func (c *ViewItemsController) DragStripWidth() float64 {
	if !c.dragMode {
		return 0
	}
	return c.env.GU(c.env.Config.Drag.StripWidthGU)
}

// Ghost returns the item shown in place of the dragged one and its
// rectangle in content coordinates.
func (c *ViewItemsController) Ghost() (*ListItem, Rect, bool) {
	if c.drag == nil {
		return nil, Rect{}, false
	}
	return c.drag.ghostItem, c.drag.ghost, true
}

// DragRange returns the current source and target indices, -1 when idle.
func (c *ViewItemsController) DragRange() (from, to int) {
	if c.drag == nil {
		return -1, -1
	}
	return c.drag.from, c.drag.to
}

// startDrag starts dragging the item under p, in viewport coordinates.
func (c *ViewItemsController) startDrag(p Point) bool {
	list := c.list()
	if !c.dragMode || c.drag != nil || list == nil {
		return false
	}
	y := p.Y + list.ContentY()
	item := list.ItemAt(p.X, y)
	index := list.IndexAt(p.X, y)
	if item == nil || index < 0 {
		return false
	}

	event := &DragEvent{
		Status:    DragStarted,
		Direction: DragNone,
		From:      index,
		To:        -1,
		Minimum:   -1,
		Maximum:   -1,
		Accept:    true,
	}
	if c.draggingStarted != nil {
		c.draggingStarted(event)
	}
	if !event.Accept {
		return false
	}

	d := &dragState{
		from:  index,
		to:    index,
		min:   event.Minimum,
		max:   event.Maximum,
		lastX: p.X,
		lastY: p.Y,
		lock:  NewFlickableScrollLock(c.env, c.container, nil),
	}
	d.lock.Capture()
	d.ghost, _ = list.ItemGeometry(index)
	d.ghostItem = list.CreateGhost(index)
	c.drag = d
	c.env.debug("drag started", "index", index)
	return true
}

// updateDrag moves the ghost with the pointer and retargets the drag.
func (c *ViewItemsController) updateDrag(p Point) bool {
	d := c.drag
	if d == nil {
		return false
	}
	dy := p.Y - d.lastY
	d.lastX, d.lastY = p.X, p.Y
	hotspot := d.ghost.Y + d.ghost.Height/2
	d.ghost.Y += dy
	c.retarget(hotspot)
	return true
}

// retarget checks the index under the ghost's center, scrolls at the edges
// and reports index changes.
func (c *ViewItemsController) retarget(hotspot float64) {
	d := c.drag
	list := c.list()
	index := list.IndexAt(d.lastX, hotspot)
	if index < 0 || (d.min >= 0 && index < d.min) || (d.max >= 0 && index > d.max) {
		return
	}

	margin := c.env.Config.Drag.EdgeMargin * d.ghost.Height
	top := d.ghost.Y - list.ContentY()
	switch {
	case top < margin && list.ContentY() > list.OriginY():
		c.startAutoScroll(DragUpwards)
	case top+d.ghost.Height > list.ViewportHeight()-margin && list.ContentY() < list.MaxContentY():
		c.startAutoScroll(DragDownwards)
	default:
		c.stopAutoScroll()
	}

	if d.to == index {
		return
	}
	direction := DragDownwards
	if d.to > index {
		direction = DragUpwards
	}
	d.to = index
	if d.from == d.to {
		return
	}
	event := &DragEvent{
		Status:    DragMoving,
		Direction: direction,
		From:      d.from,
		To:        d.to,
		Minimum:   d.min,
		Maximum:   d.max,
		Accept:    true,
	}
	if c.draggingUpdated != nil {
		c.draggingUpdated(event)
	}
	if event.Accept {
		c.remapSelection(d.from, d.to)
		d.from = d.to
	}
}

// stopDrag drops the item. A drop at another index is reported with
// DragNone.
func (c *ViewItemsController) stopDrag() {
	d := c.drag
	if d == nil {
		return
	}
	c.stopAutoScroll()
	if d.from != d.to {
		event := &DragEvent{
			Status:    DragDropped,
			Direction: DragNone,
			From:      d.from,
			To:        d.to,
			Minimum:   d.min,
			Maximum:   d.max,
			Accept:    true,
		}
		if c.draggingUpdated != nil {
			c.draggingUpdated(event)
		}
		if event.Accept {
			c.remapSelection(d.from, d.to)
		}
	}
	d.lock.Release()
	if d.ghostItem != nil {
		d.ghostItem.Destroy()
	}
	c.drag = nil
	c.env.debug("drag stopped", "from", d.from, "to", d.to)
}

func (c *ViewItemsController) remapSelection(from, to int) {
	if len(c.selected) == 0 {
		return
	}
	c.SetSelectedIndices(RemapSelection(c.SelectedIndices(), from, to))
}

func (c *ViewItemsController) startAutoScroll(direction DragDirection) {
	d := c.drag
	if d.scroll != nil && d.scrollDirection == direction {
		return
	}
	c.stopAutoScroll()
	d.scrollDirection = direction
	d.scroll = c.newScrollTimer(c.autoScroll)
}

func (c *ViewItemsController) stopAutoScroll() {
	d := c.drag
	if d == nil || d.scroll == nil {
		return
	}
	d.scroll.Stop()
	d.scroll = nil
	d.scrollDirection = DragNone
}

// autoScroll scrolls one step and keeps the ghost under the pointer.
func (c *ViewItemsController) autoScroll() {
	d := c.drag
	if d == nil {
		return
	}
	d.scroll = nil
	list := c.list()
	step := c.env.GU(c.env.Config.Drag.ScrollStepGU)
	if d.scrollDirection == DragUpwards {
		step = -step
	}
	before := list.ContentY()
	list.ScrollTo(clamp(before+step, list.OriginY(), list.MaxContentY()))
	delta := list.ContentY() - before
	if delta == 0 {
		d.scrollDirection = DragNone
		return
	}
	d.ghost.Y += delta
	direction := d.scrollDirection
	d.scroll = c.newScrollTimer(c.autoScroll)
	d.scrollDirection = direction
	c.retarget(d.ghost.Y + d.ghost.Height/2)
}
