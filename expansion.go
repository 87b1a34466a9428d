package listkit

import (
	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/listkit/anim"
	"github.com/xqrs/listkit/property"
)

// ExpansionFlags tune how items expand. ExpandContentItem applies to a
// single item; the others are set on the container's controller.
type ExpansionFlags int

const (
	// ExclusiveExpand collapses the expanded item when another one expands.
	ExclusiveExpand ExpansionFlags = 1 << iota
	// UnlockExpanded keeps the scroll containers interactive while an item
	// is expanded.
	UnlockExpanded
	// CollapseOnExternalClick collapses the expanded item on a press outside
	// of it.
	CollapseOnExternalClick
	// ExpandContentItem makes the expansion content replace the item rows
	// instead of being added below them.
	ExpandContentItem
)

// DefaultExpansionFlags are the flags of a new controller.
const DefaultExpansionFlags = ExclusiveExpand | CollapseOnExternalClick

// ContentFactory creates the content shown while an item is expanded,
// together with its height.
type ContentFactory func(item *ListItem) (content Primitive, height float64)

// ListItemExpansion expands and collapses a list item. The expanded height is
// the explicit height when it is larger than the collapsed one, otherwise the
// height of the content, plus the collapsed height unless ExpandContentItem
// is set. Content exists only while the item is expanded.
type ListItemExpansion struct {
	item  *ListItem
	flags ExpansionFlags

	expanded bool
	height   float64

	factory       ContentFactory
	content       Primitive
	contentHeight float64

	change *property.Change[float64]
	ani    *anim.Animation
	lock   *FlickableScrollLock

	removeFilter func()

	expandedChanged func(expanded bool)
}

func newListItemExpansion(item *ListItem) *ListItemExpansion {
	return &ListItemExpansion{
		item: item,
		ani:  item.env.newAnimation(),
		lock: NewFlickableScrollLock(item.env, item, nil),
	}
}

// SetHeight sets an explicit expanded height. It only counts when larger than
// the collapsed height.
func (e *ListItemExpansion) SetHeight(height float64) *ListItemExpansion {
	e.height = height
	return e
}

// SetContentFactory sets the factory for the expansion content.
func (e *ListItemExpansion) SetContentFactory(factory ContentFactory) *ListItemExpansion {
	e.factory = factory
	return e
}

// SetFlags sets the item level flags.
func (e *ListItemExpansion) SetFlags(flags ExpansionFlags) *ListItemExpansion {
	e.flags = flags
	return e
}

// SetExpandedChangedFunc sets a handler called when Expanded changes.
func (e *ListItemExpansion) SetExpandedChangedFunc(handler func(expanded bool)) *ListItemExpansion {
	e.expandedChanged = handler
	return e
}

// Expanded returns whether the item is expanded or expanding.
func (e *ListItemExpansion) Expanded() bool {
	return e.expanded
}

// Content returns the expansion content, nil while collapsed.
func (e *ListItemExpansion) Content() Primitive {
	return e.content
}

// CollapsedHeight returns the item height before expansion.
func (e *ListItemExpansion) CollapsedHeight() float64 {
	return e.item.collapsedHeight()
}

// Animating returns whether an expand or collapse transition runs.
func (e *ListItemExpansion) Animating() bool {
	return e.ani.Running()
}

// SetExpanded expands or collapses the item. Expanding an item with neither
// content nor a larger explicit height does nothing.
func (e *ListItemExpansion) SetExpanded(expanded bool) {
	if expanded {
		e.expand()
	} else {
		e.collapse()
	}
}

func (e *ListItemExpansion) expand() {
	if e.expanded {
		return
	}
	// Let a collapse in flight finish so it does not remove the new content.
	e.ani.Complete()

	collapsed := e.item.Height()
	e.createContent()
	target := e.targetHeight(collapsed)
	if target <= collapsed {
		e.destroyContent()
		e.item.env.debug("nothing to expand", "index", e.item.Index())
		return
	}

	controller := e.controller()
	if controller != nil {
		controller.requestExpand(e.item)
	}

	if e.change == nil {
		change, err := property.Capture(e.item.height)
		if err != nil {
			e.item.env.debug("item height already captured", "err", err)
			e.destroyContent()
			return
		}
		e.change = change
	}
	e.setExpanded(true)
	if e.containerFlags()&UnlockExpanded == 0 {
		e.lock.Capture()
	}
	if e.containerFlags()&CollapseOnExternalClick != 0 {
		e.listenForExternalPress()
	}
	e.change.SetValue(target, e.ani, func() {
		if controller != nil {
			controller.notifyExpansionSettled(e.item)
		}
	})
}

func (e *ListItemExpansion) collapse() {
	if !e.expanded {
		return
	}
	e.setExpanded(false)
	controller := e.controller()
	if controller != nil {
		controller.requestCollapse(e.item)
	}
	e.stopListening()
	e.lock.Release()
	if e.change == nil {
		e.destroyContent()
		return
	}
	e.change.Restore(e.ani, func() {
		e.completeCollapse()
		if controller != nil {
			controller.notifyExpansionSettled(e.item)
		}
	})
}

// completeCollapse drops the content once the item is back to its collapsed
// height.
func (e *ListItemExpansion) completeCollapse() {
	if e.change != nil {
		e.change.Close()
		e.change = nil
	}
	e.destroyContent()
}

func (e *ListItemExpansion) setExpanded(expanded bool) {
	e.expanded = expanded
	e.item.MarkDirty()
	if e.expandedChanged != nil {
		e.expandedChanged(expanded)
	}
}

func (e *ListItemExpansion) targetHeight(collapsed float64) float64 {
	if e.height > collapsed {
		return e.height
	}
	if e.content == nil {
		return collapsed
	}
	if e.flags&ExpandContentItem != 0 {
		return e.contentHeight
	}
	return collapsed + e.contentHeight
}

func (e *ListItemExpansion) createContent() {
	if e.content != nil || e.factory == nil {
		return
	}
	e.content, e.contentHeight = e.factory(e.item)
	if e.content == nil {
		e.contentHeight = 0
		return
	}
	if child, ok := e.content.(interface{ SetParentNode(Node) }); ok {
		child.SetParentNode(e.item)
	}
}

func (e *ListItemExpansion) destroyContent() {
	if e.content == nil {
		return
	}
	if child, ok := e.content.(interface{ SetParentNode(Node) }); ok {
		child.SetParentNode(nil)
	}
	e.content = nil
	e.contentHeight = 0
	e.item.MarkDirty()
}

func (e *ListItemExpansion) controller() *ViewItemsController {
	if e.item.ParentNode() == nil {
		return nil
	}
	return e.item.env.Controllers.Get(e.item.ParentNode())
}

func (e *ListItemExpansion) containerFlags() ExpansionFlags {
	if controller := e.item.controller(); controller != nil {
		return controller.ExpansionFlags()
	}
	return DefaultExpansionFlags
}

func (e *ListItemExpansion) listenForExternalPress() {
	window := e.item.env.Window
	if window == nil || e.removeFilter != nil {
		return
	}
	e.removeFilter = window.AddPressFilter(func(p Point) {
		if e.item.InRect(int(p.X), int(p.Y)) {
			return
		}
		e.collapse()
	})
}

func (e *ListItemExpansion) stopListening() {
	if e.removeFilter != nil {
		e.removeFilter()
		e.removeFilter = nil
	}
}

// destroy collapses without animation.
func (e *ListItemExpansion) destroy() {
	e.ani.Complete()
	if e.expanded {
		e.expanded = false
		if controller := e.item.controller(); controller != nil {
			controller.requestCollapse(e.item)
		}
	}
	e.stopListening()
	e.lock.Release()
	e.completeCollapse()
}

// draw draws the content below the item rows, or over them with
// ExpandContentItem.
func (e *ListItemExpansion) draw(screen tcell.Screen, x, y, width, height, rowHeight int) {
	if e.content == nil {
		return
	}
	if e.flags&ExpandContentItem == 0 {
		y += rowHeight
		height -= rowHeight
	}
	if height <= 0 {
		return
	}
	e.content.SetRect(x, y, width, height)
	e.content.Draw(screen)
	e.content.MarkClean()
}
