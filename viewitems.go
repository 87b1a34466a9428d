package listkit

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/xqrs/listkit/anim"
)

// HitTestable finds items by position, in content coordinates.
type HitTestable interface {
	ItemAt(x, y float64) *ListItem
	IndexAt(x, y float64) int
}

// ContentScroller exposes the scroll position of a container.
type ContentScroller interface {
	ContentY() float64
	OriginY() float64
	MaxContentY() float64
	ViewportHeight() float64
	ScrollTo(y float64)
}

// ListContainer is a list-like container: items can be found by position,
// and the container can scroll and has a model.
type ListContainer interface {
	Node
	HitTestable
	ContentScroller
	CountNotifier
	HasModel() bool
	// ItemGeometry returns the rectangle of the item at index in content
	// coordinates.
	ItemGeometry(index int) (Rect, bool)
	// CreateGhost returns a detached copy of the item at index, shown while
	// the item is dragged.
	CreateGhost(index int) *ListItem
}

// viewItemsObserver is implemented by containers that mirror controller
// state onto their items.
type viewItemsObserver interface {
	selectModeChanged(selectMode bool)
	selectionChanged()
	dragModeChanged(dragMode bool)
}

// ViewItemsRegistry holds one controller per container.
type ViewItemsRegistry struct {
	env         *Env
	controllers map[Node]*ViewItemsController
}

// NewViewItemsRegistry returns an empty registry.
func NewViewItemsRegistry(env *Env) *ViewItemsRegistry {
	return &ViewItemsRegistry{env: env, controllers: make(map[Node]*ViewItemsController)}
}

// Get returns the controller of container, creating it on first use.
func (r *ViewItemsRegistry) Get(container Node) *ViewItemsController {
	if container == nil {
		return nil
	}
	if c, ok := r.controllers[container]; ok {
		return c
	}
	c := newViewItemsController(r.env, container)
	r.controllers[container] = c
	return c
}

// Lookup returns the controller of container if one exists.
func (r *ViewItemsRegistry) Lookup(container Node) *ViewItemsController {
	if container == nil {
		return nil
	}
	return r.controllers[container]
}

// Forget drops the controller of a destroyed container.
func (r *ViewItemsRegistry) Forget(container Node) {
	c, ok := r.controllers[container]
	if !ok {
		return
	}
	c.stopDrag()
	delete(r.controllers, container)
}

// Len returns the number of controllers.
func (r *ViewItemsRegistry) Len() int {
	return len(r.controllers)
}

// ViewItemsController keeps the state shared by the items of one container:
// selection mode and selected indices, drag-to-reorder and the expanded
// item.
type ViewItemsController struct {
	env       *Env
	container Node

	selectMode bool
	selected   map[int]struct{}

	dragMode bool
	drag     *dragState

	flags         ExpansionFlags
	expandedIndex int
	expandedItem  uuid.UUID
	cancelTrack   func()
	trackedItem   uuid.UUID

	draggingStarted        func(event *DragEvent)
	draggingUpdated        func(event *DragEvent)
	selectedIndicesChanged func(indices []int)
	expandedIndexChanged   func(index int)
	selectModeHandler      func(selectMode bool)
	dragModeHandler        func(dragMode bool)
}

func newViewItemsController(env *Env, container Node) *ViewItemsController {
	return &ViewItemsController{
		env:           env,
		container:     container,
		selected:      make(map[int]struct{}),
		flags:         DefaultExpansionFlags,
		expandedIndex: -1,
	}
}

// Container returns the container the controller belongs to.
func (c *ViewItemsController) Container() Node {
	return c.container
}

func (c *ViewItemsController) list() ListContainer {
	list, _ := c.container.(ListContainer)
	return list
}

func (c *ViewItemsController) observer() viewItemsObserver {
	observer, _ := c.container.(viewItemsObserver)
	return observer
}

// SetSelectMode switches the items of the container in or out of
// selection mode. It does not select anything.
func (c *ViewItemsController) SetSelectMode(selectMode bool) {
	if c.selectMode == selectMode {
		return
	}
	c.selectMode = selectMode
	if observer := c.observer(); observer != nil {
		observer.selectModeChanged(selectMode)
	}
	if c.selectModeHandler != nil {
		c.selectModeHandler(selectMode)
	}
}

// SelectMode returns whether the items are in selection mode.
func (c *ViewItemsController) SelectMode() bool {
	return c.selectMode
}

// SelectedIndices returns the selected indices in ascending order.
func (c *ViewItemsController) SelectedIndices() []int {
	return slices.Sorted(maps.Keys(c.selected))
}

// SetSelectedIndices replaces the selection.
func (c *ViewItemsController) SetSelectedIndices(indices []int) {
	selected := make(map[int]struct{}, len(indices))
	for _, index := range indices {
		if index >= 0 {
			selected[index] = struct{}{}
		}
	}
	if maps.Equal(selected, c.selected) {
		return
	}
	c.selected = selected
	c.selectionChanged()
}

// Select adds index to the selection.
func (c *ViewItemsController) Select(index int) {
	if _, ok := c.selected[index]; ok || index < 0 {
		return
	}
	c.selected[index] = struct{}{}
	c.selectionChanged()
}

// Deselect removes index from the selection.
func (c *ViewItemsController) Deselect(index int) {
	if _, ok := c.selected[index]; !ok {
		return
	}
	delete(c.selected, index)
	c.selectionChanged()
}

// IsSelected returns whether index is selected.
func (c *ViewItemsController) IsSelected(index int) bool {
	_, ok := c.selected[index]
	return ok
}

func (c *ViewItemsController) selectionChanged() {
	if observer := c.observer(); observer != nil {
		observer.selectionChanged()
	}
	if c.selectedIndicesChanged != nil {
		c.selectedIndicesChanged(c.SelectedIndices())
	}
}

// SetExpansionFlags sets the container level expansion flags.
func (c *ViewItemsController) SetExpansionFlags(flags ExpansionFlags) {
	c.flags = flags
}

// ExpansionFlags returns the container level expansion flags.
func (c *ViewItemsController) ExpansionFlags() ExpansionFlags {
	return c.flags
}

// ExpandedIndex returns the index of the expanded item, -1 if none.
func (c *ViewItemsController) ExpandedIndex() int {
	return c.expandedIndex
}

// ExpandedItem returns the expanded item if it is alive.
func (c *ViewItemsController) ExpandedItem() *ListItem {
	return c.env.Items.Lookup(c.expandedItem)
}

// CollapseAll collapses the expanded item.
func (c *ViewItemsController) CollapseAll() {
	if item := c.ExpandedItem(); item != nil {
		item.expansion.SetExpanded(false)
	}
}

func (c *ViewItemsController) setExpandedIndex(index int) {
	if c.expandedIndex == index {
		return
	}
	c.expandedIndex = index
	if c.expandedIndexChanged != nil {
		c.expandedIndexChanged(index)
	}
}

// requestExpand records item as the expanded one. With ExclusiveExpand the
// previously expanded item starts collapsing first.
func (c *ViewItemsController) requestExpand(item *ListItem) {
	if c.flags&ExclusiveExpand != 0 {
		if other := c.ExpandedItem(); other != nil && other != item {
			other.expansion.SetExpanded(false)
		}
	}
	c.expandedItem = item.id
	c.setExpandedIndex(item.Index())
	c.trackScrollIntoView(item)
}

// requestCollapse forgets item as the expanded one.
func (c *ViewItemsController) requestCollapse(item *ListItem) {
	if c.expandedItem != item.id {
		return
	}
	c.expandedItem = uuid.Nil
	c.setExpandedIndex(-1)
}

// trackScrollIntoView keeps the growing item visible until its expansion
// settles. The view scrolls by the overflow only.
func (c *ViewItemsController) trackScrollIntoView(item *ListItem) {
	c.stopTracking()
	list := c.list()
	if list == nil {
		return
	}
	c.trackedItem = item.id
	c.cancelTrack = item.height.OnChanged(func(float64) {
		c.scrollIntoView(list, item)
	})
}

func (c *ViewItemsController) scrollIntoView(list ListContainer, item *ListItem) {
	rect, ok := list.ItemGeometry(item.Index())
	if !ok {
		return
	}
	contentY := list.ContentY()
	overflow := rect.Bottom() - (contentY + list.ViewportHeight())
	if overflow <= 0 {
		return
	}
	// Never push the top of the item out of view.
	y := contentY + overflow
	if y > rect.Y {
		y = rect.Y
	}
	if y > contentY {
		list.ScrollTo(y)
	}
}

// notifyExpansionSettled ends the scroll tracking of a transition.
func (c *ViewItemsController) notifyExpansionSettled(item *ListItem) {
	if c.trackedItem == item.id {
		c.stopTracking()
	}
}

func (c *ViewItemsController) stopTracking() {
	if c.cancelTrack != nil {
		c.cancelTrack()
		c.cancelTrack = nil
	}
	c.trackedItem = uuid.Nil
}

// forgetItem drops references to a destroyed item.
func (c *ViewItemsController) forgetItem(item *ListItem) {
	if c.expandedItem == item.id {
		c.stopTracking()
		c.expandedItem = uuid.Nil
		c.setExpandedIndex(-1)
	}
}

// SetDraggingStartedFunc sets a handler called when a drag starts. The
// handler may veto the drag or bound it to an index range.
func (c *ViewItemsController) SetDraggingStartedFunc(handler func(event *DragEvent)) {
	c.draggingStarted = handler
}

// SetDraggingUpdatedFunc sets a handler called whenever the dragged item
// moves to another index, and once more with DragNone when it is dropped.
func (c *ViewItemsController) SetDraggingUpdatedFunc(handler func(event *DragEvent)) {
	c.draggingUpdated = handler
}

// SetSelectedIndicesChangedFunc sets a handler called when the selection
// changes.
func (c *ViewItemsController) SetSelectedIndicesChangedFunc(handler func(indices []int)) {
	c.selectedIndicesChanged = handler
}

// SetExpandedIndexChangedFunc sets a handler called when the expanded index
// changes.
func (c *ViewItemsController) SetExpandedIndexChangedFunc(handler func(index int)) {
	c.expandedIndexChanged = handler
}

// SetSelectModeChangedFunc sets a handler called when selection mode
// changes.
func (c *ViewItemsController) SetSelectModeChangedFunc(handler func(selectMode bool)) {
	c.selectModeHandler = handler
}

// SetDragModeChangedFunc sets a handler called when drag mode changes.
func (c *ViewItemsController) SetDragModeChangedFunc(handler func(dragMode bool)) {
	c.dragModeHandler = handler
}

// newScrollTimer schedules a drag auto scroll step.
func (c *ViewItemsController) newScrollTimer(f func()) *anim.Timer {
	return c.env.Loop.AfterFunc(c.env.Config.Drag.ScrollInterval.Duration(), f)
}
