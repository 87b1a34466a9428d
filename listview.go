package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/google/uuid"
)

// Model is the data behind a ListView.
type Model interface {
	Len() int
}

// Delegate creates the item for a model index.
type Delegate func(index int) *ListItem

// ListView is a scrollable list of items created from a model. Items are
// laid out top to bottom by their current (possibly animated) heights.
type ListView struct {
	*Flickable

	model    Model
	delegate Delegate

	items   []*ListItem
	indices map[uuid.UUID]int
	// unwatch cancels the height watchers installed on items.
	unwatch []func()

	countChanged map[int]func(count int)
	nextCountID  int

	cursor int

	indicator           *ScrollIndicator
	showScrollIndicator bool
}

// NewListView returns an empty list view.
func NewListView(env *Env) *ListView {
	l := &ListView{
		Flickable:           NewFlickable(env),
		indices:             make(map[uuid.UUID]int),
		countChanged:        make(map[int]func(int)),
		showScrollIndicator: true,
	}
	l.indicator = NewScrollIndicator(l, l.ContentHeight)
	return l
}

// SetModel sets the model and the delegate and recreates the items.
func (l *ListView) SetModel(model Model, delegate Delegate) *ListView {
	l.model = model
	l.delegate = delegate
	l.Reload()
	return l
}

// Model returns the model.
func (l *ListView) Model() Model {
	return l.model
}

// HasModel returns whether a model is set.
func (l *ListView) HasModel() bool {
	return l.model != nil
}

// ViewItems returns the controller of the list.
func (l *ListView) ViewItems() *ViewItemsController {
	return l.env.Controllers.Get(l)
}

// SetShowScrollIndicator shows or hides the scroll indicator.
func (l *ListView) SetShowScrollIndicator(show bool) *ListView {
	l.showScrollIndicator = show
	l.MarkDirty()
	return l
}

// Reload destroys the items and creates them again from the model.
func (l *ListView) Reload() *ListView {
	l.unwatchItems()
	for _, item := range l.items {
		item.Destroy()
	}
	l.items = nil
	l.indices = make(map[uuid.UUID]int)
	if l.model != nil && l.delegate != nil {
		count := l.model.Len()
		for index := 0; index < count; index++ {
			item := l.delegate(index)
			if item == nil {
				item = NewListItem(l.env)
			}
			l.indices[item.id] = len(l.items)
			l.items = append(l.items, item)
		}
	}
	selectMode := false
	if controller := l.env.Controllers.Lookup(l); controller != nil {
		selectMode = controller.SelectMode()
	}
	for _, item := range l.items {
		l.unwatch = append(l.unwatch, item.height.OnChanged(func(float64) {
			l.relayout()
		}))
		item.SetParentNode(l)
		item.SetSelectable(selectMode)
	}
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 && len(l.items) > 0 {
		l.cursor = 0
	}
	l.relayout()
	l.notifyCount()
	return l
}

// MoveItem moves the item at from to to, keeping the item state. The model
// is expected to have moved the same way.
func (l *ListView) MoveItem(from, to int) {
	if from == to || from < 0 || to < 0 || from >= len(l.items) || to >= len(l.items) {
		return
	}
	item := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]*ListItem{item}, l.items[to:]...)...)
	for index, item := range l.items {
		l.indices[item.id] = index
	}
	if l.cursor == from {
		l.cursor = to
	}
	for _, item := range l.items {
		item.updateIndex()
	}
	l.relayout()
}

// Items returns the live items in order.
func (l *ListView) Items() []*ListItem {
	return l.items
}

// Item returns the item at index, or nil.
func (l *ListView) Item(index int) *ListItem {
	if index < 0 || index >= len(l.items) {
		return nil
	}
	return l.items[index]
}

// Count returns the number of items.
func (l *ListView) Count() int {
	return len(l.items)
}

// OnCountChanged registers f to run when the number of items changes.
func (l *ListView) OnCountChanged(f func(count int)) (cancel func()) {
	id := l.nextCountID
	l.nextCountID++
	l.countChanged[id] = f
	return func() {
		delete(l.countChanged, id)
	}
}

func (l *ListView) notifyCount() {
	count := len(l.items)
	for _, id := range sortedIDs(l.countChanged) {
		if f, ok := l.countChanged[id]; ok {
			f(count)
		}
	}
}

// IndexOf returns the index of item, -1 if it is not in the list.
func (l *ListView) IndexOf(item *ListItem) int {
	if index, ok := l.indices[item.id]; ok {
		return index
	}
	return -1
}

// Cursor returns the index of the keyboard cursor.
func (l *ListView) Cursor() int {
	return l.cursor
}

// SetCursor moves the keyboard cursor and scrolls it into view.
func (l *ListView) SetCursor(index int) *ListView {
	if len(l.items) == 0 {
		return l
	}
	index = int(clamp(float64(index), 0, float64(len(l.items)-1)))
	if index != l.cursor {
		if current := l.Item(l.cursor); current != nil && current.ContentX() != 0 && !current.Selectable() {
			current.Rebound()
		}
		l.cursor = index
		l.MarkDirty()
	}
	if rect, ok := l.ItemGeometry(index); ok {
		switch {
		case rect.Y < l.ContentY():
			l.ScrollTo(rect.Y)
		case rect.Bottom() > l.ContentY()+l.ViewportHeight():
			l.ScrollTo(rect.Bottom() - l.ViewportHeight())
		}
	}
	return l
}

// relayout recomputes the content height from the item heights.
func (l *ListView) relayout() {
	var height float64
	for _, item := range l.items {
		height += item.Height()
	}
	l.SetContentHeight(height)
	l.MarkDirty()
}

// ItemGeometry returns the rectangle of the item at index in content
// coordinates.
func (l *ListView) ItemGeometry(index int) (Rect, bool) {
	if index < 0 || index >= len(l.items) {
		return Rect{}, false
	}
	_, _, width, _ := l.GetRect()
	var top float64
	for _, item := range l.items[:index] {
		top += item.Height()
	}
	return Rect{Y: top, Width: float64(width), Height: l.items[index].Height()}, true
}

// IndexAt returns the index of the item at (x, y) in content coordinates,
// -1 if there is none.
func (l *ListView) IndexAt(x, y float64) int {
	_, _, width, _ := l.GetRect()
	if x < 0 || x >= float64(width) || y < 0 {
		return -1
	}
	var top float64
	for index, item := range l.items {
		bottom := top + item.Height()
		if y < bottom {
			return index
		}
		top = bottom
	}
	return -1
}

// ItemAt returns the item at (x, y) in content coordinates, or nil.
func (l *ListView) ItemAt(x, y float64) *ListItem {
	return l.Item(l.IndexAt(x, y))
}

// CreateGhost creates a detached copy of the item at index.
func (l *ListView) CreateGhost(index int) *ListItem {
	if l.delegate == nil || index < 0 || index >= len(l.items) {
		return nil
	}
	ghost := l.delegate(index)
	if ghost == nil {
		return nil
	}
	ghost.SetHeight(l.items[index].Height())
	ghost.Divider().SetVisible(false)
	ghost.SetBackgroundColor(Styles.GhostColor)
	return ghost
}

// Destroy destroys the items and drops the controller of the list.
func (l *ListView) Destroy() {
	l.env.Controllers.Forget(l)
	l.unwatchItems()
	for _, item := range l.items {
		item.Destroy()
	}
	l.items = nil
	l.indices = make(map[uuid.UUID]int)
	l.notifyCount()
}

func (l *ListView) unwatchItems() {
	for _, cancel := range l.unwatch {
		cancel()
	}
	l.unwatch = nil
}

func (l *ListView) selectModeChanged(selectMode bool) {
	for _, item := range l.items {
		item.SetSelectable(selectMode)
	}
	l.MarkDirty()
}

func (l *ListView) selectionChanged() {
	for _, item := range l.items {
		item.syncSelected()
	}
	l.MarkDirty()
}

func (l *ListView) dragModeChanged(bool) {
	l.MarkDirty()
}

// Draw draws the visible items, the drag strip, the ghost and the scroll
// indicator.
func (l *ListView) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	x, y, width, height := l.GetRect()
	if width <= 0 || height <= 0 {
		return
	}
	clipped := newClippedScreen(screen, x, y, width, height)
	controller := l.env.Controllers.Lookup(l)

	strip := 0
	if controller != nil {
		strip = int(math.Round(controller.DragStripWidth()))
	}
	contentY := l.ContentY()
	var top float64
	for index, item := range l.items {
		itemHeight := item.Height()
		bottom := top + itemHeight
		if bottom > contentY && top < contentY+float64(height) {
			sy := y + int(math.Round(top-contentY))
			item.SetRect(x, sy, width-strip, int(math.Round(bottom-contentY))-int(math.Round(top-contentY)))
			if index == l.cursor && l.HasFocus() && !item.Selectable() && !item.Pressed() {
				item.SetBackgroundColor(l.env.Palette.Color(ProfileNormal, RoleBase))
			} else {
				item.SetBackgroundColor(l.GetBackgroundColor())
			}
			item.Draw(clipped)
			item.MarkClean()
			if strip > 0 {
				l.drawStripHandle(clipped, x+width-strip, sy, strip, int(math.Round(itemHeight)))
			}
		}
		top = bottom
	}

	if controller != nil {
		if ghost, rect, ok := controller.Ghost(); ok && ghost != nil {
			gy := y + int(math.Round(rect.Y-contentY))
			ghost.SetRect(x, gy, width, int(math.Round(rect.Height)))
			ghost.Draw(clipped)
			ghost.MarkClean()
		}
	}

	if l.showScrollIndicator {
		l.indicator.SetRect(x+width-1, y, 1, height)
		l.indicator.Draw(clipped)
	}
}

func (l *ListView) drawStripHandle(screen tcell.Screen, x, y, width, height int) {
	style := tcell.StyleDefault.Background(l.GetBackgroundColor()).Foreground(l.env.Palette.Color(ProfileNormal, RoleBase))
	fill(screen, x, y, width, height, style)
	printWithStyle(screen, "≡", x, y+height/2, width, AlignmentCenter, style, false)
}

// MouseHandler routes presses in the drag strip to the controller and
// everything else to the item under the pointer.
func (l *ListView) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	left, top, width, _ := l.GetRect()
	p := Point{X: float64(x - left), Y: float64(y - top)}

	if controller := l.env.Controllers.Lookup(l); controller != nil && controller.DragMode() {
		switch action {
		case MouseLeftDown:
			if l.InRect(x, y) && p.X >= float64(width)-controller.DragStripWidth() && controller.startDrag(p) {
				return l, RedrawCommand{}
			}
		case MouseMove:
			if controller.Dragging() {
				controller.updateDrag(p)
				return l, RedrawCommand{}
			}
		case MouseLeftUp:
			if controller.Dragging() {
				controller.stopDrag()
				return nil, RedrawCommand{}
			}
		}
	}

	if !l.InRect(x, y) {
		return nil, nil
	}
	if l.showScrollIndicator {
		if _, cmd := l.indicator.MouseHandler(action, event); cmd != nil {
			return nil, cmd
		}
	}
	switch action {
	case MouseScrollUp, MouseScrollDown:
		return l.Flickable.MouseHandler(action, event)
	}
	index := l.IndexAt(p.X, p.Y+l.ContentY())
	item := l.Item(index)
	if item == nil {
		if action == MouseLeftDown {
			return nil, SetFocusCommand{Target: l}
		}
		return nil, nil
	}
	if action == MouseLeftDown && index != l.cursor {
		l.cursor = index
		l.MarkDirty()
	}
	capture, cmd := item.MouseHandler(action, event)
	if action == MouseLeftDown {
		cmd = AppendCommand(SetFocusCommand{Target: l}, cmd)
	}
	return capture, cmd
}

// InputHandler moves the cursor and forwards the remaining keys to the item
// under it.
func (l *ListView) InputHandler(event *tcell.EventKey) Command {
	keys := l.env.Keys
	switch {
	case keys.Matches(event, keys.Up):
		l.SetCursor(l.cursor - 1)
		return RedrawCommand{}
	case keys.Matches(event, keys.Down):
		l.SetCursor(l.cursor + 1)
		return RedrawCommand{}
	case keys.Matches(event, keys.Top):
		l.SetCursor(0)
		return RedrawCommand{}
	case keys.Matches(event, keys.Bottom):
		l.SetCursor(len(l.items) - 1)
		return RedrawCommand{}
	case keys.Matches(event, keys.SelectMode):
		controller := l.ViewItems()
		controller.SetSelectMode(!controller.SelectMode())
		return RedrawCommand{}
	case keys.Matches(event, keys.DragMode):
		controller := l.ViewItems()
		return redraw(controller.SetDragMode(!controller.DragMode()))
	}
	if item := l.Item(l.cursor); item != nil {
		return item.InputHandler(event)
	}
	return nil
}

// Focus keeps the focus on the list; items are driven through the cursor.
func (l *ListView) Focus(delegate func(p Primitive)) {
	l.Box.Focus(delegate)
}

// HasFocus returns whether the list has focus.
func (l *ListView) HasFocus() bool {
	return l.Box.HasFocus()
}

// IsDirty returns whether the list or one of its items needs a redraw.
func (l *ListView) IsDirty() bool {
	return l.Box.IsDirty()
}
