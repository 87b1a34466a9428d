package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/google/uuid"
	"github.com/xqrs/listkit/anim"
	"github.com/xqrs/listkit/property"
)

// IndexContext is implemented by containers that know the position of the
// items they host.
type IndexContext interface {
	IndexOf(item *ListItem) int
}

// CountNotifier is implemented by containers whose item count changes.
type CountNotifier interface {
	Count() int
	OnCountChanged(f func(count int)) (cancel func())
}

// ListItem is a list entry with swipe-to-reveal actions, selection and
// expansion.
//
// The content of the item slides horizontally by ContentX. Swiping it right
// reveals the leading actions, swiping it left the trailing ones. While a
// gesture is in progress every scroll container above the item is made
// non-interactive.
type ListItem struct {
	*Box

	env *Env
	id  uuid.UUID

	contentX *property.Property[float64]
	height   *property.Property[float64]
	opacity  *property.Property[float64]

	index int
	last  bool

	pressed       bool
	moved         bool
	suppressClick bool
	pressedPos    Point
	lastPos       Point

	selectable bool
	selected   bool
	enabled    bool

	leading  *ListItemActions
	trailing *ListItemActions
	action   *Action

	expansion *ListItemExpansion
	divider   *Divider
	lock      *FlickableScrollLock

	holdTimer *anim.Timer
	snap      *anim.Animation
	selectAni *anim.Animation

	selectionChange *property.Change[float64]
	opacityChange   *property.Change[float64]

	removeFilter    func()
	cancelFocusLost func()
	cancelCount     func()

	text     string
	subtitle string
	drawFunc func(screen tcell.Screen, x, y, width, height int)

	clicked                func()
	pressAndHold           func()
	pressedChanged         func(pressed bool)
	leadingActionsChanged  func()
	trailingActionsChanged func()
	selectedChanged        func(selected bool)
	selectableChanged      func(selectable bool)
	indexChanged           func(index int)
	contentMoved           func(x float64)
}

// NewListItem returns an item of the configured implicit height and
// registers it with the environment.
func NewListItem(env *Env) *ListItem {
	i := &ListItem{
		Box:       NewBox(),
		env:       env,
		id:        uuid.New(),
		contentX:  property.New("contentX", 0.0),
		height:    property.New("height", env.GU(env.Config.Item.ImplicitHeightGU)),
		opacity:   property.New("opacity", 1.0),
		index:     -1,
		enabled:   true,
		snap:      env.newAnimation(),
		selectAni: env.newAnimation(),
	}
	i.expansion = newListItemExpansion(i)
	i.divider = newDivider(i)
	i.lock = NewFlickableScrollLock(env, i, i.interrupt)
	i.contentX.OnChanged(func(x float64) {
		i.syncPanels(x)
		if i.contentMoved != nil {
			i.contentMoved(x)
		}
		i.MarkDirty()
	})
	i.height.OnChanged(func(float64) {
		i.MarkDirty()
	})
	env.Items.register(i)
	return i
}

// ID returns the identity of the item.
func (i *ListItem) ID() uuid.UUID {
	return i.id
}

// SetText sets the title line.
func (i *ListItem) SetText(text string) *ListItem {
	i.text = text
	i.MarkDirty()
	return i
}

// Text returns the title line.
func (i *ListItem) Text() string {
	return i.text
}

// SetSubtitle sets the second line.
func (i *ListItem) SetSubtitle(subtitle string) *ListItem {
	i.subtitle = subtitle
	i.MarkDirty()
	return i
}

// SetDrawFunc replaces the default title and subtitle rendering. The
// rectangle passed is the visible content area.
func (i *ListItem) SetDrawFunc(handler func(screen tcell.Screen, x, y, width, height int)) *ListItem {
	i.drawFunc = handler
	i.MarkDirty()
	return i
}

// ContentX returns the horizontal offset of the content.
func (i *ListItem) ContentX() float64 {
	return i.contentX.Get()
}

// ContentXProperty returns the content offset property.
func (i *ListItem) ContentXProperty() *property.Property[float64] {
	return i.contentX
}

// Height returns the item height in cells.
func (i *ListItem) Height() float64 {
	return i.height.Get()
}

// HeightProperty returns the height property.
func (i *ListItem) HeightProperty() *property.Property[float64] {
	return i.height
}

// SetHeight sets the collapsed height of the item.
func (i *ListItem) SetHeight(height float64) *ListItem {
	i.height.Set(height)
	return i
}

// Opacity returns the item opacity; disabled items are dimmed.
func (i *ListItem) Opacity() float64 {
	return i.opacity.Get()
}

// Index returns the position of the item in its container, -1 if unknown.
func (i *ListItem) Index() int {
	return i.index
}

// IsLast returns whether the item is the last one of its container.
func (i *ListItem) IsLast() bool {
	return i.last
}

// Pressed returns whether a press gesture is in progress.
func (i *ListItem) Pressed() bool {
	return i.pressed
}

// Moved returns whether the current gesture swiped the content.
func (i *ListItem) Moved() bool {
	return i.moved
}

// Expansion returns the expansion controller of the item.
func (i *ListItem) Expansion() *ListItemExpansion {
	return i.expansion
}

// Divider returns the divider drawn below the item.
func (i *ListItem) Divider() *Divider {
	return i.divider
}

// ScrollLock returns the lock held on the scroll containers above the item.
func (i *ListItem) ScrollLock() *FlickableScrollLock {
	return i.lock
}

// SetAction sets the action triggered with the item index on click.
func (i *ListItem) SetAction(action *Action) *ListItem {
	i.action = action
	return i
}

// Action returns the default action.
func (i *ListItem) Action() *Action {
	return i.action
}

// SetLeadingActions sets the actions revealed by swiping right.
func (i *ListItem) SetLeadingActions(actions *ListItemActions) *ListItem {
	if i.leading == actions {
		return i
	}
	if i.leading.isConnectedTo(i) {
		i.promptRebound()
	}
	i.leading = actions
	if actions != nil && actions == i.trailing {
		i.env.warn("leadingActions and trailingActions cannot share the same object!")
	}
	if i.leadingActionsChanged != nil {
		i.leadingActionsChanged()
	}
	return i
}

// LeadingActions returns the actions revealed by swiping right.
func (i *ListItem) LeadingActions() *ListItemActions {
	return i.leading
}

// SetTrailingActions sets the actions revealed by swiping left.
func (i *ListItem) SetTrailingActions(actions *ListItemActions) *ListItem {
	if i.trailing == actions {
		return i
	}
	if i.trailing.isConnectedTo(i) {
		i.promptRebound()
	}
	i.trailing = actions
	if actions != nil && actions == i.leading {
		i.env.warn("leadingActions and trailingActions cannot share the same object!")
	}
	if i.trailingActionsChanged != nil {
		i.trailingActionsChanged()
	}
	return i
}

// TrailingActions returns the actions revealed by swiping left.
func (i *ListItem) TrailingActions() *ListItemActions {
	return i.trailing
}

// SetEnabled enables or disables the item. Disabled items are dimmed and
// ignore long presses.
func (i *ListItem) SetEnabled(enabled bool) *ListItem {
	if i.enabled == enabled {
		return i
	}
	i.enabled = enabled
	if !enabled {
		if i.opacityChange == nil {
			change, err := property.Capture(i.opacity)
			if err != nil {
				i.env.debug("opacity already captured", "err", err)
				return i
			}
			i.opacityChange = change
		}
		i.opacityChange.SetValue(0.5, nil, nil)
	} else if i.opacityChange != nil {
		i.opacityChange.Restore(nil, nil)
	}
	i.MarkDirty()
	return i
}

// Enabled returns whether the item is enabled.
func (i *ListItem) Enabled() bool {
	return i.enabled
}

// SetSelectable switches selection mode on or off. In selection mode the
// content slides right to make room for a check box and swiping is off.
func (i *ListItem) SetSelectable(selectable bool) *ListItem {
	if i.selectable == selectable {
		return i
	}
	if selectable {
		i.cancelPress()
		if i.ContentX() != 0 || i.leading.isConnectedTo(i) || i.trailing.isConnectedTo(i) {
			i.promptRebound()
		}
		if i.selectionChange == nil {
			change, err := property.Capture(i.contentX)
			if err != nil {
				i.env.debug("content offset already captured", "err", err)
			} else {
				i.selectionChange = change
			}
		}
	}
	i.selectable = selectable
	if i.selectionChange != nil {
		if selectable {
			i.selectionChange.SetValue(i.env.GU(i.env.Config.Item.SelectionPanelGU), i.selectAni, nil)
		} else {
			i.selectionChange.Restore(i.selectAni, nil)
		}
	}
	if i.selectableChanged != nil {
		i.selectableChanged(selectable)
	}
	i.MarkDirty()
	return i
}

// Selectable returns whether the item is in selection mode.
func (i *ListItem) Selectable() bool {
	return i.selectable
}

// SetSelected selects or deselects the item. The selection is kept by the
// controller of the container when there is one.
func (i *ListItem) SetSelected(selected bool) *ListItem {
	if controller := i.controller(); controller != nil && i.index >= 0 {
		if selected {
			controller.Select(i.index)
		} else {
			controller.Deselect(i.index)
		}
	}
	i.updateSelected(selected)
	return i
}

// Selected returns whether the item is selected.
func (i *ListItem) Selected() bool {
	return i.selected
}

// syncSelected pulls the selection state from the controller.
func (i *ListItem) syncSelected() {
	controller := i.controller()
	if controller == nil || i.index < 0 {
		return
	}
	i.updateSelected(controller.IsSelected(i.index))
}

func (i *ListItem) updateSelected(selected bool) {
	if i.selected == selected {
		return
	}
	i.selected = selected
	i.MarkDirty()
	if i.selectedChanged != nil {
		i.selectedChanged(selected)
	}
}

// SetClickedFunc sets a handler called when the item is clicked.
func (i *ListItem) SetClickedFunc(handler func()) *ListItem {
	i.clicked = handler
	return i
}

// SetPressAndHoldFunc sets a handler called on long press. A long press
// suppresses the click only while a handler is set.
func (i *ListItem) SetPressAndHoldFunc(handler func()) *ListItem {
	i.pressAndHold = handler
	return i
}

// SetPressedChangedFunc sets a handler called when Pressed changes.
func (i *ListItem) SetPressedChangedFunc(handler func(pressed bool)) *ListItem {
	i.pressedChanged = handler
	return i
}

// SetLeadingActionsChangedFunc sets a handler called when the leading
// actions are replaced.
func (i *ListItem) SetLeadingActionsChangedFunc(handler func()) *ListItem {
	i.leadingActionsChanged = handler
	return i
}

// SetTrailingActionsChangedFunc sets a handler called when the trailing
// actions are replaced.
func (i *ListItem) SetTrailingActionsChangedFunc(handler func()) *ListItem {
	i.trailingActionsChanged = handler
	return i
}

// SetSelectedChangedFunc sets a handler called when Selected changes.
func (i *ListItem) SetSelectedChangedFunc(handler func(selected bool)) *ListItem {
	i.selectedChanged = handler
	return i
}

// SetSelectableChangedFunc sets a handler called when Selectable changes.
func (i *ListItem) SetSelectableChangedFunc(handler func(selectable bool)) *ListItem {
	i.selectableChanged = handler
	return i
}

// SetIndexChangedFunc sets a handler called when Index changes.
func (i *ListItem) SetIndexChangedFunc(handler func(index int)) *ListItem {
	i.indexChanged = handler
	return i
}

// SetContentMovedFunc sets a handler called whenever the content offset
// changes.
func (i *ListItem) SetContentMovedFunc(handler func(x float64)) *ListItem {
	i.contentMoved = handler
	return i
}

// SetParentNode reparents the item and recomputes its index.
func (i *ListItem) SetParentNode(parent Node) {
	if i.ParentNode() == parent {
		return
	}
	if i.cancelCount != nil {
		i.cancelCount()
		i.cancelCount = nil
	}
	i.Box.SetParentNode(parent)
	if counter, ok := parent.(CountNotifier); ok {
		i.cancelCount = counter.OnCountChanged(func(int) {
			i.updateIndex()
		})
	}
	i.updateIndex()
}

// updateIndex reads the index from the container and works out whether the
// item is the last one.
func (i *ListItem) updateIndex() {
	index := -1
	if ctx, ok := i.ParentNode().(IndexContext); ok {
		index = ctx.IndexOf(i)
	}
	last := false
	if counter, ok := i.ParentNode().(CountNotifier); ok && index >= 0 {
		last = index == counter.Count()-1
	}
	if last != i.last {
		i.last = last
		i.MarkDirty()
	}
	if index != i.index {
		i.index = index
		if i.indexChanged != nil {
			i.indexChanged(index)
		}
		i.syncSelected()
	}
}

// controller returns the controller of the container, if one was created.
func (i *ListItem) controller() *ViewItemsController {
	if i.ParentNode() == nil || i.env.Controllers == nil {
		return nil
	}
	return i.env.Controllers.Lookup(i.ParentNode())
}

// highlighted returns whether the item is drawn in the highlight color.
func (i *ListItem) highlighted() bool {
	if i.selectable {
		return i.selected
	}
	if !i.pressed {
		return false
	}
	return i.action != nil || i.clicked != nil || i.leading != nil || i.trailing != nil
}

// collapsedHeight returns the height of the item without expansion.
func (i *ListItem) collapsedHeight() float64 {
	if i.expansion.change != nil {
		return i.expansion.change.Original()
	}
	return i.Height()
}

// Destroy tears the item down: timers are stopped, running animations
// complete, panels are released together with the scroll lock, and the item
// is forgotten by the registry.
func (i *ListItem) Destroy() {
	i.cancelPress()
	i.snap.Complete()
	i.selectAni.Complete()
	i.expansion.destroy()
	i.completeRebinding()
	if i.selectionChange != nil {
		i.selectionChange.Close()
		i.selectionChange = nil
	}
	if i.opacityChange != nil {
		i.opacityChange.Close()
		i.opacityChange = nil
	}
	if i.cancelCount != nil {
		i.cancelCount()
		i.cancelCount = nil
	}
	if controller := i.controller(); controller != nil {
		controller.forgetItem(i)
	}
	i.env.Items.forget(i.id)
}

// Draw draws the item, its revealed panel, the selection box and the
// divider.
func (i *ListItem) Draw(screen tcell.Screen) {
	x, y, width, height := i.GetRect()
	if width <= 0 || height <= 0 {
		return
	}
	screen = newClippedScreen(screen, x, y, width, height)
	env := i.env

	profile := ProfileNormal
	if i.highlighted() {
		profile = ProfileSelected
	}
	background := i.GetBackgroundColor()
	if profile == ProfileSelected {
		background = env.Palette.Color(ProfileSelected, RoleBackground)
	}
	foreground := env.Palette.Color(ProfileNormal, RoleForeground)
	if !i.enabled || i.Opacity() < 1 {
		foreground = env.Palette.Color(ProfileDisabled, RoleForeground)
	}
	style := tcell.StyleDefault.Background(background).Foreground(foreground)

	rowHeight := int(math.Round(i.collapsedHeight()))
	if rowHeight > height {
		rowHeight = height
	}
	contentHeight := rowHeight
	if i.divider.drawn() {
		contentHeight--
	}
	fill(screen, x, y, width, height, tcell.StyleDefault.Background(i.GetBackgroundColor()))

	offset := i.ContentX()
	frame := Rect{X: float64(x), Y: float64(y), Width: float64(width), Height: float64(contentHeight)}
	if i.leading.isConnectedTo(i) && offset > 0 {
		w := i.leading.PanelWidth()
		i.leading.Panel().Draw(screen, Rect{X: frame.X + offset - w, Y: frame.Y, Width: w, Height: frame.Height}, PanelLeading)
	}
	if i.trailing.isConnectedTo(i) && offset < 0 {
		w := i.trailing.PanelWidth()
		i.trailing.Panel().Draw(screen, Rect{X: frame.X + frame.Width + offset, Y: frame.Y, Width: w, Height: frame.Height}, PanelTrailing)
	}

	cx := x + int(math.Round(offset))
	fill(screen, cx, y, width, contentHeight, style)
	if i.selectable || i.selectAni.Running() {
		box := "[ ]"
		if i.selected {
			box = "[x]"
		}
		printWithStyle(screen, box, cx-int(math.Round(env.GU(env.Config.Item.SelectionPanelGU)))+1, y+contentHeight/2, 3, AlignmentLeft, style, false)
	}

	if i.drawFunc != nil {
		i.drawFunc(screen, cx, y, width, contentHeight)
	} else {
		printWithStyle(screen, env.tr(i.text), cx+1, y, width-2, AlignmentLeft, style, false)
		if i.subtitle != "" && contentHeight > 1 {
			secondary := style.Foreground(Styles.SecondaryTextColor)
			printWithStyle(screen, env.tr(i.subtitle), cx+1, y+1, width-2, AlignmentLeft, secondary, false)
		}
	}

	if i.divider.drawn() {
		i.divider.draw(screen, x, y+rowHeight-1, width)
	}
	i.expansion.draw(screen, x, y, width, height, rowHeight)
}
