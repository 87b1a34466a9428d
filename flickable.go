package listkit

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/listkit/anim"
	"github.com/xqrs/listkit/property"
)

// Flickable is a vertical scroll container. It scrolls its content with the
// mouse wheel while interactive, and reports itself as moving from the first
// wheel step until the configured settle time passed without another one.
type Flickable struct {
	*Box

	env         *Env
	interactive *property.Property[bool]

	// Scroll position and extent, in cells.
	contentY      float64
	contentHeight float64
	originY       float64

	moving          bool
	settle          *anim.Timer
	movementStarted map[int]func()
	movementEnded   func()
	nextID          int

	// Optional single child scrolled by this container.
	content Primitive

	contentYChanged func(y float64)
}

// NewFlickable returns an interactive scroll container.
func NewFlickable(env *Env) *Flickable {
	return &Flickable{
		Box:             NewBox(),
		env:             env,
		interactive:     property.New("interactive", true),
		movementStarted: make(map[int]func()),
	}
}

// Interactive returns the property controlling user scrolling.
func (f *Flickable) Interactive() *property.Property[bool] {
	return f.interactive
}

// IsInteractive returns whether user scrolling is enabled.
func (f *Flickable) IsInteractive() bool {
	return f.interactive.Get()
}

// SetInteractive enables or disables user scrolling.
func (f *Flickable) SetInteractive(interactive bool) *Flickable {
	f.interactive.Set(interactive)
	return f
}

// IsMoving returns whether the container is scrolling.
func (f *Flickable) IsMoving() bool {
	return f.moving
}

// OnMovementStarted registers a callback run whenever movement starts.
func (f *Flickable) OnMovementStarted(callback func()) (cancel func()) {
	id := f.nextID
	f.nextID++
	f.movementStarted[id] = callback
	return func() {
		delete(f.movementStarted, id)
	}
}

// SetMovementEndedFunc sets a handler called when movement settles.
func (f *Flickable) SetMovementEndedFunc(handler func()) *Flickable {
	f.movementEnded = handler
	return f
}

// SetContentYChangedFunc sets a handler called when the scroll position
// changes.
func (f *Flickable) SetContentYChangedFunc(handler func(y float64)) *Flickable {
	f.contentYChanged = handler
	return f
}

// ContentY returns the scroll position.
func (f *Flickable) ContentY() float64 {
	return f.contentY
}

// OriginY returns the smallest valid scroll position.
func (f *Flickable) OriginY() float64 {
	return f.originY
}

// ContentHeight returns the height of the scrolled content.
func (f *Flickable) ContentHeight() float64 {
	return f.contentHeight
}

// ViewportHeight returns the visible height.
func (f *Flickable) ViewportHeight() float64 {
	_, _, _, height := f.GetRect()
	return float64(height)
}

// MaxContentY returns the largest valid scroll position.
func (f *Flickable) MaxContentY() float64 {
	return f.originY + math.Max(0, f.contentHeight-f.ViewportHeight())
}

// SetContentHeight sets the height of the scrolled content and clamps the
// scroll position to it.
func (f *Flickable) SetContentHeight(height float64) *Flickable {
	if height < 0 {
		height = 0
	}
	if f.contentHeight != height {
		f.contentHeight = height
		f.SetContentY(f.contentY)
		f.MarkDirty()
	}
	return f
}

// SetContentY scrolls to y, clamped to the content bounds. Programmatic
// scrolling works regardless of the interactive flag.
func (f *Flickable) SetContentY(y float64) *Flickable {
	y = clamp(y, f.originY, f.MaxContentY())
	if f.contentY != y {
		f.contentY = y
		f.MarkDirty()
		if f.contentYChanged != nil {
			f.contentYChanged(y)
		}
	}
	return f
}

// Flick scrolls by dy on behalf of the user. It does nothing and returns
// false while the container is not interactive.
func (f *Flickable) Flick(dy float64) bool {
	if !f.IsInteractive() {
		return false
	}
	f.ScrollBy(dy)
	return true
}

// ScrollBy scrolls by dy as a movement, regardless of the interactive flag.
// Scroll locks above a gesture see it as the container starting to move.
func (f *Flickable) ScrollBy(dy float64) {
	f.beginMovement()
	f.SetContentY(f.contentY + dy)
}

// ScrollTo scrolls to y without starting a movement.
func (f *Flickable) ScrollTo(y float64) {
	f.SetContentY(y)
}

// StopMovement settles a running movement immediately.
func (f *Flickable) StopMovement() {
	if !f.moving {
		return
	}
	if f.settle != nil {
		f.settle.Stop()
		f.settle = nil
	}
	f.moving = false
	if f.movementEnded != nil {
		f.movementEnded()
	}
}

func (f *Flickable) beginMovement() {
	if f.settle != nil {
		f.settle.Stop()
	}
	f.settle = f.env.Loop.AfterFunc(f.env.Config.Flickable.MovementSettle.Duration(), f.StopMovement)
	if f.moving {
		return
	}
	f.moving = true
	for _, id := range sortedIDs(f.movementStarted) {
		if callback, ok := f.movementStarted[id]; ok {
			callback()
		}
	}
}

// SetContent sets the child scrolled by this container.
func (f *Flickable) SetContent(content Primitive, height float64) *Flickable {
	if f.content != nil {
		if child, ok := f.content.(interface{ SetParentNode(Node) }); ok {
			child.SetParentNode(nil)
		}
	}
	f.content = content
	if child, ok := content.(interface{ SetParentNode(Node) }); ok {
		child.SetParentNode(f)
	}
	f.SetContentHeight(height)
	f.MarkDirty()
	return f
}

// Draw draws this primitive onto the screen.
func (f *Flickable) Draw(screen tcell.Screen) {
	f.DrawForSubclass(screen, f)
	if f.content == nil {
		return
	}
	x, y, width, height := f.GetRect()
	f.content.SetRect(x, y-int(math.Round(f.contentY)), width, int(math.Ceil(f.contentHeight)))
	f.content.Draw(newClippedScreen(screen, x, y, width, height))
	f.content.MarkClean()
}

// MouseHandler scrolls on wheel events and forwards everything else to the
// content.
func (f *Flickable) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if !f.InRect(event.Position()) {
		return nil, nil
	}
	switch action {
	case MouseScrollUp:
		return nil, redraw(f.Flick(-f.env.Config.Flickable.WheelStep))
	case MouseScrollDown:
		return nil, redraw(f.Flick(f.env.Config.Flickable.WheelStep))
	}
	if f.content != nil {
		return f.content.MouseHandler(action, event)
	}
	return nil, nil
}

// InputHandler forwards key events to the content.
func (f *Flickable) InputHandler(event *tcell.EventKey) Command {
	if f.content != nil {
		return f.content.InputHandler(event)
	}
	return nil
}

// Focus passes the focus on to the content.
func (f *Flickable) Focus(delegate func(p Primitive)) {
	if f.content != nil {
		delegate(f.content)
		return
	}
	f.Box.Focus(delegate)
}

// HasFocus returns whether the container or its content has focus.
func (f *Flickable) HasFocus() bool {
	if f.content != nil && f.content.HasFocus() {
		return true
	}
	return f.Box.HasFocus()
}

// IsDirty returns whether this container or its content needs a redraw.
func (f *Flickable) IsDirty() bool {
	return f.Box.IsDirty() || (f.content != nil && f.content.IsDirty())
}
