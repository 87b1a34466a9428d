package listkit

// Window sees input before it reaches any primitive. Items that are tugged
// install a press filter so that a press anywhere else rebounds them, and
// listen for focus loss.
type Window struct {
	pressFilters map[int]func(p Point)
	focusLost    map[int]func()
	nextID       int
	focused      bool
}

// NewWindow returns a focused window.
func NewWindow() *Window {
	return &Window{
		pressFilters: make(map[int]func(Point)),
		focusLost:    make(map[int]func()),
		focused:      true,
	}
}

// AddPressFilter registers f to observe every press. The returned function
// removes it.
func (w *Window) AddPressFilter(f func(p Point)) (remove func()) {
	id := w.nextID
	w.nextID++
	w.pressFilters[id] = f
	return func() {
		delete(w.pressFilters, id)
	}
}

// OnFocusLost registers f to run when the window loses focus.
func (w *Window) OnFocusLost(f func()) (cancel func()) {
	id := w.nextID
	w.nextID++
	w.focusLost[id] = f
	return func() {
		delete(w.focusLost, id)
	}
}

// FilterCount returns the number of installed press filters.
func (w *Window) FilterCount() int {
	return len(w.pressFilters)
}

// DispatchPress runs the press filters. Filters may remove themselves or
// others while running; a removed filter is not called.
func (w *Window) DispatchPress(p Point) {
	for _, id := range sortedIDs(w.pressFilters) {
		if f, ok := w.pressFilters[id]; ok {
			f(p)
		}
	}
}

// SetFocused records the window focus and notifies listeners on loss.
func (w *Window) SetFocused(focused bool) {
	if w.focused == focused {
		return
	}
	w.focused = focused
	if focused {
		return
	}
	for _, id := range sortedIDs(w.focusLost) {
		if f, ok := w.focusLost[id]; ok {
			f()
		}
	}
}

// Focused returns whether the window has focus.
func (w *Window) Focused() bool {
	return w.focused
}
