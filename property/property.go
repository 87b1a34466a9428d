// Package property implements observable values with optional bindings and
// the temporary-override handle (Change) used to alter a property while a
// gesture or transition is in progress and put it back afterwards.
package property

// Property is a named, observable value. A property is driven either by a
// plain value or by a binding; reading a bound property evaluates the
// binding.
type Property[T comparable] struct {
	name     string
	value    T
	binding  func() T
	watchers map[int]func(T)
	nextID   int

	// The live Change holding this property, if any.
	change any
}

// New returns a property holding value.
func New[T comparable](name string, value T) *Property[T] {
	return &Property[T]{name: name, value: value}
}

// Name returns the property name.
func (p *Property[T]) Name() string {
	return p.name
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	if p.binding != nil {
		return p.binding()
	}
	return p.value
}

// Set writes a plain value, dropping any binding. Watchers are notified when
// the observable value changes.
func (p *Property[T]) Set(value T) {
	old := p.Get()
	p.binding = nil
	p.value = value
	if old != value {
		p.notify(value)
	}
}

// Bind installs a binding. Watchers are notified when the value it yields
// differs from the previous value.
func (p *Property[T]) Bind(binding func() T) {
	if binding == nil {
		return
	}
	old := p.Get()
	p.binding = binding
	if current := binding(); current != old {
		p.notify(current)
	}
}

// Binding returns the installed binding, or nil.
func (p *Property[T]) Binding() func() T {
	return p.binding
}

// HasBinding returns whether the property is driven by a binding.
func (p *Property[T]) HasBinding() bool {
	return p.binding != nil
}

// Captured returns whether a Change currently holds the property.
func (p *Property[T]) Captured() bool {
	return p.change != nil
}

// OnChanged registers a watcher. The returned function removes it.
func (p *Property[T]) OnChanged(watcher func(T)) (cancel func()) {
	if p.watchers == nil {
		p.watchers = make(map[int]func(T))
	}
	id := p.nextID
	p.nextID++
	p.watchers[id] = watcher
	return func() {
		delete(p.watchers, id)
	}
}

func (p *Property[T]) notify(value T) {
	for id := 0; id < p.nextID; id++ {
		if watcher, ok := p.watchers[id]; ok {
			watcher(value)
		}
	}
}
