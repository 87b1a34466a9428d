package property

import "errors"

// ErrAlreadyCaptured is returned by Capture when another Change still holds
// the property.
var ErrAlreadyCaptured = errors.New("property: already captured")

// Animator drives a property from one value to another over time.
type Animator[T any] interface {
	// Run starts a transition, completing any transition in flight first.
	Run(from, to T, step func(T), done func())
	// Complete jumps a running transition to its end.
	Complete()
	// Running returns whether a transition is in flight.
	Running() bool
}

// Change temporarily overrides a property and puts back whatever drove it
// before: its binding if it had one, its plain value otherwise.
//
// The original is backed up on the first SetValue and stays untouched by
// further SetValue calls until Restore. Close must be called once the Change
// is no longer needed; it restores synchronously when that has not happened
// yet and releases the property for other captures.
type Change[T comparable] struct {
	prop     *Property[T]
	value    T
	binding  func() T
	backedUp bool
	closed   bool

	// The animator of the transition in flight, if any.
	animator Animator[T]
}

// Capture returns a Change for p. It fails when another Change holds p.
func Capture[T comparable](p *Property[T]) (*Change[T], error) {
	if p.change != nil {
		return nil, ErrAlreadyCaptured
	}
	c := &Change[T]{prop: p}
	p.change = c
	c.backup()
	return c, nil
}

// Property returns the captured property.
func (c *Change[T]) Property() *Property[T] {
	return c.prop
}

// Original returns the value the property had when it was backed up.
func (c *Change[T]) Original() T {
	return c.value
}

// HadBinding returns whether the property was bound when it was backed up.
func (c *Change[T]) HadBinding() bool {
	return c.binding != nil
}

// Restored returns whether the backed up state has been put back.
func (c *Change[T]) Restored() bool {
	return !c.backedUp
}

func (c *Change[T]) backup() {
	if c.backedUp {
		return
	}
	c.value = c.prop.Get()
	c.binding = c.prop.Binding()
	c.backedUp = true
}

// SetValue writes value to the property, animated when a is non-nil. done
// runs once the value is in place.
func (c *Change[T]) SetValue(value T, a Animator[T], done func()) {
	if c.closed {
		return
	}
	c.settle()
	c.backup()
	if a == nil {
		c.prop.Set(value)
		if done != nil {
			done()
		}
		return
	}
	c.animator = a
	a.Run(c.prop.Get(), value, c.prop.Set, func() {
		c.animator = nil
		if done != nil {
			done()
		}
	})
}

// Restore puts back the backed up value, animated when a is non-nil. A
// binding is re-installed only after the transition completed. Restoring a
// Change that is already restored is a no-op and done is not called.
func (c *Change[T]) Restore(a Animator[T], done func()) {
	if c.closed || !c.backedUp {
		return
	}
	c.settle()
	value, binding := c.value, c.binding
	c.backedUp = false
	finish := func() {
		c.prop.Set(value)
		if binding != nil {
			c.prop.Bind(binding)
		}
		if done != nil {
			done()
		}
	}
	if a == nil {
		finish()
		return
	}
	c.animator = a
	a.Run(c.prop.Get(), value, c.prop.Set, func() {
		c.animator = nil
		finish()
	})
}

// Close completes a transition in flight, restores when needed and releases
// the property.
func (c *Change[T]) Close() {
	if c.closed {
		return
	}
	c.settle()
	c.Restore(nil, nil)
	c.closed = true
	if c.prop.change == any(c) {
		c.prop.change = nil
	}
}

// settle jumps a transition started by this Change to its end.
func (c *Change[T]) settle() {
	if c.animator != nil && c.animator.Running() {
		c.animator.Complete()
	}
	c.animator = nil
}
