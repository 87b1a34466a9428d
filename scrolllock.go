package listkit

import "github.com/xqrs/listkit/property"

// ScrollLockTarget is implemented by scroll containers whose user
// interaction can be switched off while a gesture owns the pointer.
type ScrollLockTarget interface {
	Node
	// Interactive is the property controlling whether the container reacts
	// to user scrolling.
	Interactive() *property.Property[bool]
	// IsMoving reports whether the container is scrolling on its own.
	IsMoving() bool
	// OnMovementStarted registers f to run whenever the container starts
	// moving.
	OnMovementStarted(f func()) (cancel func())
}

// CollectScrollableAncestors returns the scroll containers on the parent
// chain of n, n included, ordered from the closest to the root. Every call
// walks the live chain.
func CollectScrollableAncestors(n Node) []ScrollLockTarget {
	var targets []ScrollLockTarget
	for ; n != nil; n = n.ParentNode() {
		if target, ok := n.(ScrollLockTarget); ok {
			targets = append(targets, target)
		}
	}
	return targets
}

// IsAnyAncestorMoving returns whether any scroll container on the parent
// chain of n is moving.
func IsAnyAncestorMoving(n Node) bool {
	for _, target := range CollectScrollableAncestors(n) {
		if target.IsMoving() {
			return true
		}
	}
	return false
}

type scrollLockRecord struct {
	target ScrollLockTarget
	cancel func()
}

// scrollHold is the shared capture of one container's Interactive property.
// Every lock holding the container counts once; the property is restored
// when the last one lets go.
type scrollHold struct {
	change  *property.Change[bool]
	holders int
}

// scrollHolds tracks the held containers of an Env.
type scrollHolds map[*property.Property[bool]]*scrollHold

func (h scrollHolds) acquire(prop *property.Property[bool]) error {
	if hold, ok := h[prop]; ok {
		hold.holders++
		return nil
	}
	change, err := property.Capture(prop)
	if err != nil {
		return err
	}
	change.SetValue(false, nil, nil)
	h[prop] = &scrollHold{change: change, holders: 1}
	return nil
}

func (h scrollHolds) release(prop *property.Property[bool]) {
	hold, ok := h[prop]
	if !ok {
		return
	}
	hold.holders--
	if hold.holders > 0 {
		return
	}
	delete(h, prop)
	hold.change.Close()
}

// holders returns how many locks hold prop.
func (h scrollHolds) holders(prop *property.Property[bool]) int {
	if hold, ok := h[prop]; ok {
		return hold.holders
	}
	return 0
}

// FlickableScrollLock turns the scroll containers around a node
// non-interactive for the duration of a gesture.
type FlickableScrollLock struct {
	env        *Env
	node       Node
	onMovement func()

	records  []scrollLockRecord
	captured bool
}

// NewFlickableScrollLock returns a lock for the ancestors of node.
// onMovement runs when one of the locked containers starts moving anyway.
func NewFlickableScrollLock(env *Env, node Node, onMovement func()) *FlickableScrollLock {
	return &FlickableScrollLock{env: env, node: node, onMovement: onMovement}
}

// Captured returns whether the lock is held.
func (l *FlickableScrollLock) Captured() bool {
	return l.captured
}

// Len returns the number of containers currently locked.
func (l *FlickableScrollLock) Len() int {
	return len(l.records)
}

// Capture locks every scroll container above the node. It returns false
// when the lock is already held. A container another lock holds gains a
// holder; one captured outside the locks is skipped.
func (l *FlickableScrollLock) Capture() bool {
	if l.captured {
		l.env.debug("scroll lock already captured")
		return false
	}
	l.captured = true
	for _, target := range CollectScrollableAncestors(l.node) {
		if err := l.env.locks.acquire(target.Interactive()); err != nil {
			l.env.debug("scroll container captured elsewhere", "err", err)
			continue
		}
		cancel := target.OnMovementStarted(func() {
			if l.onMovement != nil {
				l.onMovement()
			}
		})
		l.records = append(l.records, scrollLockRecord{target: target, cancel: cancel})
	}
	return true
}

// Release restores the containers in reverse capture order. It returns
// false when nothing was held.
func (l *FlickableScrollLock) Release() bool {
	if !l.captured {
		return false
	}
	records := l.records
	l.records = nil
	l.captured = false
	for i := len(records) - 1; i >= 0; i-- {
		records[i].cancel()
		l.env.locks.release(records[i].target.Interactive())
	}
	return true
}
