// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// selectorOp tags a Binary node's boolean combinator.
type selectorOp int

const (
	opAnd selectorOp = iota
	opOr
)

// Unary wraps a single leaf Selectee. Go's Selectee interface is already
// uniform across leaf futures and composed subtrees, so Unary adds no
// behavior of its own — it exists for API symmetry with spec.md §4.4's
// tagged-tree data model ("Unary(F) wraps a leaf future handle"), and so
// callers can hold a bare future as an explicitly-typed Selector value.
type Unary struct {
	Leaf Selectee
}

func (u Unary) Available() bool           { return u.Leaf.Available() }
func (u Unary) AddSelect(h *FutureDL) bool { return u.Leaf.AddSelect(h) }
func (u Unary) RemoveSelect(h *FutureDL)   { u.Leaf.RemoveSelect(h) }
func (u Unary) Equal(other Selectee) bool {
	o, ok := other.(Unary)
	return ok && o.Leaf.Equal(u.Leaf)
}

// Binary composes two Selectee subtrees (each itself a leaf future or a
// nested Binary — spec.md §4.4's "operator algebra across the four shape
// combinations of leaf-vs-subtree") under AND or OR. It implements
// Selectee itself, so trees of arbitrary depth compose uniformly and a
// Binary can be registered against a WaitQueue exactly like a leaf.
//
// Satisfaction is observed exactly once per add/remove cycle (spec.md
// §4.4's "exactly-once wake" requirement) via an atomic test-and-set;
// both children remain registered until the root fires — there is no
// short-circuit, so an AND only wakes once both sides have fired at
// least once and an OR wakes on the first.
type Binary struct {
	left, right Selectee
	op          selectorOp

	leftHandle, rightHandle FutureDL

	mu       sync.Mutex
	won      atomix.Int32
	external *FutureDL
}

// SelectAll builds an AND selector: satisfied only once both a and b are
// available. The explicit builder spec.md §4.4 offers in place of
// operator overloading, which Go does not have.
func SelectAll(a, b Selectee) *Binary {
	return newBinary(a, b, opAnd)
}

// SelectAny builds an OR selector: satisfied once either a or b is
// available.
func SelectAny(a, b Selectee) *Binary {
	return newBinary(a, b, opOr)
}

func newBinary(a, b Selectee, op selectorOp) *Binary {
	bin := &Binary{left: a, right: b, op: op}
	bin.leftHandle.onSignal = bin.onChildFired
	bin.rightHandle.onSignal = bin.onChildFired
	return bin
}

// Available reports whether the tree's boolean formula over
// {leaf.Available()} currently holds. Always a live recomputation over
// the children, never a cached flag — spec.md §8 property 3: "S becomes
// satisfied iff its boolean formula ... is true."
func (b *Binary) Available() bool {
	if b.op == opAnd {
		return b.left.Available() && b.right.Available()
	}
	return b.left.Available() || b.right.Available()
}

// AddSelect registers h as this tree's single external notification
// target for one add/remove cycle. If the formula is already satisfied,
// it returns true immediately without registering (the Selectee
// contract); otherwise it walks both children, registering an internal
// handle on each, and arms the exactly-once test-and-set.
func (b *Binary) AddSelect(h *FutureDL) bool {
	if b.Available() {
		return true
	}

	b.mu.Lock()
	b.won.StoreRelaxed(0)
	b.external = h
	b.mu.Unlock()

	// Both children stay registered regardless of op — no short-circuit
	// (spec.md §4.4).
	b.left.AddSelect(&b.leftHandle)
	b.right.AddSelect(&b.rightHandle)

	// A child may have become available and already fired its
	// makeAvailable wake-up pass between our Available() check above and
	// the registration calls just made — in which case AddSelect on that
	// child returned true without linking our handle, and no Signal will
	// ever arrive for it. Re-check now to close that race.
	if b.Available() {
		b.tryFire()
	}
	return false
}

// RemoveSelect tears down both children's registrations. Idempotent even
// if a late child signal is concurrently in flight: onChildFired always
// goes through the same test-and-set as a direct fire, so a signal that
// arrives after (or during) RemoveSelect either loses the race or finds
// external already cleared.
func (b *Binary) RemoveSelect(h *FutureDL) {
	b.mu.Lock()
	if b.external == h {
		b.external = nil
	}
	b.mu.Unlock()

	b.left.RemoveSelect(&b.leftHandle)
	b.right.RemoveSelect(&b.rightHandle)
}

// Equal reports referential identity.
func (b *Binary) Equal(other Selectee) bool {
	o, ok := other.(*Binary)
	return ok && o == b
}

func (b *Binary) onChildFired() {
	if b.Available() {
		b.tryFire()
	}
}

// tryFire is the atomic test-and-set described in spec.md §4.4/§4.5/§9:
// the thread that wins the 0→1 transition is the sole signaler for this
// cycle; every other caller (concurrent or late) observes the word
// already set and does nothing.
func (b *Binary) tryFire() {
	if !b.won.CompareAndSwapAcqRel(0, 1) {
		return
	}
	b.mu.Lock()
	h := b.external
	b.mu.Unlock()
	if h != nil {
		h.Signal()
	}
}
