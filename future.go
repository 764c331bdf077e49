// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Selectee is the capability set a selector or WaitQueue needs from
// anything it registers against: a leaf future, or a composed selector
// subtree (spec.md §4.4's GLOSSARY entry).
type Selectee interface {
	// Available reports current readiness (nonblocking, relaxed read).
	Available() bool
	// AddSelect registers h for notification. Returns true without
	// registering if already available — the caller is responsible for
	// observing readiness immediately in that case.
	AddSelect(h *FutureDL) bool
	// RemoveSelect unregisters h. Idempotent.
	RemoveSelect(h *FutureDL)
	// Equal reports referential identity, used by WaitQueue.Remove.
	Equal(other Selectee) bool
}

// FutureDL is the registration handle ("future down-link") a Selectee
// stores in its selectClients set. signal() is invoked by makeAvailable
// once per registered handle; handles are responsible for resolving their
// own wake race (spec.md §4.1: "each handle is responsible for its own
// race resolution").
//
// FutureDL is an intrusive list node: BaseFuture keeps its selectClients
// as a doubly-linked list of *FutureDL for O(1) removal, matching the
// "Intrusive sequence of selector handles" design note in spec.md §9.
type FutureDL struct {
	prev, next *FutureDL
	owner      *selectClients

	// onSignal is called by makeAvailable's wake-up pass. It is set by
	// whichever selector or WaitQueue owns this handle.
	onSignal func()
}

// Signal invokes the registered callback, if any. Called by makeAvailable
// for every handle still linked into a future's selectClients at the time
// of delivery.
func (h *FutureDL) Signal() {
	if h.onSignal != nil {
		h.onSignal()
	}
}

// selectClients is the intrusive doubly-linked list of *FutureDL
// registered against one future. Insertion order is irrelevant per
// spec.md §3.
type selectClients struct {
	head, tail *FutureDL
}

func (s *selectClients) empty() bool {
	return s.head == nil
}

func (s *selectClients) append(h *FutureDL) {
	h.owner = s
	h.prev, h.next = s.tail, nil
	if s.tail != nil {
		s.tail.next = h
	} else {
		s.head = h
	}
	s.tail = h
}

func (s *selectClients) remove(h *FutureDL) {
	if h.owner != s {
		return // not linked here: idempotent per spec.md §4.1 removeSelect
	}
	if h.prev != nil {
		h.prev.next = h.next
	} else {
		s.head = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	} else {
		s.tail = h.prev
	}
	h.prev, h.next, h.owner = nil, nil, nil
}

// drainAndSignal unlinks every handle and calls Signal on each, per
// makeAvailable's protocol: "signal delay repeatedly until empty, then
// invoke signal() on every registered selector handle."
func (s *selectClients) drainAndSignal() {
	h := s.head
	s.head, s.tail = nil, nil
	for h != nil {
		next := h.next
		h.prev, h.next, h.owner = nil, nil, nil
		h.Signal()
		h = next
	}
}

// BaseFuture is the single-assignment result cell described in spec.md
// §3/§4.1. It is a monitor: a mutex-protected value/cause/flags pair with
// a condition variable for direct blocking clients and an intrusive list
// of selector handles for compositional waiters.
//
// available and cancelled are also exposed as relaxed atomic loads so
// Available()/Cancelled() never need to take the mutex — this is the
// "nomutex method" the teacher's `_Mutex`/`_Nomutex` distinction (spec.md
// §9) maps onto in Go.
type BaseFuture[T any] struct {
	mu    sync.Mutex
	delay sync.Cond // lazily bound to &mu on first use

	available atomix.Bool
	cancelled atomix.Bool

	value   T
	cause   error
	waiters int // count of goroutines currently blocked in delay.Wait()

	clients selectClients
}

func (f *BaseFuture[T]) cond() *sync.Cond {
	if f.delay.L == nil {
		f.delay.L = &f.mu
	}
	return &f.delay
}

// Available reports whether the future has a final outcome (value, cause,
// or cancellation) without blocking, and without taking the mutex.
func (f *BaseFuture[T]) Available() bool {
	return f.available.LoadAcquire()
}

// Cancelled reports whether the future's outcome is cancellation. Only
// meaningful once Available() is true.
func (f *BaseFuture[T]) Cancelled() bool {
	return f.cancelled.LoadAcquire()
}

// Get blocks until the future becomes available, then returns the stored
// value, re-raises the stored cause, or reports Cancellation — per
// spec.md §4.1.
func (f *BaseFuture[T]) Get() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waitLocked()
	return f.outcomeLocked()
}

// waitLocked blocks on delay until available, tracking waiters so Reset
// (and FutureESM.Close) can assert none remain. Must be called with f.mu
// held; returns with f.mu held.
func (f *BaseFuture[T]) waitLocked() {
	f.waiters++
	for !f.available.LoadRelaxed() {
		f.cond().Wait()
	}
	f.waiters--
}

// quiescentLocked reports whether no direct waiters and no registered
// selectors remain — spec.md §3 invariant 4's Reset precondition. Must be
// called with f.mu held.
func (f *BaseFuture[T]) quiescentLocked() bool {
	return f.waiters == 0 && f.clients.empty()
}

// Peek returns the result of a prior successful blocking access without
// waiting again. In debug builds it asserts Available(); calling it
// before any client has observed availability is undefined in release
// builds (spec.md §4.1).
func (f *BaseFuture[T]) Peek() (T, error) {
	assertf(f.available.LoadAcquire(), "Peek called before a blocking access observed availability")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcomeLocked()
}

// outcomeLocked must be called with f.mu held and available already true.
func (f *BaseFuture[T]) outcomeLocked() (T, error) {
	if f.cancelled.LoadRelaxed() {
		var zero T
		return zero, &Cancellation{}
	}
	if f.cause != nil {
		var zero T
		return zero, f.cause
	}
	return f.value, nil
}

// Deliver stores value and wakes every waiter. Returns false without
// effect if the future is already available or cancelled (spec.md §4.1).
//
// The guard check, the store, and the wake-up pass all run inside one
// critical section: releasing the mutex between the guard and the commit
// would let a concurrent Deliver/SetException/cancel-finalize slip past
// the same guard and also take effect, breaking single-assignment
// (spec.md §8 property 1).
func (f *BaseFuture[T]) Deliver(value T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available.LoadRelaxed() || f.cancelled.LoadRelaxed() {
		return false
	}
	f.value = value
	f.commitAvailableLocked()
	return true
}

// SetException installs cause, ownership transferring to the future.
// Symmetric to Deliver; returns false if already decided.
func (f *BaseFuture[T]) SetException(cause error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available.LoadRelaxed() || f.cancelled.LoadRelaxed() {
		return false
	}
	f.cause = cause
	f.commitAvailableLocked()
	return true
}

// finalizeCancelled marks the future cancelled and available and wakes
// waiters; it is a no-op if the future is already available. Used by
// FutureESM/FutureISM's cancel protocols, which own the decision of
// *whether* to cancel; BaseFuture only owns the mechanical finalization.
func (f *BaseFuture[T]) finalizeCancelled() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available.LoadRelaxed() {
		return
	}
	f.cancelled.StoreRelease(true)
	f.commitAvailableLocked()
}

// commitAvailableLocked implements spec.md §4.1's makeavailable protocol:
// set available, wake every direct client blocked on delay (broadcast),
// then signal every registered selector handle. Must be called with f.mu
// held, in the same critical section as the guard check and value/cause
// store that precede it, so the transition to available is atomic with
// respect to every other guard in this file.
func (f *BaseFuture[T]) commitAvailableLocked() {
	f.available.StoreRelease(true)
	f.notifyLocked()
}

// notifyLocked runs the wake-up pass alone: broadcast delay, then signal
// and unlink every registered selector handle. Must be called with f.mu
// held.
func (f *BaseFuture[T]) notifyLocked() {
	f.cond().Broadcast()
	f.clients.drainAndSignal()
}

// Reset returns a pristine future to its initial state for reuse.
// Precondition (spec.md §3 invariant 4): no waiters and no registered
// selectors. Violating this is a debug-only assertion failure.
func (f *BaseFuture[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	assertf(f.quiescentLocked(), "Reset called with waiters or selectors still registered")
	var zero T
	f.value = zero
	f.cause = nil
	f.available.StoreRelaxed(false)
	f.cancelled.StoreRelaxed(false)
}

// AddSelect registers h for notification. If already available, returns
// true immediately without registering — the caller must itself observe
// readiness (spec.md §4.1).
func (f *BaseFuture[T]) AddSelect(h *FutureDL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available.LoadRelaxed() {
		return true
	}
	f.clients.append(h)
	return false
}

// RemoveSelect unregisters h. Idempotent: a no-op if h is not currently
// registered against this future (spec.md §4.1).
func (f *BaseFuture[T]) RemoveSelect(h *FutureDL) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients.remove(h)
}

// Equal reports referential identity, making a leaf future a first-class
// Selectee (spec.md §4.4's capability set) alongside composed Binary
// trees and WaitQueue entries.
func (f *BaseFuture[T]) Equal(other Selectee) bool {
	o, ok := other.(*BaseFuture[T])
	return ok && o == f
}
