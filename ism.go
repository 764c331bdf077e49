// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import "code.hybscloud.com/atomix"

// CancelFunc is the fire-and-forget server-cancel capability a FutureISM
// may be wired with (spec.md §4.3). Unlike FutureESM's ServerCanceller,
// it reports no outcome: the capability is expected to be nonblocking or
// to handle its own synchronization, so there is no client/server race
// window to negotiate.
type CancelFunc func()

// ismImpl is the shared, reference-counted storage behind every copy of
// a FutureISM handle (spec.md §3: "An ISM future's payload lives exactly
// as long as the last handle referring to it").
type ismImpl[T any] struct {
	BaseFuture[T]
	refCount     atomix.Int32
	serverCancel CancelFunc
}

// FutureISM is a thin, copyable handle around a ref-counted Impl — the
// internally-storage-managed future of spec.md §3/§4.3.
type FutureISM[T any] struct {
	impl *ismImpl[T]
}

// NewFutureISM constructs a pristine ISM future with reference count 1.
// cancel may be nil, matching spec.md's "invoke the server-cancel
// capability if installed."
func NewFutureISM[T any](cancel CancelFunc) FutureISM[T] {
	impl := &ismImpl[T]{serverCancel: cancel}
	impl.refCount.StoreRelaxed(1)
	return FutureISM[T]{impl: impl}
}

// Copy increments the reference count and returns a new handle to the
// same Impl — shared ownership, shallow copy.
func (f FutureISM[T]) Copy() FutureISM[T] {
	f.impl.refCount.AddAcqRel(1)
	return FutureISM[T]{impl: f.impl}
}

// Close decrements the reference count. The last handle to close destroys
// the payload and cause (spec.md §3 invariant 5).
func (f FutureISM[T]) Close() {
	if f.impl.refCount.AddAcqRel(-1) != 0 {
		return
	}
	f.impl.mu.Lock()
	var zero T
	f.impl.value = zero
	f.impl.cause = nil
	f.impl.mu.Unlock()
}

// Equal reports referential identity — used by WaitQueue removal
// (spec.md §4.5's Selectee capability set).
func (f FutureISM[T]) Equal(other Selectee) bool {
	o, ok := other.(FutureISM[T])
	return ok && o.impl == f.impl
}

// Available forwards to the shared Impl (nonblocking, relaxed read).
func (f FutureISM[T]) Available() bool { return f.impl.Available() }

// Cancelled forwards to the shared Impl.
func (f FutureISM[T]) Cancelled() bool { return f.impl.Cancelled() }

// Get forwards to the shared Impl.
func (f FutureISM[T]) Get() (T, error) { return f.impl.Get() }

// Peek forwards to the shared Impl.
func (f FutureISM[T]) Peek() (T, error) { return f.impl.Peek() }

// Deliver forwards to the shared Impl.
func (f FutureISM[T]) Deliver(value T) bool { return f.impl.Deliver(value) }

// SetException forwards to the shared Impl.
func (f FutureISM[T]) SetException(cause error) bool { return f.impl.SetException(cause) }

// Reset forwards to the shared Impl.
func (f FutureISM[T]) Reset() { f.impl.Reset() }

// AddSelect forwards to the shared Impl.
func (f FutureISM[T]) AddSelect(h *FutureDL) bool { return f.impl.AddSelect(h) }

// RemoveSelect forwards to the shared Impl.
func (f FutureISM[T]) RemoveSelect(h *FutureDL) { f.impl.RemoveSelect(h) }

// Cancel marks the future cancelled and fires the server-cancel
// capability, if one was installed, without waiting on its outcome
// (spec.md §4.3 — unlike FutureESM there is no client/server race window
// to negotiate). No-op if already decided.
func (f FutureISM[T]) Cancel() {
	f.impl.mu.Lock()
	if f.impl.available.LoadRelaxed() || f.impl.cancelled.LoadRelaxed() {
		f.impl.mu.Unlock()
		return
	}
	f.impl.mu.Unlock()

	if f.impl.serverCancel != nil {
		f.impl.serverCancel()
	}
	f.impl.finalizeCancelled()
}
