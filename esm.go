// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import "code.hybscloud.com/atomix"

// ServerCanceller is the capability a FutureESM's caller wires in before
// making an asynchronous call on its behalf. Cancel must be safe to call
// without the future's monitor held (spec.md §4.2: the client/server
// rendezvous happens outside the mutex to avoid deadlock against a
// concurrent delivery). It reports whether the server actually stopped
// its in-flight computation.
type ServerCanceller interface {
	Cancel() bool
}

// FutureESM is the externally-storage-managed future described in
// spec.md §3/§4.2: the caller owns the BaseFuture's storage and passes it
// by reference to the server. FutureESM adds the client-initiated cancel
// protocol that must rendezvous with the server without holding the
// future's mutex.
type FutureESM[T any, S ServerCanceller] struct {
	BaseFuture[T]

	// ServerData is user-parameterized, wiring server-specific cancel
	// state in before the asynchronous call (spec.md §4.2 "Ownership").
	ServerData S

	cancelInProgress atomix.Bool
}

// NewFutureESM constructs a pristine ESM future wired to the given
// server-cancel capability.
func NewFutureESM[T any, S ServerCanceller](serverData S) *FutureESM[T, S] {
	return &FutureESM[T, S]{ServerData: serverData}
}

// Cancel implements spec.md §4.2's three-code protocol:
//
//	0: already available or cancelled — nothing to do.
//	1: another goroutine already has cancelInProgress set — wait for it
//	   to finalize.
//	2: we are first — call ServerData.Cancel() outside the monitor, then
//	   finalize as cancelled (if the server agreed) or wait for the
//	   eventual delivery-as-cancellation (if it didn't).
//
// Cancel always blocks until the future is decided one way or another.
// Use Get (or Peek, after Cancel returns) to observe the outcome.
func (f *FutureESM[T, S]) Cancel() {
	f.mu.Lock()

	if f.available.LoadRelaxed() || f.cancelled.LoadRelaxed() {
		f.mu.Unlock()
		return // code 0
	}

	if f.cancelInProgress.LoadRelaxed() {
		// code 1: someone else is already cancelling; wait for them.
		f.waitLocked()
		f.mu.Unlock()
		return
	}

	// code 2: we are the first canceller.
	f.cancelInProgress.StoreRelease(true)
	f.mu.Unlock()

	ok := f.ServerData.Cancel() // outside the monitor — may block or call back in

	f.mu.Lock()
	if ok {
		f.cancelInProgress.StoreRelease(false)
		f.mu.Unlock()
		f.finalizeCancelled()
		return
	}
	// Server refused (couldn't stop its computation in time); wait for
	// the delivery that's already in flight — Deliver/SetException will
	// see cancelInProgress still set and convert it to cancellation.
	f.waitLocked()
	f.mu.Unlock()
}

// Deliver overrides BaseFuture.Deliver: if a cancel is in progress when a
// server delivery arrives, the server lost the race. The value is
// discarded and the future finalizes as cancelled instead (spec.md
// §4.2's "deliver/exception overrides").
//
// As in BaseFuture.Deliver, the guard check and the commit share one
// critical section so no concurrent caller can slip past the same guard
// before available/cancelled is actually set.
func (f *FutureESM[T, S]) Deliver(value T) bool {
	f.mu.Lock()
	if f.available.LoadRelaxed() || f.cancelled.LoadRelaxed() {
		f.mu.Unlock()
		return false
	}
	if f.cancelInProgress.LoadRelaxed() {
		f.cancelInProgress.StoreRelease(false)
		f.cancelled.StoreRelease(true)
		f.commitAvailableLocked()
		f.mu.Unlock()
		return false
	}
	f.value = value
	f.commitAvailableLocked()
	f.mu.Unlock()
	return true
}

// SetException overrides BaseFuture.SetException with the same
// cancel-wins-the-race behavior as Deliver.
func (f *FutureESM[T, S]) SetException(cause error) bool {
	f.mu.Lock()
	if f.available.LoadRelaxed() || f.cancelled.LoadRelaxed() {
		f.mu.Unlock()
		return false
	}
	if f.cancelInProgress.LoadRelaxed() {
		f.cancelInProgress.StoreRelease(false)
		f.cancelled.StoreRelease(true)
		f.commitAvailableLocked()
		f.mu.Unlock()
		return false
	}
	f.cause = cause
	f.commitAvailableLocked()
	f.mu.Unlock()
	return true
}

// Close tears down the future for reuse or disposal. It returns
// ErrStillInUse instead of silently asserting if waiters or registered
// selectors remain outstanding — the resolution of spec.md §9's open
// question about the ESM destructor's undefined behavior. Callers that
// want the original "assert no waiters" teardown can call Reset directly.
func (f *FutureESM[T, S]) Close() error {
	f.mu.Lock()
	if !f.quiescentLocked() {
		f.mu.Unlock()
		return ErrStillInUse
	}
	f.mu.Unlock()
	f.Reset()
	return nil
}
