// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"sync"

	"code.hybscloud.com/atomix"
	"golang.org/x/sync/semaphore"
)

// waitQueueEntry is a linked element carrying a selectee, its
// registration handle, and the entry's membership in the queue — spec.md
// §3's WaitQueue entry.
type waitQueueEntry[S Selectee] struct {
	prev, next *waitQueueEntry[S]
	selectee   S
	handle     FutureDL
}

// DropClient is the per-Drop rendezvous record described in spec.md
// §3/§4.5/§9: a semaphore, a test-and-set word, and a winner slot. The
// test-and-set is a genuine atomic operation; the semaphore's
// release-acquire discipline is what makes the winner's write to
// `winner` visible to the waking caller.
type DropClient[S Selectee] struct {
	sem    *semaphore.Weighted
	won    atomix.Int32
	mu     sync.Mutex
	winner *waitQueueEntry[S]
}

func newDropClient[S Selectee]() *DropClient[S] {
	sem := semaphore.NewWeighted(1)
	// semaphore.Weighted starts with its full weight available; spec.md
	// §4.5 wants a counting semaphore initialized to 0 that a signaler
	// releases exactly once. Draining the single permit here, on a
	// semaphore no other goroutine can see yet, gives the same
	// zero-initialized behavior: the first real Acquire below blocks
	// until signal's Release call.
	_ = sem.Acquire(context.Background(), 1)
	return &DropClient[S]{sem: sem}
}

// signal is called from inside a registered future's makeAvailable. The
// thread that wins the 0→1 transition records its entry as winner and
// releases the semaphore exactly once; later signals are no-ops.
func (c *DropClient[S]) signal(entry *waitQueueEntry[S]) {
	if !c.won.CompareAndSwapAcqRel(0, 1) {
		return
	}
	c.mu.Lock()
	c.winner = entry
	c.mu.Unlock()
	c.sem.Release(1)
}

// WaitQueueISM owns an ordered set of entries pairing a selectee with its
// FutureDL registration handle, implementing the "drop one ready
// selectee" operation of spec.md §4.5.
type WaitQueueISM[S Selectee] struct {
	mu         sync.Mutex
	head, tail *waitQueueEntry[S]
}

// NewWaitQueueISM constructs an empty wait queue.
func NewWaitQueueISM[S Selectee]() *WaitQueueISM[S] {
	return &WaitQueueISM[S]{}
}

// Add appends s to the queue without registering it for notification —
// registration happens lazily inside Drop.
func (q *WaitQueueISM[S]) Add(s S) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := &waitQueueEntry[S]{selectee: s}
	e.prev = q.tail
	if q.tail != nil {
		q.tail.next = e
	} else {
		q.head = e
	}
	q.tail = e
}

// Remove unlinks and destroys every entry whose selectee equals s.
func (q *WaitQueueISM[S]) Remove(s S) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.head
	for e != nil {
		next := e.next
		if e.selectee.Equal(s) {
			q.unlinkLocked(e)
		}
		e = next
	}
}

// Empty reports whether the queue currently holds no entries.
func (q *WaitQueueISM[S]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head == nil
}

func (q *WaitQueueISM[S]) unlinkLocked(e *waitQueueEntry[S]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		q.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		q.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

// Drop implements spec.md §4.5's algorithm: walk the queue registering
// each entry against a shared DropClient, fast-pathing any selectee
// already available; if none were, block on the DropClient's semaphore
// until some registered future's makeAvailable signals it; finally
// unregister every entry other than the winner and return the winner.
//
// Precondition: the queue is nonempty. Drop panics with ErrQueueEmpty
// otherwise — spec.md §7 ("drop() on an empty WaitQueue aborts").
func (q *WaitQueueISM[S]) Drop(ctx context.Context) S {
	q.mu.Lock()
	if q.head == nil {
		q.mu.Unlock()
		panic(ErrQueueEmpty)
	}
	entries := make([]*waitQueueEntry[S], 0, 4)
	for e := q.head; e != nil; e = e.next {
		entries = append(entries, e)
	}
	q.mu.Unlock()

	client := newDropClient[S]()
	var fastWinner *waitQueueEntry[S]

	for _, e := range entries {
		entry := e
		entry.handle.onSignal = func() { client.signal(entry) }
		if entry.selectee.AddSelect(&entry.handle) {
			fastWinner = entry
			break
		}
	}

	winner := fastWinner
	if winner == nil {
		// client.sem's single permit is already held (see newDropClient);
		// Acquire blocks until signal() releases it, or ctx is done.
		if err := client.sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: undo registrations made so far and
			// propagate the zero value — callers that pass a
			// cancellable context are expected to check ctx.Err().
			q.unregisterAllExcept(entries, nil)
			var zero S
			return zero
		}
		client.mu.Lock()
		winner = client.winner
		client.mu.Unlock()
	}

	q.unregisterAllExcept(entries, winner)

	q.mu.Lock()
	q.unlinkLocked(winner)
	q.mu.Unlock()

	return winner.selectee
}

// unregisterAllExcept calls RemoveSelect on every entry except except.
// The skipped winner needs no removal: a fast-path winner was never
// registered, and a signalled winner's handle was already unlinked by the
// future's wake-up pass. Entries after a fast-path winner were never
// registered either; removing them is harmless since RemoveSelect is
// idempotent.
func (q *WaitQueueISM[S]) unregisterAllExcept(entries []*waitQueueEntry[S], except *waitQueueEntry[S]) {
	for _, e := range entries {
		if e != except {
			e.selectee.RemoveSelect(&e.handle)
		}
	}
}

// esmSelecteeHandle adapts a raw, caller-owned future pointer (as used by
// externally-storage-managed futures) into the Selectee capability set,
// letting WaitQueueESM reuse WaitQueueISM's implementation instead of
// duplicating it — spec.md §4.5's "ESM adapter."
type esmSelecteeHandle[T any] struct {
	ptr *BaseFuture[T]
}

func (h esmSelecteeHandle[T]) Available() bool           { return h.ptr.Available() }
func (h esmSelecteeHandle[T]) AddSelect(d *FutureDL) bool { return h.ptr.AddSelect(d) }
func (h esmSelecteeHandle[T]) RemoveSelect(d *FutureDL)   { h.ptr.RemoveSelect(d) }
func (h esmSelecteeHandle[T]) Equal(other Selectee) bool {
	o, ok := other.(esmSelecteeHandle[T])
	return ok && o.ptr == h.ptr
}

// WaitQueueESM composes a WaitQueueISM[esmSelecteeHandle[T]], exposing
// Drop as returning the winning future pointer directly (or nil when
// empty, instead of aborting) — the intentional ESM convenience spec.md
// §4.5 documents as an asymmetry with the ISM queue.
type WaitQueueESM[T any] struct {
	inner *WaitQueueISM[esmSelecteeHandle[T]]
}

// NewWaitQueueESM constructs an empty ESM wait queue.
func NewWaitQueueESM[T any]() *WaitQueueESM[T] {
	return &WaitQueueESM[T]{inner: NewWaitQueueISM[esmSelecteeHandle[T]]()}
}

// Add appends f to the queue.
func (q *WaitQueueESM[T]) Add(f *BaseFuture[T]) {
	q.inner.Add(esmSelecteeHandle[T]{ptr: f})
}

// Remove unlinks every entry referring to f.
func (q *WaitQueueESM[T]) Remove(f *BaseFuture[T]) {
	q.inner.Remove(esmSelecteeHandle[T]{ptr: f})
}

// Empty reports whether the queue currently holds no entries.
func (q *WaitQueueESM[T]) Empty() bool {
	return q.inner.Empty()
}

// Drop returns the winning future pointer and true, or (nil, false) if
// the queue was empty — unlike WaitQueueISM.Drop, this never panics.
func (q *WaitQueueESM[T]) Drop(ctx context.Context) (*BaseFuture[T], bool) {
	if q.inner.Empty() {
		return nil, false
	}
	h := q.inner.Drop(ctx)
	if h.ptr == nil {
		return nil, false
	}
	return h.ptr, true
}
