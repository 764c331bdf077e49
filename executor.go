// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// request is the executor's colable work record (spec.md §3): a stop
// flag plus a doit operation. void-requests wrap an action only;
// future-requests additionally close over an ISM<T> receiver that doit
// populates on completion.
type request struct {
	stop bool
	doit func()
}

// requestQueue is the unbounded monitor-guarded queue of spec.md §4.6:
// insert appends and signals, remove blocks on the condition while
// empty.
type requestQueue struct {
	mu    sync.Mutex
	cond  sync.Cond
	items []*request
}

func newRequestQueue() *requestQueue {
	q := &requestQueue{}
	q.cond.L = &q.mu
	return q
}

func (q *requestQueue) insert(r *request) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.cond.Signal()
	q.mu.Unlock()
}

func (q *requestQueue) remove() *request {
	q.mu.Lock()
	for len(q.items) == 0 {
		q.cond.Wait()
	}
	r := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.mu.Unlock()
	return r
}

// Executor is the fixed worker-pool described in spec.md §4.6: nworkers
// worker goroutines consume an unbounded request queue; Send fires a
// void-request and forgets it, SendRecv enqueues a future-request and
// hands back the ISM future that will receive the action's outcome.
type Executor struct {
	opts   ExecutorOptions
	queue  *requestQueue
	wg     sync.WaitGroup
	closed atomix.Bool
}

// NewExecutor starts an Executor per b's configuration (defaults: 16
// workers, 2 processors, Same cluster — spec.md §4.6).
func NewExecutor(b *ExecutorBuilder) *Executor {
	opts := b.opts
	e := &Executor{opts: opts, queue: newRequestQueue()}
	e.wg.Add(opts.workers)
	for i := 0; i < opts.workers; i++ {
		go e.runWorker()
	}
	return e
}

func (e *Executor) runWorker() {
	defer e.wg.Done()
	for {
		r := e.queue.remove()
		if r.stop {
			return
		}
		r.doit()
	}
}

// Send enqueues action as a fire-and-forget void-request. Returns
// ErrExecutorClosed if called after Close.
func (e *Executor) Send(action func()) error {
	if e.closed.LoadAcquire() {
		return ErrExecutorClosed
	}
	e.queue.insert(&request{doit: action})
	return nil
}

// SendRecv enqueues action as a future-request and returns an ISM future
// parameterized by action's return type. The future is constructed before
// the request is handed to the queue, and the worker writes into the same
// shared Impl the returned handle refers to, so a worker that finishes
// before SendRecv returns leaves its outcome in place for the caller
// (spec.md §4.6's ordering requirement) — SendRecv is a free function
// because Go methods cannot carry their own type parameters.
func SendRecv[T any](e *Executor, action func() (T, error)) (FutureISM[T], error) {
	if e.closed.LoadAcquire() {
		var zero FutureISM[T]
		return zero, ErrExecutorClosed
	}
	result := NewFutureISM[T](nil)
	e.queue.insert(&request{doit: func() {
		val, err := action()
		if err != nil {
			result.SetException(err)
			return
		}
		result.Deliver(val)
	}})
	return result, nil
}

// Close enqueues exactly nworkers stop-sentinels — one per worker,
// because a sentinel is consumed by whichever worker wakes first and a
// single sentinel would let early wakers steal it and leave the rest
// blocked — then joins every worker. Enqueueing new work during or after
// Close is a usage error; Send/SendRecv report ErrExecutorClosed.
func (e *Executor) Close() {
	if !e.closed.CompareAndSwapAcqRel(false, true) {
		return
	}
	for i := 0; i < e.opts.workers; i++ {
		e.queue.insert(&request{stop: true})
	}
	e.wg.Wait()
}
