// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package future provides composable, monitor-based futures: single-
// assignment result cells that support direct blocking access,
// client-initiated cancellation, and AND/OR selector composition across
// arbitrarily deep trees.
//
// Two ownership models are available. FutureESM is externally-storage-
// managed: the caller owns the BaseFuture's storage and passes it by
// reference to whatever server will eventually call Deliver or
// SetException, and the caller negotiates a cancel race against that
// server. FutureISM is internally-storage-managed: the payload is
// reference-counted and lives exactly as long as the last handle
// referring to it, with a fire-and-forget cancel capability instead of a
// race to negotiate.
//
// # Quick Start
//
// A bare future, delivered and observed from different goroutines:
//
//	var f future.BaseFuture[int]
//	go func() { f.Deliver(42) }()
//	v, err := f.Get()
//
// ESM futures pass ownership of the storage to a server alongside a
// cancel capability:
//
//	type call struct{ cancel func() bool }
//	func (c call) Cancel() bool { return c.cancel() }
//
//	fut := future.NewFutureESM[int](call{cancel: abortRequest})
//	go server.Serve(fut)
//	v, err := fut.Get()
//
// ISM futures are reference-counted handles created by an Executor:
//
//	ex := future.NewExecutor(future.NewExecutorOptions().Workers(8))
//	defer ex.Close()
//
//	result, err := future.SendRecv(ex, func() (int, error) {
//		return computeAnswer(), nil
//	})
//	if err != nil {
//		// executor already closed
//	}
//	v, err := result.Get()
//
// # Selectors
//
// SelectAll and SelectAny compose any two Selectee values — leaf futures
// or nested selectors — into a tree that is itself a Selectee:
//
//	either := future.SelectAny(&f1, &f2)
//	both := future.SelectAll(&f1, &f2)
//
//	if either.Available() {
//		// at least one of f1, f2 has a result
//	}
//
// # WaitQueue
//
// WaitQueueISM and WaitQueueESM hold a set of selectees and block until
// one becomes ready, returning exactly that one:
//
//	wq := future.NewWaitQueueISM[future.FutureISM[int]]()
//	wq.Add(result)
//	winner := wq.Drop(context.Background())
//
// # Executor
//
// Executor is a fixed worker pool fed by an unbounded request queue.
// Send fires a void action; SendRecv returns a FutureISM for the
// action's eventual result. Close drains the pool by enqueueing one
// stop-sentinel per worker and joining all of them.
package future
