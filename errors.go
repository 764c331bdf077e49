// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"errors"
	"fmt"
)

// Cancellation is returned by Get and Peek when the future they were
// waiting on was cancelled instead of delivered.
//
// A cancelled future never transitions to "value available": cancellation
// is monotonic, so every accessor after the first sees an equivalent
// Cancellation value.
type Cancellation struct {
	// Reason is an optional caller-supplied explanation. May be nil.
	Reason error
}

func (c *Cancellation) Error() string {
	if c.Reason != nil {
		return "future: cancelled: " + c.Reason.Error()
	}
	return "future: cancelled"
}

func (c *Cancellation) Unwrap() error {
	return c.Reason
}

// ErrQueueEmpty is the sentinel documented in spec.md §7 ("queue abuse"):
// WaitQueueISM.Drop panics with this error on an empty queue.
// WaitQueueESM.Drop never returns it; it reports (nil, false) instead, an
// intentional asymmetry carried from the original design (see DESIGN.md).
var ErrQueueEmpty = errors.New("future: drop on empty wait queue")

// ErrStillInUse is returned by FutureESM.Close when waiters or registered
// selectors are still outstanding. See DESIGN.md's resolution of the
// "ESM destructor" open question.
var ErrStillInUse = errors.New("future: close with waiters or selectors still registered")

// ErrExecutorClosed is returned by Send/SendRecv after Executor.Close has
// been called. Enqueueing new work during or after shutdown is a usage
// error (spec.md §4.6).
var ErrExecutorClosed = errors.New("future: send on closed executor")

// assertf panics with a formatted message when debugAssertionsEnabled is
// true. It is a no-op in release builds, matching spec.md §7: misuse
// detection is a debug-only abort, undefined in release.
func assertf(cond bool, format string, args ...any) {
	if !debugAssertionsEnabled || cond {
		return
	}
	panic("future: " + fmt.Sprintf(format, args...))
}
