// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"testing"
	"time"
)

func TestWaitQueueESMDropReturnsFirstReady(t *testing.T) {
	var f1, f2 BaseFuture[int]
	wq := NewWaitQueueESM[int]()
	wq.Add(&f1)
	wq.Add(&f2)

	f1.Deliver(1)

	winner, ok := wq.Drop(context.Background())
	if !ok {
		t.Fatal("Drop reported empty queue")
	}
	if winner != &f1 {
		t.Fatal("Drop returned the wrong future")
	}

	// f2 was unregistered during Drop's cleanup; making it available later
	// must have no effect on the (now single-entry) queue.
	f2.Deliver(2)
	if wq.Empty() {
		t.Fatal("queue should still hold f2 after dropping f1")
	}
}

func TestWaitQueueESMDropBlocksUntilSignaled(t *testing.T) {
	var f1, f2 BaseFuture[int]
	wq := NewWaitQueueESM[int]()
	wq.Add(&f1)
	wq.Add(&f2)

	go func() {
		time.Sleep(10 * time.Millisecond)
		f2.Deliver(99)
	}()

	winner, ok := wq.Drop(context.Background())
	if !ok || winner != &f2 {
		t.Fatalf("Drop returned wrong winner: ok=%v", ok)
	}
}

func TestWaitQueueESMDropOnEmptyReturnsFalse(t *testing.T) {
	wq := NewWaitQueueESM[int]()
	winner, ok := wq.Drop(context.Background())
	if ok || winner != nil {
		t.Fatal("Drop on empty ESM queue should return (nil, false)")
	}
}

func TestWaitQueueISMDropOnEmptyPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r != ErrQueueEmpty {
			t.Fatalf("recovered %v, want ErrQueueEmpty", r)
		}
	}()
	wq := NewWaitQueueISM[FutureISM[int]]()
	wq.Drop(context.Background())
	t.Fatal("Drop on empty ISM queue should have panicked")
}

func TestWaitQueueISMRemove(t *testing.T) {
	f := NewFutureISM[int](nil)
	wq := NewWaitQueueISM[FutureISM[int]]()
	wq.Add(f)
	if wq.Empty() {
		t.Fatal("queue should not be empty after Add")
	}
	wq.Remove(f)
	if !wq.Empty() {
		t.Fatal("queue should be empty after Remove")
	}
}

func TestWaitQueueESMDropContextCancelled(t *testing.T) {
	var f1, f2 BaseFuture[int]
	wq := NewWaitQueueESM[int]()
	wq.Add(&f1)
	wq.Add(&f2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	winner, ok := wq.Drop(ctx)
	if ok || winner != nil {
		t.Fatal("Drop should report (nil, false) when ctx is cancelled before any leaf fires")
	}
}
