// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"sync"
	"testing"
	"time"
)

type fakeCanceller struct {
	mu        sync.Mutex
	cancelled bool
	ok        bool
}

func (c *fakeCanceller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelled = true
	return c.ok
}

func TestFutureESMCancelWins(t *testing.T) {
	canceller := &fakeCanceller{ok: true}
	f := NewFutureESM[int](canceller)

	f.Cancel()

	if !canceller.cancelled {
		t.Fatal("server Cancel was never invoked")
	}
	if f.Deliver(7) {
		t.Fatal("Deliver after successful cancel should return false")
	}
	_, err := f.Get()
	if _, ok := err.(*Cancellation); !ok {
		t.Fatalf("err = %v, want *Cancellation", err)
	}
}

func TestFutureESMCancelLoses(t *testing.T) {
	canceller := &fakeCanceller{ok: false}
	f := NewFutureESM[int](canceller)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		f.Deliver(7)
	}()

	wg.Wait()
	f.Cancel()

	v, err := f.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Fatalf("Get = %d, want 7", v)
	}
}

func TestFutureESMCancelAfterDelivery(t *testing.T) {
	canceller := &fakeCanceller{ok: true}
	f := NewFutureESM[int](canceller)

	if !f.Deliver(7) {
		t.Fatal("Deliver should succeed on pristine future")
	}
	f.Cancel() // code 0: already available, nothing to do.

	if canceller.cancelled {
		t.Fatal("server Cancel should not be invoked once already delivered")
	}
	v, err := f.Get()
	if err != nil || v != 7 {
		t.Fatalf("Get = (%d, %v), want (7, nil)", v, err)
	}
}

func TestFutureESMCloseRejectsWhenInUse(t *testing.T) {
	f := NewFutureESM[int](&fakeCanceller{})
	h := &FutureDL{}
	f.AddSelect(h)

	if err := f.Close(); err != ErrStillInUse {
		t.Fatalf("Close = %v, want ErrStillInUse", err)
	}

	f.RemoveSelect(h)
	if err := f.Close(); err != nil {
		t.Fatalf("Close after teardown = %v, want nil", err)
	}
}
