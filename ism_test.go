// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import "testing"

func TestFutureISMDeliverAndGet(t *testing.T) {
	f := NewFutureISM[string](nil)
	if !f.Deliver("hello") {
		t.Fatal("Deliver on pristine future returned false")
	}
	v, err := f.Get()
	if err != nil || v != "hello" {
		t.Fatalf("Get = (%q, %v), want (\"hello\", nil)", v, err)
	}
}

func TestFutureISMCopyBalancesRefcount(t *testing.T) {
	f := NewFutureISM[int](nil)
	copy1 := f.Copy()
	copy2 := copy1.Copy()

	f.Deliver(5)

	// All handles observe the same delivered value; only the last Close
	// actually tears down storage.
	f.Close()
	copy1.Close()

	v, err := copy2.Get()
	if err != nil || v != 5 {
		t.Fatalf("Get via surviving handle = (%d, %v), want (5, nil)", v, err)
	}
	copy2.Close()
}

func TestFutureISMCancelInvokesCapability(t *testing.T) {
	invoked := false
	f := NewFutureISM[int](func() { invoked = true })

	f.Cancel()

	if !invoked {
		t.Fatal("server cancel capability was never invoked")
	}
	_, err := f.Get()
	if _, ok := err.(*Cancellation); !ok {
		t.Fatalf("err = %v, want *Cancellation", err)
	}
}

func TestFutureISMCancelNoopWhenDelivered(t *testing.T) {
	invoked := false
	f := NewFutureISM[int](func() { invoked = true })
	f.Deliver(3)

	f.Cancel()

	if invoked {
		t.Fatal("cancel capability should not run once a value was delivered")
	}
	v, err := f.Get()
	if err != nil || v != 3 {
		t.Fatalf("Get = (%d, %v), want (3, nil)", v, err)
	}
}

func TestFutureISMEqual(t *testing.T) {
	f := NewFutureISM[int](nil)
	copy1 := f.Copy()
	other := NewFutureISM[int](nil)

	if !f.Equal(copy1) {
		t.Fatal("handles sharing an Impl should be Equal")
	}
	if f.Equal(other) {
		t.Fatal("handles over distinct Impls should not be Equal")
	}

	copy1.Close()
	f.Close()
	other.Close()
}
