// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import "testing"

func TestSelectAnySatisfiedByEitherLeaf(t *testing.T) {
	var f1, f2 BaseFuture[int]
	s := SelectAny(&f1, &f2)

	if s.Available() {
		t.Fatal("OR selector available before either leaf fired")
	}
	f1.Deliver(1)
	if !s.Available() {
		t.Fatal("OR selector not available after one leaf fired")
	}
}

func TestSelectAllRequiresBothLeaves(t *testing.T) {
	var f1, f2 BaseFuture[int]
	s := SelectAll(&f1, &f2)

	f1.Deliver(1)
	if s.Available() {
		t.Fatal("AND selector available with only one leaf fired")
	}
	f2.Deliver(2)
	if !s.Available() {
		t.Fatal("AND selector not available once both leaves fired")
	}
}

func TestSelectorAddSelectFastPath(t *testing.T) {
	var f1, f2 BaseFuture[int]
	f1.Deliver(1)
	s := SelectAny(&f1, &f2)

	h := &FutureDL{}
	if !s.AddSelect(h) {
		t.Fatal("AddSelect should report true immediately when already satisfied")
	}
}

func TestSelectorSignalsExactlyOnce(t *testing.T) {
	var f1, f2 BaseFuture[int]
	s := SelectAny(&f1, &f2)

	fired := 0
	h := &FutureDL{onSignal: func() { fired++ }}
	if s.AddSelect(h) {
		t.Fatal("AddSelect should not report satisfied yet")
	}

	f1.Deliver(1)
	f2.Deliver(2) // both leaves fire; OR root must still signal exactly once.

	if fired != 1 {
		t.Fatalf("root signaled %d times, want 1", fired)
	}
}

func TestSelectorRemoveSelectIdempotent(t *testing.T) {
	var f1, f2 BaseFuture[int]
	s := SelectAll(&f1, &f2)
	h := &FutureDL{}
	s.AddSelect(h)
	s.RemoveSelect(h)
	s.RemoveSelect(h) // second removal is a no-op.
}

func TestNestedSelectorTree(t *testing.T) {
	var f1, f2, f3 BaseFuture[int]
	inner := SelectAll(&f1, &f2)
	outer := SelectAny(inner, &f3)

	if outer.Available() {
		t.Fatal("nested tree available before any leaf fired")
	}
	f1.Deliver(1)
	if outer.Available() {
		t.Fatal("AND subtree should not be satisfied with only one leaf")
	}
	f2.Deliver(2)
	if !outer.Available() {
		t.Fatal("outer OR should be satisfied once inner AND completes")
	}
}
