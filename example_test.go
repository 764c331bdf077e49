// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future_test

import (
	"context"
	"fmt"

	"code.hybscloud.com/future"
)

func ExampleBaseFuture() {
	var f future.BaseFuture[int]
	f.Deliver(42)
	v, err := f.Get()
	fmt.Println(v, err)
	// Output: 42 <nil>
}

func ExampleSelectAny() {
	var f1, f2 future.BaseFuture[string]
	s := future.SelectAny(&f1, &f2)

	fmt.Println(s.Available())
	f1.Deliver("ready")
	fmt.Println(s.Available())
	// Output:
	// false
	// true
}

func ExampleExecutor_sendRecv() {
	ex := future.NewExecutor(future.NewExecutorOptions().Workers(4))
	defer ex.Close()

	result, err := future.SendRecv(ex, func() (int, error) {
		sum := 0
		for i := 1; i <= 10; i++ {
			sum += i
		}
		return sum, nil
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	v, err := result.Get()
	fmt.Println(v, err)
	// Output: 55 <nil>
}

func ExampleWaitQueueESM() {
	var f1, f2 future.BaseFuture[int]
	wq := future.NewWaitQueueESM[int]()
	wq.Add(&f1)
	wq.Add(&f2)

	f2.Deliver(7)

	winner, ok := wq.Drop(context.Background())
	fmt.Println(winner == &f2, ok)
	// Output: true true
}
