package ipx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rickb777/expect"
)

func TestOnceValue_runsOnce(t *testing.T) {
	var calls int32
	o := newOnceValue(func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := o.Get()
			expect.Error(err).Not().ToHaveOccurred(t)
			results[i] = v
		}(i)
	}
	wg.Wait()

	expect.Number(int(atomic.LoadInt32(&calls))).ToBe(t, 1)
	for _, v := range results {
		expect.Number(v).ToBe(t, 42)
	}
}

func TestOnceValue_memoizesError(t *testing.T) {
	var calls int32
	o := newOnceValue(func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, fmt.Errorf("boom")
	})

	_, err1 := o.Get()
	_, err2 := o.Get()

	expect.Error(err1).ToHaveOccurred(t)
	expect.Error(err2).ToHaveOccurred(t)
	expect.Number(int(atomic.LoadInt32(&calls))).ToBe(t, 1)
}
