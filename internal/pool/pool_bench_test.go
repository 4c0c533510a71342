package pool

import (
	"sync"
	"testing"
)

// benchmarkPool spawns b.N trivial jobs through p and waits for all of them
// to finish, so the reported throughput reflects spawn-and-run overhead
// rather than job cost itself.
func benchmarkPool(b *testing.B, newPool func(workers int) (Pool, error)) {
	p, err := newPool(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	var wg sync.WaitGroup
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		p.Spawn(func() { wg.Done() })
	}
	wg.Wait()
}

func BenchmarkNaiveThreadPool(b *testing.B) {
	benchmarkPool(b, func(workers int) (Pool, error) { return NewNaiveThreadPool(workers) })
}

func BenchmarkSharedQueueThreadPool(b *testing.B) {
	benchmarkPool(b, func(workers int) (Pool, error) { return NewSharedQueueThreadPool(workers) })
}

func BenchmarkBoundedThreadPool(b *testing.B) {
	benchmarkPool(b, func(workers int) (Pool, error) { return NewBoundedThreadPool(workers) })
}
