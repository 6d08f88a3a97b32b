// Package parallel provides the data-parallel kernel primitive the
// adaptation passes are written against: For invokes a function exactly
// once per index of a dense range, fanning the range out over the
// machine's CPUs. Callers guarantee that each invocation writes only to
// slots owned by its own index, so no synchronization beyond the final
// join is needed.
package parallel

import (
	"runtime"
	"sync"
)

// minChunk is the smallest per-worker slice of the range worth the
// goroutine overhead; ranges below NumCPU*minChunk run inline.
const minChunk = 256

// For invokes f(i) exactly once for every i in [0, n), possibly
// concurrently. f must confine its writes to slots disjoint from every
// other index's. There is no cancellation: the range completes or the
// process dies.
func For(n int, f func(i int)) {
	workers := runtime.NumCPU()
	if n < workers*minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// Reduce computes f(i) for every i in [0, n) and folds the results with
// combine, which must be associative and commutative. Used for whole-mesh
// reductions (min quality, total volume) where the per-index work is
// heavy enough to parallelize.
func Reduce(n int, identity float64, f func(i int) float64, combine func(a, b float64) float64) float64 {
	workers := runtime.NumCPU()
	if n < workers*minChunk {
		acc := identity
		for i := 0; i < n; i++ {
			acc = combine(acc, f(i))
		}
		return acc
	}

	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)
	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		partial[w] = identity
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			acc := identity
			for i := lo; i < hi; i++ {
				acc = combine(acc, f(i))
			}
			partial[w] = acc
		}(w, lo, hi)
	}
	wg.Wait()

	acc := identity
	for _, p := range partial {
		acc = combine(acc, p)
	}
	return acc
}
