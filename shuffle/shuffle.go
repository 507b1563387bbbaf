// Package shuffle provides the reproducible presentation order for a
// labeling session.
//
// The permutation is the sole source of item-presentation order. It never
// reorders underlying storage: output files retain original record order
// while the interactive traversal follows the shuffled sequence.
package shuffle

import "math/rand"

// Order returns a permutation of [0, n) derived from seed.
// Identical (seed, n) pairs yield an identical order on every platform and
// every run; math/rand's generator is specified independently of the host.
func Order(seed int64, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
