// internal/ml/split.go
package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions the dataset into train and hold-out sets,
// preserving class balance. Every class present in the input ends up in
// both partitions, so a rare positive class never disappears from either
// side. The split is deterministic for a given seed.
func StratifiedSplit(ds *Dataset, testFraction float64, seed int64) (train, test *Dataset, err error) {
	if err := ds.Validate(); err != nil {
		return nil, nil, err
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}

	byClass := map[int][]int{}
	for i, y := range ds.Y {
		byClass[y] = append(byClass[y], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		if len(byClass[c]) < 2 {
			return nil, nil, fmt.Errorf("class %d has %d sample(s), need at least 2 to split", c, len(byClass[c]))
		}
		classes = append(classes, c)
	}
	sort.Ints(classes) // map iteration order must not leak into the split

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		k := int(math.Round(testFraction * float64(len(idx))))
		if k < 1 {
			k = 1
		}
		if k >= len(idx) {
			k = len(idx) - 1
		}

		testIdx = append(testIdx, idx[:k]...)
		trainIdx = append(trainIdx, idx[k:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}
