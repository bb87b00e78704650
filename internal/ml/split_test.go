// internal/ml/split_test.go
package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeledDataset(neg, pos int) *Dataset {
	ds := &Dataset{}
	for i := 0; i < neg; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, 0)
	}
	for i := 0; i < pos; i++ {
		ds.X = append(ds.X, []float64{float64(neg + i)})
		ds.Y = append(ds.Y, 1)
	}
	return ds
}

func TestStratifiedSplit_PreservesClassBalance(t *testing.T) {
	ds := labeledDataset(80, 20)

	train, test, err := StratifiedSplit(ds, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, test.Len())

	trainNeg, trainPos := train.ClassCounts()
	testNeg, testPos := test.ClassCounts()
	assert.Equal(t, 64, trainNeg)
	assert.Equal(t, 16, trainPos)
	assert.Equal(t, 16, testNeg)
	assert.Equal(t, 4, testPos)
}

func TestStratifiedSplit_RareClassInBothPartitions(t *testing.T) {
	// 2 positives among 50: the rare class must appear on both sides even
	// though 0.2 * 2 rounds to 0.
	ds := labeledDataset(48, 2)

	train, test, err := StratifiedSplit(ds, 0.2, 1)
	require.NoError(t, err)

	_, trainPos := train.ClassCounts()
	_, testPos := test.ClassCounts()
	assert.Equal(t, 1, trainPos)
	assert.Equal(t, 1, testPos)
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	ds := labeledDataset(60, 40)

	train1, test1, err := StratifiedSplit(ds, 0.25, 42)
	require.NoError(t, err)
	train2, test2, err := StratifiedSplit(ds, 0.25, 42)
	require.NoError(t, err)

	assert.Equal(t, train1.X, train2.X)
	assert.Equal(t, test1.X, test2.X)

	// A different seed should pick a different hold-out set.
	_, test3, err := StratifiedSplit(ds, 0.25, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1.X, test3.X)
}

func TestStratifiedSplit_NoSampleLostOrDuplicated(t *testing.T) {
	ds := labeledDataset(33, 17)

	train, test, err := StratifiedSplit(ds, 0.3, 5)
	require.NoError(t, err)
	require.Equal(t, ds.Len(), train.Len()+test.Len())

	seen := map[float64]int{}
	for _, x := range train.X {
		seen[x[0]]++
	}
	for _, x := range test.X {
		seen[x[0]]++
	}
	for v, count := range seen {
		assert.Equal(t, 1, count, "sample %v appeared %d times", v, count)
	}
	assert.Len(t, seen, ds.Len())
}

func TestStratifiedSplit_Errors(t *testing.T) {
	ds := labeledDataset(10, 10)

	_, _, err := StratifiedSplit(ds, 0, 1)
	assert.Error(t, err)

	_, _, err = StratifiedSplit(ds, 1, 1)
	assert.Error(t, err)

	_, _, err = StratifiedSplit(labeledDataset(10, 1), 0.2, 1)
	assert.Error(t, err, "a class with one sample cannot be split")
}
