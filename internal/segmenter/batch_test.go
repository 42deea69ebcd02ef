package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchEvenSplit(t *testing.T) {
	batches := Batch([]int{1, 2, 3, 4, 5, 6}, 3)

	require.Len(t, batches, 2)
	assert.Equal(t, []int{1, 2, 3}, batches[0])
	assert.Equal(t, []int{4, 5, 6}, batches[1])
}

func TestBatchShortTail(t *testing.T) {
	batches := Batch([]string{"a", "b", "c", "d", "e"}, 2)

	require.Len(t, batches, 3)
	assert.Equal(t, []string{"a", "b"}, batches[0])
	assert.Equal(t, []string{"c", "d"}, batches[1])
	assert.Equal(t, []string{"e"}, batches[2])
}

func TestBatchSizeLargerThanInput(t *testing.T) {
	batches := Batch([]int{1, 2}, 100)

	require.Len(t, batches, 1)
	assert.Equal(t, []int{1, 2}, batches[0])
}

func TestBatchEmptyInput(t *testing.T) {
	assert.Nil(t, Batch([]int(nil), 10))
	assert.Nil(t, Batch([]int{}, 10))
}

func TestBatchNonPositiveSize(t *testing.T) {
	batches := Batch([]int{1, 2, 3}, 0)

	require.Len(t, batches, 1)
	assert.Equal(t, []int{1, 2, 3}, batches[0])
}
