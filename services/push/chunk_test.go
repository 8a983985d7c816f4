package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, Chunk(items, 3))
	assert.Equal(t, [][]int{items}, Chunk(items, 7))
	assert.Equal(t, [][]int{items}, Chunk(items, 0))
	assert.Nil(t, Chunk([]int{}, 3))
}

func TestChunkAppendDoesNotClobberNeighbour(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	chunks := Chunk(items, 2)

	first := append(chunks[0], 99)
	assert.Equal(t, []int{1, 2, 99}, first)
	assert.Equal(t, []int{3, 4}, chunks[1])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
}
