package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSliceIndexClampsForwardRange(t *testing.T) {
	n := 5
	assert.Equal(t, 0, normalizeSliceIndex(-100, n, true))
	assert.Equal(t, 2, normalizeSliceIndex(-3, n, true))
	assert.Equal(t, 5, normalizeSliceIndex(5, n, true))
	assert.Equal(t, 5, normalizeSliceIndex(100, n, true))
}

func TestNormalizeSliceIndexClampsBackwardRange(t *testing.T) {
	n := 5
	assert.Equal(t, -1, normalizeSliceIndex(-100, n, false))
	assert.Equal(t, 4, normalizeSliceIndex(-1, n, false))
	assert.Equal(t, 4, normalizeSliceIndex(4, n, false))
	assert.Equal(t, 4, normalizeSliceIndex(100, n, false))
}

func TestClampToIntGeneric(t *testing.T) {
	assert.Equal(t, 0, clampToInt(int64(-5), 0, 10))
	assert.Equal(t, 10, clampToInt(int64(20), 0, 10))
	assert.Equal(t, 7, clampToInt(int64(7), 0, 10))
}
