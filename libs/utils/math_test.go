package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 3, Max(1, 3, 2))
	assert.Equal(t, 1, Min(1, 3, 2))
	assert.Equal(t, -1, Max())
	assert.Equal(t, -1, Min())
}

func TestSuperMajority(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{3, 3},
		{4, 3},
		{6, 5},
		{7, 5},
		{100, 67},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, SuperMajority(test.n), "n=%d", test.n)
	}
}
