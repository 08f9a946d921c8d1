package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("x", 5))
	assert.Equal(t, 3, ParseIntDefault("3", 5))
}

func TestCalculate(t *testing.T) {
	off, lim := Calculate(0, 0, OrderPageSize)
	assert.Equal(t, 0, off)
	assert.Equal(t, OrderPageSize, lim)

	off, lim = Calculate(3, 10, 100)
	assert.Equal(t, 20, off)
	assert.Equal(t, 10, lim)

	_, lim = Calculate(1, 5000, OrderPageSize)
	assert.Equal(t, OrderPageSize, lim)
}
