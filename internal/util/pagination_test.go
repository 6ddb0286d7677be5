package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 3, ParseIntDefault("3", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name              string
		page, size        int
		wantPage, wantOff int
		wantLimit         int
	}{
		{name: "first page", page: 1, size: 10, wantPage: 1, wantOff: 0, wantLimit: 10},
		{name: "third page", page: 3, size: 10, wantPage: 3, wantOff: 20, wantLimit: 10},
		{name: "zero page", page: 0, size: 5, wantPage: 1, wantOff: 0, wantLimit: 5},
		{name: "default size", page: 2, size: 0, wantPage: 2, wantOff: DefaultPageSize, wantLimit: DefaultPageSize},
		{name: "clamped size", page: 1, size: 1000, wantPage: 1, wantOff: 0, wantLimit: MaxPageSize},
		{name: "huge page", page: math.MaxInt, size: 20, wantPage: MaxOffset/20 + 1, wantOff: MaxOffset / 20 * 20, wantLimit: 20},
		{name: "huge page min size", page: math.MaxInt, size: 1, wantPage: MaxOffset + 1, wantOff: MaxOffset, wantLimit: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, off, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantOff, off)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
