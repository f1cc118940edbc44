package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1500, "1.5k"},
		{1599, "1.5k"},
		{2000, "2k"},
		{999_999, "999.9k"},
		{1_000_000, "1M"},
		{2_345_678, "2.3M"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.n), "FormatCount(%d)", tt.n)
	}
}

func TestPage(t *testing.T) {
	p := NewPage(0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset())

	p = NewPage(3)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(20))
	assert.Equal(t, 2, p.TotalPages(21))
}
