package service

import (
	"math"
	"strconv"
)

// PageSize is the fixed number of rows per listing page.
const PageSize = 20

// FormatCount renders n the way the dashboard tiles show it: 1500 -> "1.5k",
// 2000 -> "2k", 2345678 -> "2.3M". Values are truncated, not rounded.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimFloat(float64(n/100_000)/10) + "M"
	case n >= 1_000:
		return trimFloat(float64(n/100)/10) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Page describes a requested listing page.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps a requested page number to at least 1.
func NewPage(number int) Page {
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Limit: PageSize}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}
