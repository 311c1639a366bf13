// Package format renders numbers for display: rounded with thousands
// separators, as percentages, or as whole-dollar currency.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Round formats value with the given number of decimals and thousands
// separators. Zero renders as "0". Magnitudes below one always get two
// decimals so small fractions stay visible.
func Round(value float64, decimals int) string {
	if value == 0 || math.IsNaN(value) {
		return "0"
	}
	if decimals < 0 {
		decimals = 0
	}
	if math.Abs(value) < 1 {
		decimals = 2
	}

	s := strconv.FormatFloat(math.Abs(value), 'f', decimals, 64)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// out of int64 range, leave ungrouped
		return sign(value) + s
	}
	out := humanize.Comma(n)
	if frac != "" {
		out += "." + frac
	}
	if strings.Trim(out, "0.,") == "" {
		return out
	}
	return sign(value) + out
}

// Percent formats value as a percentage. The value is already scaled to
// 0-100.
func Percent(value float64, decimals int) string {
	return Round(value, decimals) + "%"
}

// Currency formats value in whole dollars, rounding half away from zero.
func Currency(value float64) string {
	whole := math.Round(math.Abs(value))
	if whole == 0 || math.IsNaN(whole) {
		return "$0"
	}
	// whole >= 1, so Round keeps zero decimals
	return sign(value) + "$" + Round(whole, 0)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

func sign(value float64) string {
	if value < 0 {
		return "-"
	}
	return ""
}
