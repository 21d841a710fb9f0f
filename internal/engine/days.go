package engine

import (
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

// ElapsedDays returns the number of whole days between t and now:
// floor((now - t) / 86_400_000) over epoch milliseconds.
//
// The result depends only on the absolute millisecond difference, never
// on calendar fields, so it is identical in every timezone. A reference
// instant in the future yields a negative count; fractional days round
// toward negative infinity, which for negative elapsed time rounds away
// from zero.
func ElapsedDays(t, now time.Time) int64 {
	return floorDiv(now.UnixMilli()-t.UnixMilli(), config.MillisPerDay)
}

// floorDiv divides a by b rounding toward negative infinity.
// Go's integer division truncates toward zero, which disagrees with
// floor exactly when the operands have opposite signs and there is a
// remainder.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
