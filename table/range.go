// SPDX-License-Identifier: MIT

package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive integer interval used to generalize numeric cells.
// The canonical textual form is "[min-max]".
type Range struct {
	Min, Max int

	str string
}

// NewRange builds a range over the two bounds, ordering them if needed.
func NewRange(a, b int) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b, str: "[" + strconv.Itoa(a) + "-" + strconv.Itoa(b) + "]"}
}

// ParseRange parses the "[min-max]" form. Bounds out of order are accepted
// and swapped.
func ParseRange(s string) (Range, error) {
	if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	lo, hi, ok := strings.Cut(s[1:len(s)-1], "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	min, err := strconv.Atoi(lo)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return NewRange(min, max), nil
}

// IsRange reports whether the cell value is in range form. It does not
// validate the bounds; use ParseRange for that.
func IsRange(s string) bool {
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}

// Contains reports whether v lies within the inclusive interval.
func (r Range) Contains(v int) bool { return r.Min <= v && v <= r.Max }

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool { return r.Min <= o.Min && o.Max <= r.Max }

// Width is the inclusive span of the interval, always at least 1.
func (r Range) Width() int { return r.Max - r.Min + 1 }

// String renders the canonical "[min-max]" form.
func (r Range) String() string {
	if r.str != "" {
		return r.str
	}
	return "[" + strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max) + "]"
}
